package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMalformedCart = errors.New("malformed cart")

// Product is a cart line: the catalog attributes merged with the amount the
// user wants.
type Product struct {
	ID     int64   `json:"id"`
	Title  string  `json:"title"`
	Price  float64 `json:"price"`
	Image  string  `json:"image"`
	Amount int     `json:"amount"`
}

func (p Product) Subtotal() float64 {
	return p.Price * float64(p.Amount)
}

// Stock is the available quantity reported by the inventory service.
type Stock struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

// Cart is ordered by insertion and holds at most one line per product.
type Cart []Product

func (c Cart) Index(productID int64) int {
	for i := range c {
		if c[i].ID == productID {
			return i
		}
	}
	return -1
}

func (c Cart) Find(productID int64) (Product, bool) {
	if i := c.Index(productID); i >= 0 {
		return c[i], true
	}
	return Product{}, false
}

func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}

// Without returns a copy of the cart minus the given product.
func (c Cart) Without(productID int64) Cart {
	out := make(Cart, 0, len(c))
	for _, p := range c {
		if p.ID != productID {
			out = append(out, p)
		}
	}
	return out
}

func (c Cart) Total() float64 {
	var total float64
	for _, p := range c {
		total += p.Subtotal()
	}
	return total
}

// Amounts maps product id to the amount in the cart.
func (c Cart) Amounts() map[int64]int {
	out := make(map[int64]int, len(c))
	for _, p := range c {
		out[p.ID] = p.Amount
	}
	return out
}

func MarshalCart(c Cart) ([]byte, error) {
	if c == nil {
		c = Cart{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal cart failed: %w", err)
	}
	return data, nil
}

func UnmarshalCart(data []byte) (Cart, error) {
	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCart, err)
	}
	seen := make(map[int64]struct{}, len(c))
	for _, p := range c {
		if p.Amount < 1 {
			return nil, fmt.Errorf("%w: product %d has amount %d", ErrMalformedCart, p.ID, p.Amount)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: product %d appears twice", ErrMalformedCart, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	if c == nil {
		c = Cart{}
	}
	return c, nil
}
