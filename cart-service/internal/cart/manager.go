// Package cart keeps a session's shopping cart in sync with its persistent
// store, checking every change against the inventory service.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fjod/rocketshoes/cart-service/internal/domain"
	"github.com/fjod/rocketshoes/cart-service/internal/store"
	"github.com/fjod/rocketshoes/pkg/logger"
)

// StorageKey is the store slot holding the serialized cart.
const StorageKey = "@RocketShoes:cart"

type Inventory interface {
	GetStock(ctx context.Context, productID int64) (domain.Stock, error)
	GetProduct(ctx context.Context, productID int64) (domain.Product, error)
}

// Manager owns one cart. The mutex guards reads and commits only; inventory
// calls run without it so a removal never waits on a stock check.
type Manager struct {
	mu    sync.Mutex
	cart  domain.Cart
	store store.Store
	inv   Inventory
	log   *logger.Logger
}

// Load reads the cart from st. A missing or malformed value starts an empty
// cart; a store that cannot be read is an error.
func Load(ctx context.Context, st store.Store, inv Inventory, log *logger.Logger) (*Manager, error) {
	m := &Manager{cart: domain.Cart{}, store: st, inv: inv, log: log}

	data, err := st.Get(ctx, StorageKey)
	if errors.Is(err, store.ErrNotFound) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	c, err := domain.UnmarshalCart(data)
	if err != nil {
		log.From(ctx).Warn().Err(err).Msg("stored cart is malformed, starting empty")
		return m, nil
	}
	m.cart = c
	return m, nil
}

// Cart returns a copy of the current cart.
func (m *Manager) Cart() domain.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart.Clone()
}

// AddProduct puts one unit of the product in the cart. A product already in
// the cart goes through UpdateProductAmount with its amount plus one.
func (m *Manager) AddProduct(ctx context.Context, productID int64) error {
	m.mu.Lock()
	existing, found := m.cart.Find(productID)
	m.mu.Unlock()
	if found {
		return m.UpdateProductAmount(ctx, productID, existing.Amount+1)
	}

	stock, err := m.inv.GetStock(ctx, productID)
	if err != nil {
		return transient(OpAdd, productID, fmt.Errorf("check stock: %w", err))
	}
	if stock.Amount <= 0 {
		return outOfStock(OpAdd, productID, 1, stock.Amount)
	}

	product, err := m.inv.GetProduct(ctx, productID)
	if err != nil {
		return transient(OpAdd, productID, fmt.Errorf("fetch product: %w", err))
	}
	product.ID = productID
	product.Amount = 1

	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.cart.Clone()
	if i := next.Index(productID); i >= 0 {
		// added by a concurrent call while stock was being checked
		if next[i].Amount+1 > stock.Amount {
			return outOfStock(OpAdd, productID, next[i].Amount+1, stock.Amount)
		}
		next[i].Amount++
	} else {
		next = append(next, product)
	}
	return m.commitLocked(ctx, OpAdd, productID, next)
}

// RemoveProduct drops the product's line. Removing a product that is not in
// the cart fails with KindNotFound.
func (m *Manager) RemoveProduct(ctx context.Context, productID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cart.Index(productID) < 0 {
		return &Error{Op: OpRemove, Kind: KindNotFound, ProductID: productID, Err: ErrNotInCart}
	}
	return m.commitLocked(ctx, OpRemove, productID, m.cart.Without(productID))
}

// UpdateProductAmount sets the product's amount after checking stock. Amounts
// below one are ignored, as are products that are not in the cart.
func (m *Manager) UpdateProductAmount(ctx context.Context, productID int64, amount int) error {
	if amount <= 0 {
		return nil
	}

	stock, err := m.inv.GetStock(ctx, productID)
	if err != nil {
		return transient(OpUpdate, productID, fmt.Errorf("check stock: %w", err))
	}
	if amount > stock.Amount {
		return outOfStock(OpUpdate, productID, amount, stock.Amount)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.cart.Index(productID)
	if i < 0 {
		return nil
	}
	next := m.cart.Clone()
	next[i].Amount = amount
	return m.commitLocked(ctx, OpUpdate, productID, next)
}

// commitLocked persists next and then makes it the current cart. m.mu must be
// held.
func (m *Manager) commitLocked(ctx context.Context, op Op, productID int64, next domain.Cart) error {
	data, err := domain.MarshalCart(next)
	if err != nil {
		return transient(op, productID, err)
	}
	if err := m.store.Set(ctx, StorageKey, data); err != nil {
		return transient(op, productID, fmt.Errorf("save cart: %w", err))
	}
	m.cart = next
	return nil
}
