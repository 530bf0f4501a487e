package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/fjod/rocketshoes/inventory-service/internal/domain"
)

// MemoryStore implements InventoryStore with in-memory storage
type MemoryStore struct {
	mu       sync.RWMutex
	stocks   map[int64]int            // productID -> available units
	products map[int64]domain.Product // productID -> attributes
}

// NewMemoryStore creates a new in-memory inventory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		stocks:   make(map[int64]int),
		products: make(map[int64]domain.Product),
	}
}

// LoadSeedFile reads a seed document from path into the store
func (s *MemoryStore) LoadSeedFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return s.LoadSeed(f)
}

// LoadSeed applies a seed document and returns how many products it holds
func (s *MemoryStore) LoadSeed(r io.Reader) (int, error) {
	var seed domain.Seed
	if err := json.NewDecoder(r).Decode(&seed); err != nil {
		return 0, fmt.Errorf("decode seed: %w", err)
	}

	for _, p := range seed.Products {
		if err := s.PutProduct(p); err != nil {
			return 0, err
		}
	}
	for _, st := range seed.Stock {
		if err := s.SetStock(st.ID, st.Amount); err != nil {
			return 0, fmt.Errorf("seed stock for product %d: %w", st.ID, err)
		}
	}
	return len(seed.Products), nil
}

// GetStock returns the stock of a product. A product with attributes but no
// stock entry has zero units.
func (s *MemoryStore) GetStock(productID int64) (domain.Stock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	amount, exists := s.stocks[productID]
	if !exists {
		if _, known := s.products[productID]; !known {
			return domain.Stock{}, ErrProductNotFound
		}
	}
	return domain.Stock{ID: productID, Amount: amount}, nil
}

func (s *MemoryStore) GetProduct(productID int64) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.products[productID]
	if !exists {
		return domain.Product{}, ErrProductNotFound
	}
	return p, nil
}

func (s *MemoryStore) ListProducts() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SetStock sets the stock level for a product
func (s *MemoryStore) SetStock(productID int64, amount int) error {
	if amount < 0 {
		return ErrInvalidStock
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stocks[productID] = amount
	return nil
}

func (s *MemoryStore) PutProduct(p domain.Product) error {
	if p.ID <= 0 {
		return fmt.Errorf("invalid product id %d", p.ID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products[p.ID] = p
	return nil
}
