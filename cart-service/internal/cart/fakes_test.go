package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fjod/rocketshoes/cart-service/internal/domain"
	"github.com/fjod/rocketshoes/cart-service/internal/store"
)

var errUnavailable = errors.New("inventory unavailable")

type fakeInventory struct {
	mu         sync.Mutex
	stock      map[int64]int
	products   map[int64]domain.Product
	stockErr   error
	productErr error
	stockCalls int
	// gate, when set for a product, blocks GetStock until closed.
	gate map[int64]chan struct{}
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{
		stock: map[int64]int{1: 3, 2: 5, 3: 0},
		products: map[int64]domain.Product{
			1: {ID: 1, Title: "Tênis de Caminhada Leve Confortável", Price: 179.9, Image: "https://example.com/1.jpg"},
			2: {ID: 2, Title: "Tênis VR Caminhada Confortável Detalhes Couro Masculino", Price: 139.9, Image: "https://example.com/2.jpg"},
			3: {ID: 3, Title: "Tênis Adidas Duramo Lite 2.0", Price: 219.9, Image: "https://example.com/3.jpg"},
		},
		gate: map[int64]chan struct{}{},
	}
}

func (f *fakeInventory) GetStock(ctx context.Context, productID int64) (domain.Stock, error) {
	f.mu.Lock()
	f.stockCalls++
	gate := f.gate[productID]
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return domain.Stock{}, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stockErr != nil {
		return domain.Stock{}, f.stockErr
	}
	amount, ok := f.stock[productID]
	if !ok {
		return domain.Stock{}, fmt.Errorf("stock %d: not found", productID)
	}
	return domain.Stock{ID: productID, Amount: amount}, nil
}

func (f *fakeInventory) GetProduct(_ context.Context, productID int64) (domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.productErr != nil {
		return domain.Product{}, f.productErr
	}
	p, ok := f.products[productID]
	if !ok {
		return domain.Product{}, fmt.Errorf("product %d: not found", productID)
	}
	return p, nil
}

func (f *fakeInventory) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stockCalls
}

// flakyStore wraps a MemoryStore and can fail reads or writes on demand.
type flakyStore struct {
	*store.MemoryStore
	mu      sync.Mutex
	failGet bool
	failSet bool
	sets    int
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: store.NewMemoryStore()}
}

func (s *flakyStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	fail := s.failGet
	s.mu.Unlock()
	if fail {
		return nil, errors.New("store offline")
	}
	return s.MemoryStore.Get(ctx, key)
}

func (s *flakyStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	fail := s.failSet
	s.sets++
	s.mu.Unlock()
	if fail {
		return errors.New("store offline")
	}
	return s.MemoryStore.Set(ctx, key, value)
}

func (s *flakyStore) setFailSet(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSet = v
}

// gatedStore blocks every Get until release is closed.
type gatedStore struct {
	*store.MemoryStore
	release chan struct{}
	entered chan struct{}
}

func newGatedStore() *gatedStore {
	return &gatedStore{
		MemoryStore: store.NewMemoryStore(),
		release:     make(chan struct{}),
		entered:     make(chan struct{}, 16),
	}
}

func (s *gatedStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.entered <- struct{}{}
	select {
	case <-s.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return s.MemoryStore.Get(ctx, key)
}
