package store

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fjod/rocketshoes/inventory-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSeed = `{
  "stock": [{"id": 1, "amount": 3}, {"id": 2, "amount": 0}],
  "products": [
    {"id": 2, "title": "Tênis VR Caminhada", "price": 139.9, "image": "https://example.com/2.jpg"},
    {"id": 1, "title": "Tênis de Caminhada Leve", "price": 179.9, "image": "https://example.com/1.jpg"},
    {"id": 3, "title": "Tênis Adidas Duramo Lite 2.0", "price": 219.9, "image": "https://example.com/3.jpg"}
  ]
}`

func setupStore(t *testing.T) *MemoryStore {
	store := NewMemoryStore()
	n, err := store.LoadSeed(strings.NewReader(testSeed))
	require.NoError(t, err)
	require.Equal(t, 3, n)
	return store
}

func TestMemoryStore_GetStock(t *testing.T) {
	store := setupStore(t)

	stock, err := store.GetStock(1)
	require.NoError(t, err)
	assert.Equal(t, domain.Stock{ID: 1, Amount: 3}, stock)

	stock, err = store.GetStock(2)
	require.NoError(t, err)
	assert.Zero(t, stock.Amount)
}

func TestMemoryStore_GetStock_ProductWithoutStockEntry(t *testing.T) {
	store := setupStore(t)

	stock, err := store.GetStock(3)
	require.NoError(t, err)
	assert.Equal(t, domain.Stock{ID: 3, Amount: 0}, stock)
}

func TestMemoryStore_GetStock_NotFound(t *testing.T) {
	store := setupStore(t)

	_, err := store.GetStock(99)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestMemoryStore_GetProduct(t *testing.T) {
	store := setupStore(t)

	p, err := store.GetProduct(1)
	require.NoError(t, err)
	assert.Equal(t, "Tênis de Caminhada Leve", p.Title)
	assert.Equal(t, 179.9, p.Price)

	_, err = store.GetProduct(99)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestMemoryStore_ListProductsSortedByID(t *testing.T) {
	store := setupStore(t)

	products := store.ListProducts()
	require.Len(t, products, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{products[0].ID, products[1].ID, products[2].ID})
}

func TestMemoryStore_SetStock_Validation(t *testing.T) {
	store := NewMemoryStore()

	assert.ErrorIs(t, store.SetStock(1, -1), ErrInvalidStock)
	require.NoError(t, store.SetStock(1, 10))
	require.NoError(t, store.SetStock(1, 4))

	stock, err := store.GetStock(1)
	require.NoError(t, err)
	assert.Equal(t, 4, stock.Amount)
}

func TestMemoryStore_PutProduct_Validation(t *testing.T) {
	store := NewMemoryStore()
	assert.Error(t, store.PutProduct(domain.Product{ID: 0}))
}

func TestMemoryStore_LoadSeed_Invalid(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.LoadSeed(strings.NewReader(`{"stock": [`))
	assert.Error(t, err)

	_, err = store.LoadSeed(strings.NewReader(`{"stock": [{"id": 1, "amount": -5}]}`))
	assert.ErrorIs(t, err, ErrInvalidStock)
}

func TestMemoryStore_LoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.json")
	require.NoError(t, os.WriteFile(path, []byte(testSeed), 0o600))

	store := NewMemoryStore()
	n, err := store.LoadSeedFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = store.LoadSeedFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := setupStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = store.SetStock(1, i)
		}(i)
		go func() {
			defer wg.Done()
			_, err := store.GetStock(1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
