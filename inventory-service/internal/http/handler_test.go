package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fjod/rocketshoes/inventory-service/internal/domain"
	"github.com/fjod/rocketshoes/inventory-service/internal/store"
	"github.com/fjod/rocketshoes/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenStore struct {
	store.InventoryStore
}

func (brokenStore) GetStock(int64) (domain.Stock, error) {
	return domain.Stock{}, errors.New("disk on fire")
}

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := store.NewMemoryStore()
	_, err := s.LoadSeed(strings.NewReader(`{
		"stock": [{"id": 1, "amount": 3}],
		"products": [{"id": 1, "title": "Tênis", "price": 179.9, "image": "img"}]
	}`))
	require.NoError(t, err)

	srv := httptest.NewServer(NewInventoryHandler(s, logger.Nop()).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	var raw json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	return resp, raw
}

func TestGetStock(t *testing.T) {
	srv := setupServer(t)

	resp, body := get(t, srv.URL+"/stock/1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":1,"amount":3}`, string(body))
}

func TestGetProduct(t *testing.T) {
	srv := setupServer(t)

	resp, body := get(t, srv.URL+"/products/1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":1,"title":"Tênis","price":179.9,"image":"img"}`, string(body))
}

func TestListProducts(t *testing.T) {
	srv := setupServer(t)

	resp, body := get(t, srv.URL+"/products")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var products []domain.Product
	require.NoError(t, json.Unmarshal(body, &products))
	assert.Len(t, products, 1)
}

func TestUnknownProductIsNotFound(t *testing.T) {
	srv := setupServer(t)

	for _, path := range []string{"/stock/99", "/products/99"} {
		resp, body := get(t, srv.URL+path)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Contains(t, string(body), "not_found")
	}
}

func TestInvalidID(t *testing.T) {
	srv := setupServer(t)

	for _, path := range []string{"/stock/abc", "/products/-1"} {
		resp, _ := get(t, srv.URL+path)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
	}
}

func TestStoreFailureIsInternalError(t *testing.T) {
	h := NewInventoryHandler(brokenStore{}, logger.Nop())
	recorder := httptest.NewRecorder()

	h.Routes().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/stock/1", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestHealth(t *testing.T) {
	srv := setupServer(t)

	resp, body := get(t, srv.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}
