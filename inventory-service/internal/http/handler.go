package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fjod/rocketshoes/inventory-service/internal/store"
	"github.com/fjod/rocketshoes/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// InventoryHandler serves stock and product lookups for the cart service.
type InventoryHandler struct {
	store store.InventoryStore
	log   *logger.Logger
}

func NewInventoryHandler(s store.InventoryStore, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{store: s, log: log}
}

func (h *InventoryHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/stock/{id}", h.GetStock)
	r.Get("/products", h.ListProducts)
	r.Get("/products/{id}", h.GetProduct)
	return r
}

func (h *InventoryHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	stock, err := h.store.GetStock(id)
	if err != nil {
		h.handleStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stock)
}

func (h *InventoryHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	p, err := h.store.GetProduct(id)
	if err != nil {
		h.handleStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *InventoryHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.store.ListProducts())
}

func (h *InventoryHandler) handleStoreError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, store.ErrProductNotFound) {
		respondJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "not_found"})
		return
	}
	h.log.Error(r.Context(), "inventory lookup failed", err)
	respondJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: "internal_error"})
}

func productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "id must be a positive integer", Code: "invalid_id"})
		return 0, false
	}
	return id, true
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
