package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/fjod/rocketshoes/cart-service/internal/cart"
	"github.com/fjod/rocketshoes/cart-service/internal/domain"
	"github.com/fjod/rocketshoes/cart-service/internal/session"
	"github.com/fjod/rocketshoes/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// CartSession is the cart of one browser session.
type CartSession interface {
	Cart() domain.Cart
	AddProduct(ctx context.Context, productID int64) error
	RemoveProduct(ctx context.Context, productID int64) error
	UpdateProductAmount(ctx context.Context, productID int64, amount int) error
}

type SessionProvider interface {
	Session(ctx context.Context, sessionID string) (CartSession, error)
}

type registryProvider struct {
	registry *cart.Registry
}

// FromRegistry serves sessions from a cart registry.
func FromRegistry(r *cart.Registry) SessionProvider {
	return registryProvider{registry: r}
}

func (p registryProvider) Session(ctx context.Context, sessionID string) (CartSession, error) {
	n, err := p.registry.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return n, nil
}

type CartHandler struct {
	sessions SessionProvider
	timeout  time.Duration
	log      *logger.Logger
}

func NewCartHandler(sessions SessionProvider, timeout time.Duration, log *logger.Logger) *CartHandler {
	return &CartHandler{
		sessions: sessions,
		timeout:  timeout,
		log:      log,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

type UpdateAmountRequestDTO struct {
	Amount *int `json:"amount" validate:"required"`
}

type CartItemDTO struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Amount   int     `json:"amount"`
	Subtotal float64 `json:"subtotal"`
}

// CartResponse always carries the cart as it is after the request. A failed
// operation adds the message shown to the user and an error code.
type CartResponse struct {
	Items        []CartItemDTO `json:"items"`
	Total        float64       `json:"total"`
	Notification string        `json:"notification,omitempty"`
	Code         string        `json:"code,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sess, ok := h.session(ctx, w)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(sess.Cart(), nil))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	sess, ok := h.session(ctx, w)
	if !ok {
		return
	}
	err := sess.AddProduct(ctx, req.ProductID)
	h.respondOperation(w, sess, err, http.StatusCreated)
}

func (h *CartHandler) UpdateAmount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateAmountRequestDTO
	if err := decodeJSONBody(w, r, &req); err != nil {
		respondValidationError(w, err)
		return
	}

	sess, ok := h.session(ctx, w)
	if !ok {
		return
	}
	err := sess.UpdateProductAmount(ctx, productID, *req.Amount)
	h.respondOperation(w, sess, err, http.StatusOK)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	sess, ok := h.session(ctx, w)
	if !ok {
		return
	}
	err := sess.RemoveProduct(ctx, productID)
	h.respondOperation(w, sess, err, http.StatusOK)
}

func (h *CartHandler) session(ctx context.Context, w http.ResponseWriter) (CartSession, bool) {
	sessionID, ok := session.FromContext(ctx)
	if !ok {
		respondError(w, http.StatusBadRequest, "missing_session", "missing session id")
		return nil, false
	}
	sess, err := h.sessions.Session(ctx, sessionID)
	if err != nil {
		h.log.Error(ctx, "failed to load cart session", err)
		respondError(w, http.StatusServiceUnavailable, "store_unavailable", "cart could not be loaded")
		return nil, false
	}
	return sess, true
}

func (h *CartHandler) respondOperation(w http.ResponseWriter, sess CartSession, err error, okStatus int) {
	if err == nil {
		respondJSON(w, okStatus, toCartResponse(sess.Cart(), nil))
		return
	}
	respondJSON(w, statusFor(err), toCartResponse(sess.Cart(), err))
}

func toCartResponse(c domain.Cart, err error) CartResponse {
	items := make([]CartItemDTO, 0, len(c))
	for _, p := range c {
		items = append(items, CartItemDTO{
			ID:       p.ID,
			Title:    p.Title,
			Price:    p.Price,
			Image:    p.Image,
			Amount:   p.Amount,
			Subtotal: p.Subtotal(),
		})
	}
	resp := CartResponse{Items: items, Total: c.Total()}
	if err != nil {
		kind, _ := cart.KindOf(err)
		resp.Notification = cart.Message(err)
		resp.Code = kind.String()
	}
	return resp
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, cart.ErrOutOfStock):
		return http.StatusConflict
	case errors.Is(err, cart.ErrNotInCart):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	productIDStr := chi.URLParam(r, "product_id")
	productID, err := strconv.ParseInt(productIDStr, 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return 0, false
	}
	return productID, true
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func respondValidationError(w http.ResponseWriter, err error) {
	var ve *validationError
	if errors.As(err, &ve) {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: ve.msg, Code: "invalid_request", Details: ve.details})
		return
	}
	respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
}
