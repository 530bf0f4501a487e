package http

import (
	"net/http"

	"github.com/fjod/rocketshoes/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterOptions wires the router. Request deadlines are applied by the cart
// handlers themselves.
type RouterOptions struct {
	Cart    *CartHandler
	Logger  *logger.Logger
	Metrics http.Handler
}

func NewRouter(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware(opts.Logger))
	r.Use(LoggingMiddleware(opts.Logger))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	// API routes
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(SessionMiddleware(opts.Logger))
		r.Get("/", opts.Cart.GetCart)
		r.Post("/items", opts.Cart.AddItem)
		r.Put("/items/{product_id}", opts.Cart.UpdateAmount)
		r.Delete("/items/{product_id}", opts.Cart.RemoveItem)
	})

	return r
}
