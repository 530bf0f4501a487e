package store

import (
	"errors"

	"github.com/fjod/rocketshoes/inventory-service/internal/domain"
)

// Common errors returned by the store
var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidStock    = errors.New("stock amount cannot be negative")
)

// InventoryStore defines the interface for inventory storage operations
type InventoryStore interface {
	// GetStock returns the available units of a product
	GetStock(productID int64) (domain.Stock, error)

	// GetProduct returns the display attributes of a product
	GetProduct(productID int64) (domain.Product, error)

	// ListProducts returns every product ordered by id
	ListProducts() []domain.Product

	// SetStock sets the stock level for a product (used for initialization)
	SetStock(productID int64, amount int) error

	// PutProduct adds or replaces a product
	PutProduct(p domain.Product) error
}
