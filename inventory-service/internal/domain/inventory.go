package domain

// Product holds the catalog attributes the storefront displays.
type Product struct {
	ID    int64   `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// Stock is the number of units available for a product
type Stock struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

// Seed is the document the store is initialized from
type Seed struct {
	Stock    []Stock   `json:"stock"`
	Products []Product `json:"products"`
}
