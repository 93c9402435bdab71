package catalog

// Category ("rubro") groups products.
type Category struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
}

// Brand ("marca") of a product.
type Brand struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
}
