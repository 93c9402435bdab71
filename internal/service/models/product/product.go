package product

import "github.com/shopspring/decimal"

// Product is a sellable article with its last-known stock.
type Product struct {
	ID              int64           `json:"id"`
	SKU             string          `json:"sku"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	Stock           int64           `json:"stock"`
	CategoryID      *int64          `json:"categoryId,omitempty"`
	BrandID         *int64          `json:"brandId,omitempty"`
	DiscountAllowed bool            `json:"discountAllowed"`
	ProviderID      *int64          `json:"providerId,omitempty"`
	ProviderName    string          `json:"providerName,omitempty"`
}

func (p Product) InCategory(id int64) bool {
	return p.CategoryID != nil && *p.CategoryID == id
}

func (p Product) OfBrand(id int64) bool {
	return p.BrandID != nil && *p.BrandID == id
}
