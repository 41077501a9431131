package domain

import "github.com/shopspring/decimal"

// Product is a catalog record as served by the backend. It is never mutated by the client.
type Product struct {
	ID                 string           `json:"_id"`
	Name               string           `json:"name"`
	Description        string           `json:"description,omitempty"`
	Price              decimal.Decimal  `json:"price"`
	Category           string           `json:"category"`
	Seller             string           `json:"seller,omitempty"`
	Region             string           `json:"region,omitempty"`
	ImageURL           string           `json:"image,omitempty"`
	Rating             *float64         `json:"rating,omitempty"`
	OriginalPrice      *decimal.Decimal `json:"originalPrice,omitempty"`
	Featured           bool             `json:"featured,omitempty"`
	Popular            bool             `json:"popular,omitempty"`
	OriginState        string           `json:"originState,omitempty"`
	IndiaPostOptimized bool             `json:"indiaPostOptimized,omitempty"`
}

// RatingValue returns the rating or 0 when the product has none.
func (p Product) RatingValue() float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

// CatalogItem is a product annotated with the current wishlist membership.
type CatalogItem struct {
	Product
	InWishlist bool `json:"inWishlist"`
}

// Category is a landing-page category tile.
type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
