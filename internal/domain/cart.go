package domain

import "github.com/shopspring/decimal"

// CartLine is one add-to-cart occurrence. Identity is CartLineID, not the product id.
type CartLine struct {
	CartLineID string  `json:"cartLineId"`
	Product    Product `json:"product"`
	Quantity   int     `json:"quantity"`
}

// EffectiveQuantity treats a missing quantity as a single unit.
func (l CartLine) EffectiveQuantity() int {
	if l.Quantity < 1 {
		return 1
	}
	return l.Quantity
}

// LineTotal is price × quantity for the line.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.EffectiveQuantity())))
}

// WishlistEntry marks a product saved for later. At most one entry exists per product id.
type WishlistEntry struct {
	WishlistEntryID string  `json:"wishlistEntryId"`
	Product         Product `json:"product"`
}
