package checkout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/domain"
)

// ShippingMethod is an India Post service level.
type ShippingMethod string

const (
	ShippingStandard   ShippingMethod = "India Post Standard"
	ShippingExpress    ShippingMethod = "India Post Express"
	ShippingRegistered ShippingMethod = "India Post Registered"
)

// ErrUnknownMethod is returned for a shipping or payment method that is not offered.
var ErrUnknownMethod = errors.New("unknown method")

// ParseShippingMethod accepts the full service name or its short form ("express").
func ParseShippingMethod(s string) (ShippingMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "standard", strings.ToLower(string(ShippingStandard)):
		return ShippingStandard, nil
	case "express", strings.ToLower(string(ShippingExpress)):
		return ShippingExpress, nil
	case "registered", strings.ToLower(string(ShippingRegistered)):
		return ShippingRegistered, nil
	}
	return "", fmt.Errorf("%w: shipping %q", ErrUnknownMethod, s)
}

// ShippingMethods lists the offered services, cheapest first.
func ShippingMethods() []ShippingMethod {
	return []ShippingMethod{ShippingStandard, ShippingRegistered, ShippingExpress}
}

// Cost is the flat shipping charge in rupees.
func (m ShippingMethod) Cost() decimal.Decimal {
	switch m {
	case ShippingExpress:
		return decimal.NewFromInt(99)
	case ShippingRegistered:
		return decimal.NewFromInt(49)
	default:
		return decimal.Zero
	}
}

// Duration is the advertised delivery window.
func (m ShippingMethod) Duration() string {
	switch m {
	case ShippingExpress:
		return "2-3 business days"
	case ShippingRegistered:
		return "4-6 business days"
	default:
		return "5-7 business days"
	}
}

// TaxRate is the flat GST rate applied to the subtotal.
var TaxRate = decimal.RequireFromString("0.18")

// Pricing is derived from the cart snapshot and shipping method only.
type Pricing struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Shipping decimal.Decimal `json:"shippingCost"`
	Tax      decimal.Decimal `json:"taxAmount"`
	Total    decimal.Decimal `json:"totalAmount"`
}

func Price(lines []domain.CartLine, method ShippingMethod) Pricing {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal())
	}
	shipping := method.Cost()
	tax := subtotal.Mul(TaxRate)
	return Pricing{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}
}
