package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how the buyer pays.
type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentUPI  PaymentMethod = "upi"
	PaymentCOD  PaymentMethod = "cod"
)

// ParsePaymentMethod also accepts "credit-card" for card.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "card", "credit-card":
		return PaymentCard, nil
	case "upi":
		return PaymentUPI, nil
	case "cod":
		return PaymentCOD, nil
	}
	return "", fmt.Errorf("%w: payment %q", ErrUnknownMethod, s)
}

// PaymentDetails are collected by the form and never sent to the order service.
type PaymentDetails struct {
	CardNumber string `json:"cardNumber,omitempty"`
	ExpiryDate string `json:"expiryDate,omitempty"`
	CVV        string `json:"cvv,omitempty"`
	NameOnCard string `json:"nameOnCard,omitempty"`
	UPIID      string `json:"upiId,omitempty"`
}

// Masked hides everything but the last four card digits and drops the CVV.
func (d PaymentDetails) Masked() PaymentDetails {
	card := strings.ReplaceAll(d.CardNumber, " ", "")
	if len(card) > 4 {
		card = strings.Repeat("*", len(card)-4) + card[len(card)-4:]
	}
	d.CardNumber = card
	if d.CVV != "" {
		d.CVV = "***"
	}
	return d
}

var ErrPaymentDeclined = errors.New("payment declined")

type AuthorizationRequest struct {
	Method  PaymentMethod
	Details PaymentDetails
	Amount  decimal.Decimal
}

type Authorization struct {
	ID     string
	Method PaymentMethod
}

// PaymentAuthorizer approves a payment before the order is placed.
type PaymentAuthorizer interface {
	Authorize(ctx context.Context, req AuthorizationRequest) (Authorization, error)
}

// StubAuthorizer approves every payment without contacting a processor. Amounts that are
// negative are declined.
type StubAuthorizer struct{}

func (StubAuthorizer) Authorize(ctx context.Context, req AuthorizationRequest) (Authorization, error) {
	if err := ctx.Err(); err != nil {
		return Authorization{}, err
	}
	if req.Amount.IsNegative() {
		return Authorization{}, ErrPaymentDeclined
	}
	return Authorization{ID: "stub-" + uuid.NewString(), Method: req.Method}, nil
}
