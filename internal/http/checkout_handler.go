package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/checkout"
	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/domain"
	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/session"
	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/storefront"
)

const (
	pathCheckout     = "/checkout"
	pathOrderSuccess = "/order-success"
)

type InformationRequestDTO struct {
	Customer       domain.Customer `json:"customer"`
	ShippingMethod string          `json:"shippingMethod,omitempty"`
}

type PaymentRequestDTO struct {
	PaymentMethod  string                  `json:"paymentMethod"`
	PaymentDetails checkout.PaymentDetails `json:"paymentDetails"`
	Notes          *string                 `json:"notes,omitempty"`
}

type ValidationResponseDTO struct {
	Error  string               `json:"error"`
	Code   string               `json:"code"`
	Step   string               `json:"step"`
	Fields checkout.FieldErrors `json:"fields"`
	State  checkout.State       `json:"state"`
}

type SubmitResponseDTO struct {
	Order    domain.Order `json:"order"`
	Redirect string       `json:"redirect"`
}

type ShippingOptionDTO struct {
	Method   checkout.ShippingMethod `json:"method"`
	Cost     decimal.Decimal         `json:"cost"`
	Duration string                  `json:"duration"`
}

// GET /api/v1/shipping-options
func (h *Handler) ShippingOptions(w http.ResponseWriter, r *http.Request) {
	methods := checkout.ShippingMethods()
	out := make([]ShippingOptionDTO, 0, len(methods))
	for _, m := range methods {
		out = append(out, ShippingOptionDTO{Method: m, Cost: m.Cost(), Duration: m.Duration()})
	}
	respondJSON(w, r, http.StatusOK, out)
}

// checkoutAllowed applies the session gate of the checkout page.
func checkoutAllowed(w http.ResponseWriter, r *http.Request, c *storefront.Client) bool {
	d := session.Navigate(c.Session.Current(), pathCheckout)
	if !d.Allowed {
		respondRedirect(w, r, d)
		return false
	}
	return true
}

// POST /api/v1/checkout/begin
func (h *Handler) BeginCheckout(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r.Context())
	if !checkoutAllowed(w, r, c) {
		return
	}
	st, err := c.Checkout.Begin(c.Cart.Lines())
	if err != nil {
		checkoutError(w, r, st, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, st)
}

// GET /api/v1/checkout
func (h *Handler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r.Context())
	if !checkoutAllowed(w, r, c) {
		return
	}
	st, err := c.Checkout.State()
	if err != nil {
		checkoutError(w, r, st, err)
		return
	}
	respondJSON(w, r, http.StatusOK, st)
}

// PUT /api/v1/checkout/information
func (h *Handler) SetInformation(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r.Context())
	if !checkoutAllowed(w, r, c) {
		return
	}
	var req InformationRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	st, err := c.Checkout.SetCustomer(req.Customer)
	if err == nil && req.ShippingMethod != "" {
		st, err = c.Checkout.SetShippingMethod(checkout.ShippingMethod(req.ShippingMethod))
	}
	if err != nil {
		checkoutError(w, r, st, err)
		return
	}
	respondJSON(w, r, http.StatusOK, st)
}

// PUT /api/v1/checkout/payment
func (h *Handler) SetPayment(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r.Context())
	if !checkoutAllowed(w, r, c) {
		return
	}
	var req PaymentRequestDTO
	if !decodeJSON(w, r, &req) {
		return
	}
	st, err := c.Checkout.SetPayment(checkout.PaymentMethod(req.PaymentMethod), req.PaymentDetails)
	if err == nil && req.Notes != nil {
		st, err = c.Checkout.SetNotes(*req.Notes)
	}
	if err != nil {
		checkoutError(w, r, st, err)
		return
	}
	respondJSON(w, r, http.StatusOK, st)
}

// POST /api/v1/checkout/next
func (h *Handler) NextStep(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r.Context())
	if !checkoutAllowed(w, r, c) {
		return
	}
	st, err := c.Checkout.Next()
	if err != nil {
		checkoutError(w, r, st, err)
		return
	}
	respondJSON(w, r, http.StatusOK, st)
}

// POST /api/v1/checkout/back
func (h *Handler) PreviousStep(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r.Context())
	if !checkoutAllowed(w, r, c) {
		return
	}
	st, err := c.Checkout.Back()
	if err != nil {
		checkoutError(w, r, st, err)
		return
	}
	respondJSON(w, r, http.StatusOK, st)
}

// POST /api/v1/checkout/step/{step}
func (h *Handler) GoToStep(w http.ResponseWriter, r *http.Request) {
	c := clientFrom(r.Context())
	if !checkoutAllowed(w, r, c) {
		return
	}
	n, err := strconv.Atoi(chi.URLParam(r, "step"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid_step", "step must be 1, 2 or 3")
		return
	}
	st, err := c.Checkout.GoTo(checkout.Step(n))
	if err != nil {
		checkoutError(w, r, st, err)
		return
	}
	respondJSON(w, r, http.StatusOK, st)
}

// POST /api/v1/checkout/submit
func (h *Handler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.withTimeout(r)
	defer cancel()
	c := clientFrom(r.Context())
	if !checkoutAllowed(w, r, c) {
		return
	}

	order, err := c.Checkout.Submit(ctx, token(r, c))
	if err != nil {
		checkoutError(w, r, checkout.State{}, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, SubmitResponseDTO{Order: order, Redirect: pathOrderSuccess})
}

func checkoutError(w http.ResponseWriter, r *http.Request, st checkout.State, err error) {
	var verr *checkout.ValidationError
	switch {
	case errors.As(err, &verr):
		respondJSON(w, r, http.StatusUnprocessableEntity, ValidationResponseDTO{
			Error:  err.Error(),
			Code:   "validation_failed",
			Step:   verr.Step.String(),
			Fields: verr.Fields,
			State:  st,
		})
	case errors.Is(err, checkout.ErrEmptyCart):
		respondRedirect(w, r, session.Decision{Redirect: session.PathHome})
	case errors.Is(err, checkout.ErrNotStarted):
		respondError(w, r, http.StatusConflict, "not_started", err.Error())
	case errors.Is(err, checkout.ErrSubmitted):
		respondError(w, r, http.StatusConflict, "already_submitted", err.Error())
	case errors.Is(err, checkout.ErrStepNotReached):
		respondError(w, r, http.StatusConflict, "step_not_reached", err.Error())
	case errors.Is(err, checkout.ErrNotConfirmation):
		respondError(w, r, http.StatusConflict, "not_confirmation", err.Error())
	case errors.Is(err, checkout.ErrPaymentDeclined):
		respondError(w, r, http.StatusPaymentRequired, "payment_declined", err.Error())
	case errors.Is(err, checkout.ErrUnknownMethod):
		respondError(w, r, http.StatusBadRequest, "invalid_method", err.Error())
	default:
		handleError(w, r, err)
	}
}
