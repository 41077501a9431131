package checkout

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/domain"
)

// Step is a checkout stage.
type Step int

const (
	StepInformation  Step = 1
	StepPayment      Step = 2
	StepConfirmation Step = 3
)

func (s Step) String() string {
	switch s {
	case StepInformation:
		return "information"
	case StepPayment:
		return "payment"
	case StepConfirmation:
		return "confirmation"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

var (
	ErrEmptyCart       = errors.New("cart is empty, nothing to checkout")
	ErrNotStarted      = errors.New("checkout has not been started")
	ErrSubmitted       = errors.New("order already submitted")
	ErrStepNotReached  = errors.New("step has not been reached yet")
	ErrNotConfirmation = errors.New("order can only be submitted from the confirmation step")
)

// OrderCreator places the order with the backend using the caller's credentials.
type OrderCreator interface {
	CreateOrder(ctx context.Context, token string, payload domain.OrderPayload) (domain.Order, error)
}

// CartClearer empties the cart once the order is placed.
type CartClearer interface {
	Clear(ctx context.Context) error
}

// EventPublisher announces placed orders.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, order domain.Order) error
}

// State is a snapshot of the checkout flow.
type State struct {
	Step           Step              `json:"step"`
	Reached        Step              `json:"reached"`
	Customer       domain.Customer   `json:"customer"`
	ShippingMethod ShippingMethod    `json:"shippingMethod"`
	PaymentMethod  PaymentMethod     `json:"paymentMethod"`
	PaymentDetails PaymentDetails    `json:"paymentDetails"`
	Notes          string            `json:"notes"`
	CartSnapshot   []domain.CartLine `json:"cartSnapshot"`
	Pricing        Pricing           `json:"pricing"`
	Submitted      bool              `json:"submitted"`
	Order          *domain.Order     `json:"order,omitempty"`
	Errors         FieldErrors       `json:"errors,omitempty"`
}

// Deps are the collaborators of a Machine.
type Deps struct {
	Orders    OrderCreator
	Cart      CartClearer
	Payments  PaymentAuthorizer
	Publisher EventPublisher
	Validator *Validator
	Logger    *zap.Logger
	Now       func() time.Time
}

// Machine is the Information -> Payment -> Confirmation flow of one browsing profile.
// It is safe for concurrent use; Submit holds the machine for the whole order request so a
// second submit waits and then sees ErrSubmitted.
type Machine struct {
	mu      sync.Mutex
	deps    Deps
	started bool
	state   State
}

func NewMachine(deps Deps) *Machine {
	if deps.Validator == nil {
		deps.Validator = NewValidator(ValidatorOptions{})
	}
	if deps.Payments == nil {
		deps.Payments = StubAuthorizer{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Machine{deps: deps}
}

// Begin captures the cart once and enters the information step. An empty cart never
// enters the flow.
func (m *Machine) Begin(snapshot []domain.CartLine) (State, error) {
	if len(snapshot) == 0 {
		return State{}, ErrEmptyCart
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.started = true
	m.state = State{
		Step:           StepInformation,
		Reached:        StepInformation,
		Customer:       domain.Customer{Address: domain.Address{Country: "India"}},
		ShippingMethod: ShippingStandard,
		PaymentMethod:  PaymentCard,
		CartSnapshot:   slices.Clone(snapshot),
	}
	return m.snapshot(), nil
}

// Active reports whether a flow was begun and has not been submitted yet.
func (m *Machine) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started && !m.state.Submitted
}

func (m *Machine) State() (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.started {
		return State{}, ErrNotStarted
	}
	return m.snapshot(), nil
}

func (m *Machine) SetCustomer(c domain.Customer) (State, error) {
	return m.mutate(func(s *State) error {
		if c.Address.Country == "" {
			c.Address.Country = s.Customer.Address.Country
		}
		s.Customer = c
		return nil
	})
}

func (m *Machine) SetShippingMethod(method ShippingMethod) (State, error) {
	return m.mutate(func(s *State) error {
		parsed, err := ParseShippingMethod(string(method))
		if err != nil {
			return err
		}
		s.ShippingMethod = parsed
		return nil
	})
}

func (m *Machine) SetPayment(method PaymentMethod, details PaymentDetails) (State, error) {
	return m.mutate(func(s *State) error {
		parsed, err := ParsePaymentMethod(string(method))
		if err != nil {
			return err
		}
		s.PaymentMethod = parsed
		s.PaymentDetails = details
		return nil
	})
}

func (m *Machine) SetNotes(notes string) (State, error) {
	return m.mutate(func(s *State) error {
		s.Notes = notes
		return nil
	})
}

// Next runs the gate of the active step and advances only when it passes. A failing gate
// returns *ValidationError and leaves the step unchanged.
func (m *Machine) Next() (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.editable(); err != nil {
		return State{}, err
	}

	var errs FieldErrors
	switch m.state.Step {
	case StepInformation:
		errs = m.deps.Validator.Information(m.state.Customer)
	case StepPayment:
		errs = m.deps.Validator.Payment(m.state.PaymentMethod, m.state.PaymentDetails)
	case StepConfirmation:
		return m.snapshot(), nil
	}
	if len(errs) > 0 {
		m.state.Errors = errs
		return m.snapshot(), &ValidationError{Step: m.state.Step, Fields: errs}
	}

	m.state.Errors = nil
	m.state.Step++
	if m.state.Step > m.state.Reached {
		m.state.Reached = m.state.Step
	}
	return m.snapshot(), nil
}

// Back moves one step backwards. It is a no-op on the first step.
func (m *Machine) Back() (State, error) {
	return m.mutate(func(s *State) error {
		if s.Step > StepInformation {
			s.Step--
			s.Errors = nil
		}
		return nil
	})
}

// GoTo jumps to a step already reached.
func (m *Machine) GoTo(step Step) (State, error) {
	return m.mutate(func(s *State) error {
		if step < StepInformation || step > s.Reached {
			return ErrStepNotReached
		}
		s.Step = step
		s.Errors = nil
		return nil
	})
}

// Submit places the order. It is only allowed from the confirmation step. On failure the
// state is left untouched so the buyer can retry.
func (m *Machine) Submit(ctx context.Context, token string) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.editable(); err != nil {
		return domain.Order{}, err
	}
	if m.state.Step != StepConfirmation {
		return domain.Order{}, ErrNotConfirmation
	}

	log := m.deps.Logger
	pricing := Price(m.state.CartSnapshot, m.state.ShippingMethod)

	auth, err := m.deps.Payments.Authorize(ctx, AuthorizationRequest{
		Method:  m.state.PaymentMethod,
		Details: m.state.PaymentDetails,
		Amount:  pricing.Total,
	})
	if err != nil {
		log.Warn("payment authorization failed", zap.Error(err))
		return domain.Order{}, fmt.Errorf("authorize payment: %w", err)
	}

	payload := m.payload(pricing)
	order, err := m.deps.Orders.CreateOrder(ctx, token, payload)
	if err != nil {
		log.Error("failed to place order", zap.Error(err))
		return domain.Order{}, fmt.Errorf("place order: %w", err)
	}

	if err := m.deps.Cart.Clear(ctx); err != nil {
		log.Error("order placed but cart could not be cleared", zap.String("order_id", order.OrderID), zap.Error(err))
	}
	m.state.Submitted = true
	m.state.Order = &order

	log.Info("order placed",
		zap.String("order_id", order.OrderID),
		zap.String("authorization_id", auth.ID),
		zap.String("total", pricing.Total.String()),
	)

	if m.deps.Publisher != nil {
		if err := m.deps.Publisher.PublishOrderPlaced(ctx, order); err != nil {
			log.Warn("failed to publish order event", zap.String("order_id", order.OrderID), zap.Error(err))
		}
	}
	return order, nil
}

func (m *Machine) payload(pricing Pricing) domain.OrderPayload {
	items := make([]domain.OrderItem, 0, len(m.state.CartSnapshot))
	for _, l := range m.state.CartSnapshot {
		items = append(items, domain.OrderItem{
			ProductID: l.Product.ID,
			Quantity:  l.EffectiveQuantity(),
			Price:     l.Product.Price,
			Name:      l.Product.Name,
		})
	}
	return domain.OrderPayload{
		Customer:       m.state.Customer,
		Items:          items,
		ShippingMethod: string(m.state.ShippingMethod),
		PaymentMethod:  string(m.state.PaymentMethod),
		ShippingCost:   pricing.Shipping,
		TaxAmount:      pricing.Tax,
		Notes:          m.state.Notes,
		TotalAmount:    pricing.Total,
		OrderDate:      m.deps.Now().UTC(),
		Status:         domain.OrderStatusConfirmed,
	}
}

func (m *Machine) mutate(fn func(*State) error) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.editable(); err != nil {
		return State{}, err
	}
	if err := fn(&m.state); err != nil {
		return State{}, err
	}
	return m.snapshot(), nil
}

// editable is called with mu held.
func (m *Machine) editable() error {
	if !m.started {
		return ErrNotStarted
	}
	if m.state.Submitted {
		return ErrSubmitted
	}
	return nil
}

// snapshot is called with mu held. Card data never leaves the machine unmasked.
func (m *Machine) snapshot() State {
	s := m.state
	s.CartSnapshot = slices.Clone(m.state.CartSnapshot)
	s.PaymentDetails = m.state.PaymentDetails.Masked()
	s.Pricing = Price(s.CartSnapshot, s.ShippingMethod)
	if m.state.Errors != nil {
		s.Errors = make(FieldErrors, len(m.state.Errors))
		for k, v := range m.state.Errors {
			s.Errors[k] = v
		}
	}
	return s
}
