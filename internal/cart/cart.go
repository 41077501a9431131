package cart

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/domain"
	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/store"
)

// SessionProvider reports the signed-in session, or nil.
type SessionProvider interface {
	Current() *domain.Session
}

// Service keeps the cart of one browsing profile. Lines are appended per add and never merged.
type Service struct {
	mu       sync.Mutex
	lines    []domain.CartLine
	coll     *store.Collection[domain.CartLine]
	sessions SessionProvider
	newID    func() string
	log      *zap.Logger
}

func NewService(ctx context.Context, s store.Store, sessions SessionProvider, log *zap.Logger) (*Service, error) {
	if log == nil {
		log = zap.NewNop()
	}
	svc := &Service{
		coll:     store.NewCollection[domain.CartLine](s, store.KeyCart, log),
		sessions: sessions,
		newID:    uuid.NewString,
		log:      log,
	}
	if err := svc.Reload(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

// Add appends a new line with quantity 1. Without a session nothing changes and
// domain.ErrUnauthenticated is returned.
func (s *Service) Add(ctx context.Context, p domain.Product) ([]domain.CartLine, error) {
	if s.sessions.Current() == nil {
		return nil, domain.ErrUnauthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	line := domain.CartLine{CartLineID: s.newID(), Product: p, Quantity: 1}
	next := append(slices.Clone(s.lines), line)
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	s.log.Debug("cart line added", zap.String("cart_line_id", line.CartLineID), zap.String("product_id", p.ID))
	return slices.Clone(s.lines), nil
}

// Remove drops the line with the given id. Unknown ids leave the cart as it is.
func (s *Service) Remove(ctx context.Context, cartLineID string) ([]domain.CartLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := slices.DeleteFunc(slices.Clone(s.lines), func(l domain.CartLine) bool {
		return l.CartLineID == cartLineID
	})
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}
	return slices.Clone(s.lines), nil
}

// Clear empties the cart after a successful order.
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, []domain.CartLine{})
}

// Lines returns a snapshot of the cart in insertion order.
func (s *Service) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.lines)
}

func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

func (s *Service) Total() decimal.Decimal {
	return Total(s.Lines())
}

// Reload replaces the in-memory cart with the persisted one. It holds mu across the read so
// a concurrent Add cannot be overwritten by an older read.
func (s *Service) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines, err := s.coll.Load(ctx)
	if err != nil {
		return fmt.Errorf("load cart: %w", err)
	}
	s.lines = lines
	return nil
}

// commit persists next and only then makes it visible. Callers hold mu.
func (s *Service) commit(ctx context.Context, next []domain.CartLine) error {
	if err := s.coll.Save(ctx, next); err != nil {
		s.log.Error("failed to persist cart", zap.Error(err))
		return fmt.Errorf("persist cart: %w", err)
	}
	s.lines = next
	return nil
}

// Total sums price × quantity over lines. An empty cart totals zero.
func Total(lines []domain.CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}
