package wishlist

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/domain"
	"github.com/RohitJoHNSon03/capstone-india-diaspora/internal/store"
)

// SessionProvider reports the signed-in session, or nil.
type SessionProvider interface {
	Current() *domain.Session
}

// MembershipListener is told when a product enters or leaves the wishlist.
type MembershipListener interface {
	WishlistChanged(productID string, inWishlist bool)
}

// Service keeps the wishlist of one browsing profile, at most one entry per product id.
type Service struct {
	mu        sync.Mutex
	entries   []domain.WishlistEntry
	coll      *store.Collection[domain.WishlistEntry]
	sessions  SessionProvider
	listeners []MembershipListener
	newID     func() string
	log       *zap.Logger
}

func NewService(ctx context.Context, s store.Store, sessions SessionProvider, log *zap.Logger) (*Service, error) {
	if log == nil {
		log = zap.NewNop()
	}
	svc := &Service{
		coll:     store.NewCollection[domain.WishlistEntry](s, store.KeyWishlist, log),
		sessions: sessions,
		newID:    uuid.NewString,
		log:      log,
	}
	if err := svc.Reload(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}

// Subscribe registers l for membership changes made through Toggle.
func (s *Service) Subscribe(l MembershipListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Toggle removes the product when present and adds it otherwise. It reports the new
// membership and the resulting entries.
func (s *Service) Toggle(ctx context.Context, p domain.Product) (bool, []domain.WishlistEntry, error) {
	if s.sessions.Current() == nil {
		return false, nil, domain.ErrUnauthenticated
	}

	s.mu.Lock()
	next := slices.Clone(s.entries)
	in := false
	if i := indexOf(next, p.ID); i >= 0 {
		next = slices.Delete(next, i, i+1)
	} else {
		next = append(next, domain.WishlistEntry{WishlistEntryID: s.newID(), Product: p})
		in = true
	}
	if err := s.coll.Save(ctx, next); err != nil {
		s.mu.Unlock()
		s.log.Error("failed to persist wishlist", zap.Error(err))
		return false, nil, fmt.Errorf("persist wishlist: %w", err)
	}
	s.entries = next
	listeners := slices.Clone(s.listeners)
	snapshot := slices.Clone(next)
	s.mu.Unlock()

	for _, l := range listeners {
		l.WishlistChanged(p.ID, in)
	}
	return in, snapshot, nil
}

func (s *Service) Contains(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return indexOf(s.entries, productID) >= 0
}

func (s *Service) Entries() []domain.WishlistEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.entries)
}

// Reload replaces the in-memory wishlist with the persisted one. Duplicate product ids keep
// their first entry. mu is held across the read so a concurrent Toggle is never lost.
func (s *Service) Reload(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	loaded, err := s.coll.Load(ctx)
	if err != nil {
		return fmt.Errorf("load wishlist: %w", err)
	}
	entries := make([]domain.WishlistEntry, 0, len(loaded))
	for _, e := range loaded {
		if indexOf(entries, e.Product.ID) < 0 {
			entries = append(entries, e)
		}
	}
	if len(entries) != len(loaded) {
		s.log.Warn("dropped duplicate wishlist entries", zap.Int("dropped", len(loaded)-len(entries)))
	}
	s.entries = entries
	return nil
}

func indexOf(entries []domain.WishlistEntry, productID string) int {
	return slices.IndexFunc(entries, func(e domain.WishlistEntry) bool {
		return e.Product.ID == productID
	})
}
