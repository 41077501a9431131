package store

import (
	"context"
	"errors"
	"strings"
)

// Durable slot keys shared by every driver.
const (
	KeyCart     = "indiaPostCart"
	KeyWishlist = "indiaPostWishlist"
	KeyUser     = "mp_user"
	KeyToken    = "mp_token"
	KeyUsers    = "mp_users"
)

var (
	ErrSlotNotFound     = errors.New("slot not found")
	ErrWatchUnsupported = errors.New("store does not publish changes")
)

// Store is a durable key-value slot store. Set overwrites the whole slot in one write.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Watcher is implemented by stores that can announce slot changes to other readers.
// The returned channel yields changed keys and is closed when ctx is done.
type Watcher interface {
	Watch(ctx context.Context) (<-chan string, error)
}

// SyncPolicy selects which entities reload when another writer changes their slots.
type SyncPolicy struct {
	Session  bool
	Cart     bool
	Wishlist bool
}

// DefaultSyncPolicy keeps only the session in sync across readers.
func DefaultSyncPolicy() SyncPolicy {
	return SyncPolicy{Session: true}
}

type scoped struct {
	inner  Store
	prefix string
}

// Scoped namespaces every key of inner under the given browsing profile.
func Scoped(inner Store, clientID string) Store {
	return &scoped{inner: inner, prefix: clientID + ":"}
}

func (s *scoped) Get(ctx context.Context, key string) ([]byte, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *scoped) Set(ctx context.Context, key string, value []byte) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s *scoped) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

func (s *scoped) Watch(ctx context.Context) (<-chan string, error) {
	w, ok := s.inner.(Watcher)
	if !ok {
		return nil, ErrWatchUnsupported
	}
	changes, err := w.Watch(ctx)
	if err != nil {
		return nil, err
	}
	out := make(chan string)
	go func() {
		defer close(out)
		for key := range changes {
			if !strings.HasPrefix(key, s.prefix) {
				continue
			}
			select {
			case out <- strings.TrimPrefix(key, s.prefix):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Follow calls onChange whenever one of keys changes in s. It reports false when s cannot
// publish changes, in which case nothing is started.
func Follow(ctx context.Context, s Store, keys []string, onChange func(ctx context.Context)) (bool, error) {
	w, ok := s.(Watcher)
	if !ok {
		return false, nil
	}
	changes, err := w.Watch(ctx)
	if errors.Is(err, ErrWatchUnsupported) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	wanted := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		wanted[k] = struct{}{}
	}
	go func() {
		for key := range changes {
			if _, ok := wanted[key]; ok {
				onChange(ctx)
			}
		}
	}()
	return true, nil
}
