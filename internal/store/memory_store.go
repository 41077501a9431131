package store

import (
	"context"
	"sync"
)

// MemoryStore implements Store and Watcher with in-process storage.
type MemoryStore struct {
	mu       sync.RWMutex
	slots    map[string][]byte
	watchers map[chan string]struct{}
}

// NewMemoryStore creates an empty in-memory slot store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		slots:    make(map[string][]byte),
		watchers: make(map[chan string]struct{}),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.slots[key]
	if !ok {
		return nil, ErrSlotNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)

	s.mu.Lock()
	s.slots[key] = v
	s.mu.Unlock()

	s.notify(key)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	_, existed := s.slots[key]
	delete(s.slots, key)
	s.mu.Unlock()

	if existed {
		s.notify(key)
	}
	return nil
}

func (s *MemoryStore) Watch(ctx context.Context) (<-chan string, error) {
	ch := make(chan string, 16)

	s.mu.Lock()
	s.watchers[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.watchers, ch)
		s.mu.Unlock()
		close(ch)
	}()
	return ch, nil
}

// notify never blocks a writer; slow watchers drop notifications.
func (s *MemoryStore) notify(key string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for ch := range s.watchers {
		select {
		case ch <- key:
		default:
		}
	}
}

func (s *MemoryStore) Close() error {
	return nil
}
