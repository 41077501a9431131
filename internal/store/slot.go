package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Slot is a typed view over one JSON-encoded key.
type Slot[T any] struct {
	store Store
	key   string
	log   *zap.Logger
}

func NewSlot[T any](s Store, key string, log *zap.Logger) *Slot[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Slot[T]{store: s, key: key, log: log}
}

// Load returns the decoded value. ok is false when the slot is absent or its content does not
// decode; malformed content is logged and treated as absent.
func (s *Slot[T]) Load(ctx context.Context) (value T, ok bool, err error) {
	data, err := s.store.Get(ctx, s.key)
	if errors.Is(err, ErrSlotNotFound) {
		return value, false, nil
	}
	if err != nil {
		return value, false, fmt.Errorf("load %s: %w", s.key, err)
	}
	if err := json.Unmarshal(data, &value); err != nil {
		s.log.Warn("malformed persisted state, treating as empty",
			zap.String("key", s.key), zap.Error(err))
		var zero T
		return zero, false, nil
	}
	return value, true, nil
}

func (s *Slot[T]) Save(ctx context.Context, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", s.key, err)
	}
	if err := s.store.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("save %s: %w", s.key, err)
	}
	return nil
}

func (s *Slot[T]) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear %s: %w", s.key, err)
	}
	return nil
}

// Collection persists an ordered sequence under one key.
type Collection[T any] struct {
	slot *Slot[[]T]
}

func NewCollection[T any](s Store, key string, log *zap.Logger) *Collection[T] {
	return &Collection[T]{slot: NewSlot[[]T](s, key, log)}
}

// Load never returns a nil slice on success.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	items, ok, err := c.slot.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !ok || items == nil {
		return []T{}, nil
	}
	return items, nil
}

func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	return c.slot.Save(ctx, items)
}
