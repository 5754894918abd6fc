package cache

import (
	"fmt"
	"os"
	"time"
)

type entry[T any] struct {
	Value     T
	ExpiresAt time.Time
}

// Expiring is a [Cache] whose values stop being returned after a TTL.
type Expiring[T any] struct {
	cache *Cache[entry[T]]
	ttl   time.Duration
	now   func() time.Time
}

// NewExpiring creates an expiring cache in baseDir for the given kind.
func NewExpiring[T any](baseDir string, kind Kind, ttl time.Duration) (*Expiring[T], error) {
	cache, err := New[entry[T]](baseDir, kind)
	if err != nil {
		return nil, fmt.Errorf("create expiring cache: %w", err)
	}
	return &Expiring[T]{cache: cache, ttl: ttl, now: time.Now}, nil
}

// Get returns the value stored under id. Expired values are removed and
// reported as [os.ErrNotExist].
func (c *Expiring[T]) Get(id string) (T, error) {
	var zero T
	e, err := c.cache.Get(id)
	if err != nil {
		return zero, err
	}
	if !c.now().Before(e.ExpiresAt) {
		_ = c.cache.Delete(id)
		return zero, fmt.Errorf("read: %s expired: %w", id, os.ErrNotExist)
	}
	return e.Value, nil
}

// Set stores v under id until the TTL elapses.
func (c *Expiring[T]) Set(id string, v T) error {
	return c.cache.Set(id, entry[T]{
		Value:     v,
		ExpiresAt: c.now().Add(c.ttl),
	})
}

// Delete removes the value stored under id.
func (c *Expiring[T]) Delete(id string) error {
	return c.cache.Delete(id)
}
