// Package cache holds one computed value for a bounded time.
package cache

import (
	"sync"
	"time"
)

// Cache keeps at most one value together with the time it was computed.
// The entry is replaced wholesale on refresh, never merged.
//
// A failed refresh leaves the previous entry in place but does not serve it:
// the error goes back to the caller. Peek exposes the old entry for callers
// that want to fall back explicitly.
type Cache[T any] struct {
	mu         sync.Mutex
	value      T
	computedAt time.Time
	valid      bool

	now func() time.Time
}

// New returns an empty cache using the wall clock.
func New[T any]() *Cache[T] {
	return &Cache[T]{now: time.Now}
}

// NewWithClock returns an empty cache using now as its clock.
func NewWithClock[T any](now func() time.Time) *Cache[T] {
	return &Cache[T]{now: now}
}

// GetOrCompute returns the cached value when it is younger than ttl and
// force is false. Otherwise it calls compute exactly once and stores the
// result. compute runs under the cache lock, so concurrent callers wait for
// one computation instead of racing.
func (c *Cache[T]) GetOrCompute(compute func() (T, error), force bool, ttl time.Duration) (T, time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !force && c.valid && c.now().Sub(c.computedAt) < ttl {
		return c.value, c.computedAt, nil
	}

	v, err := compute()
	if err != nil {
		var zero T
		return zero, time.Time{}, err
	}

	c.value = v
	c.computedAt = c.now()
	c.valid = true
	return c.value, c.computedAt, nil
}

// Peek returns the current entry regardless of age.
func (c *Cache[T]) Peek() (T, time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, c.computedAt, c.valid
}

// Invalidate drops the entry so the next GetOrCompute recomputes.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.value = zero
	c.computedAt = time.Time{}
	c.valid = false
}
