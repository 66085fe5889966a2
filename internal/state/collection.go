// Package state holds the dashboard's local copies of server collections.
//
// Writes are ordered by request tokens rather than by arrival: a fetch takes a
// token before it is sent and its result is applied only if no newer token has
// been applied in the meantime. Optimistic edits take a fresh token too, so a
// refresh that was already in flight when the edit happened cannot undo it.
package state

import (
	"context"
	"sync"
	"time"
)

// Token orders writes to a Collection.
type Token uint64

// Collection is a last-request-wins holder for one collection. The zero value
// is empty and ready to use. Values handed out by Get are shared and must be
// treated as read-only.
type Collection[T any] struct {
	mu        sync.RWMutex
	value     T
	loaded    bool
	issued    uint64
	applied   uint64
	updatedAt time.Time
}

// Begin issues the token for a request about to be sent.
func (c *Collection[T]) Begin() Token {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.issued++
	return Token(c.issued)
}

// Apply stores v if tok is newer than the last applied token and reports
// whether it did.
func (c *Collection[T]) Apply(tok Token, v T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if uint64(tok) <= c.applied {
		return false
	}
	c.value = v
	c.loaded = true
	c.applied = uint64(tok)
	c.updatedAt = time.Now()
	return true
}

// Refresh runs fetch under a fresh token and applies its result. applied is
// false when a newer write landed while fetch was in flight.
func (c *Collection[T]) Refresh(ctx context.Context, fetch func(context.Context) (T, error)) (v T, applied bool, err error) {
	tok := c.Begin()
	v, err = fetch(ctx)
	if err != nil {
		return v, false, err
	}
	return v, c.Apply(tok, v), nil
}

// Update replaces the value with fn(current) under a fresh token and returns
// that token. fn must not modify its argument in place.
func (c *Collection[T]) Update(fn func(T) T) Token {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.issued++
	c.value = fn(c.value)
	c.loaded = true
	c.applied = c.issued
	c.updatedAt = time.Now()
	return Token(c.applied)
}

// Amend replaces the value with fn(current) only if tok is still the last
// applied write, and reports whether it did. It lets a caller undo its own
// edit without clobbering anything written after it.
func (c *Collection[T]) Amend(tok Token, fn func(T) T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if uint64(tok) != c.applied {
		return false
	}
	c.issued++
	c.value = fn(c.value)
	c.applied = c.issued
	c.updatedAt = time.Now()
	return true
}

// Seed fills an empty collection with a cached snapshot. Any later Apply wins
// over seeded data.
func (c *Collection[T]) Seed(v T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return false
	}
	c.value = v
	c.loaded = true
	return true
}

func (c *Collection[T]) Get() T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.value
}

// Loaded reports whether the collection holds any data yet.
func (c *Collection[T]) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.loaded
}

func (c *Collection[T]) UpdatedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.updatedAt
}

// Applied returns the token of the last applied write.
func (c *Collection[T]) Applied() Token {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Token(c.applied)
}
