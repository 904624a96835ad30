// Package cache provides a small TTL cache used to avoid re-reading the
// spreadsheet on every request. Budget and category tables change rarely,
// so short-lived cached copies are acceptable.
package cache

import (
	"sync"
	"time"
)

// TTL is a mutex-guarded map with per-entry expiry.
type TTL[T any] struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]entry[T]
	now   func() time.Time
}

type entry[T any] struct {
	data      T
	expiresAt time.Time
}

// New creates a TTL cache whose entries expire after ttl.
func New[T any](ttl time.Duration) *TTL[T] {
	return &TTL[T]{
		ttl:   ttl,
		items: make(map[string]entry[T]),
		now:   time.Now,
	}
}

// Get retrieves a value from the cache; expired entries are evicted lazily.
func (c *TTL[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	e, ok := c.items[key]
	if !ok {
		return zero, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.items, key)
		return zero, false
	}
	return e.data, true
}

// Set stores a value in the cache.
func (c *TTL[T]) Set(key string, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = entry[T]{data: data, expiresAt: c.now().Add(c.ttl)}
}

// Delete removes a key from the cache.
func (c *TTL[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Size returns the current number of items, expired ones included.
func (c *TTL[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// CleanExpired removes all expired entries and reports how many were evicted.
func (c *TTL[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	cleaned := 0
	for key, e := range c.items {
		if now.After(e.expiresAt) {
			delete(c.items, key)
			cleaned++
		}
	}
	return cleaned
}
