// Package cache provides a bounded in-process TTL cache.
//
// Entries expire a fixed duration after insertion and the oldest entries
// are evicted once capacity is crossed. Concurrent misses for the same key
// may both fetch and both write; last write wins, which is acceptable for
// a cache. The mutex only protects map integrity.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	storedAt  time.Time
	expiresAt time.Time
}

// Cache is a TTL key-value store bounded by capacity.
type Cache[V any] struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	now      func() time.Time
	entries  map[string]entry[V]
}

// New creates a cache with the given default TTL and capacity.
func New[V any](ttl time.Duration, capacity int) *Cache[V] {
	if capacity <= 0 {
		capacity = 1000
	}
	return &Cache[V]{
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
		entries:  make(map[string]entry[V]),
	}
}

// WithClock overrides the time source. Intended for tests.
func (c *Cache[V]) WithClock(now func() time.Time) *Cache[V] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
	return c
}

// Get returns the value for key if present and unexpired.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with the default TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.SetTTL(key, value, c.ttl)
}

// SetTTL stores value under key with an explicit TTL.
func (c *Cache[V]) SetTTL(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		c.evictLocked(now)
	}
	c.entries[key] = entry[V]{
		value:     value,
		storedAt:  now,
		expiresAt: now.Add(ttl),
	}
}

// Len returns the number of stored entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evictLocked drops expired entries, then the oldest entry if still at
// capacity. Caller must hold the mutex.
func (c *Cache[V]) evictLocked(now time.Time) {
	for k, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	if len(c.entries) < c.capacity {
		return
	}

	var oldestKey string
	var oldestAt time.Time
	first := true
	for k, e := range c.entries {
		if first || e.storedAt.Before(oldestAt) {
			oldestKey = k
			oldestAt = e.storedAt
			first = false
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
