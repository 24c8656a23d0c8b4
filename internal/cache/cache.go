// Package cache provides a process-lifetime TTL cache. Entries expire lazily
// on read; there is no background sweep.
package cache

import (
	"strings"
	"sync"
	"time"
)

// DefaultTTL is the expiry window applied uniformly across the system.
const DefaultTTL = time.Hour

// DefaultMaxEntries caps a cache instance so an obscure-seed crawl cannot
// grow it without bound.
const DefaultMaxEntries = 10000

type entry[T any] struct {
	data      T
	expiresAt time.Time
}

// Cache is a thread-safe in-memory store with a fixed TTL. The zero value is
// not usable; construct with New.
type Cache[T any] struct {
	mu         sync.RWMutex
	entries    map[string]entry[T]
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// Option configures a Cache.
type Option[T any] func(*Cache[T])

// WithClock injects the time source, so tests can drive expiry.
func WithClock[T any](now func() time.Time) Option[T] {
	return func(c *Cache[T]) { c.now = now }
}

// WithMaxEntries overrides the entry cap.
func WithMaxEntries[T any](n int) Option[T] {
	return func(c *Cache[T]) { c.maxEntries = n }
}

// New constructs a cache with the given TTL.
func New[T any](ttl time.Duration, opts ...Option[T]) *Cache[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache[T]{
		entries:    make(map[string]entry[T]),
		ttl:        ttl,
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value for key, or the zero value and false on a miss or an
// expired entry. Expired entries are deleted on read.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	var zero T
	if !ok {
		return zero, false
	}
	if !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have
		// refreshed the entry.
		if cur, still := c.entries[key]; still && !c.now().Before(cur.expiresAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return zero, false
	}
	return e.data, true
}

// Set stores value under key, resetting its expiry to now + TTL. When the
// cache is full the entry closest to expiry is evicted first.
func (c *Cache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}
	c.entries[key] = entry[T]{data: value, expiresAt: c.now().Add(c.ttl)}
}

// Len reports the number of stored entries, expired or not.
func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// evictOldest removes the entry with the earliest expiry. With a fixed TTL
// that is also the least-recently-written entry. Caller holds the lock.
func (c *Cache[T]) evictOldest() {
	var oldestKey string
	var oldest time.Time
	first := true
	for k, e := range c.entries {
		if first || e.expiresAt.Before(oldest) {
			oldestKey, oldest = k, e.expiresAt
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}

// Key builds a normalized cache key: each part is lower-cased and trimmed,
// then the parts are joined with a fixed delimiter. Lookups that differ only
// in case or surrounding whitespace address the same entry.
func Key(parts ...string) string {
	normalized := make([]string, len(parts))
	for i, p := range parts {
		normalized[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(normalized, "|")
}
