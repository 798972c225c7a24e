// Package cache is an in-memory TTL cache with lazy expiry.
package cache

import (
	"sync"
	"time"

	"github.com/aaron/pitwall/internal/metrics"
)

// Cache maps string keys to values that expire at an absolute instant.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

type entry struct {
	value     any
	expiresAt time.Time
}

// New creates an empty cache. now defaults to time.Now.
func New(now func() time.Time) *Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{entries: make(map[string]entry), now: now}
}

// Get returns the value for key while now < expiresAt. Expired entries are
// removed and reported as a miss.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && c.now().Before(e.expiresAt) {
		metrics.RecordCacheLookup(key, true)
		return e.value, true
	}
	metrics.RecordCacheLookup(key, false)
	if !ok {
		return nil, false
	}

	c.mu.Lock()
	// A concurrent Set may have replaced the stale entry meanwhile.
	if cur, still := c.entries[key]; still && !c.now().Before(cur.expiresAt) {
		delete(c.entries, key)
	}
	c.mu.Unlock()
	return nil, false
}

// Set stores value under key until now+ttl, replacing any previous entry.
// A ttl <= 0 stores an entry that is already expired.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	c.SetUntil(key, value, c.now().Add(ttl))
}

// SetUntil stores value under key until expiresAt.
func (c *Cache) SetUntil(key string, value any, expiresAt time.Time) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: expiresAt}
	c.mu.Unlock()
}

// ExpiresAt reports the expiry of key, expired or not.
func (c *Cache) ExpiresAt(key string) (time.Time, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e.expiresAt, ok
}

// Len returns the number of stored entries, including stale ones.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
