// Package cache is a generic expiring key-value store used to avoid
// redundant upstream fetches.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// TTL is a mutex-guarded map with per-entry expiry, checked on read. It is
// shared across concurrent requests, hence the lock.
type TTL struct {
	mu    sync.Mutex
	store map[string]entry
}

func NewTTL() *TTL {
	return &TTL{store: make(map[string]entry)}
}

// Get returns the cached value, or (nil, false) if the key is absent or has
// expired. Expired entries are removed on read.
func (c *TTL) Get(key string) (any, bool) {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.store[key]
	if !ok {
		return nil, false
	}
	if !e.expiresAt.After(now) {
		delete(c.store, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for the given lifetime. Non-positive TTLs are
// dropped rather than stored already-expired.
func (c *TTL) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
}

func (c *TTL) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]entry)
}
