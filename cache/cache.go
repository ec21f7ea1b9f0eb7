// Package cache provides a time-bounded memoization layer for upstream API
// responses. Keys carry every parameter that affects the result; entries
// expire after their TTL and are refetched on the next read.
package cache

import (
	"context"
	"sync"
	"time"
)

// Cache is a byte-valued store with per-entry time-to-live.
type Cache interface {
	// Get returns the cached value for key and whether it was present and
	// still valid.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key for the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// MemoryCache is an in-process Cache used in tests and as a degraded-mode
// fallback when Redis is unreachable.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache returns an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}

	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	c.mu.Lock()
	c.entries[key] = memoryEntry{
		value:     stored,
		expiresAt: c.now().Add(ttl),
	}
	c.mu.Unlock()
	return nil
}
