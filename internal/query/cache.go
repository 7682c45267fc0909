package query

import (
	"sync"
	"time"
)

type cacheEntry struct {
	mu        sync.Mutex
	value     any
	createdAt time.Time
	valid     bool
}

// ResultCache memoizes expensive default-shape query results per key with a
// TTL. Writes to the underlying collections become visible once the TTL
// elapses; there is no invalidation on write.
type ResultCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewResultCache builds a cache with the given TTL.
func NewResultCache(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &ResultCache{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// GetOrCompute returns the cached value when younger than the TTL, otherwise
// runs compute, stores its result with a fresh timestamp and returns it.
// Each key carries its own lock, so misses on unrelated keys never serialize
// and concurrent callers of the same key compute at most once.
func (c *ResultCache) GetOrCompute(key string, compute func() (any, error)) (any, error) {
	c.mu.Lock()
	entry, ok := c.entries[key]
	if !ok {
		entry = &cacheEntry{}
		c.entries[key] = entry
	}
	c.mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.valid && c.now().Sub(entry.createdAt) < c.ttl {
		return entry.value, nil
	}

	value, err := compute()
	if err != nil {
		return nil, err
	}
	entry.value = value
	entry.createdAt = c.now()
	entry.valid = true
	return value, nil
}
