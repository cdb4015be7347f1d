package data

import (
	"strings"
	"sync"
	"time"
)

type cacheEntry struct {
	table     Table
	expiresAt time.Time
}

// ResponseCache keeps fetched chart tables in memory for a TTL.
// All methods are safe on a nil receiver, which behaves as a disabled cache.
type ResponseCache struct {
	mu    sync.RWMutex
	store map[string]cacheEntry
	ttl   time.Duration
	now   func() time.Time
}

func NewResponseCache(ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		return nil
	}
	return &ResponseCache{
		store: make(map[string]cacheEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (c *ResponseCache) Get(key string) (Table, bool) {
	if c == nil {
		return Table{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.store[key]
	if !ok || c.now().After(e.expiresAt) {
		return Table{}, false
	}
	return e.table, true
}

// Set stores t and drops any expired entries.
func (c *ResponseCache) Set(key string, t Table) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.store {
		if now.After(e.expiresAt) {
			delete(c.store, k)
		}
	}
	c.store[key] = cacheEntry{table: t, expiresAt: now.Add(c.ttl)}
}

func (c *ResponseCache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]cacheEntry)
}

func (c *ResponseCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

func CacheKey(symbol, rng string) string {
	return strings.ToUpper(strings.TrimSpace(symbol)) + ":" + rng
}
