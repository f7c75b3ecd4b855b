package secrets

import (
	"sync"
	"time"
)

type cacheEntry struct {
	value     any
	expiresAt time.Time
}

// InMemoryCache is a mutex-guarded TTL cache. When maxSize is reached the entry
// closest to expiry is evicted to make room.
type InMemoryCache struct {
	mu         sync.Mutex
	entries    map[string]cacheEntry
	defaultTTL time.Duration
	maxSize    int
	now        func() time.Time
}

var _ Cache = (*InMemoryCache)(nil)

// NewInMemoryCache returns a cache using defaultTTL when Set is called with a
// zero ttl. A maxSize of 0 means unbounded.
func NewInMemoryCache(defaultTTL time.Duration, maxSize int) *InMemoryCache {
	return &InMemoryCache{
		entries:    make(map[string]cacheEntry),
		defaultTTL: defaultTTL,
		maxSize:    maxSize,
		now:        time.Now,
	}
}

// Get returns the live value for key. Expired entries are dropped on access.
func (c *InMemoryCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.value, true
}

// Set stores value under key.
func (c *InMemoryCache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	now := c.now()

	if _, exists := c.entries[key]; !exists && c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictLocked(now)
	}
	c.entries[key] = cacheEntry{value: value, expiresAt: now.Add(ttl)}
}

// evictLocked drops expired entries, or the soonest-to-expire one if none are.
func (c *InMemoryCache) evictLocked(now time.Time) {
	var (
		victim   string
		earliest time.Time
	)
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
			continue
		}
		if victim == "" || e.expiresAt.Before(earliest) {
			victim, earliest = k, e.expiresAt
		}
	}
	if len(c.entries) >= c.maxSize && victim != "" {
		delete(c.entries, victim)
	}
}

// Delete removes key from the cache.
func (c *InMemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear removes every entry.
func (c *InMemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Size returns the number of live entries.
func (c *InMemoryCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}
	return len(c.entries)
}
