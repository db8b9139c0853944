package fetch

import (
	"sync"
	"time"
)

// DefaultTTL is the advisory lifetime of a cached page body.
const DefaultTTL = 10 * time.Minute

type cacheEntry struct {
	body     string
	cachedAt time.Time
}

// Cache memoizes raw page bodies keyed by URL for a short window, so
// concurrent and back-to-back requests don't refetch the same listing.
// Entries are evicted lazily on the next Get past their TTL. Races cost at
// most a duplicate fetch; entries are only ever written as whole values.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewCache creates a cache with the given TTL. Zero or negative falls back
// to DefaultTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// NewCacheWithClock creates a cache with an injected clock for tests.
func NewCacheWithClock(ttl time.Duration, now func() time.Time) *Cache {
	c := NewCache(ttl)
	c.now = now
	return c
}

// Get retrieves a cached body if present and not expired.
// Expired entries are removed on lookup.
func (c *Cache) Get(url string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[url]
	if !ok {
		return "", false
	}
	if c.now().Sub(entry.cachedAt) > c.ttl {
		delete(c.entries, url)
		return "", false
	}
	return entry.body, true
}

// Set stores a body under its URL, overwriting any previous entry.
func (c *Cache) Set(url, body string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[url] = cacheEntry{body: body, cachedAt: c.now()}
}

// Size returns the number of cached entries, expired or not.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
