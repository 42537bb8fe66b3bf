// Package cache holds recently generated advisory responses so repeated
// questions about the same place skip the provider chain. Entries expire on
// a fixed TTL and are evicted lazily on lookup.
package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultTTL bounds how long a cached response stays servable. Forecast-driven
// answers go stale quickly, so the window is short.
const DefaultTTL = 5 * time.Minute

type entry struct {
	response string
	storedAt time.Time
}

// Cache is a TTL-bounded response store keyed by normalized query and
// location. Safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	clock   clockwork.Clock
}

// New creates a cache with the given TTL. A non-positive TTL falls back to
// DefaultTTL.
func New(ttl time.Duration) *Cache {
	return newCache(ttl, clockwork.NewRealClock())
}

// NewWithClock creates a cache driven by the supplied clock (for testing).
func NewWithClock(ttl time.Duration, clk clockwork.Clock) *Cache {
	return newCache(ttl, clk)
}

func newCache(ttl time.Duration, clk clockwork.Clock) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		clock:   clk,
	}
}

// Key derives the cache key for a query asked about a location. Queries that
// differ only in case or surrounding whitespace share an entry.
func Key(query, location string) string {
	return normalize(query) + "|" + normalize(location)
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Get returns the cached response for the key, if present and fresh. Expired
// entries are removed on the way out.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return "", false
	}
	if c.clock.Since(e.storedAt) >= c.ttl {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Put may have refreshed it.
		if cur, ok := c.entries[key]; ok && c.clock.Since(cur.storedAt) >= c.ttl {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return "", false
	}
	return e.response, true
}

// Put stores a response under the key, replacing any existing entry.
func (c *Cache) Put(key, response string) {
	c.mu.Lock()
	c.entries[key] = entry{response: response, storedAt: c.clock.Now()}
	c.mu.Unlock()
}

// Len reports the number of entries currently held, including any that have
// expired but not yet been evicted.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
