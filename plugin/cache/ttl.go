package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/stekc/myTimeAPI/internal/clock"
)

// DefaultTTL is the response lifetime used for schedule endpoints.
const DefaultTTL = 5 * time.Minute

// TTLCache is a key/value store with a single fixed TTL and expiry-on-read.
// There is no capacity limit and no background cleanup.
type TTLCache[V any] struct {
	name  string
	ttl   time.Duration
	clock clock.Clock

	mu      sync.Mutex
	entries map[string]*entry[V]

	hits   atomic.Int64
	misses atomic.Int64
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Stats is a point-in-time view of cache counters.
type Stats struct {
	Name    string `json:"name"`
	Entries int    `json:"entries"`
	Hits    int64  `json:"hits"`
	Misses  int64  `json:"misses"`
}

// NewTTLCache creates a cache whose entries live for ttl.
// A nil clock falls back to wall time.
func NewTTLCache[V any](name string, ttl time.Duration, clk clock.Clock) *TTLCache[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &TTLCache[V]{
		name:    name,
		ttl:     ttl,
		clock:   clk,
		entries: make(map[string]*entry[V]),
	}
}

// Get retrieves a value from the cache.
func (c *TTLCache[V]) Get(key string) (V, bool) {
	var zero V

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		return zero, false
	}

	// An entry is still valid at exactly expiresAt.
	if c.clock.Now().After(e.expiresAt) {
		delete(c.entries, key)
		c.misses.Add(1)
		return zero, false
	}

	c.hits.Add(1)
	return e.value, true
}

// Set stores a value in the cache.
func (c *TTLCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &entry[V]{
		value:     value,
		expiresAt: c.clock.Now().Add(c.ttl),
	}
}

// Clear removes all entries from the cache.
func (c *TTLCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry[V])
}

// Len returns the number of stored entries, expired or not.
func (c *TTLCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// TTL returns the fixed entry lifetime.
func (c *TTLCache[V]) TTL() time.Duration {
	return c.ttl
}

// Stats returns the current counters.
func (c *TTLCache[V]) Stats() Stats {
	return Stats{
		Name:    c.name,
		Entries: c.Len(),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}

var _ Store[[]byte] = (*TTLCache[[]byte])(nil)
