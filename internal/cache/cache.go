// Package cache provides a small mutex-guarded TTL map used to collapse
// bursts of identical external calls. It is an optimization only; a miss
// must always be recoverable by redoing the underlying call.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value  V
	expiry time.Time
}

// Cache is a TTL map with a fixed per-instance lifetime. Expired entries
// are treated as absent on read and removed by Sweep.
type Cache[V any] struct {
	ttl time.Duration

	mu      sync.Mutex
	entries map[string]entry[V]

	now func() time.Time // overridable in tests
}

func New[V any](ttl time.Duration) *Cache[V] {
	return &Cache[V]{
		ttl:     ttl,
		entries: make(map[string]entry[V]),
		now:     time.Now,
	}
}

func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || c.now().After(e.expiry) {
		var zero V
		return zero, false
	}
	return e.value, true
}

func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, expiry: c.now().Add(c.ttl)}
}

func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Sweep drops expired entries and reports how many were removed.
func (c *Cache[V]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	removed := 0
	for k, e := range c.entries {
		if now.After(e.expiry) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Len reports the number of entries, expired ones included.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
