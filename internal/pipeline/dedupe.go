package pipeline

import (
	"sync"
)

// DefaultCacheCapacity bounds the in-memory hash set.
const DefaultCacheCapacity = 10000

// Cache is a bounded, process-local set of content hashes. It is the first
// line of defense against redundant outbound calls; the durable guarantee
// lives in the storage unique index, so losing this cache on restart is fine.
// Eviction is least-recently-inserted.
type Cache struct {
	mu       sync.Mutex
	capacity int
	seen     map[string]struct{}
	order    []string
}

func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &Cache{
		capacity: capacity,
		seen:     make(map[string]struct{}, capacity),
	}
}

// Seen reports whether the (sourceLabel, text) pair was already recorded,
// recording it when it was not.
func (c *Cache) Seen(sourceLabel, text string) bool {
	hash := ContentHash(sourceLabel, text)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.seen[hash]; ok {
		return true
	}

	c.seen[hash] = struct{}{}
	c.order = append(c.order, hash)
	for len(c.order) > c.capacity {
		delete(c.seen, c.order[0])
		c.order = c.order[1:]
	}
	return false
}

// Len returns the number of recorded hashes.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}
