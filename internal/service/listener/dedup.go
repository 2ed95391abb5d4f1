package listener

import "sync"

const DefaultDedupCapacity = 10000

// DedupCache is a bounded set of delivered message keys. Once full, each
// new key evicts the oldest inserted one (FIFO, lookups do not refresh).
type DedupCache struct {
	mu    sync.Mutex
	ring  []string
	next  int
	size  int
	index map[string]struct{}
}

func NewDedupCache(capacity int) *DedupCache {
	if capacity <= 0 {
		capacity = DefaultDedupCapacity
	}
	return &DedupCache{
		ring:  make([]string, capacity),
		index: make(map[string]struct{}, capacity),
	}
}

// IsNew reports whether key has not been marked yet (or was evicted).
func (c *DedupCache) IsNew(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, seen := c.index[key]
	return !seen
}

// MarkProcessed inserts key. Marking a present key does nothing, so it
// never pushes an unrelated key out.
func (c *DedupCache) MarkProcessed(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.insert(key)
}

// MarkIfNew inserts key and reports true when it was not present, as one
// atomic step.
func (c *DedupCache) MarkIfNew(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.insert(key)
}

func (c *DedupCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

func (c *DedupCache) Cap() int {
	return len(c.ring)
}

func (c *DedupCache) insert(key string) bool {
	if _, seen := c.index[key]; seen {
		return false
	}

	if c.size == len(c.ring) {
		delete(c.index, c.ring[c.next])
	} else {
		c.size++
	}

	c.ring[c.next] = key
	c.index[key] = struct{}{}
	c.next = (c.next + 1) % len(c.ring)
	return true
}
