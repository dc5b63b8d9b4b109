package posclient

import "sync"

// Query cache keys. Mutations name the keys they invalidate; a successful
// write drops those entries so the next read refetches, a failed write
// leaves the cache untouched.
const (
	cacheKeyOrders    = "orders"
	cacheKeyStoreName = "settings:store_name"
)

// cache is a small keyed response cache. No TTLs: entries live until a
// mutation invalidates them or the process exits.
type cache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func newCache() *cache {
	return &cache{entries: make(map[string][]byte)}
}

func (c *cache) get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.entries[key]
	return data, ok
}

func (c *cache) set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = data
}

func (c *cache) invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
}
