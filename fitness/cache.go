package fitness

import "sync"

// Cache memoizes compile outcomes by selected line fingerprint
type Cache struct {
	mux     sync.RWMutex
	entries map[uint64]float64
	hits    int
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{entries: map[uint64]float64{}}
}

// Get returns a cached compile score
func (c *Cache) Get(key uint64) (float64, bool) {
	c.mux.RLock()
	score, ok := c.entries[key]
	c.mux.RUnlock()
	if ok {
		c.mux.Lock()
		c.hits++
		c.mux.Unlock()
	}
	return score, ok
}

// Put stores a compile score
func (c *Cache) Put(key uint64, score float64) {
	c.mux.Lock()
	c.entries[key] = score
	c.mux.Unlock()
}

// Hits returns the number of cache hits
func (c *Cache) Hits() int {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return c.hits
}

// Len returns the number of cached entries
func (c *Cache) Len() int {
	c.mux.RLock()
	defer c.mux.RUnlock()
	return len(c.entries)
}
