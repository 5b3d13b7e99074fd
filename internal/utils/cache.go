package utils

import (
	"os"
	"sync"
	"time"
)

type cacheItem[V any] struct {
	value   V
	modTime time.Time
	size    int64
}

// Cache holds values derived from files and drops an entry once its file
// changes on disk
type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]*cacheItem[V]
}

// NewCache creates an empty cache
func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		items: make(map[K]*cacheItem[V]),
	}
}

// Get returns the value cached for key if filePath still has the same
// modification time and size as when it was stored
func (c *Cache[K, V]) Get(key K, filePath string) (V, bool) {
	var zero V

	c.mu.RLock()
	item, exists := c.items[key]
	c.mu.RUnlock()
	if !exists {
		return zero, false
	}

	stat, err := os.Stat(filePath)
	if err == nil && stat.ModTime().Equal(item.modTime) && stat.Size() == item.size {
		return item.value, true
	}

	c.Delete(key)
	return zero, false
}

// Set stores value for key along with the current state of filePath
func (c *Cache[K, V]) Set(key K, value V, filePath string) error {
	stat, err := os.Stat(filePath)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = &cacheItem[V]{
		value:   value,
		modTime: stat.ModTime(),
		size:    stat.Size(),
	}
	return nil
}

// Delete removes key from the cache
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

// Clear removes every entry
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*cacheItem[V])
}

// Size returns the number of cached entries
func (c *Cache[K, V]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}
