// Package cache provides a small in-memory TTL cache used by the store
// to avoid repeated lookups of hot rows (users, player profiles).
//
// Entries are invalidated explicitly on write by the store facade; the
// cache itself only handles expiry and size bounding.
package cache

import (
	"sync"
	"time"
)

// Config holds the cache configuration.
type Config struct {
	// DefaultTTL is the time-to-live applied to every entry.
	DefaultTTL time.Duration
	// CleanupInterval is how often the background sweeper runs.
	CleanupInterval time.Duration
	// MaxItems bounds the number of entries; inserts beyond the bound evict
	// the entry closest to expiry.
	MaxItems int
	// OnEviction, if set, is called with the key of every evicted entry.
	OnEviction func(key string)
}

type item struct {
	value     any
	expiresAt time.Time
}

// Cache is an in-memory key/value cache with per-entry expiry.
type Cache struct {
	mu     sync.RWMutex
	items  map[string]item
	config Config
	stop   chan struct{}
	once   sync.Once
}

// New creates a cache and starts its background sweeper.
func New(config Config) *Cache {
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = 10 * time.Minute
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = 5 * time.Minute
	}
	if config.MaxItems <= 0 {
		config.MaxItems = 1000
	}

	c := &Cache{
		items:  make(map[string]item),
		config: config,
		stop:   make(chan struct{}),
	}
	go c.sweep()
	return c
}

// Get returns the cached value for key, if present and not expired.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(it.expiresAt) {
		return nil, false
	}
	return it.value, true
}

// Set stores value under key with the default TTL.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.items) >= c.config.MaxItems {
		if _, exists := c.items[key]; !exists {
			c.evictOldestLocked()
		}
	}
	c.items[key] = item{
		value:     value,
		expiresAt: time.Now().Add(c.config.DefaultTTL),
	}
}

// Delete removes key from the cache.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.items = make(map[string]item)
	c.mu.Unlock()
}

// Close stops the background sweeper.
func (c *Cache) Close() {
	c.once.Do(func() {
		close(c.stop)
	})
}

func (c *Cache) evictOldestLocked() {
	var oldestKey string
	var oldestExpiry time.Time
	for key, it := range c.items {
		if oldestKey == "" || it.expiresAt.Before(oldestExpiry) {
			oldestKey = key
			oldestExpiry = it.expiresAt
		}
	}
	if oldestKey != "" {
		delete(c.items, oldestKey)
		if c.config.OnEviction != nil {
			c.config.OnEviction(oldestKey)
		}
	}
}

func (c *Cache) sweep() {
	ticker := time.NewTicker(c.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for key, it := range c.items {
				if now.After(it.expiresAt) {
					delete(c.items, key)
					if c.config.OnEviction != nil {
						c.config.OnEviction(key)
					}
				}
			}
			c.mu.Unlock()
		case <-c.stop:
			return
		}
	}
}
