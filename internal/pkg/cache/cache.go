// Package cache provides an in-process TTL cache with per-entry tag labels
// and bulk tag-based purge. Derived catalog reads are stored under composite
// keys and grouped by tag so one mutation can invalidate every potentially
// stale entry in a single call.
package cache

import (
	"encoding/json"
	"sync"
	"time"
)

const cleanupInterval = 5 * time.Minute

type item struct {
	value      []byte
	tags       []string
	expiration int64
}

// Cache is a thread-safe TTL cache with a tag index.
type Cache struct {
	mu         sync.RWMutex
	items      map[string]item
	byTag      map[string]map[string]struct{} // tag -> set of keys
	defaultTTL time.Duration
	stop       chan struct{}
	stopOnce   sync.Once
}

// New creates a cache with the given default TTL and starts the background
// expiry sweep.
func New(defaultTTL time.Duration) *Cache {
	c := &Cache{
		items:      make(map[string]item),
		byTag:      make(map[string]map[string]struct{}),
		defaultTTL: defaultTTL,
		stop:       make(chan struct{}),
	}
	go c.cleanupExpired()
	return c
}

// Set stores a JSON-serializable value under key with the given tags.
// A zero ttl uses the cache default.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration, tags []string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Drop any previous tag index entries for this key.
	c.unindexLocked(key)

	c.items[key] = item{
		value:      data,
		tags:       tags,
		expiration: time.Now().Add(ttl).UnixNano(),
	}
	for _, tag := range tags {
		keys, ok := c.byTag[tag]
		if !ok {
			keys = make(map[string]struct{})
			c.byTag[tag] = keys
		}
		keys[key] = struct{}{}
	}
	return nil
}

// Get unmarshals the cached value for key into target.
// Returns false when the key is absent or expired.
func (c *Cache) Get(key string, target interface{}) (bool, error) {
	c.mu.RLock()
	it, found := c.items[key]
	c.mu.RUnlock()

	if !found || time.Now().UnixNano() > it.expiration {
		return false, nil
	}

	if err := json.Unmarshal(it.value, target); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveByTags purges every entry labeled with any of the given tags.
func (c *Cache) RemoveByTags(tags []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, tag := range tags {
		for key := range c.byTag[tag] {
			c.unindexLocked(key)
			delete(c.items, key)
		}
		delete(c.byTag, tag)
	}
}

// Remove deletes a single entry.
func (c *Cache) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unindexLocked(key)
	delete(c.items, key)
}

// Clear drops every entry and the tag index.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]item)
	c.byTag = make(map[string]map[string]struct{})
}

// Size returns the number of entries, including not-yet-swept expired ones.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the background expiry sweep.
func (c *Cache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// unindexLocked removes key from the tag index. Caller holds the write lock.
func (c *Cache) unindexLocked(key string) {
	it, ok := c.items[key]
	if !ok {
		return
	}
	for _, tag := range it.tags {
		if keys, ok := c.byTag[tag]; ok {
			delete(keys, key)
			if len(keys) == 0 {
				delete(c.byTag, tag)
			}
		}
	}
}

// cleanupExpired sweeps expired entries periodically.
func (c *Cache) cleanupExpired() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			now := time.Now().UnixNano()
			c.mu.Lock()
			for key, it := range c.items {
				if now > it.expiration {
					c.unindexLocked(key)
					delete(c.items, key)
				}
			}
			c.mu.Unlock()
		}
	}
}
