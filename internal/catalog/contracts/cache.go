package contracts

import "time"

// CacheService is a key/value cache with per-entry tag labels and bulk
// tag-based purge.
type CacheService interface {
	// Get unmarshals the cached value for key into target.
	// Returns false when the key is absent or expired.
	Get(key string, target interface{}) (bool, error)

	// Set stores a value under key with the given tags. A zero ttl uses the
	// cache default.
	Set(key string, value interface{}, ttl time.Duration, tags []string) error

	// RemoveByTags purges every entry labeled with any of the given tags.
	RemoveByTags(tags []string)
}
