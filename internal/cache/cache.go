// Package cache provides a TTL-bounded cache for cleaned page text. Entries
// expire quickly so page content changing between requests cannot poison a
// later verdict.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is the minimal caching interface used by the fetcher
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key from a URL
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "claimcheck:v1:" + hex.EncodeToString(hash[:])
}
