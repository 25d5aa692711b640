package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for snapshot caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from a document source (URL or path). The
// version tag invalidates every entry when the snapshot format changes.
func Key(source string) string {
	sum := sha256.Sum256([]byte(source))
	return "anchorage:v1:" + hex.EncodeToString(sum[:])
}
