// Package cache provides the advisory key/value store used to memoize
// generation results and formatted SELECT results. Absence never blocks
// correctness; it only forces recomputation.
package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Store is a key/value store with per-entry expiration. Values are opaque
// bytes; callers serialize with the JSON helpers below. Concurrent Set of
// the same key is last-write-wins.
type Store interface {
	// Get returns the value for key, or false if absent or expired.
	// Backend failures are reported as misses, never as request failures.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key for ttl. A nonpositive ttl stores without
	// expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Key derives a cache key from a canonical input string.
// MD5 is deliberate: this is a cache key, not a security boundary.
func Key(canonical string) string {
	sum := md5.Sum([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

// GetJSON reads key from the store and unmarshals it into target.
// Returns false on miss or on a payload that no longer deserializes.
func GetJSON(ctx context.Context, store Store, key string, target any) bool {
	raw, ok := store.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return false
	}
	return true
}

// SetJSON marshals value and stores it under key for ttl.
func SetJSON(ctx context.Context, store Store, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return store.Set(ctx, key, raw, ttl)
}
