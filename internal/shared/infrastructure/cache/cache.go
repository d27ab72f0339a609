// Package cache stores short-lived values whose freshness is decided by the
// reader. Callers pass the TTL on Get, and the age of an entry is measured
// with an injected clock so expiry can be tested without sleeping.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache is a key/value store with reader-supplied expiry.
type Cache interface {
	// Get returns the value stored under key when it is younger than ttl.
	// found is false for missing or stale entries.
	Get(ctx context.Context, key string, ttl time.Duration) (value []byte, found bool, err error)

	// Put stores value under key, stamped with the current time.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// fresh reports whether an entry stored at storedAt is still valid at now.
// A non-positive ttl never matches.
func fresh(storedAt, now time.Time, ttl time.Duration) bool {
	return ttl > 0 && now.Sub(storedAt) < ttl
}

// GetJSON reads and decodes a cached JSON value into v.
func GetJSON(ctx context.Context, c Cache, key string, ttl time.Duration, v any) (bool, error) {
	raw, found, err := c.Get(ctx, key, ttl)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

// PutJSON encodes v and stores it.
func PutJSON(ctx context.Context, c Cache, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s for cache: %w", key, err)
	}
	return c.Put(ctx, key, raw)
}
