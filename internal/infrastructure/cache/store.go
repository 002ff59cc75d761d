// Package cache provides the key/value stores used to memoize advice narratives.
package cache

import (
	"context"
	"time"
)

// Store is a byte-oriented key/value cache with per-entry expiry.
type Store interface {
	// Get returns the value for key and whether it was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key. A ttl <= 0 keeps the entry until evicted.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

const defaultKeyPrefix = "crm:advice:"
