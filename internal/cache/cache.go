// Package cache provides the TTL key/value cache shared by recognition
// jobs. Entries are last-write-wins.
package cache

import (
	"context"
	"time"
)

// Cache stores string values with a time-to-live.
type Cache interface {
	// Get returns the value for key. ok is false on a miss or an expired entry.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key for ttl, replacing any previous value.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}
