// Package cache defines the response cache used in front of the call store.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long server-side entries live unless configured otherwise.
const DefaultTTL = 60 * time.Second

// Cache is a key-value store with per-entry expiry. Values are opaque bytes,
// usually JSON. Any backend (memory, Redis) must honour the same contract.
type Cache interface {
	// Get returns the value for key, or ok=false on a miss or an expired entry.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

const (
	KeyIDs = "ids"

	metadataPrefix   = "metadata:"
	transcriptPrefix = "transcript:"
)

func MetadataKey(callID string) string {
	return metadataPrefix + callID
}

func TranscriptKey(callID string) string {
	return transcriptPrefix + callID
}
