package services

import (
	"context"
	"time"
)

// Cache is the key/value store CachedIllustrator keeps generated images in.
// RedisService is the production implementation.
type Cache interface {
	// Get returns "" and a nil error for a missing key
	Get(ctx context.Context, key string) (string, error)

	// Set stores a key-value pair; zero expiration means no TTL
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}
