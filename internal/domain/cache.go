package domain

import (
	"context"
	"time"
)

// CacheError represents an error originating from the cache.
type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

// ErrCacheMiss is returned when a key is not found in the cache.
const ErrCacheMiss = CacheError("cache: key not found")

// Cache is the key/value port used for session revocation, password reset
// tokens and the question list.
type Cache interface {
	// Get returns ErrCacheMiss if the key is not found.
	Get(ctx context.Context, key string) (string, error)
	// Set with a zero expiration keeps the value until deleted.
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	// Delete does not fail on a missing key.
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
