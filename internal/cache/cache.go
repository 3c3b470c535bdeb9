package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when a key is not present or has expired.
var ErrCacheMiss = errors.New("cache miss")

// Cache defines the cache interface
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Clear(ctx context.Context, pattern string) error
}

// IdempotencyKey builds the cache key for a stored idempotent response.
func IdempotencyKey(key, signature string) string {
	return "idem:" + key + ":" + signature
}

// TenantKey builds the cache key for a resolved tenant lookup.
func TenantKey(designator string) string {
	return "tenant:" + designator
}
