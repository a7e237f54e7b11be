package cache

import (
	"context"
)

// Cache is the shared mutable store backing the batch buffers. Values are
// whole buffer blobs written with plain get/set: concurrent writers race and
// the last write wins. The buffers carry best-effort, at-most-once batches,
// so a lost enqueue is acceptable.
type Cache interface {
	// Get retrieves a value by key. Returns ErrCacheMiss if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value, overwriting any previous one.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error
}

type CacheError string

func (e CacheError) Error() string { return string(e) }

const (
	// ErrCacheMiss indicates the key was not found in cache.
	ErrCacheMiss CacheError = "cache miss"
)
