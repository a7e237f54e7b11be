package metadata

import (
	"time"
)

// Store is the durable key/value mapping behind all persisted plugin state:
// auth tokens, the registered feed set, product snapshots and error records.
type Store interface {
	// Get retrieves a value by key. Returns ErrNotFound if the key is absent.
	Get(key string) (string, error)

	// Set stores a value, overwriting any previous one.
	Set(key, value string) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(key string) error

	// DeleteByPrefix removes every key starting with prefix.
	DeleteByPrefix(prefix string) error

	// Keys lists all keys starting with prefix.
	Keys(prefix string) ([]string, error)

	// LastModified returns when the key was last written.
	// Returns ErrNotFound if the key is absent.
	LastModified(key string) (time.Time, error)
}

type StoreError string

func (e StoreError) Error() string { return string(e) }

const (
	// ErrNotFound indicates the key does not exist.
	ErrNotFound StoreError = "metadata key not found"
)

// Well-known key prefixes.
const (
	KeyAccessToken    = "auth/access_token"
	KeyRefreshToken   = "auth/refresh_token"
	KeyAdvertiserID   = "auth/advertiser_id"
	KeyRegisteredFeed = "feeds/registered"
	SnapshotPrefix    = "snapshots/"
	ErrorPrefix       = "errors/"
)
