package metadata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get("missing")
	assert.Equal(t, ErrNotFound, err)

	require.NoError(t, store.Set("auth/access_token", "tok"))
	value, err := store.Get("auth/access_token")
	require.NoError(t, err)
	assert.Equal(t, "tok", value)

	require.NoError(t, store.Delete("auth/access_token"))
	_, err = store.Get("auth/access_token")
	assert.Equal(t, ErrNotFound, err)
}

func TestMemoryStoreDeleteByPrefix(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set("snapshots/p1", "a"))
	require.NoError(t, store.Set("snapshots/p2", "b"))
	require.NoError(t, store.Set("auth/access_token", "tok"))

	require.NoError(t, store.DeleteByPrefix("snapshots/"))

	keys, err := store.Keys("snapshots/")
	require.NoError(t, err)
	assert.Empty(t, keys)

	value, err := store.Get("auth/access_token")
	require.NoError(t, err)
	assert.Equal(t, "tok", value)
}

func TestMemoryStoreLastModified(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.LastModified("missing")
	assert.Equal(t, ErrNotFound, err)

	before := time.Now()
	require.NoError(t, store.Set("key", "value"))
	modified, err := store.LastModified("key")
	require.NoError(t, err)
	assert.False(t, modified.Before(before.Add(-time.Second)))
}
