package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"pinsync/internal/cache"
	"pinsync/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type batchRecorder struct {
	batches [][]json.RawMessage
	err     error
}

func (r *batchRecorder) sink(ctx context.Context, items []json.RawMessage) error {
	r.batches = append(r.batches, items)
	return r.err
}

func bufferLen(t *testing.T, c cache.Cache, key string) int {
	t.Helper()
	data, err := c.Get(context.Background(), key)
	if err == cache.ErrCacheMiss {
		return 0
	}
	require.NoError(t, err)
	var buf buffer
	require.NoError(t, json.Unmarshal(data, &buf))
	return len(buf.Items)
}

func TestQueueFlushesOnSizeThreshold(t *testing.T) {
	c := cache.NewMemoryCache()
	rec := &batchRecorder{}
	q := New(c, "test", 3, time.Hour, rec.sink, logger.New("error"))
	ctx := context.Background()

	q.Enqueue(ctx, "a")
	q.Enqueue(ctx, "b")
	assert.Empty(t, rec.batches)
	assert.Equal(t, 2, bufferLen(t, c, "test"))

	q.Enqueue(ctx, "c")
	require.Len(t, rec.batches, 1)
	assert.Len(t, rec.batches[0], 3)
	assert.Equal(t, 0, bufferLen(t, c, "test"))
}

func TestQueueFlushesOnAgeThreshold(t *testing.T) {
	c := cache.NewMemoryCache()
	rec := &batchRecorder{}
	q := New(c, "test", 500, time.Second, rec.sink, logger.New("error"))
	ctx := context.Background()

	now := time.Now()
	q.now = func() time.Time { return now }
	q.Enqueue(ctx, "a")
	assert.Empty(t, rec.batches)

	// A single item enqueued after the hold time flushes immediately.
	q.now = func() time.Time { return now.Add(2 * time.Second) }
	q.Enqueue(ctx, "b")
	require.Len(t, rec.batches, 1)
	assert.Len(t, rec.batches[0], 2)
	assert.Equal(t, 0, bufferLen(t, c, "test"))
}

func TestQueueFlushOnEmptyBufferIsNoop(t *testing.T) {
	c := cache.NewMemoryCache()
	rec := &batchRecorder{}
	q := New(c, "test", 10, time.Hour, rec.sink, logger.New("error"))

	q.Flush(context.Background())
	assert.Empty(t, rec.batches)
}

func TestQueueClearsBufferBeforeSend(t *testing.T) {
	c := cache.NewMemoryCache()
	rec := &batchRecorder{err: errors.New("sink down")}
	q := New(c, "test", 2, time.Hour, rec.sink, logger.New("error"))
	ctx := context.Background()

	q.Enqueue(ctx, "a")
	q.Enqueue(ctx, "b")

	// Send failed, but at-most-once means the batch is gone.
	require.Len(t, rec.batches, 1)
	assert.Equal(t, 0, bufferLen(t, c, "test"))
}

func TestQueueManualFlushDrainsBuffer(t *testing.T) {
	c := cache.NewMemoryCache()
	rec := &batchRecorder{}
	q := New(c, "test", 10, time.Hour, rec.sink, logger.New("error"))
	ctx := context.Background()

	q.Enqueue(ctx, map[string]string{"k": "v"})
	q.Flush(ctx)

	require.Len(t, rec.batches, 1)
	require.Len(t, rec.batches[0], 1)
	assert.JSONEq(t, `{"k":"v"}`, string(rec.batches[0][0]))
}

type idRecorder struct {
	batches [][]string
}

func (r *idRecorder) sink(ctx context.Context, ids []string) error {
	r.batches = append(r.batches, ids)
	return nil
}

func TestIDSetDeduplicates(t *testing.T) {
	c := cache.NewMemoryCache()
	rec := &idRecorder{}
	s := NewIDSet(c, "pending", 10, time.Hour, rec.sink, logger.New("error"))
	ctx := context.Background()

	s.Add(ctx, "p1")
	s.Add(ctx, "p1")
	s.Add(ctx, "p2")
	s.Flush(ctx)

	require.Len(t, rec.batches, 1)
	assert.Equal(t, []string{"p1", "p2"}, rec.batches[0])
}

func TestIDSetFlushesOnSizeThreshold(t *testing.T) {
	c := cache.NewMemoryCache()
	rec := &idRecorder{}
	s := NewIDSet(c, "pending", 2, time.Hour, rec.sink, logger.New("error"))
	ctx := context.Background()

	s.Add(ctx, "p1")
	assert.Empty(t, rec.batches)
	s.Add(ctx, "p2")
	require.Len(t, rec.batches, 1)
	assert.Equal(t, []string{"p1", "p2"}, rec.batches[0])

	// Buffer is empty again.
	s.Flush(ctx)
	assert.Len(t, rec.batches, 1)
}
