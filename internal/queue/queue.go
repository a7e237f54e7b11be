package queue

import (
	"context"
	"encoding/json"
	"time"

	"pinsync/internal/cache"
	"pinsync/internal/logger"
)

// Sink receives the drained contents of a buffer as one batch.
type Sink func(ctx context.Context, items []json.RawMessage) error

// buffer is the persisted accumulator state. It lives as one cache blob per
// queue key; concurrent read-modify-write cycles race on purpose (last write
// wins), matching the at-most-once delivery the sinks provide.
type buffer struct {
	StartTime time.Time         `json:"start_time"`
	Items     []json.RawMessage `json:"items"`
}

// Queue accumulates JSON-serializable records and flushes them as a single
// batch when either the item count or the buffer age crosses its threshold.
// State is persisted between invocations so it survives across independent
// request lifecycles.
type Queue struct {
	cache    cache.Cache
	key      string
	maxItems int
	maxHold  time.Duration
	sink     Sink
	logger   *logger.Logger
	now      func() time.Time
}

func New(c cache.Cache, key string, maxItems int, maxHold time.Duration, sink Sink, logger *logger.Logger) *Queue {
	return &Queue{
		cache:    c,
		key:      key,
		maxItems: maxItems,
		maxHold:  maxHold,
		sink:     sink,
		logger:   logger,
		now:      time.Now,
	}
}

// Enqueue appends item to the buffer and flushes if a threshold tripped.
// It never reports failure to the caller: a queueing problem must not break
// the user-facing action that triggered it.
func (q *Queue) Enqueue(ctx context.Context, item interface{}) {
	raw, err := json.Marshal(item)
	if err != nil {
		q.logger.Error("queue %s: failed to marshal item: %v", q.key, err)
		return
	}

	buf := q.load(ctx)
	if len(buf.Items) == 0 {
		buf.StartTime = q.now()
	}
	buf.Items = append(buf.Items, raw)

	if q.shouldFlush(buf) {
		q.drainAndSend(ctx, buf.Items)
		return
	}

	q.persist(ctx, buf)
}

// Flush unconditionally drains the buffer and sends its contents. Flushing
// an empty buffer is a no-op with no remote call.
func (q *Queue) Flush(ctx context.Context) {
	buf := q.load(ctx)
	if len(buf.Items) == 0 {
		return
	}
	q.drainAndSend(ctx, buf.Items)
}

func (q *Queue) shouldFlush(buf buffer) bool {
	return q.now().Sub(buf.StartTime) > q.maxHold || len(buf.Items) >= q.maxItems
}

// drainAndSend resets the persisted buffer before attempting the send, so a
// failure loses the batch instead of risking a duplicate delivery.
func (q *Queue) drainAndSend(ctx context.Context, items []json.RawMessage) {
	q.persist(ctx, buffer{StartTime: q.now()})

	if err := q.sink(ctx, items); err != nil {
		q.logger.Error("queue %s: batch send failed, %d items dropped: %v", q.key, len(items), err)
	}
}

func (q *Queue) load(ctx context.Context) buffer {
	data, err := q.cache.Get(ctx, q.key)
	if err == cache.ErrCacheMiss {
		return buffer{}
	}
	if err != nil {
		q.logger.Error("queue %s: failed to load buffer: %v", q.key, err)
		return buffer{}
	}

	var buf buffer
	if err := json.Unmarshal(data, &buf); err != nil {
		q.logger.Error("queue %s: discarding corrupt buffer: %v", q.key, err)
		return buffer{}
	}
	return buf
}

func (q *Queue) persist(ctx context.Context, buf buffer) {
	data, err := json.Marshal(buf)
	if err != nil {
		q.logger.Error("queue %s: failed to marshal buffer: %v", q.key, err)
		return
	}
	if err := q.cache.Set(ctx, q.key, data); err != nil {
		q.logger.Error("queue %s: failed to persist buffer: %v", q.key, err)
	}
}
