package queue

import (
	"context"
	"encoding/json"
	"time"

	"pinsync/internal/cache"
	"pinsync/internal/logger"
)

// IDSink receives the drained set of IDs as one batch.
type IDSink func(ctx context.Context, ids []string) error

type idBuffer struct {
	StartTime time.Time `json:"start_time"`
	IDs       []string  `json:"ids"`
}

// IDSet is the deduplicated variant of Queue: an ID added twice before a
// flush appears once. It follows the same age/size flush policy and the
// same clear-first, at-most-once send ordering.
type IDSet struct {
	cache   cache.Cache
	key     string
	maxIDs  int
	maxHold time.Duration
	sink    IDSink
	logger  *logger.Logger
	now     func() time.Time
}

func NewIDSet(c cache.Cache, key string, maxIDs int, maxHold time.Duration, sink IDSink, logger *logger.Logger) *IDSet {
	return &IDSet{
		cache:   c,
		key:     key,
		maxIDs:  maxIDs,
		maxHold: maxHold,
		sink:    sink,
		logger:  logger,
		now:     time.Now,
	}
}

// Add inserts id into the pending set and flushes if a threshold tripped.
// Never reports failure to the caller.
func (s *IDSet) Add(ctx context.Context, id string) {
	buf := s.load(ctx)
	if len(buf.IDs) == 0 {
		buf.StartTime = s.now()
	}

	present := false
	for _, existing := range buf.IDs {
		if existing == id {
			present = true
			break
		}
	}
	if !present {
		buf.IDs = append(buf.IDs, id)
	}

	if s.now().Sub(buf.StartTime) > s.maxHold || len(buf.IDs) >= s.maxIDs {
		s.drainAndSend(ctx, buf.IDs)
		return
	}

	s.persist(ctx, buf)
}

// Flush unconditionally drains the pending set. Empty set is a no-op.
func (s *IDSet) Flush(ctx context.Context) {
	buf := s.load(ctx)
	if len(buf.IDs) == 0 {
		return
	}
	s.drainAndSend(ctx, buf.IDs)
}

func (s *IDSet) drainAndSend(ctx context.Context, ids []string) {
	s.persist(ctx, idBuffer{StartTime: s.now()})

	if err := s.sink(ctx, ids); err != nil {
		s.logger.Error("idset %s: batch send failed, %d ids dropped: %v", s.key, len(ids), err)
	}
}

func (s *IDSet) load(ctx context.Context) idBuffer {
	data, err := s.cache.Get(ctx, s.key)
	if err == cache.ErrCacheMiss {
		return idBuffer{}
	}
	if err != nil {
		s.logger.Error("idset %s: failed to load buffer: %v", s.key, err)
		return idBuffer{}
	}

	var buf idBuffer
	if err := json.Unmarshal(data, &buf); err != nil {
		s.logger.Error("idset %s: discarding corrupt buffer: %v", s.key, err)
		return idBuffer{}
	}
	return buf
}

func (s *IDSet) persist(ctx context.Context, buf idBuffer) {
	data, err := json.Marshal(buf)
	if err != nil {
		s.logger.Error("idset %s: failed to marshal buffer: %v", s.key, err)
		return
	}
	if err := s.cache.Set(ctx, s.key, data); err != nil {
		s.logger.Error("idset %s: failed to persist buffer: %v", s.key, err)
	}
}
