package logship

import (
	"context"
	"encoding/json"
	"time"

	"pinsync/internal/cache"
	"pinsync/internal/logger"
	"pinsync/internal/pinterest"
	"pinsync/internal/queue"
)

const (
	maxItems = 500
	maxHold  = 3 * time.Second

	bufferKey = "buffers/logs"
)

// Record is one integration log entry shipped to the platform.
type Record struct {
	ClientTimestamp int64                  `json:"client_timestamp"`
	EventType       string                 `json:"event_type"`
	LogLevel        string                 `json:"log_level"`
	Message         string                 `json:"message"`
	AppVersion      string                 `json:"app_version_number,omitempty"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
}

// Shipper batches diagnostic log records to the integrations logs endpoint.
type Shipper struct {
	client *pinterest.Client
	queue  *queue.Queue
	logger *logger.Logger
}

func New(c cache.Cache, client *pinterest.Client, logger *logger.Logger) *Shipper {
	s := &Shipper{
		client: client,
		logger: logger,
	}
	s.queue = queue.New(c, bufferKey, maxItems, maxHold, s.send, logger)
	return s
}

// Add buffers one log record. Never reports failure to the caller.
func (s *Shipper) Add(ctx context.Context, eventType, level, message string, metadata map[string]interface{}) {
	s.queue.Enqueue(ctx, Record{
		ClientTimestamp: time.Now().Unix(),
		EventType:       eventType,
		LogLevel:        level,
		Message:         message,
		Metadata:        metadata,
	})
}

// Flush drains any buffered records immediately.
func (s *Shipper) Flush(ctx context.Context) {
	s.queue.Flush(ctx)
}

// send is the queue sink. Without a token there is nothing to authenticate
// with; the batch is dropped rather than held. Logs generated before the
// initial connection are not retryable and must not grow unboundedly. The
// buffer itself was already cleared by the queue.
func (s *Shipper) send(ctx context.Context, items []json.RawMessage) error {
	if !s.client.HasToken() {
		s.logger.Debug("logship: not connected, dropping %d log records", len(items))
		return nil
	}
	return s.client.SendLogs(items)
}
