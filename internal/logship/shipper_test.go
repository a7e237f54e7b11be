package logship

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pinsync/internal/cache"
	"pinsync/internal/logger"
	"pinsync/internal/pinterest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type logsCapture struct {
	requests int
	logs     [][]json.RawMessage
}

func (c *logsCapture) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.requests++
		var payload struct {
			Logs []json.RawMessage `json:"logs"`
		}
		json.NewDecoder(r.Body).Decode(&payload)
		c.logs = append(c.logs, payload.Logs)
		w.WriteHeader(http.StatusOK)
	})
}

func TestShipperSendsBatch(t *testing.T) {
	capture := &logsCapture{}
	server := httptest.NewServer(capture.handler())
	defer server.Close()

	client := pinterest.NewClient(server.URL, "v5", pinterest.StaticToken("token"), logger.New("error"))
	shipper := New(cache.NewMemoryCache(), client, logger.New("error"))
	ctx := context.Background()

	shipper.Add(ctx, "APP_START", "INFO", "extension initialized", nil)
	shipper.Flush(ctx)

	require.Equal(t, 1, capture.requests)
	require.Len(t, capture.logs[0], 1)

	var record Record
	require.NoError(t, json.Unmarshal(capture.logs[0][0], &record))
	assert.Equal(t, "APP_START", record.EventType)
	assert.Equal(t, "INFO", record.LogLevel)
	assert.Equal(t, "extension initialized", record.Message)
	assert.NotZero(t, record.ClientTimestamp)
}

func TestShipperDropsBatchWithoutToken(t *testing.T) {
	capture := &logsCapture{}
	server := httptest.NewServer(capture.handler())
	defer server.Close()

	c := cache.NewMemoryCache()
	client := pinterest.NewClient(server.URL, "v5", pinterest.StaticToken(""), logger.New("error"))
	shipper := New(c, client, logger.New("error"))
	ctx := context.Background()

	shipper.Add(ctx, "APP_START", "INFO", "before connect", nil)
	shipper.Flush(ctx)

	// No credential: remote call skipped, batch dropped.
	assert.Equal(t, 0, capture.requests)

	// The buffer was still cleared to bound storage.
	shipper.Flush(ctx)
	assert.Equal(t, 0, capture.requests)
	data, err := c.Get(ctx, "buffers/logs")
	require.NoError(t, err)
	var buf struct {
		Items []json.RawMessage `json:"items"`
	}
	require.NoError(t, json.Unmarshal(data, &buf))
	assert.Empty(t, buf.Items)
}
