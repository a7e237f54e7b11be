package pinterest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pinsync/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient(server.URL, "v5", StaticToken("token"), logger.New("error"))
	return client, server
}

func TestGetFeedsParsesItems(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v5/catalogs/feeds", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"id":"f1","name":"feed-one","default_locale":"en_US","format":"XML"}]}`))
	}))
	defer server.Close()

	feeds, err := client.GetFeeds()
	require.NoError(t, err)
	require.Len(t, feeds, 1)
	assert.Equal(t, "f1", feeds[0].ID)
	assert.Equal(t, "feed-one", feeds[0].Name)
}

func TestErrorShapeDecodedOnce(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"code":4170,"message":"feed already exists"}`))
	}))
	defer server.Close()

	_, err := client.CreateFeed(Feed{Name: "dup"})
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, 4170, apiErr.Code)
	assert.Equal(t, "feed already exists", apiErr.Message)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
}

func TestDeleteFeedTreats404AsGone(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":4162,"message":"feed not found"}`))
	}))
	defer server.Close()

	assert.NoError(t, client.DeleteFeed("gone"))
}

func TestDeleteFeedSucceedsOn204(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	assert.NoError(t, client.DeleteFeed("f1"))
}

func TestCreateFeedRequiresID(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":"no-id"}`))
	}))
	defer server.Close()

	_, err := client.CreateFeed(Feed{Name: "no-id"})
	assert.Error(t, err)
}

func TestSendEventsReturnsPerItemStatuses(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v5/ad_accounts/adv-1/events", r.URL.Path)

		var payload struct {
			Data []json.RawMessage `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Len(t, payload.Data, 2)

		w.Write([]byte(`{"num_events_received":2,"num_events_processed":1,"events":[{"status":"processed"},{"status":"failed","error_message":"bad event_time"}]}`))
	}))
	defer server.Close()

	resp, err := client.SendEvents("adv-1", []json.RawMessage{
		json.RawMessage(`{"event_name":"checkout"}`),
		json.RawMessage(`{"event_name":"search"}`),
	})
	require.NoError(t, err)
	require.Len(t, resp.Events, 2)
	assert.Equal(t, "bad event_time", resp.Events[1].ErrorMessage)
}

func TestSendLogsOnlyChecksStatus(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v5/integrations/logs", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := client.SendLogs([]json.RawMessage{json.RawMessage(`{"message":"hi"}`)})
	assert.NoError(t, err)
}

func TestCatalogItemsBatch(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v5/catalogs/items/batch", r.URL.Path)

		var req CatalogItemsBatchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "UPDATE", req.Operation)
		assert.Equal(t, "US", req.Country)

		w.Write([]byte(`{"batch_id":"b1"}`))
	}))
	defer server.Close()

	err := client.CatalogItemsBatch(CatalogItemsBatchRequest{
		Country:   "US",
		Language:  "en",
		Operation: "UPDATE",
		Items:     []CatalogItem{{ItemID: "sku-1", Attributes: map[string]interface{}{"price": "1.00 USD"}}},
	})
	assert.NoError(t, err)
}
