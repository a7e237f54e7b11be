package pinterest

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// SendEvents posts a batch of conversion events for one ad account. The
// endpoint reports per-item outcomes; the batch as a whole counts as sent
// even when individual items fail.
func (c *Client) SendEvents(advertiserID string, events []json.RawMessage) (*EventsResponse, error) {
	payload := struct {
		Data []json.RawMessage `json:"data"`
	}{Data: events}

	var resp EventsResponse
	path := fmt.Sprintf("/ad_accounts/%s/events", advertiserID)
	if _, err := c.do(http.MethodPost, path, payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendLogs ships a batch of integration log records. Only the status code
// matters; the body is not parsed.
func (c *Client) SendLogs(logs []json.RawMessage) error {
	payload := struct {
		Logs []json.RawMessage `json:"logs"`
	}{Logs: logs}

	_, err := c.do(http.MethodPost, "/integrations/logs", payload, nil)
	return err
}
