package pinterest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"pinsync/internal/logger"
)

// TokenSource supplies the current bearer token. Returns ok=false when the
// account is not connected.
type TokenSource interface {
	AccessToken() (string, bool)
}

// StaticToken is a fixed TokenSource, mainly for tests.
type StaticToken string

func (t StaticToken) AccessToken() (string, bool) { return string(t), t != "" }

type Client struct {
	baseURL    string
	version    string
	tokens     TokenSource
	httpClient *http.Client
	logger     *logger.Logger
}

func NewClient(baseURL, version string, tokens TokenSource, logger *logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		version: version,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// HasToken reports whether a bearer token is currently available.
func (c *Client) HasToken() bool {
	_, ok := c.tokens.AccessToken()
	return ok
}

func (c *Client) url(path string) string {
	return fmt.Sprintf("%s/%s%s", c.baseURL, c.version, path)
}

// do runs one request and decodes the response exactly once: a 2xx body into
// out (when non-nil), anything else into the platform's {code, message} error
// shape. The returned int is the HTTP status code.
func (c *Client) do(method, path string, payload interface{}, out interface{}) (int, error) {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.url(path), body)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	if token, ok := c.tokens.AccessToken(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		if len(respBody) > 0 {
			if err := json.Unmarshal(respBody, apiErr); err != nil {
				apiErr.Message = string(respBody)
			}
		}
		return resp.StatusCode, apiErr
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp.StatusCode, nil
}
