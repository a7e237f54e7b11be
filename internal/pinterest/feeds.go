package pinterest

import (
	"fmt"
	"net/http"
)

// GetFeeds lists the catalog feeds currently registered on the platform.
func (c *Client) GetFeeds() ([]Feed, error) {
	var resp FeedsResponse
	if _, err := c.do(http.MethodGet, "/catalogs/feeds", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// CreateFeed registers a new catalog feed and returns it with the
// platform-assigned ID.
func (c *Client) CreateFeed(feed Feed) (*Feed, error) {
	var created Feed
	if _, err := c.do(http.MethodPost, "/catalogs/feeds", feed, &created); err != nil {
		return nil, err
	}
	if created.ID == "" {
		return nil, fmt.Errorf("feed created without an id")
	}
	return &created, nil
}

// DeleteFeed removes a registered feed. A 404 means the feed is already
// gone and counts as success.
func (c *Client) DeleteFeed(feedID string) error {
	status, err := c.do(http.MethodDelete, "/catalogs/feeds/"+feedID, nil, nil)
	if status == http.StatusNotFound {
		return nil
	}
	return err
}

// CatalogItemsBatch submits one batch operation against the catalog items
// endpoint.
func (c *Client) CatalogItemsBatch(req CatalogItemsBatchRequest) error {
	_, err := c.do(http.MethodPost, "/catalogs/items/batch", req, nil)
	return err
}
