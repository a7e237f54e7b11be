package pinterest

import "fmt"

// Feed is one registered catalog feed on the platform.
type Feed struct {
	ID              string `json:"id,omitempty"`
	Name            string `json:"name"`
	DefaultLocale   string `json:"default_locale"`
	DefaultCountry  string `json:"default_country"`
	DefaultCurrency string `json:"default_currency"`
	Format          string `json:"format"`
	Location        string `json:"location"`
	Status          string `json:"status,omitempty"`
}

type FeedsResponse struct {
	Items []Feed `json:"items"`
}

// APIError is the platform's JSON error shape, decoded once at the client
// boundary instead of probing response fields at every call site.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("pinterest API error: status=%d code=%d message=%s", e.Status, e.Code, e.Message)
}

// CatalogItem is one item in a catalog items batch operation.
type CatalogItem struct {
	ItemID     string                 `json:"item_id"`
	Attributes map[string]interface{} `json:"attributes"`
}

type CatalogItemsBatchRequest struct {
	Country   string        `json:"country"`
	Language  string        `json:"language"`
	Operation string        `json:"operation"`
	Items     []CatalogItem `json:"items"`
}

// UserData carries the (pre-hashed, where required) user identifiers for a
// conversion event.
type UserData struct {
	ClientIPAddress string   `json:"client_ip_address,omitempty"`
	ClientUserAgent string   `json:"client_user_agent,omitempty"`
	ExternalID      []string `json:"external_id,omitempty"`
	Em              []string `json:"em,omitempty"`
	Fn              []string `json:"fn,omitempty"`
	Ln              []string `json:"ln,omitempty"`
	Ge              []string `json:"ge,omitempty"`
	Db              []string `json:"db,omitempty"`
}

// ConversionEvent is one entry in the events endpoint's data array.
type ConversionEvent struct {
	EventName    string                 `json:"event_name"`
	ActionSource string                 `json:"action_source"`
	EventTime    int64                  `json:"event_time"`
	EventID      string                 `json:"event_id"`
	UserData     UserData               `json:"user_data"`
	PartnerName  string                 `json:"partner_name"`
	CustomData   map[string]interface{} `json:"custom_data,omitempty"`
}

// EventStatus is the per-item result the events endpoint returns.
type EventStatus struct {
	Status         string `json:"status"`
	ErrorMessage   string `json:"error_message,omitempty"`
	WarningMessage string `json:"warning_message,omitempty"`
}

type EventsResponse struct {
	NumEventsReceived  int           `json:"num_events_received"`
	NumEventsProcessed int           `json:"num_events_processed"`
	Events             []EventStatus `json:"events"`
}
