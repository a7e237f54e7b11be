package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"pinsync/internal/cache"
	"pinsync/internal/config"
	"pinsync/internal/logger"
	"pinsync/internal/pinterest"
	"pinsync/internal/queue"

	"github.com/google/uuid"
)

const (
	// Flush thresholds for the conversion event buffer. The short hold time
	// means low-traffic stores effectively send immediately while bursts
	// still get batched.
	maxItems = 500
	maxHold  = 1 * time.Second

	bufferKey   = "buffers/events"
	partnerName = "ss-adobe"

	// Minimal crawler signature, matched as a case-insensitive substring.
	crawlerSignature = "bot"
)

// Event names as the conversions endpoint expects them.
const (
	EventPageVisit = "page_visit"
	EventSearch    = "search"
	EventAddToCart = "add_to_cart"
	EventCheckout  = "checkout"
)

// AdvertiserSource supplies the connected ad account ID. Returns ok=false
// when the account is not connected.
type AdvertiserSource interface {
	AdvertiserID() (string, bool)
}

// TrackRequest is the caller-supplied context for one conversion event.
// Identifier fields arrive already hashed where the platform requires it.
type TrackRequest struct {
	ClientIP   string
	UserAgent  string
	ExternalID string
	Em         string
	Fn         string
	Ln         string
	Ge         string
	Db         string
	CustomData map[string]interface{}
}

// Tracker batches conversion events to the platform's events endpoint.
type Tracker struct {
	client     *pinterest.Client
	advertiser AdvertiserSource
	queue      *queue.Queue
	features   config.Features
	logger     *logger.Logger
}

func NewTracker(c cache.Cache, client *pinterest.Client, advertiser AdvertiserSource, features config.Features, logger *logger.Logger) *Tracker {
	t := &Tracker{
		client:     client,
		advertiser: advertiser,
		features:   features,
		logger:     logger,
	}
	t.queue = queue.New(c, bufferKey, maxItems, maxHold, t.send, logger)
	return t
}

// Track buffers one conversion event. Crawler traffic is dropped outright so
// it neither pollutes metrics nor consumes API quota. Never reports failure
// to the caller.
func (t *Tracker) Track(ctx context.Context, eventName string, req TrackRequest) {
	if !t.features.ConversionsEnabled {
		return
	}
	if IsCrawler(req.UserAgent) {
		return
	}

	t.queue.Enqueue(ctx, t.buildEvent(eventName, req))
}

// Flush drains any buffered events immediately.
func (t *Tracker) Flush(ctx context.Context) {
	t.queue.Flush(ctx)
}

func (t *Tracker) buildEvent(eventName string, req TrackRequest) pinterest.ConversionEvent {
	customData := map[string]interface{}{}
	for k, v := range req.CustomData {
		customData[k] = v
	}
	// np is fixed, whatever the caller supplied
	customData["np"] = partnerName

	userData := pinterest.UserData{
		ClientIPAddress: req.ClientIP,
		ClientUserAgent: req.UserAgent,
	}
	if req.ExternalID != "" {
		userData.ExternalID = []string{req.ExternalID}
	}
	if req.Em != "" {
		userData.Em = []string{req.Em}
	}
	if req.Fn != "" {
		userData.Fn = []string{req.Fn}
	}
	if req.Ln != "" {
		userData.Ln = []string{req.Ln}
	}
	if req.Ge != "" {
		userData.Ge = []string{req.Ge}
	}
	if req.Db != "" {
		userData.Db = []string{req.Db}
	}

	return pinterest.ConversionEvent{
		EventName:    eventName,
		ActionSource: "web",
		EventTime:    time.Now().Unix(),
		EventID:      uuid.New().String(),
		UserData:     userData,
		PartnerName:  partnerName,
		CustomData:   customData,
	}
}

// send is the queue sink. Per-item failures are logged but never retried:
// the batch counts as sent either way.
func (t *Tracker) send(ctx context.Context, items []json.RawMessage) error {
	advertiserID, ok := t.advertiser.AdvertiserID()
	if !ok {
		t.logger.Debug("events: no connected ad account, dropping %d events", len(items))
		return nil
	}

	resp, err := t.client.SendEvents(advertiserID, items)
	if err != nil {
		return err
	}

	for i, status := range resp.Events {
		if status.ErrorMessage != "" {
			t.logger.Error("events: item %d failed: %s", i, status.ErrorMessage)
		} else if status.WarningMessage != "" {
			t.logger.Warn("events: item %d: %s", i, status.WarningMessage)
		}
	}
	return nil
}

// IsCrawler reports whether the user agent looks like crawler traffic.
func IsCrawler(userAgent string) bool {
	return strings.Contains(strings.ToLower(userAgent), crawlerSignature)
}
