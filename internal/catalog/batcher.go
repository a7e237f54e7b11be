package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pinsync/internal/cache"
	"pinsync/internal/config"
	"pinsync/internal/logger"
	"pinsync/internal/metadata"
	"pinsync/internal/models"
	"pinsync/internal/pinterest"
	"pinsync/internal/queue"
)

const (
	maxPending = 500
	maxHold    = 60 * time.Second

	pendingKey = "buffers/catalog"

	// Hard cap on product identifiers listed in the admin notification.
	notifyCap = 100
)

// API is the slice of the platform client the batcher needs.
type API interface {
	HasToken() bool
	CatalogItemsBatch(req pinterest.CatalogItemsBatchRequest) error
}

// Notifier raises an admin-facing summary of a flushed batch.
type Notifier interface {
	Notify(title, body string)
}

// SaveEvent is one observed product save.
type SaveEvent struct {
	ProductID string
	Price     float64
	SalePrice *float64
	Currency  string
	IsInStock bool
	Qty       float64
}

// snapshot is the normalized, serialized representation used purely for
// change detection. Field order is fixed so the byte-for-byte comparison of
// the marshaled form is meaningful.
type snapshot struct {
	Price        string `json:"price"`
	SalePrice    string `json:"sale_price,omitempty"`
	Availability string `json:"availability"`
}

// Batcher turns a stream of per-product save events into deduplicated,
// rate-limited batch UPDATE calls against the catalog items endpoint.
type Batcher struct {
	client     API
	store      metadata.Store
	pending    *queue.IDSet
	storefront models.Storefront
	notifier   Notifier
	features   config.Features
	logger     *logger.Logger
}

func NewBatcher(c cache.Cache, client API, store metadata.Store, storefront models.Storefront, notifier Notifier, features config.Features, logger *logger.Logger) *Batcher {
	b := &Batcher{
		client:     client,
		store:      store,
		storefront: storefront,
		notifier:   notifier,
		features:   features,
		logger:     logger,
	}
	b.pending = queue.NewIDSet(c, pendingKey, maxPending, maxHold, b.send, logger)
	return b
}

// OnProductSaved records one observed save. Returns true when the product
// actually changed since its last snapshot and was added to the pending
// set; false for no-ops (unchanged, disabled, or not connected).
func (b *Batcher) OnProductSaved(ctx context.Context, ev SaveEvent) bool {
	if !b.features.CatalogUpdatesEnabled {
		return false
	}
	if !b.client.HasToken() {
		// Nobody is listening; don't accumulate changes.
		return false
	}

	data, err := json.Marshal(buildSnapshot(ev))
	if err != nil {
		b.logger.Error("catalog: failed to marshal snapshot for %s: %v", ev.ProductID, err)
		return false
	}

	key := metadata.SnapshotPrefix + ev.ProductID
	previous, err := b.store.Get(key)
	if err == nil && previous == string(data) {
		return false
	}

	if err := b.store.Set(key, string(data)); err != nil {
		b.logger.Error("catalog: failed to persist snapshot for %s: %v", ev.ProductID, err)
		return false
	}

	b.pending.Add(ctx, ev.ProductID)
	return true
}

// Flush drains the pending set immediately.
func (b *Batcher) Flush(ctx context.Context) {
	b.pending.Flush(ctx)
}

func buildSnapshot(ev SaveEvent) snapshot {
	snap := snapshot{
		Price:        fmt.Sprintf("%.2f %s", ev.Price, ev.Currency),
		Availability: models.AvailabilityOutOfStock,
	}
	if ev.SalePrice != nil && *ev.SalePrice < ev.Price {
		snap.SalePrice = fmt.Sprintf("%.2f %s", *ev.SalePrice, ev.Currency)
	}
	if ev.IsInStock && ev.Qty != 0 {
		snap.Availability = models.AvailabilityInStock
	}
	return snap
}

// send resolves the pending product IDs back to their persisted snapshots
// and ships them as one batch UPDATE. A missing or corrupt snapshot gets a
// safe empty placeholder rather than aborting the batch.
func (b *Batcher) send(ctx context.Context, ids []string) error {
	items := make([]pinterest.CatalogItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, pinterest.CatalogItem{
			ItemID:     id,
			Attributes: b.resolve(id),
		})
	}

	req := pinterest.CatalogItemsBatchRequest{
		Country:   b.storefront.Country,
		Language:  b.storefront.Language(),
		Operation: "UPDATE",
		Items:     items,
	}
	if err := b.client.CatalogItemsBatch(req); err != nil {
		return err
	}

	b.notifyFlushed(ids)
	return nil
}

func (b *Batcher) resolve(id string) map[string]interface{} {
	value, err := b.store.Get(metadata.SnapshotPrefix + id)
	if err != nil {
		b.logger.Warn("catalog: snapshot for %s missing, sending empty update: %v", id, err)
		return map[string]interface{}{}
	}

	var snap snapshot
	if err := json.Unmarshal([]byte(value), &snap); err != nil {
		b.logger.Warn("catalog: snapshot for %s corrupt, sending empty update: %v", id, err)
		return map[string]interface{}{}
	}

	attrs := map[string]interface{}{
		"price":        snap.Price,
		"availability": snap.Availability,
	}
	if snap.SalePrice != "" {
		attrs["sale_price"] = snap.SalePrice
	}
	return attrs
}

func (b *Batcher) notifyFlushed(ids []string) {
	listed := ids
	truncated := ""
	if len(listed) > notifyCap {
		listed = listed[:notifyCap]
		truncated = fmt.Sprintf(" (and %d more)", len(ids)-notifyCap)
	}

	b.notifier.Notify(
		fmt.Sprintf("%d product(s) synced to the ads platform", len(ids)),
		fmt.Sprintf("Updated products: %s%s", strings.Join(listed, ", "), truncated),
	)
}
