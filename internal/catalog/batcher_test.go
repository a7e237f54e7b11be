package catalog

import (
	"context"
	"errors"
	"testing"

	"pinsync/internal/cache"
	"pinsync/internal/config"
	"pinsync/internal/logger"
	"pinsync/internal/metadata"
	"pinsync/internal/models"
	"pinsync/internal/pinterest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	token    bool
	batchErr error
	batches  []pinterest.CatalogItemsBatchRequest
}

func (f *fakeClient) HasToken() bool { return f.token }

func (f *fakeClient) CatalogItemsBatch(req pinterest.CatalogItemsBatchRequest) error {
	if f.batchErr != nil {
		return f.batchErr
	}
	f.batches = append(f.batches, req)
	return nil
}

type fakeNotifier struct {
	titles []string
	bodies []string
}

func (f *fakeNotifier) Notify(title, body string) {
	f.titles = append(f.titles, title)
	f.bodies = append(f.bodies, body)
}

func allEnabled() config.Features {
	return config.Features{ConversionsEnabled: true, CatalogUpdatesEnabled: true}
}

func newTestBatcher(client *fakeClient, notifier *fakeNotifier) (*Batcher, metadata.Store) {
	store := metadata.NewMemoryStore()
	sf := models.Storefront{StoreCode: "default", Locale: "en_US", Country: "US", Currency: "USD"}
	b := NewBatcher(cache.NewMemoryCache(), client, store, sf, notifier, allEnabled(), logger.New("error"))
	return b, store
}

func saveEvent() SaveEvent {
	return SaveEvent{
		ProductID: "sku-1",
		Price:     19.99,
		Currency:  "USD",
		IsInStock: true,
		Qty:       5,
	}
}

func TestOnProductSavedDetectsChange(t *testing.T) {
	client := &fakeClient{token: true}
	b, _ := newTestBatcher(client, &fakeNotifier{})
	ctx := context.Background()

	assert.True(t, b.OnProductSaved(ctx, saveEvent()))

	// Identical normalized fields: no-op.
	assert.False(t, b.OnProductSaved(ctx, saveEvent()))

	// Price change counts again.
	ev := saveEvent()
	ev.Price = 24.99
	assert.True(t, b.OnProductSaved(ctx, ev))
}

func TestOnProductSavedSkipsWhenNotConnected(t *testing.T) {
	client := &fakeClient{token: false}
	b, _ := newTestBatcher(client, &fakeNotifier{})

	assert.False(t, b.OnProductSaved(context.Background(), saveEvent()))
}

func TestOnProductSavedSkipsWhenDisabled(t *testing.T) {
	client := &fakeClient{token: true}
	store := metadata.NewMemoryStore()
	sf := models.Storefront{StoreCode: "default", Locale: "en_US", Country: "US", Currency: "USD"}
	features := config.Features{ConversionsEnabled: true, CatalogUpdatesEnabled: false}
	b := NewBatcher(cache.NewMemoryCache(), client, store, sf, &fakeNotifier{}, features, logger.New("error"))

	assert.False(t, b.OnProductSaved(context.Background(), saveEvent()))
}

func TestFlushSendsBatchUpdate(t *testing.T) {
	client := &fakeClient{token: true}
	notifier := &fakeNotifier{}
	b, _ := newTestBatcher(client, notifier)
	ctx := context.Background()

	b.OnProductSaved(ctx, saveEvent())
	second := saveEvent()
	second.ProductID = "sku-2"
	second.IsInStock = false
	b.OnProductSaved(ctx, second)

	b.Flush(ctx)

	require.Len(t, client.batches, 1)
	batch := client.batches[0]
	assert.Equal(t, "US", batch.Country)
	assert.Equal(t, "en", batch.Language)
	assert.Equal(t, "UPDATE", batch.Operation)
	require.Len(t, batch.Items, 2)
	assert.Equal(t, "sku-1", batch.Items[0].ItemID)
	assert.Equal(t, models.AvailabilityInStock, batch.Items[0].Attributes["availability"])
	assert.Equal(t, models.AvailabilityOutOfStock, batch.Items[1].Attributes["availability"])

	// Admin notification names the affected products.
	require.Len(t, notifier.bodies, 1)
	assert.Contains(t, notifier.bodies[0], "sku-1")
	assert.Contains(t, notifier.bodies[0], "sku-2")
}

func TestFlushSubstitutesPlaceholderForMissingSnapshot(t *testing.T) {
	client := &fakeClient{token: true}
	b, store := newTestBatcher(client, &fakeNotifier{})
	ctx := context.Background()

	b.OnProductSaved(ctx, saveEvent())
	require.NoError(t, store.Delete(metadata.SnapshotPrefix+"sku-1"))

	b.Flush(ctx)

	require.Len(t, client.batches, 1)
	require.Len(t, client.batches[0].Items, 1)
	assert.Empty(t, client.batches[0].Items[0].Attributes)
}

func TestFlushFailureDropsBatch(t *testing.T) {
	client := &fakeClient{token: true, batchErr: errors.New("api down")}
	notifier := &fakeNotifier{}
	b, _ := newTestBatcher(client, notifier)
	ctx := context.Background()

	b.OnProductSaved(ctx, saveEvent())
	b.Flush(ctx)

	// At-most-once: the pending set is already drained, nothing resends.
	client.batchErr = nil
	b.Flush(ctx)
	assert.Empty(t, client.batches)
	assert.Empty(t, notifier.titles)
}

func TestAvailabilityDerivation(t *testing.T) {
	cases := []struct {
		isInStock bool
		qty       float64
		want      string
	}{
		{true, 0, models.AvailabilityOutOfStock},
		{true, 5, models.AvailabilityInStock},
		{false, 5, models.AvailabilityOutOfStock},
		{false, 0, models.AvailabilityOutOfStock},
	}

	for _, tc := range cases {
		snap := buildSnapshot(SaveEvent{Price: 1, Currency: "USD", IsInStock: tc.isInStock, Qty: tc.qty})
		assert.Equal(t, tc.want, snap.Availability)
	}
}

func TestSnapshotIncludesSalePriceOnlyWhenDiscounted(t *testing.T) {
	discounted := 9.99
	snap := buildSnapshot(SaveEvent{Price: 19.99, SalePrice: &discounted, Currency: "USD", IsInStock: true, Qty: 1})
	assert.Equal(t, "9.99 USD", snap.SalePrice)

	notDiscounted := 19.99
	snap = buildSnapshot(SaveEvent{Price: 19.99, SalePrice: &notDiscounted, Currency: "USD", IsInStock: true, Qty: 1})
	assert.Empty(t, snap.SalePrice)
}
