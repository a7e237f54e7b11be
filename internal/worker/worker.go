package worker

import (
	"context"
	"encoding/json"
	"time"

	"pinsync/internal/catalog"
	"pinsync/internal/config"
	"pinsync/internal/logger"

	"github.com/segmentio/kafka-go"
)

// Event is one product mutation published by the storefront.
type Event struct {
	Type      string    `json:"type"`
	ProductID string    `json:"product_id"`
	Data      EventData `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

type EventData struct {
	Price     float64  `json:"price"`
	SalePrice *float64 `json:"sale_price"`
	Currency  string   `json:"currency"`
	IsInStock bool     `json:"is_in_stock"`
	Qty       float64  `json:"qty"`
}

// Worker consumes product save events and feeds them into the change
// batcher.
type Worker struct {
	config  *config.Config
	logger  *logger.Logger
	reader  *kafka.Reader
	batcher *catalog.Batcher
}

func New(cfg *config.Config, logger *logger.Logger, batcher *catalog.Batcher) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{cfg.KafkaBrokers},
		GroupID:        "pinsync-worker",
		Topic:          "product-events",
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return &Worker{
		config:  cfg,
		logger:  logger,
		reader:  reader,
		batcher: batcher,
	}
}

func (w *Worker) Start() {
	w.logger.Info("Worker started, listening for product events...")

	for {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		message, err := w.reader.ReadMessage(ctx)
		cancel()

		if err != nil {
			w.logger.Error("Failed to read message: %v", err)
			continue
		}

		w.logger.Debug("Received message: %s", string(message.Value))

		var event Event
		if err := json.Unmarshal(message.Value, &event); err != nil {
			w.logger.Error("Failed to parse event: %v", err)
			continue
		}

		if event.Type != "product.saved" {
			w.logger.Debug("Ignoring event type %s", event.Type)
			continue
		}

		changed := w.batcher.OnProductSaved(context.Background(), catalog.SaveEvent{
			ProductID: event.ProductID,
			Price:     event.Data.Price,
			SalePrice: event.Data.SalePrice,
			Currency:  event.Data.Currency,
			IsInStock: event.Data.IsInStock,
			Qty:       event.Data.Qty,
		})
		if changed {
			w.logger.Debug("Product %s changed, queued for batch update", event.ProductID)
		}
	}
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.reader.Close()
}
