package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"pinsync/internal/account"
	"pinsync/internal/cache"
	"pinsync/internal/catalog"
	"pinsync/internal/config"
	"pinsync/internal/database"
	"pinsync/internal/logger"
	"pinsync/internal/metadata"
	"pinsync/internal/models"
	"pinsync/internal/notify"
	"pinsync/internal/pinterest"
	"pinsync/internal/worker"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}

	var bufferCache cache.Cache
	redisCache, err := cache.NewRedisCache(cfg.RedisURL, "pinsync")
	if err != nil {
		logger.Warn("Redis unavailable (%v), using in-memory buffer cache", err)
		bufferCache = cache.NewMemoryCache()
	} else {
		bufferCache = redisCache
	}

	store := metadata.NewGormStore(db.DB)
	accountService := account.NewService(store, logger)
	client := pinterest.NewClient(cfg.PinterestBaseURL, cfg.PinterestAPIVersion, accountService, logger)
	notifier := notify.New(db.DB, logger)

	// Batch updates are scoped to the first configured storefront's
	// (country, language) pair.
	var storefront models.Storefront
	if err := db.DB.Order("created_at").First(&storefront).Error; err != nil {
		logger.Warn("No storefront configured, defaulting to US/en_US")
		storefront = models.Storefront{StoreCode: "default", Locale: "en_US", Country: "US", Currency: "USD"}
	}

	batcher := catalog.NewBatcher(bufferCache, client, store, storefront, notifier, cfg.Features, logger)

	// Initialize worker
	w := worker.New(cfg, logger, batcher)

	// Start worker
	logger.Info("Starting worker...")
	go w.Start()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	w.Stop()
	batcher.Flush(context.Background())
}
