package main

import (
	"log"

	"pinsync/internal/account"
	"pinsync/internal/config"
	"pinsync/internal/database"
	"pinsync/internal/feed"
	"pinsync/internal/logger"
	"pinsync/internal/metadata"
	"pinsync/internal/models"
	"pinsync/internal/pinterest"
)

// feedsync is the scheduled-job surface: one invocation exports the catalog
// feed files and runs a steady-state reconciliation pass.
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
	defer db.Close()

	store := metadata.NewGormStore(db.DB)
	accountService := account.NewService(store, logger)

	if !accountService.IsConnected() {
		logger.Info("Account not connected, nothing to sync")
		return
	}

	client := pinterest.NewClient(cfg.PinterestBaseURL, cfg.PinterestAPIVersion, accountService, logger)
	exporter := feed.NewExporter(db.DB, cfg.FeedExportDir, logger)
	reconciler := feed.NewReconciler(client, store, cfg.FeedExportDir, logger)

	var storefronts []models.Storefront
	if err := db.DB.Find(&storefronts).Error; err != nil {
		logger.Fatal("Failed to load storefronts: %v", err)
	}

	exported, err := exporter.Export(storefronts)
	if err != nil {
		logger.Error("Feed export failed: %v", err)
	}

	createdCount := reconciler.Reconcile(storefronts, false)
	logger.Info("Feed sync complete: %d files exported, %d feeds created", exported, createdCount)
}
