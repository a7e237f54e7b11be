package main

import (
	"log"

	"pinsync/internal/api"
	"pinsync/internal/cache"
	"pinsync/internal/config"
	"pinsync/internal/database"
	"pinsync/internal/logger"
	"pinsync/internal/metadata"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}

	// Shared buffer cache: redis in production, in-memory fallback for
	// single-instance development.
	var bufferCache cache.Cache
	redisCache, err := cache.NewRedisCache(cfg.RedisURL, "pinsync")
	if err != nil {
		logger.Warn("Redis unavailable (%v), using in-memory buffer cache", err)
		bufferCache = cache.NewMemoryCache()
	} else {
		bufferCache = redisCache
	}

	store := metadata.NewGormStore(db.DB)

	// Initialize API server
	server := api.New(cfg, logger, db, store, bufferCache)

	// Start server
	logger.Info("Starting API server on port " + cfg.APIPort)
	if err := server.Start(); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
