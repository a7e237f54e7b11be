package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DatabaseURL string

	// Redis (shared buffer cache)
	RedisURL string

	// Kafka
	KafkaBrokers string

	// API Configuration
	APIPort string
	APIHost string

	// Pinterest API
	PinterestBaseURL    string
	PinterestAPIVersion string
	PinterestClientID   string

	// Catalog feed export
	FeedExportDir string

	// Environment
	Env      string
	LogLevel string

	Features Features
}

// Features is the consolidated feature-flag snapshot handed to core
// components at construction, instead of each component re-querying
// configuration on its own.
type Features struct {
	ConversionsEnabled    bool
	CatalogUpdatesEnabled bool
}

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	return &Config{
		DatabaseURL:         getEnv("DATABASE_URL", "sqlite://pinsync.db"),
		RedisURL:            getEnv("REDIS_URL", "redis://localhost:6379"),
		KafkaBrokers:        getEnv("KAFKA_BROKERS", "localhost:9092"),
		APIPort:             getEnv("API_PORT", "8080"),
		APIHost:             getEnv("API_HOST", "0.0.0.0"),
		PinterestBaseURL:    getEnv("PINTEREST_BASE_URL", "https://api.pinterest.com"),
		PinterestAPIVersion: getEnv("PINTEREST_API_VERSION", "v5"),
		PinterestClientID:   getEnv("PINTEREST_CLIENT_ID", ""),
		FeedExportDir:       getEnv("FEED_EXPORT_DIR", "./feeds"),
		Env:                 getEnv("ENV", "development"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		Features: Features{
			ConversionsEnabled:    getEnvAsBool("CONVERSIONS_ENABLED", true),
			CatalogUpdatesEnabled: getEnvAsBool("CATALOG_UPDATES_ENABLED", true),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
