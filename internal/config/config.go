package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Room settings
	MinBetAmount     int
	MaxBetAmount     int
	ShortCodeLength  int
	ShortCodeRetries int

	// Sync layer
	SyncDebounceMs       int
	SyncBulkBytes        int
	OutboxSweepSeconds   int
	OutboxBatchPerSweep  int
	OutboxMaxBackoffSecs int

	// Security
	JWTSecret         string
	SessionTimeoutMin int

	// MockMode runs the wallet on an in-memory ledger
	MockMode bool
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/playarena?sslmode=disable"),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Room settings
		MinBetAmount:     getEnvInt("MIN_BET_AMOUNT", 0),
		MaxBetAmount:     getEnvInt("MAX_BET_AMOUNT", 10000),
		ShortCodeLength:  getEnvInt("SHORT_CODE_LENGTH", 5),
		ShortCodeRetries: getEnvInt("SHORT_CODE_RETRIES", 50),

		// Sync layer
		SyncDebounceMs:       getEnvInt("SYNC_DEBOUNCE_MS", 250),
		SyncBulkBytes:        getEnvInt("SYNC_BULK_BYTES", 32*1024),
		OutboxSweepSeconds:   getEnvInt("OUTBOX_SWEEP_SECONDS", 5),
		OutboxBatchPerSweep:  getEnvInt("OUTBOX_BATCH_PER_SWEEP", 8),
		OutboxMaxBackoffSecs: getEnvInt("OUTBOX_MAX_BACKOFF_SECONDS", 60),

		// Security
		JWTSecret:         getEnv("JWT_SECRET", "change-me-in-production"),
		SessionTimeoutMin: getEnvInt("SESSION_TIMEOUT_MINUTES", 30),

		MockMode: getEnv("MOCK_MODE", "false") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
