// Package config loads environment-based configuration, optionally seeded
// from a .env file.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration for the bookkeeping core.
type Config struct {
	Logger  LoggerConfig
	Storage StorageConfig
	Stock   StockConfig
}

// LoggerConfig configures pkg/logger.
type LoggerConfig struct {
	Level       string
	Development bool
}

// StorageConfig configures the file-backed key-value store.
type StorageConfig struct {
	DataDir string
}

// StockConfig holds inventory reporting thresholds.
type StockConfig struct {
	// LowStockThreshold is the upper bound of the low-stock band.
	LowStockThreshold int
}

// Load reads configuration from the environment. A .env file in the working
// directory is honored when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvBool("LOG_DEVELOPMENT", false),
		},
		Storage: StorageConfig{
			DataDir: getEnv("DATA_DIR", "./data"),
		},
		Stock: StockConfig{
			LowStockThreshold: getEnvInt("LOW_STOCK_THRESHOLD", 10),
		},
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
