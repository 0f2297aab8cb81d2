package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	APIPort   string
	DBPath    string
	LogLevel  slog.Level
	LogFormat string
	// Location is the zone calendar dates and reminder times are evaluated in.
	Location *time.Location
	// FrequencyFile optionally overrides the built-in frequency table.
	FrequencyFile       string
	RefreshInterval     time.Duration
	WebhookURL          string
	DispatchConcurrency int
	CacheSize           int
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the rest.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root (where go.mod is)
	_ = godotenv.Load() // Try current directory

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		APIPort:       getEnv("API_PORT", "9000"),
		DBPath:        getEnv("DB_PATH", "./data/revix.db"),
		LogFormat:     strings.ToLower(getEnv("LOG_FORMAT", "text")),
		FrequencyFile: getEnv("REVIX_FREQUENCY_FILE", ""),
		WebhookURL:    getEnv("REVIX_WEBHOOK_URL", ""),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL must be debug, info, warn or error: %w", err)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	cfg.Location, err = time.LoadLocation(getEnv("REVIX_TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("REVIX_TIMEZONE must be an IANA zone name: %w", err)
	}

	cfg.RefreshInterval, err = time.ParseDuration(getEnv("REVIX_REFRESH_INTERVAL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("REVIX_REFRESH_INTERVAL must be a valid duration: %w", err)
	}
	if cfg.RefreshInterval < 0 {
		return nil, fmt.Errorf("REVIX_REFRESH_INTERVAL must not be negative")
	}

	if cfg.DispatchConcurrency, err = positiveInt("REVIX_DISPATCH_CONCURRENCY", "4"); err != nil {
		return nil, err
	}
	if cfg.CacheSize, err = positiveInt("REVIX_CACHE_SIZE", "512"); err != nil {
		return nil, err
	}

	if cfg.FrequencyFile != "" {
		if _, err := os.Stat(cfg.FrequencyFile); err != nil {
			return nil, fmt.Errorf("REVIX_FREQUENCY_FILE is not readable: %w", err)
		}
	}

	// Create ./data directory if it doesn't exist
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

func positiveInt(key, defaultValue string) (int, error) {
	n, err := strconv.Atoi(getEnv(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return n, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
