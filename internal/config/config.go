package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Hub connection
	HubEndpoint string
	HubToken    string

	// Upload behavior
	CommitBatchBytes int64
	HTTPTimeout      time.Duration
}

func Load() Config {
	cfg := Config{
		HubEndpoint: envOr("HUB_ENDPOINT", "https://huggingface.co"),
		HubToken:    os.Getenv("HUGGINGFACE_TOKEN"),

		CommitBatchBytes: envInt64("COMMIT_BATCH_BYTES", 16777216), // 16MB
		HTTPTimeout:      envDuration("HUB_HTTP_TIMEOUT", 2*time.Minute),
	}

	if cfg.CommitBatchBytes <= 0 {
		cfg.CommitBatchBytes = 16777216
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 2 * time.Minute
	}

	return cfg
}

// Validate checks the fields a push needs. Local export and preview don't
// call it.
func (c Config) Validate() error {
	if c.HubToken == "" {
		return fmt.Errorf("HUGGINGFACE_TOKEN is required")
	}
	if c.HubEndpoint == "" {
		return fmt.Errorf("HUB_ENDPOINT is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
