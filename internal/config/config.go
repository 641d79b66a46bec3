// Package config loads service configuration from a .env file and the
// process environment, environment winning.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration for the catalog service.
type Config struct {
	// SpannerDatabase is the full database path:
	// projects/<p>/instances/<i>/databases/<d>.
	SpannerDatabase string

	// CacheTTL is the default lifetime of cached reads.
	CacheTTL time.Duration

	// PollInterval is how often the scheduler looks for due jobs.
	PollInterval time.Duration

	// Workers and QueueSize bound the shared worker pool.
	Workers   int
	QueueSize int

	// LogLevel is a zap level name (debug, info, warn, error).
	LogLevel string
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	// A missing .env file is fine; real deployments set the environment
	// directly.
	_ = godotenv.Load()

	cfg := &Config{
		SpannerDatabase: getEnv("SPANNER_DATABASE",
			"projects/test-project/instances/dev-instance/databases/catalog-db"),
		CacheTTL:     getDuration("CACHE_TTL", 5*time.Minute),
		PollInterval: getDuration("SCHEDULER_POLL_INTERVAL", 30*time.Second),
		Workers:      getInt("WORKER_POOL_SIZE", 4),
		QueueSize:    getInt("WORKER_QUEUE_SIZE", 64),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}

	if cfg.SpannerDatabase == "" {
		return nil, fmt.Errorf("SPANNER_DATABASE must be set")
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("SCHEDULER_POLL_INTERVAL must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
