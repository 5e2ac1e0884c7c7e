package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Run store
	DBPath string

	// Worker pool
	WorkerCount        int
	MaxQueueSize       int
	MaxConcurrentPages int

	// Request limits
	MaxBodyBytes int64

	// Chunking defaults
	TargetSize    int
	MinSize       int
	MaxSize       int
	EnableMerging bool

	// Job state
	JobTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		APIKey: os.Getenv("SEMCHUNK_API_KEY"),

		DBPath: envOr("DB_PATH", "semchunk.db"),

		WorkerCount:        envInt("WORKER_COUNT", 4),
		MaxQueueSize:       envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentPages: envInt("MAX_CONCURRENT_PAGES", 8),

		MaxBodyBytes: envInt64("MAX_BODY_BYTES", 104857600), // 100MB

		TargetSize:    envInt("TARGET_SIZE", 1500),
		MinSize:       envInt("MIN_SIZE", 800),
		MaxSize:       envInt("MAX_SIZE", 2500),
		EnableMerging: envBool("ENABLE_MERGING", true),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentPages <= 0 {
		cfg.MaxConcurrentPages = 8
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 104857600
	}
	if cfg.TargetSize <= 0 {
		cfg.TargetSize = 1500
	}
	if cfg.MinSize <= 0 {
		cfg.MinSize = 800
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 2500
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("SEMCHUNK_API_KEY is required")
	}
	if c.MinSize > c.TargetSize || c.TargetSize > c.MaxSize {
		return fmt.Errorf("chunk sizes must satisfy MIN_SIZE <= TARGET_SIZE <= MAX_SIZE")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
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

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
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
