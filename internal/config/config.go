package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth. Empty disables authentication: the service is designed to
	// run locally next to its caller.
	APIKey string

	// Parse bounds
	ParseTimeout time.Duration
	ChunkLines   int
	MaxScanBytes int

	// Section synonym overlay (optional YAML file)
	SynonymsFile string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8085"),

		APIKey: os.Getenv("API_KEY"),

		ParseTimeout: envDuration("PARSE_TIMEOUT", 2*time.Second),
		ChunkLines:   envInt("CHUNK_LINES", 200),
		MaxScanBytes: envInt("MAX_SCAN_BYTES", 64*1024),

		SynonymsFile: os.Getenv("SYNONYMS_FILE"),

		WorkerCount:  envInt("WORKER_COUNT", 2),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),
	}

	if cfg.ParseTimeout <= 0 {
		cfg.ParseTimeout = 2 * time.Second
	}
	if cfg.ChunkLines <= 0 {
		cfg.ChunkLines = 200
	}
	if cfg.MaxScanBytes <= 0 {
		cfg.MaxScanBytes = 64 * 1024
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
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

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
