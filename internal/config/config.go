package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

// Store and cache backends.
const (
	BackendMemory   = "memory"
	BackendDynamoDB = "dynamodb"
	BackendRedis    = "redis"
)

// Config is read from flags first; environment variables override flags.
type Config struct {
	RunAddress     string        `env:"RUN_ADDRESS"`
	MetricsAddress string        `env:"METRICS_ADDRESS"`
	RunLocal       bool          `env:"RUN_LOCAL"`
	LogLevel       string        `env:"LOG_LEVEL"`
	StoreBackend   string        `env:"STORE_BACKEND"`
	ReceiptsTable  string        `env:"RECEIPTS_TABLE"`
	QueueURL       string        `env:"RECEIPTS_QUEUE_URL"`
	CacheBackend   string        `env:"CACHE_BACKEND"`
	RedisAddress   string        `env:"REDIS_ADDRESS"`
	PointsCacheTTL time.Duration `env:"POINTS_CACHE_TTL"`
	ShutdownGrace  time.Duration `env:"SHUTDOWN_GRACE"`

	// worker only
	MetricsNamespace string `env:"CLOUDWATCH_NAMESPACE"`
}

// Load parses args (without the program name) and the environment.
func Load(args []string) (*Config, error) {
	cfg := &Config{}

	fs := flag.NewFlagSet("receipt-points", flag.ContinueOnError)
	fs.StringVar(&cfg.RunAddress, "a", ":8080", "RunAddress")
	fs.StringVar(&cfg.MetricsAddress, "m", ":9090", "MetricsAddress (empty disables the ops listener)")
	fs.BoolVar(&cfg.RunLocal, "local", false, "RunLocal: serve HTTP instead of starting the Lambda handler")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "LogLevel")
	fs.StringVar(&cfg.StoreBackend, "store", BackendMemory, "StoreBackend: memory or dynamodb")
	fs.StringVar(&cfg.ReceiptsTable, "table", "receipts", "ReceiptsTable")
	fs.StringVar(&cfg.QueueURL, "queue", "", "QueueURL for receipt.processed events (empty disables publishing)")
	fs.StringVar(&cfg.CacheBackend, "cache", BackendMemory, "CacheBackend: memory or redis")
	fs.StringVar(&cfg.RedisAddress, "redis", "localhost:6379", "RedisAddress")
	fs.DurationVar(&cfg.PointsCacheTTL, "cache-ttl", time.Hour, "PointsCacheTTL (0 keeps scores forever)")
	fs.DurationVar(&cfg.ShutdownGrace, "shutdown-grace", 10*time.Second, "ShutdownGrace")
	fs.StringVar(&cfg.MetricsNamespace, "namespace", "ReceiptPoints", "CloudWatch MetricsNamespace used by the worker")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks backend names and required companions.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory:
	case BackendDynamoDB:
		if c.ReceiptsTable == "" {
			return fmt.Errorf("store backend %q requires RECEIPTS_TABLE", c.StoreBackend)
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
	switch c.CacheBackend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisAddress == "" {
			return fmt.Errorf("cache backend %q requires REDIS_ADDRESS", c.CacheBackend)
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.CacheBackend)
	}
	if c.PointsCacheTTL < 0 {
		return fmt.Errorf("points cache ttl must not be negative, got %s", c.PointsCacheTTL)
	}
	return nil
}

// UsesAWS reports whether any configured component needs AWS clients.
func (c *Config) UsesAWS() bool {
	return c.StoreBackend == BackendDynamoDB || c.QueueURL != ""
}
