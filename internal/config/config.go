// Package config defines all configuration structures for the AgriMat platform.
// No I/O or parsing logic lives in this file, only plain data types and validation.
package config

import (
	"fmt"
	"time"

	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/logging"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	SlowThreshold   time.Duration `mapstructure:"slow_threshold"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// CatalogConfig controls where the record store is loaded from.
type CatalogConfig struct {
	// SeedPath overrides the embedded catalog with a YAML file on disk.
	SeedPath        string `mapstructure:"seed_path"`
	DefaultPageSize int    `mapstructure:"default_page_size"`
}

// ComparisonConfig holds comparison engine tunables.
type ComparisonConfig struct {
	MaxSelection int           `mapstructure:"max_selection"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
}

// SessionConfig controls the in-memory session manager. SecureCookie marks
// the session cookie Secure and belongs behind HTTPS.
type SessionConfig struct {
	IdleTTL         time.Duration `mapstructure:"idle_ttl"`
	JanitorInterval time.Duration `mapstructure:"janitor_interval"`
	CookieName      string        `mapstructure:"cookie_name"`
	SecureCookie    bool          `mapstructure:"secure_cookie"`
}

// RedisConfig holds Redis connection parameters. Redis is optional.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// MinIOConfig holds object-storage parameters for export archiving.
type MinIOConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Endpoint      string        `mapstructure:"endpoint"`
	AccessKey     string        `mapstructure:"access_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	Bucket        string        `mapstructure:"bucket"`
	Region        string        `mapstructure:"region"`
	UseSSL        bool          `mapstructure:"use_ssl"`
	PresignExpiry time.Duration `mapstructure:"presign_expiry"`
}

// KafkaConfig holds producer parameters for audit events.
type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	TopicPrefix  string        `mapstructure:"topic_prefix"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// PredictionConfig holds the AI performance estimator parameters.
type PredictionConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	APIKey   string        `mapstructure:"api_key"`
	Model    string        `mapstructure:"model"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`

	// RatePerSecond and Burst bound prediction calls per session.
	RatePerSecond float64 `mapstructure:"rate_per_second"`
	Burst         int     `mapstructure:"burst"`
}

// MetricsConfig controls the prometheus collector.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Server     ServerConfig      `mapstructure:"server"`
	Log        logging.LogConfig `mapstructure:"log"`
	Catalog    CatalogConfig     `mapstructure:"catalog"`
	Comparison ComparisonConfig  `mapstructure:"comparison"`
	Session    SessionConfig     `mapstructure:"session"`
	Redis      RedisConfig       `mapstructure:"redis"`
	MinIO      MinIOConfig       `mapstructure:"minio"`
	Kafka      KafkaConfig       `mapstructure:"kafka"`
	Prediction PredictionConfig  `mapstructure:"prediction"`
	Metrics    MetricsConfig     `mapstructure:"metrics"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of a fully-populated Config and
// returns the first problem found.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	if c.Catalog.DefaultPageSize < 1 || c.Catalog.DefaultPageSize > 100 {
		return fmt.Errorf("config: catalog.default_page_size %d is out of range [1, 100]", c.Catalog.DefaultPageSize)
	}
	if c.Comparison.MaxSelection < 1 || c.Comparison.MaxSelection > MaxComparisonSelection {
		return fmt.Errorf("config: comparison.max_selection %d is out of range [1, %d]",
			c.Comparison.MaxSelection, MaxComparisonSelection)
	}
	if c.Session.IdleTTL <= 0 {
		return fmt.Errorf("config: session.idle_ttl must be positive")
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required when redis is enabled")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
	}
	if c.MinIO.Enabled {
		if c.MinIO.Endpoint == "" {
			return fmt.Errorf("config: minio.endpoint is required when minio is enabled")
		}
		if c.MinIO.Bucket == "" {
			return fmt.Errorf("config: minio.bucket is required when minio is enabled")
		}
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
	}
	if c.Prediction.Timeout <= 0 {
		return fmt.Errorf("config: prediction.timeout must be positive")
	}
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return fmt.Errorf("config: metrics.namespace is required when metrics are enabled")
	}
	return nil
}
