package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerHost            = "0.0.0.0"
	DefaultServerPort            = 8080
	DefaultServerMode            = "release"
	DefaultServerReadTimeout     = 15 * time.Second
	DefaultServerWriteTimeout    = 30 * time.Second
	DefaultServerShutdownTimeout = 30 * time.Second
	DefaultSlowThreshold         = 2 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultPageSize = 12

	// MaxComparisonSelection is the hard cap on records compared side by side.
	MaxComparisonSelection   = 6
	DefaultComparisonTTL     = 10 * time.Minute
	DefaultSessionIdleTTL    = 2 * time.Hour
	DefaultJanitorInterval   = 5 * time.Minute
	DefaultSessionCookie     = "session_id"
	DefaultRedisAddr         = "localhost:6379"
	DefaultRedisPoolSize     = 10
	DefaultRedisKeyPrefix    = "agrimat"
	DefaultMinIOEndpoint     = "localhost:9000"
	DefaultMinIOBucket       = "agrimat-exports"
	DefaultMinIORegion       = "us-east-1"
	DefaultPresignExpiry     = time.Hour
	DefaultKafkaBroker       = "localhost:9092"
	DefaultKafkaTopicPrefix  = "agrimat"
	DefaultPredictionModel   = "gemini-2.5-flash"
	DefaultPredictionTTL     = 30 * time.Minute
	DefaultPredictionTimeout = 30 * time.Second
	DefaultPredictionRate    = 0.2
	DefaultPredictionBurst   = 3
	DefaultMetricsNamespace  = "agrimat"
)

// ApplyDefaults fills every zero-value field in cfg with the platform default.
// Explicitly set values are never overwritten.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// Server
	if cfg.Server.Host == "" {
		cfg.Server.Host = DefaultServerHost
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultServerReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultServerWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultServerShutdownTimeout
	}
	if cfg.Server.SlowThreshold == 0 {
		cfg.Server.SlowThreshold = DefaultSlowThreshold
	}

	// Log
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	// Catalog / comparison / session
	if cfg.Catalog.DefaultPageSize == 0 {
		cfg.Catalog.DefaultPageSize = DefaultPageSize
	}
	if cfg.Comparison.MaxSelection == 0 {
		cfg.Comparison.MaxSelection = MaxComparisonSelection
	}
	if cfg.Comparison.CacheTTL == 0 {
		cfg.Comparison.CacheTTL = DefaultComparisonTTL
	}
	if cfg.Session.IdleTTL == 0 {
		cfg.Session.IdleTTL = DefaultSessionIdleTTL
	}
	if cfg.Session.JanitorInterval == 0 {
		cfg.Session.JanitorInterval = DefaultJanitorInterval
	}
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = DefaultSessionCookie
	}

	// Redis
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = DefaultRedisPoolSize
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}

	// MinIO
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}
	if cfg.MinIO.Region == "" {
		cfg.MinIO.Region = DefaultMinIORegion
	}
	if cfg.MinIO.PresignExpiry == 0 {
		cfg.MinIO.PresignExpiry = DefaultPresignExpiry
	}

	// Kafka
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.TopicPrefix == "" {
		cfg.Kafka.TopicPrefix = DefaultKafkaTopicPrefix
	}

	// Prediction
	if cfg.Prediction.Model == "" {
		cfg.Prediction.Model = DefaultPredictionModel
	}
	if cfg.Prediction.Timeout == 0 {
		cfg.Prediction.Timeout = DefaultPredictionTimeout
	}
	if cfg.Prediction.CacheTTL == 0 {
		cfg.Prediction.CacheTTL = DefaultPredictionTTL
	}
	if cfg.Prediction.RatePerSecond == 0 {
		cfg.Prediction.RatePerSecond = DefaultPredictionRate
	}
	if cfg.Prediction.Burst == 0 {
		cfg.Prediction.Burst = DefaultPredictionBurst
	}

	// Metrics
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
}
