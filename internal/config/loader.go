package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all platform settings.
const envPrefix = "AGRIMAT"

// bindKeys lists every leaf key so AutomaticEnv can resolve them even when the
// YAML file omits a section.
var bindKeys = []string{
	"server.host", "server.port", "server.mode", "server.read_timeout", "server.write_timeout",
	"server.shutdown_timeout", "server.slow_threshold", "server.cors_origins",
	"log.level", "log.format", "log.output_paths", "log.error_output_paths",
	"catalog.seed_path", "catalog.default_page_size",
	"comparison.max_selection", "comparison.cache_ttl",
	"session.idle_ttl", "session.janitor_interval", "session.cookie_name", "session.secure_cookie",
	"redis.enabled", "redis.addr", "redis.password", "redis.db", "redis.pool_size",
	"redis.dial_timeout", "redis.read_timeout", "redis.write_timeout", "redis.key_prefix",
	"minio.enabled", "minio.endpoint", "minio.access_key", "minio.secret_key", "minio.bucket",
	"minio.region", "minio.use_ssl", "minio.presign_expiry",
	"kafka.enabled", "kafka.brokers", "kafka.topic_prefix", "kafka.batch_timeout", "kafka.write_timeout",
	"prediction.enabled", "prediction.api_key", "prediction.model", "prediction.timeout", "prediction.cache_ttl",
	"prediction.rate_per_second", "prediction.burst",
	"metrics.enabled", "metrics.namespace",
}

// newViper builds a Viper instance with YAML file type, the AGRIMAT_ env
// prefix and a "." → "_" key replacer, so "redis.addr" resolves to
// AGRIMAT_REDIS_ADDR.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, k := range bindKeys {
		_ = v.BindEnv(k)
	}
	return v
}

// Load reads the YAML file at configPath, merges AGRIMAT_* overrides, applies
// defaults and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from AGRIMAT_* environment variables and defaults only.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

// LoadOrDefault loads configPath when it is set, otherwise falls back to LoadFromEnv.
func LoadOrDefault(configPath string) (*Config, error) {
	if configPath == "" {
		return LoadFromEnv()
	}
	return Load(configPath)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}
	return cfg, nil
}

// Watch re-parses configPath whenever it is written and passes the new Config to
// onChange. Invalid revisions are reported to onError (when non-nil) and skipped.
// Watch returns immediately; viper runs the fsnotify watcher in the background.
func Watch(configPath string, onChange func(*Config), onError func(error)) {
	v := newViper()
	v.SetConfigFile(configPath)
	_ = v.ReadInConfig()

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}
