package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_FillsZeroValues(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultServerMode, cfg.Server.Mode)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, 12, cfg.Catalog.DefaultPageSize)
	assert.Equal(t, 6, cfg.Comparison.MaxSelection)
	assert.Equal(t, []string{DefaultKafkaBroker}, cfg.Kafka.Brokers)
	assert.Equal(t, "gemini-2.5-flash", cfg.Prediction.Model)
	assert.Equal(t, DefaultSessionCookie, cfg.Session.CookieName)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	cfg.Server.Port = 9090
	cfg.Comparison.MaxSelection = 4
	cfg.Prediction.Timeout = 5 * time.Second
	cfg.Kafka.Brokers = []string{"kafka-1:9092", "kafka-2:9092"}

	ApplyDefaults(cfg)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 4, cfg.Comparison.MaxSelection)
	assert.Equal(t, 5*time.Second, cfg.Prediction.Timeout)
	assert.Len(t, cfg.Kafka.Brokers, 2)
}

func TestApplyDefaults_NilIsSafe(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}
