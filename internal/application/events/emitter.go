// Package events forwards application audit events to the message bus.
// Publishing is best effort: failures are logged and counted, never returned.
package events

import (
	"context"

	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/prometheus"
)

// Publisher is implemented by the kafka producer.
type Publisher interface {
	PublishEvent(ctx context.Context, topic, key string, payload interface{}) error
}

// Emitter wraps an optional Publisher. A nil *Emitter, or one built with a
// nil Publisher, drops every event.
type Emitter struct {
	pub     Publisher
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

func NewEmitter(pub Publisher, logger logging.Logger, metrics *prometheus.AppMetrics) *Emitter {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Emitter{pub: pub, logger: logger, metrics: metrics}
}

// Enabled reports whether events are actually published.
func (e *Emitter) Enabled() bool {
	return e != nil && e.pub != nil
}

// Emit publishes payload on topic keyed by key.
func (e *Emitter) Emit(ctx context.Context, topic, key string, payload interface{}) {
	if !e.Enabled() {
		return
	}
	err := e.pub.PublishEvent(ctx, topic, key, payload)
	e.metrics.RecordEvent(topic, err)
	if err != nil {
		e.logger.Warn("event publish failed",
			logging.String("topic", topic),
			logging.String("key", key),
			logging.Err(err))
	}
}
