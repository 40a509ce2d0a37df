package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AgriMat-Platform/pkg/errors"
)

const (
	TopicExportGenerated     = "export.generated"
	TopicSelectionChanged    = "selection.changed"
	TopicPredictionCompleted = "prediction.completed"
)

// EventSource is written into every envelope produced by this service.
const EventSource = "agrimat-platform"

// EventEnvelope standardizes event messages.
type EventEnvelope struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Source        string            `json:"source"`
	Timestamp     time.Time         `json:"timestamp"`
	SchemaVersion string            `json:"schema_version"`
	Payload       json.RawMessage   `json:"payload"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

type ExportGeneratedPayload struct {
	Kind        string   `json:"kind"`
	Format      string   `json:"format"`
	MaterialIDs []string `json:"material_ids"`
	ObjectKey   string   `json:"object_key,omitempty"`
	URL         string   `json:"url,omitempty"`
	Size        int64    `json:"size"`
}

type SelectionChangedPayload struct {
	SessionID   string   `json:"session_id"`
	Action      string   `json:"action"`
	MaterialID  string   `json:"material_id,omitempty"`
	MaterialIDs []string `json:"material_ids"`
}

type PredictionCompletedPayload struct {
	SessionID    string  `json:"session_id"`
	MaterialType string  `json:"material_type"`
	Environment  string  `json:"environment"`
	Temperature  float64 `json:"temperature"`
	Load         float64 `json:"load"`
	Fallback     bool    `json:"fallback"`
}

// NewEventEnvelope marshals payload into a fresh envelope.
func NewEventEnvelope(eventType string, source string, payload interface{}) (*EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal payload")
	}
	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		SchemaVersion: "v1",
		Payload:       data,
	}, nil
}

// ToMessage encodes the envelope as a message for topic.
func (e *EventEnvelope) ToMessage(topic string, key string) (*Message, error) {
	val, err := json.Marshal(e)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal envelope")
	}
	msg := &Message{
		Topic: topic,
		Value: val,
		Headers: map[string]string{
			"event_type":     e.EventType,
			"source_service": e.Source,
			"schema_version": e.SchemaVersion,
		},
		Timestamp: e.Timestamp,
	}
	if key != "" {
		msg.Key = []byte(key)
	}
	return msg, nil
}

// PublishEvent wraps payload in an envelope and publishes it to the prefixed topic.
// The event type is the bare topic name.
func (p *Producer) PublishEvent(ctx context.Context, topic, key string, payload interface{}) error {
	env, err := NewEventEnvelope(topic, EventSource, payload)
	if err != nil {
		return err
	}
	msg, err := env.ToMessage(p.Topic(topic), key)
	if err != nil {
		return err
	}
	return p.Publish(ctx, msg)
}

// ─────────────────────────────────────────────────────────────────────────────
// Topic management
// ─────────────────────────────────────────────────────────────────────────────

// TopicConfig describes a topic to be created at startup.
type TopicConfig struct {
	Name              string
	NumPartitions     int
	ReplicationFactor int
	RetentionMs       int64
}

// ConnInterface abstracts kafka.Conn for testing.
type ConnInterface interface {
	CreateTopics(topics ...kafka.TopicConfig) error
	ReadPartitions(topics ...string) ([]kafka.Partition, error)
	Close() error
}

// TopicManager manages Kafka topics.
type TopicManager struct {
	conn   ConnInterface
	prefix string
	logger logging.Logger
}

// NewTopicManager dials the first broker.
func NewTopicManager(brokers []string, prefix string, logger logging.Logger) (*TopicManager, error) {
	if len(brokers) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "brokers required")
	}
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to dial kafka")
	}
	return newTopicManager(conn, prefix, logger), nil
}

func newTopicManager(conn ConnInterface, prefix string, logger logging.Logger) *TopicManager {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &TopicManager{conn: conn, prefix: prefix, logger: logger}
}

// CreateTopic creates cfg unless it already exists.
func (m *TopicManager) CreateTopic(ctx context.Context, cfg TopicConfig) error {
	if cfg.Name == "" {
		return errors.New(errors.ErrCodeValidation, "topic name required")
	}
	if cfg.NumPartitions <= 0 {
		return errors.New(errors.ErrCodeValidation, "NumPartitions must be > 0")
	}
	if cfg.ReplicationFactor <= 0 {
		return errors.New(errors.ErrCodeValidation, "ReplicationFactor must be > 0")
	}

	name := m.prefix + cfg.Name
	kCfg := kafka.TopicConfig{
		Topic:             name,
		NumPartitions:     cfg.NumPartitions,
		ReplicationFactor: cfg.ReplicationFactor,
	}
	if cfg.RetentionMs > 0 {
		kCfg.ConfigEntries = append(kCfg.ConfigEntries, kafka.ConfigEntry{
			ConfigName:  "retention.ms",
			ConfigValue: fmt.Sprintf("%d", cfg.RetentionMs),
		})
	}

	if err := m.conn.CreateTopics(kCfg); err != nil {
		if exists, _ := m.TopicExists(ctx, cfg.Name); exists {
			return nil
		}
		return errors.Wrap(err, errors.ErrCodeExternalService, "create topic "+name)
	}
	m.logger.Info("topic created", logging.String("topic", name))
	return nil
}

// TopicExists reports whether the prefixed topic has partitions.
func (m *TopicManager) TopicExists(_ context.Context, name string) (bool, error) {
	partitions, err := m.conn.ReadPartitions(m.prefix + name)
	if err != nil {
		return false, nil
	}
	return len(partitions) > 0, nil
}

// EnsureTopics creates each topic in order and stops at the first failure.
func (m *TopicManager) EnsureTopics(ctx context.Context, topics []TopicConfig) error {
	for _, topic := range topics {
		if err := m.CreateTopic(ctx, topic); err != nil {
			return err
		}
	}
	return nil
}

// EnsureDefaultTopics creates DefaultTopics.
func (m *TopicManager) EnsureDefaultTopics(ctx context.Context) error {
	return m.EnsureTopics(ctx, DefaultTopics())
}

func (m *TopicManager) Close() error {
	return m.conn.Close()
}

// DefaultTopics lists the topics this service writes to.
func DefaultTopics() []TopicConfig {
	const day = int64(24 * 3600 * 1000)
	return []TopicConfig{
		{Name: TopicExportGenerated, NumPartitions: 3, ReplicationFactor: 1, RetentionMs: 30 * day},
		{Name: TopicSelectionChanged, NumPartitions: 3, ReplicationFactor: 1, RetentionMs: 7 * day},
		{Name: TopicPredictionCompleted, NumPartitions: 3, ReplicationFactor: 1, RetentionMs: 30 * day},
	}
}
