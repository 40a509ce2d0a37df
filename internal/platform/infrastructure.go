package platform

import (
	"context"
	"time"

	"github.com/turtacn/AgriMat-Platform/internal/config"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/database/redis"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/storage/minio"
	"github.com/turtacn/AgriMat-Platform/internal/interfaces/http/handlers"
)

const topicSetupTimeout = 10 * time.Second

// infrastructure holds the optional backend clients. Nil fields are disabled
// or unreachable backends.
type infrastructure struct {
	redis    *redis.Client
	minio    *minio.MinIOClient
	producer *kafka.Producer
}

// initInfrastructure connects every enabled backend. Failures degrade the
// process instead of stopping it.
func initInfrastructure(ctx context.Context, cfg *config.Config, logger logging.Logger) *infrastructure {
	infra := &infrastructure{}

	if cfg.Redis.Enabled {
		client, err := redis.NewClient(&redis.RedisConfig{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		}, logger.Named("redis"))
		if err != nil {
			logger.Warn("redis disabled, caching off", logging.Err(err))
		} else {
			infra.redis = client
		}
	}

	if cfg.MinIO.Enabled {
		client, err := minio.NewMinIOClient(&minio.MinIOConfig{
			Endpoint:        cfg.MinIO.Endpoint,
			AccessKeyID:     cfg.MinIO.AccessKey,
			SecretAccessKey: cfg.MinIO.SecretKey,
			UseSSL:          cfg.MinIO.UseSSL,
			Region:          cfg.MinIO.Region,
			Bucket:          cfg.MinIO.Bucket,
			PresignExpiry:   cfg.MinIO.PresignExpiry,
		}, logger.Named("minio"))
		if err != nil {
			logger.Warn("minio disabled, exports are not archived", logging.Err(err))
		} else {
			infra.minio = client
		}
	}

	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(kafka.ProducerConfig{
			Brokers:      cfg.Kafka.Brokers,
			TopicPrefix:  cfg.Kafka.TopicPrefix,
			BatchTimeout: cfg.Kafka.BatchTimeout,
			WriteTimeout: cfg.Kafka.WriteTimeout,
		}, logger.Named("kafka"))
		if err != nil {
			logger.Warn("kafka disabled, audit events are dropped", logging.Err(err))
		} else {
			infra.producer = producer
			ensureTopics(ctx, cfg.Kafka, logger)
		}
	}

	logger.Info("infrastructure initialized",
		logging.Bool("redis", infra.redis != nil),
		logging.Bool("minio", infra.minio != nil),
		logging.Bool("kafka", infra.producer != nil))
	return infra
}

// ensureTopics creates the event topics. Brokers with auto-creation enabled
// make this optional, so failures are only logged.
func ensureTopics(ctx context.Context, cfg config.KafkaConfig, logger logging.Logger) {
	mgr, err := kafka.NewTopicManager(cfg.Brokers, cfg.TopicPrefix, logger.Named("kafka"))
	if err != nil {
		logger.Warn("kafka topic setup skipped", logging.Err(err))
		return
	}
	defer mgr.Close()

	ctx, cancel := context.WithTimeout(ctx, topicSetupTimeout)
	defer cancel()
	if err := mgr.EnsureDefaultTopics(ctx); err != nil {
		logger.Warn("kafka topic setup failed", logging.Err(err))
	}
}

// checkers returns the readiness checks of the connected backends.
func (i *infrastructure) checkers() []handlers.HealthChecker {
	var out []handlers.HealthChecker
	if i.redis != nil {
		out = append(out, i.redis)
	}
	if i.minio != nil {
		out = append(out, i.minio)
	}
	return out
}

func (i *infrastructure) Close(logger logging.Logger) {
	if i.producer != nil {
		if err := i.producer.Close(); err != nil {
			logger.Warn("kafka producer close failed", logging.Err(err))
		}
	}
	if i.redis != nil {
		if err := i.redis.Close(); err != nil {
			logger.Warn("redis close failed", logging.Err(err))
		}
	}
}
