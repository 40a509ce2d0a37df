// Package prediction serves material performance estimates. Backend failures
// never reach the caller: they degrade to a fixed fallback estimate.
package prediction

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/turtacn/AgriMat-Platform/internal/application/events"
	"github.com/turtacn/AgriMat-Platform/internal/application/session"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/database/redis"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/AgriMat-Platform/internal/intelligence/estimator"
	"github.com/turtacn/AgriMat-Platform/pkg/errors"
)

// LoginRequiredMessage is returned to anonymous callers.
const LoginRequiredMessage = "请先登录后使用性能预测功能"

// Fallback is served whenever the backend fails.
var Fallback = estimator.Estimate{
	Lifespan:          1000,
	Efficiency:        85,
	RiskAnalysis:      "API调用失败，显示模拟数据。高温高湿环境下存在疲劳断裂风险。",
	MaintenanceAdvice: "建议每200小时检查一次表面裂纹。",
}

// Result is an estimate plus how it was obtained.
type Result struct {
	estimator.Estimate
	Fallback bool `json:"fallback"`
	Cached   bool `json:"cached"`
}

// Estimator is implemented by *estimator.Estimator.
type Estimator interface {
	Estimate(ctx context.Context, req estimator.Request) (*estimator.Estimate, error)
}

// SessionReader is implemented by *session.Manager.
type SessionReader interface {
	Get(id string) (*session.Session, error)
}

// Service answers prediction requests.
type Service struct {
	est      Estimator
	sessions SessionReader
	cache    redis.Cache
	cacheTTL time.Duration
	emitter  *events.Emitter
	metrics  *prometheus.AppMetrics
	logger   logging.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithCache stores successful estimates for ttl.
func WithCache(c redis.Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

func WithEmitter(e *events.Emitter) Option {
	return func(s *Service) { s.emitter = e }
}

func WithMetrics(m *prometheus.AppMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(est Estimator, sessions SessionReader, logger logging.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &Service{est: est, sessions: sessions, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Predict requires an authenticated session. Invalid input is an error;
// every backend failure yields Fallback with Result.Fallback set.
func (s *Service) Predict(ctx context.Context, sessionID string, req estimator.Request) (*Result, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Authenticated {
		return nil, errors.Unauthorized(LoginRequiredMessage)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := s.estimate(ctx, req)
	if err != nil {
		s.logger.Warn("prediction failed, serving fallback",
			logging.String("material_type", req.MaterialType),
			logging.String("environment", req.Environment),
			logging.String("code", string(errors.GetCode(err))),
			logging.Err(err))
		s.metrics.RecordPrediction("fallback", time.Since(start))
		res = &Result{Estimate: Fallback, Fallback: true}
	} else if res.Cached {
		s.metrics.RecordPrediction("cached", 0)
	} else {
		s.metrics.RecordPrediction("success", time.Since(start))
	}

	s.emitter.Emit(ctx, kafka.TopicPredictionCompleted, sess.ID, kafka.PredictionCompletedPayload{
		SessionID:    sess.ID,
		MaterialType: req.MaterialType,
		Environment:  req.Environment,
		Temperature:  req.Temperature,
		Load:         req.Load,
		Fallback:     res.Fallback,
	})
	return res, nil
}

func (s *Service) estimate(ctx context.Context, req estimator.Request) (*Result, error) {
	if s.est == nil {
		return nil, errors.New(errors.ErrCodeFeatureDisabled, "prediction is disabled")
	}
	if s.cache == nil {
		est, err := s.est.Estimate(ctx, req)
		if err != nil {
			return nil, err
		}
		return &Result{Estimate: *est}, nil
	}

	var est estimator.Estimate
	hit, err := s.cache.GetOrSet(ctx, CacheKey(req), &est, s.cacheTTL, func(ctx context.Context) (interface{}, error) {
		return s.est.Estimate(ctx, req)
	})
	s.metrics.RecordCacheAccess("prediction", hit)
	if err != nil {
		return nil, err
	}
	return &Result{Estimate: est, Cached: hit}, nil
}

// CacheKey identifies a request. Equal requests share a key.
func CacheKey(req estimator.Request) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s\x00%s\x00%g\x00%g", req.MaterialType, req.Environment, req.Temperature, req.Load)))
	return "prediction:" + hex.EncodeToString(sum[:16])
}
