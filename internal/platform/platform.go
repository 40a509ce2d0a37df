// Package platform wires configuration, infrastructure and application
// services into a runnable process. cmd/apiserver and the CLI share it.
package platform

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	promclient "github.com/prometheus/client_golang/prometheus"

	appcatalog "github.com/turtacn/AgriMat-Platform/internal/application/catalog"
	"github.com/turtacn/AgriMat-Platform/internal/application/comparison"
	"github.com/turtacn/AgriMat-Platform/internal/application/events"
	"github.com/turtacn/AgriMat-Platform/internal/application/prediction"
	"github.com/turtacn/AgriMat-Platform/internal/application/reporting"
	"github.com/turtacn/AgriMat-Platform/internal/application/session"
	"github.com/turtacn/AgriMat-Platform/internal/config"
	domain "github.com/turtacn/AgriMat-Platform/internal/domain/catalog"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/catalog"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/database/redis"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/storage/minio"
	"github.com/turtacn/AgriMat-Platform/internal/intelligence/estimator"
	httpapi "github.com/turtacn/AgriMat-Platform/internal/interfaces/http"
	"github.com/turtacn/AgriMat-Platform/internal/interfaces/http/handlers"
	"github.com/turtacn/AgriMat-Platform/internal/interfaces/http/middleware"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// limiterCleanupInterval evicts idle prediction rate-limit buckets.
const limiterCleanupInterval = 5 * time.Minute

type options struct {
	offline   bool
	estimator prediction.Estimator
}

// Option customizes Build.
type Option func(*options)

// WithOffline skips redis, minio and kafka regardless of configuration.
func WithOffline() Option {
	return func(o *options) { o.offline = true }
}

// WithEstimator replaces the configured prediction backend.
func WithEstimator(e prediction.Estimator) Option {
	return func(o *options) { o.estimator = e }
}

// Platform holds every long-lived component of one process.
type Platform struct {
	Config    *config.Config
	Logger    logging.Logger
	Collector prometheus.MetricsCollector
	Metrics   *prometheus.AppMetrics

	Store       *domain.Store
	Sessions    *session.Manager
	Catalog     *appcatalog.Service
	Comparison  *comparison.Service
	Reports     *reporting.Service
	Predictions *prediction.Service

	infra   *infrastructure
	limiter *middleware.TokenBucketLimiter
}

// Build loads the catalog, connects the enabled optional backends and
// constructs the services. A backend that cannot be reached is logged and
// left out; only the catalog and metrics setup can fail Build.
func Build(ctx context.Context, cfg *config.Config, logger logging.Logger, opts ...Option) (*Platform, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	p := &Platform{Config: cfg, Logger: logger}

	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger.Named("metrics"))
		if err != nil {
			return nil, err
		}
		p.Collector = collector
		p.Metrics = prometheus.NewAppMetrics(collector)
	}

	store, err := catalog.LoadDefault(cfg.Catalog.SeedPath, logger.Named("catalog"))
	if err != nil {
		return nil, err
	}
	p.Store = store
	if p.Collector != nil {
		buildInfo := promclient.NewGauge(promclient.GaugeOpts{
			Namespace: cfg.Metrics.Namespace,
			Name:      "build_info",
			Help:      "Build and catalog seed identity; always 1.",
			ConstLabels: promclient.Labels{
				"version":         Version,
				"commit":          GitCommit,
				"catalog_version": store.Version(),
			},
		})
		buildInfo.Set(1)
		p.Collector.MustRegister(buildInfo)
	}

	if o.offline {
		p.infra = &infrastructure{}
	} else {
		p.infra = initInfrastructure(ctx, cfg, logger)
	}

	var pub events.Publisher
	if p.infra.producer != nil {
		pub = p.infra.producer
	}
	emitter := events.NewEmitter(pub, logger.Named("events"), p.Metrics)

	p.Sessions = session.NewManager(session.Config{
		IdleTTL:         cfg.Session.IdleTTL,
		JanitorInterval: cfg.Session.JanitorInterval,
		MaxSelection:    cfg.Comparison.MaxSelection,
	}, logger.Named("session"), p.Metrics)

	cmpOpts := []comparison.Option{comparison.WithEmitter(emitter), comparison.WithMetrics(p.Metrics)}
	predOpts := []prediction.Option{prediction.WithEmitter(emitter), prediction.WithMetrics(p.Metrics)}
	if p.infra.redis != nil {
		cache := redis.NewRedisCache(p.infra.redis, logger.Named("cache"),
			redis.WithPrefix(cfg.Redis.KeyPrefix), redis.WithDefaultTTL(cfg.Comparison.CacheTTL))
		cmpOpts = append(cmpOpts, comparison.WithScoreCache(cache, cfg.Comparison.CacheTTL))
		predOpts = append(predOpts, prediction.WithCache(cache, cfg.Prediction.CacheTTL))
	}
	reportOpts := []reporting.Option{reporting.WithEmitter(emitter), reporting.WithMetrics(p.Metrics)}
	if p.infra.minio != nil {
		reportOpts = append(reportOpts, reporting.WithArchiver(minio.NewExportArchive(p.infra.minio, logger.Named("archive"))))
	}

	est := o.estimator
	if est == nil {
		est = newEstimator(ctx, cfg.Prediction, logger)
	}

	p.Catalog = appcatalog.NewService(store, cfg.Catalog.DefaultPageSize, logger.Named("catalog"))
	p.Comparison = comparison.NewService(store, p.Sessions, logger.Named("comparison"), cmpOpts...)
	p.Reports = reporting.NewService(store, logger.Named("reporting"), reportOpts...)
	p.Predictions = prediction.NewService(est, p.Sessions, logger.Named("prediction"), predOpts...)

	if _, err := p.Comparison.SyncCatalogVersion(ctx); err != nil {
		logger.Warn("score cache version check failed", logging.Err(err))
	}
	return p, nil
}

// newEstimator returns the Gemini backed estimator, or one that always
// fails with ErrCodeFeatureDisabled so callers get the fallback.
func newEstimator(ctx context.Context, cfg config.PredictionConfig, logger logging.Logger) *estimator.Estimator {
	log := logger.Named("estimator")
	if !cfg.Enabled {
		return estimator.New(nil, cfg.Timeout, log)
	}
	gen, err := estimator.NewGenAIGenerator(ctx, estimator.Config{APIKey: cfg.APIKey, Model: cfg.Model, Timeout: cfg.Timeout})
	if err != nil {
		log.Warn("prediction backend unavailable, serving fallback estimates", logging.Err(err))
		return estimator.New(nil, cfg.Timeout, log)
	}
	log.Info("prediction backend configured", logging.String("model", gen.Model()))
	return estimator.New(gen, cfg.Timeout, log)
}

// Router assembles the HTTP route tree over the platform services.
func (p *Platform) Router() *gin.Engine {
	cfg := p.Config
	if p.limiter == nil {
		p.limiter = middleware.NewTokenBucketLimiter(cfg.Prediction.RatePerSecond, cfg.Prediction.Burst, limiterCleanupInterval)
	}
	logCfg := middleware.DefaultLoggingConfig()
	if cfg.Server.SlowThreshold > 0 {
		logCfg.SlowThreshold = cfg.Server.SlowThreshold
	}

	return httpapi.NewRouter(httpapi.RouterConfig{
		HealthHandler:     handlers.NewHealthHandler(Version, p.Catalog.Stats, p.infra.checkers()...),
		SessionHandler:    handlers.NewSessionHandler(p.Sessions, cfg.Session.CookieName, cfg.Session.SecureCookie, p.Logger),
		MaterialHandler:   handlers.NewMaterialHandler(p.Catalog, p.Reports, p.Logger),
		ComparisonHandler: handlers.NewComparisonHandler(p.Comparison, p.Reports, cfg.Comparison.MaxSelection, p.Logger),
		EquipmentHandler:  handlers.NewEquipmentHandler(p.Catalog, p.Logger),
		ShowcaseHandler:   handlers.NewShowcaseHandler(p.Catalog, p.Logger),
		PredictionHandler: handlers.NewPredictionHandler(p.Predictions, p.Logger),
		Sessions:          p.Sessions,
		SessionCookie:     cfg.Session.CookieName,
		SecureCookie:      cfg.Session.SecureCookie,
		CORS:              middleware.DefaultCORSConfig(cfg.Server.CORSOrigins...),
		Logging:           logCfg,
		PredictionLimit:   p.limiter,
		MetricsCollector:  p.Collector,
		Metrics:           p.Metrics,
		Mode:              cfg.Server.Mode,
		Logger:            p.Logger,
	})
}

// Serve runs the HTTP server until ctx is cancelled, then drains it.
func (p *Platform) Serve(ctx context.Context) error {
	srv := httpapi.NewServer(httpapi.ServerConfig{
		Host:            p.Config.Server.Host,
		Port:            p.Config.Server.Port,
		ReadTimeout:     p.Config.Server.ReadTimeout,
		WriteTimeout:    p.Config.Server.WriteTimeout,
		ShutdownTimeout: p.Config.Server.ShutdownTimeout,
	}, p.Router(), p.Logger)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	p.Logger.Info("shutting down http server")
	return srv.Stop(context.Background())
}

// WatchConfig applies log level changes from configPath without a restart.
func (p *Platform) WatchConfig(configPath string) {
	if configPath == "" {
		return
	}
	config.Watch(configPath, func(next *config.Config) {
		if next.Log.Level == p.Config.Log.Level {
			return
		}
		if logging.SetLevel(p.Logger, next.Log.Level) {
			p.Logger.Info("log level changed",
				logging.String("from", p.Config.Log.Level),
				logging.String("to", next.Log.Level))
			p.Config.Log.Level = next.Log.Level
		}
	}, func(err error) {
		p.Logger.Warn("config reload rejected", logging.Err(err))
	})
}

// Close releases every component. It is safe to call once after Build.
func (p *Platform) Close() error {
	if p.limiter != nil {
		p.limiter.Stop()
	}
	err := p.Sessions.Close()
	p.infra.Close(p.Logger)
	return err
}
