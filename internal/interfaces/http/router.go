// Package http assembles the gin engine and the HTTP server of the platform.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/AgriMat-Platform/internal/application/session"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/AgriMat-Platform/internal/interfaces/http/handlers"
	"github.com/turtacn/AgriMat-Platform/internal/interfaces/http/middleware"
	"github.com/turtacn/AgriMat-Platform/pkg/errors"
	"github.com/turtacn/AgriMat-Platform/pkg/types/common"
)

// APIPrefix is the root of the versioned API.
const APIPrefix = "/api/v1"

// RouterConfig aggregates the handler and middleware dependencies of the
// route tree. Nil handlers leave their routes unregistered.
type RouterConfig struct {
	// Handlers
	HealthHandler     *handlers.HealthHandler
	SessionHandler    *handlers.SessionHandler
	MaterialHandler   *handlers.MaterialHandler
	ComparisonHandler *handlers.ComparisonHandler
	EquipmentHandler  *handlers.EquipmentHandler
	ShowcaseHandler   *handlers.ShowcaseHandler
	PredictionHandler *handlers.PredictionHandler

	// Middleware
	Sessions         *session.Manager
	SessionCookie    string
	SecureCookie     bool
	CORS             middleware.CORSConfig
	Logging          middleware.LoggingConfig
	PredictionLimit  middleware.RateLimiter
	MetricsCollector prometheus.MetricsCollector
	Metrics          *prometheus.AppMetrics

	Mode   string
	Logger logging.Logger
}

// NewRouter builds the engine: global middleware, probes and /metrics at the
// root, then the /api/v1 groups. Comparison and prediction routes always run
// with a live session; the rest only read one when present.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNopLogger()
	}
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(
		middleware.Recovery(cfg.Logger, cfg.Metrics),
		middleware.RequestID(),
		middleware.CORS(cfg.CORS),
		middleware.RequestLogging(cfg.Logger, cfg.Logging),
		middleware.Metrics(cfg.Metrics),
	)
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, common.ErrorResponse{
			Code:    errors.ErrCodeNotFound.String(),
			Message: "route not found",
			Detail:  c.Request.URL.Path,
		})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, common.ErrorResponse{
			Code:    errors.ErrCodeBadRequest.String(),
			Message: "method not allowed",
			Detail:  c.Request.Method + " " + c.Request.URL.Path,
		})
	})

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(r)
	}
	if cfg.MetricsCollector != nil {
		r.GET("/metrics", gin.WrapH(cfg.MetricsCollector.Handler()))
	}

	sessionCfg := middleware.SessionConfig{CookieName: cfg.SessionCookie, Secure: cfg.SecureCookie}
	api := r.Group(APIPrefix)
	if cfg.Sessions != nil {
		api.Use(middleware.Session(cfg.Sessions, sessionCfg))
	}

	if cfg.SessionHandler != nil {
		cfg.SessionHandler.RegisterRoutes(api)
	}
	if cfg.MaterialHandler != nil {
		cfg.MaterialHandler.RegisterRoutes(api)
	}
	if cfg.EquipmentHandler != nil {
		cfg.EquipmentHandler.RegisterRoutes(api)
	}
	if cfg.ShowcaseHandler != nil {
		cfg.ShowcaseHandler.RegisterRoutes(api)
	}

	stateful := api.Group("")
	if cfg.Sessions != nil {
		ensure := sessionCfg
		ensure.Ensure = true
		stateful.Use(middleware.Session(cfg.Sessions, ensure))
	}
	if cfg.ComparisonHandler != nil {
		cfg.ComparisonHandler.RegisterRoutes(stateful)
	}
	if cfg.PredictionHandler != nil {
		var limit []gin.HandlerFunc
		if cfg.PredictionLimit != nil {
			limit = append(limit, middleware.RateLimit(cfg.PredictionLimit, nil))
		}
		cfg.PredictionHandler.RegisterRoutes(stateful, limit...)
	}

	return r
}
