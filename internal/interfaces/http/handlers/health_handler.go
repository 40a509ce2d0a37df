package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/AgriMat-Platform/pkg/types/common"
)

// HealthChecker is implemented by the optional infrastructure clients
// (redis, minio).
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	checkers []HealthChecker
	version  string
	startAt  time.Time
	stats    func() map[string]int
	timeout  time.Duration
}

// NewHealthHandler creates a HealthHandler. stats reports catalog record
// counts and may be nil.
func NewHealthHandler(version string, stats func() map[string]int, checkers ...HealthChecker) *HealthHandler {
	return &HealthHandler{
		checkers: checkers,
		version:  version,
		startAt:  time.Now(),
		stats:    stats,
		timeout:  5 * time.Second,
	}
}

// RegisterRoutes registers the probes on the engine root.
func (h *HealthHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/healthz", h.Liveness)
	r.GET("/readyz", h.Readiness)
}

// LivenessResponse is the body of /healthz.
type LivenessResponse struct {
	Status  common.HealthStatus `json:"status"`
	Version string              `json:"version"`
	Uptime  string              `json:"uptime"`
	Catalog map[string]int      `json:"catalog,omitempty"`
}

// ReadinessResponse is the body of /readyz.
type ReadinessResponse struct {
	Status     common.HealthStatus               `json:"status"`
	Components map[string]common.ComponentHealth `json:"components,omitempty"`
}

// Liveness never checks dependencies.
func (h *HealthHandler) Liveness(c *gin.Context) {
	resp := LivenessResponse{
		Status:  common.HealthUp,
		Version: h.version,
		Uptime:  time.Since(h.startAt).Truncate(time.Second).String(),
	}
	if h.stats != nil {
		resp.Catalog = h.stats()
	}
	c.JSON(http.StatusOK, resp)
}

// Readiness returns 503 when any configured dependency is down.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if len(h.checkers) == 0 {
		c.JSON(http.StatusOK, ReadinessResponse{Status: common.HealthUp})
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	components := h.checkAll(ctx)
	resp := ReadinessResponse{Status: common.HealthUp, Components: components}
	for _, comp := range components {
		if comp.Status != common.HealthUp {
			resp.Status = common.HealthDown
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HealthHandler) checkAll(ctx context.Context) map[string]common.ComponentHealth {
	results := make(map[string]common.ComponentHealth, len(h.checkers))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, checker := range h.checkers {
		wg.Add(1)
		go func(hc HealthChecker) {
			defer wg.Done()
			start := time.Now()
			err := hc.Check(ctx)
			res := common.ComponentHealth{
				Name:    hc.Name(),
				Status:  common.HealthUp,
				Latency: time.Since(start),
			}
			if err != nil {
				res.Status = common.HealthDown
				res.Message = err.Error()
			}
			mu.Lock()
			results[hc.Name()] = res
			mu.Unlock()
		}(checker)
	}
	wg.Wait()
	return results
}
