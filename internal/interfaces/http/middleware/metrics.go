package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/prometheus"
)

// Metrics records request count and latency labelled by route template, so
// /materials/AL-01 and /materials/AL-02 share a series.
func Metrics(m *prometheus.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		method := c.Request.Method
		active := m.HTTPActiveRequests.WithLabelValues(method)
		active.Inc()
		start := time.Now()

		c.Next()

		active.Dec()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RecordHTTPRequest(method, path, c.Writer.Status(), time.Since(start))
	}
}
