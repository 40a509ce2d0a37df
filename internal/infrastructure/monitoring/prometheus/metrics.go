package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds all application metrics. A nil *AppMetrics is valid and
// records nothing.
type AppMetrics struct {
	// HTTP
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Comparison
	ComparisonsTotal    CounterVec
	ComparisonDuration  HistogramVec
	SelectionRejections CounterVec
	SelectionSize       HistogramVec
	ActiveSessions      GaugeVec

	// Exports
	ExportsTotal CounterVec
	ExportBytes  HistogramVec

	// Prediction
	PredictionsTotal   CounterVec
	PredictionDuration HistogramVec

	// Infrastructure
	CacheHitsTotal   CounterVec
	CacheMissesTotal CounterVec
	EventsPublished  CounterVec
	ErrorsTotal      CounterVec
}

var (
	DefaultHTTPDurationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultLLMDurationBuckets  = []float64{.5, 1, 2, 5, 10, 30, 60}
	DefaultSizeBuckets         = []float64{100, 1000, 10000, 100000, 1000000, 10000000}
	SelectionSizeBuckets       = []float64{1, 2, 3, 4, 5, 6}
)

// NewAppMetrics registers all metrics on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method")

	m.ComparisonsTotal = collector.RegisterCounter("comparisons_total", "Comparison table and score computations", "source")
	m.ComparisonDuration = collector.RegisterHistogram("comparison_duration_seconds", "Comparison computation duration", DefaultHTTPDurationBuckets)
	m.SelectionRejections = collector.RegisterCounter("selection_rejections_total", "Rejected comparison selection changes", "reason")
	m.SelectionSize = collector.RegisterHistogram("selection_size", "Selection size at comparison time", SelectionSizeBuckets)
	m.ActiveSessions = collector.RegisterGauge("active_sessions", "Live sessions", "state")

	m.ExportsTotal = collector.RegisterCounter("exports_total", "Generated exports", "kind", "format", "status")
	m.ExportBytes = collector.RegisterHistogram("export_bytes", "Export artifact size", DefaultSizeBuckets, "format")

	m.PredictionsTotal = collector.RegisterCounter("predictions_total", "Performance predictions", "outcome")
	m.PredictionDuration = collector.RegisterHistogram("prediction_duration_seconds", "Prediction backend latency", DefaultLLMDurationBuckets)

	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.EventsPublished = collector.RegisterCounter("events_published_total", "Published events", "topic", "status")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "error_type")

	return m
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func (m *AppMetrics) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordComparison counts a computation; source is "cache" or "computed".
func (m *AppMetrics) RecordComparison(source string, selected int, duration time.Duration) {
	if m == nil {
		return
	}
	m.ComparisonsTotal.WithLabelValues(source).Inc()
	m.ComparisonDuration.WithLabelValues().Observe(duration.Seconds())
	m.SelectionSize.WithLabelValues().Observe(float64(selected))
}

func (m *AppMetrics) RecordSelectionRejected(reason string) {
	if m == nil {
		return
	}
	m.SelectionRejections.WithLabelValues(reason).Inc()
}

func (m *AppMetrics) SetActiveSessions(total, authenticated int) {
	if m == nil {
		return
	}
	m.ActiveSessions.WithLabelValues("total").Set(float64(total))
	m.ActiveSessions.WithLabelValues("authenticated").Set(float64(authenticated))
}

func (m *AppMetrics) RecordExport(kind, format string, size int, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.ExportsTotal.WithLabelValues(kind, format, status).Inc()
	if err == nil {
		m.ExportBytes.WithLabelValues(format).Observe(float64(size))
	}
}

// RecordPrediction counts a prediction; outcome is one of "success",
// "fallback" or "cached".
func (m *AppMetrics) RecordPrediction(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.PredictionsTotal.WithLabelValues(outcome).Inc()
	if outcome != "cached" {
		m.PredictionDuration.WithLabelValues().Observe(duration.Seconds())
	}
}

func (m *AppMetrics) RecordCacheAccess(cache string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

func (m *AppMetrics) RecordEvent(topic string, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.EventsPublished.WithLabelValues(topic, status).Inc()
}

func (m *AppMetrics) RecordError(component, errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
