package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/turtacn/AgriMat-Platform/internal/application/session"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/prometheus"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ─────────────────────────────────────────────────────────────────────────────
// Request id and logging
// ─────────────────────────────────────────────────────────────────────────────

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	w = serve(r, req)
	assert.Equal(t, "req-42", w.Body.String())
	assert.Equal(t, "req-42", w.Header().Get(HeaderRequestID))
}

func TestRequestLogging_Levels(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := logging.NewLoggerFromCore(core)

	r := gin.New()
	r.Use(RequestID(), RequestLogging(logger, DefaultLoggingConfig()))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, p := range []string{"/ok", "/bad", "/boom", "/healthz"} {
		serve(r, httptest.NewRequest(http.MethodGet, p, nil))
	}

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, zap.ErrorLevel, entries[2].Level)
	assert.Equal(t, "/boom", entries[2].ContextMap()["path"])
	assert.NotEmpty(t, entries[0].ContextMap()["request_id"])
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	r := gin.New()
	r.Use(Recovery(logging.NewLoggerFromCore(core), nil))
	r.GET("/", func(c *gin.Context) { panic("kaboom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"code":"COMMON_001","message":"internal server error"}`, w.Body.String())
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

// ─────────────────────────────────────────────────────────────────────────────
// CORS
// ─────────────────────────────────────────────────────────────────────────────

func corsRouter(origins ...string) *gin.Engine {
	r := gin.New()
	r.Use(CORS(DefaultCORSConfig(origins...)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name    string
		origins []string
		origin  string
		allowed bool
	}{
		{"exact", []string{"https://agrimat.example.com"}, "https://agrimat.example.com", true},
		{"case insensitive", []string{"https://agrimat.example.com"}, "https://AgriMat.example.com", true},
		{"wildcard subdomain", []string{"*.example.com"}, "https://portal.example.com", true},
		{"star", []string{"*"}, "https://anything.test", true},
		{"not listed", []string{"https://agrimat.example.com"}, "https://evil.test", false},
		{"none configured", nil, "https://agrimat.example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Origin", tt.origin)
			w := serve(corsRouter(tt.origins...), req)
			assert.Equal(t, http.StatusOK, w.Code)
			if tt.allowed {
				assert.Equal(t, tt.origin, w.Header().Get("Access-Control-Allow-Origin"))
				assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
				assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), HeaderSessionID)
			} else {
				assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestCORS_Preflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://agrimat.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	r := corsRouter("https://agrimat.example.com")
	r.OPTIONS("/", func(c *gin.Context) { c.Status(http.StatusTeapot) })
	w := serve(r, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodDelete)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), HeaderSessionID)
	assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
}

// ─────────────────────────────────────────────────────────────────────────────
// Session
// ─────────────────────────────────────────────────────────────────────────────

func newManager(t *testing.T) *session.Manager {
	t.Helper()
	m := session.NewManager(session.Config{IdleTTL: time.Hour}, nil, nil)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func sessionRouter(store SessionStore, ensure bool) *gin.Engine {
	r := gin.New()
	r.Use(Session(store, SessionConfig{Ensure: ensure}))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetSessionID(c)) })
	return r
}

func TestSession_HeaderBeatsCookie(t *testing.T) {
	m := newManager(t)
	a, b := m.Create(), m.Create()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderSessionID, a.ID)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: b.ID})
	w := serve(sessionRouter(m, false), req)
	assert.Equal(t, a.ID, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: b.ID})
	w = serve(sessionRouter(m, false), req)
	assert.Equal(t, b.ID, w.Body.String())
}

func TestSession_WithoutEnsureLeavesEmpty(t *testing.T) {
	m := newManager(t)
	w := serve(sessionRouter(m, false), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, w.Body.String())
	assert.Empty(t, w.Header().Get(HeaderSessionID))
	total, _ := m.Count()
	assert.Zero(t, total)
}

func TestSession_EnsureIssuesFreshSession(t *testing.T) {
	m := newManager(t)
	r := sessionRouter(m, true)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	id := w.Body.String()
	require.NotEmpty(t, id)
	assert.Equal(t, id, w.Header().Get(HeaderSessionID))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, DefaultCookieName, cookies[0].Name)
	assert.Equal(t, id, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	_, err := m.Get(id)
	assert.NoError(t, err)

	// A live id is kept.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderSessionID, id)
	w = serve(r, req)
	assert.Equal(t, id, w.Body.String())
	assert.Empty(t, w.Header().Get(HeaderSessionID))

	// An expired or forged id is replaced.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderSessionID, "forged")
	w = serve(r, req)
	assert.NotEqual(t, "forged", w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(HeaderSessionID))
}

// ─────────────────────────────────────────────────────────────────────────────
// Rate limiting
// ─────────────────────────────────────────────────────────────────────────────

func TestTokenBucketLimiter(t *testing.T) {
	l := NewTokenBucketLimiter(1, 2, 0)
	defer l.Stop()
	now := time.Date(2024, 5, 7, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	ok, info := l.Allow("a")
	assert.True(t, ok)
	assert.Equal(t, 1, info.Remaining)
	ok, _ = l.Allow("a")
	assert.True(t, ok)
	ok, info = l.Allow("a")
	assert.False(t, ok)
	assert.Zero(t, info.Remaining)

	ok, _ = l.Allow("b")
	assert.True(t, ok, "keys are independent")

	now = now.Add(time.Second)
	ok, _ = l.Allow("a")
	assert.True(t, ok, "one token refilled after a second")
	assert.Len(t, l.buckets, 2)
}

func TestTokenBucketLimiter_Cleanup(t *testing.T) {
	l := NewTokenBucketLimiter(10, 1, 0)
	defer l.Stop()
	now := time.Date(2024, 5, 7, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	l.cleanupInterval = time.Minute

	l.Allow("a")
	now = now.Add(2 * time.Minute)
	l.cleanup()
	assert.Empty(t, l.buckets)
	l.Stop()
}

func TestRateLimit_Middleware(t *testing.T) {
	l := NewTokenBucketLimiter(0.001, 1, 0)
	defer l.Stop()

	r := gin.New()
	r.Use(RateLimit(l, nil))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = serve(r, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"code":"COMMON_012","message":"too many requests"}`, w.Body.String())

	other := httptest.NewRequest(http.MethodPost, "/", nil)
	other.RemoteAddr = "198.51.100.7:4000"
	assert.Equal(t, http.StatusOK, serve(r, other).Code, "other clients keep their own bucket")
}

// ─────────────────────────────────────────────────────────────────────────────
// Metrics
// ─────────────────────────────────────────────────────────────────────────────

func TestMetrics_RecordsRouteTemplate(t *testing.T) {
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "test"}, nil)
	require.NoError(t, err)
	m := prometheus.NewAppMetrics(collector)

	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/materials/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	serve(r, httptest.NewRequest(http.MethodGet, "/materials/AL-01", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/materials/AL-02", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	w := httptest.NewRecorder()
	collector.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := w.Body.String()
	assert.Contains(t, body, `test_http_requests_total{method="GET",path="/materials/:id",status_code="200"} 2`)
	assert.Contains(t, body, `path="unmatched",status_code="404"`)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	r := gin.New()
	r.Use(Metrics(nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/", nil)).Code)
}
