package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/AgriMat-Platform/internal/config"
	"github.com/turtacn/AgriMat-Platform/internal/domain/user"
	"github.com/turtacn/AgriMat-Platform/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AgriMat-Platform/internal/intelligence/estimator"
	"github.com/turtacn/AgriMat-Platform/internal/testutil"
)

type fixedEstimator struct{}

func (fixedEstimator) Estimate(ctx context.Context, req estimator.Request) (*estimator.Estimate, error) {
	return &estimator.Estimate{Lifespan: 3000, Efficiency: 88, RiskAnalysis: "低", MaintenanceAdvice: "定期润滑"}, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Server.Mode = "test"
	cfg.Metrics.Enabled = true
	return cfg
}

func TestBuild_Offline(t *testing.T) {
	cfg := testConfig()
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = "127.0.0.1:1"

	p, err := Build(context.Background(), cfg, logging.NewNopLogger(), WithOffline(), WithEstimator(fixedEstimator{}))
	require.NoError(t, err)
	defer p.Close()

	assert.Nil(t, p.infra.redis, "offline build must not dial redis")
	assert.Empty(t, p.infra.checkers())
	assert.Equal(t, 33, p.Store.Stats()["materials"])
	require.NotNil(t, p.Metrics)

	sess := p.Sessions.Create()
	_, err = p.Sessions.Login(sess.ID, "tester", user.LoginPassword)
	require.NoError(t, err)
	res, err := p.Predictions.Predict(context.Background(), sess.ID, estimator.Request{
		MaterialType: estimator.MaterialTypes[0],
		Environment:  estimator.Environments[0],
		Temperature:  20,
		Load:         100,
	})
	require.NoError(t, err)
	assert.Equal(t, 3000.0, res.Lifespan)
	assert.False(t, res.Fallback)
}

func TestBuild_UnreachableBackendsDegrade(t *testing.T) {
	cfg := testConfig()
	cfg.Redis.Enabled = true
	cfg.Redis.Addr = "127.0.0.1:1"
	cfg.Redis.DialTimeout = 100 * time.Millisecond

	logger := testutil.NewRecordingLogger()
	p, err := Build(context.Background(), cfg, logger, WithEstimator(fixedEstimator{}))
	require.NoError(t, err)
	defer p.Close()
	assert.Nil(t, p.infra.redis)

	_, ok := logger.Find("warn", "redis disabled")
	assert.True(t, ok)
}

func TestBuild_DisabledPredictionFallsBack(t *testing.T) {
	cfg := testConfig()
	p, err := Build(context.Background(), cfg, logging.NewNopLogger(), WithOffline())
	require.NoError(t, err)
	defer p.Close()

	sess := p.Sessions.Create()
	_, err = p.Sessions.Login(sess.ID, "tester", user.LoginPassword)
	require.NoError(t, err)
	res, err := p.Predictions.Predict(context.Background(), sess.ID, estimator.Request{
		MaterialType: estimator.MaterialTypes[1],
		Environment:  estimator.Environments[1],
		Temperature:  30,
		Load:         200,
	})
	require.NoError(t, err)
	assert.True(t, res.Fallback)
}

func TestBuild_BadSeedPath(t *testing.T) {
	cfg := testConfig()
	cfg.Catalog.SeedPath = "/nonexistent/catalog.yaml"
	_, err := Build(context.Background(), cfg, nil, WithOffline())
	require.Error(t, err)
}

func TestRouter_ServesHealth(t *testing.T) {
	p, err := Build(context.Background(), testConfig(), logging.NewNopLogger(), WithOffline(), WithEstimator(fixedEstimator{}))
	require.NoError(t, err)
	defer p.Close()

	router := p.Router()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `build_info{catalog_version="`+p.Store.Version()+`"`)
}

func TestRouter_SecureSessionCookie(t *testing.T) {
	for _, secure := range []bool{false, true} {
		cfg := testConfig()
		cfg.Session.SecureCookie = secure
		p, err := Build(context.Background(), cfg, logging.NewNopLogger(), WithOffline(), WithEstimator(fixedEstimator{}))
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		p.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/comparison", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var cookie *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == cfg.Session.CookieName {
				cookie = c
			}
		}
		require.NotNil(t, cookie, "secure=%v", secure)
		assert.Equal(t, secure, cookie.Secure)
		assert.True(t, cookie.HttpOnly)
		require.NoError(t, p.Close())
	}
}

func TestServe_StopsOnCancel(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	p, err := Build(context.Background(), cfg, logging.NewNopLogger(), WithOffline(), WithEstimator(fixedEstimator{}))
	require.NoError(t, err)
	defer p.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Serve(ctx) }()
	cancel()
	assert.NoError(t, <-done)
}
