package cli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/RegistryRisk-Intelligence/internal/application/classification"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/config"
	"github.com/turtacn/RegistryRisk-Intelligence/internal/infrastructure/monitoring/logging"
)

func defaultConfig() *config.Config {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	return cfg
}

func TestBuildApp_NoBackends(t *testing.T) {
	a, err := buildApp(defaultConfig(), logging.NewNopLogger(), appOptions{})
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.engine)
	assert.NotNil(t, a.service)
	assert.Nil(t, a.producer)
	assert.Nil(t, a.metricsHandler())
	assert.Empty(t, a.checkers)

	rec, err := a.service.Submit(context.Background(), classification.Request{Content: extractText})
	require.NoError(t, err)
	assert.False(t, rec.Cached)
}

func TestBuildApp_RedisAndMetrics(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := defaultConfig()
	cfg.Redis.Addr = mr.Addr()
	cfg.Metrics.Enabled = true

	a, err := buildApp(cfg, logging.NewNopLogger(), appOptions{})
	require.NoError(t, err)
	defer a.Close()

	require.Len(t, a.checkers, 1)
	assert.Equal(t, "redis", a.checkers[0].Name())
	assert.NoError(t, a.checkers[0].Check(context.Background()))

	ctx := context.Background()
	first, err := a.service.Submit(ctx, classification.Request{Content: extractText})
	require.NoError(t, err)
	second, err := a.service.Submit(ctx, classification.Request{Content: extractText})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.ID, second.ID)

	rr := httptest.NewRecorder()
	a.metricsHandler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "regrisk_")
}

func TestBuildApp_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := defaultConfig()
	cfg.Redis.Addr = addr
	a, err := buildApp(cfg, logging.NewNopLogger(), appOptions{})
	assert.Error(t, err)
	assert.Nil(t, a)
}

func TestBuildApp_PublisherClosesProducer(t *testing.T) {
	a, err := buildApp(defaultConfig(), logging.NewNopLogger(), appOptions{publishResults: true})
	require.NoError(t, err)
	require.NotNil(t, a.producer)
	require.Len(t, a.closers, 1)

	a.Close()
	assert.Empty(t, a.closers)
	assert.Error(t, a.producer.Publish(context.Background(), nil))
}

func TestBuildApp_FailureClosesOpenedBackends(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := defaultConfig()
	cfg.Redis.Addr = mr.Addr()
	cfg.MinIO.Endpoint = "bad endpoint:9000"

	var a *app
	var err error
	require.NotPanics(t, func() {
		a, err = buildApp(cfg, logging.NewNopLogger(), appOptions{})
	})
	assert.Error(t, err)
	assert.Nil(t, a)
	assert.Eventually(t, func() bool { return mr.CurrentConnectionCount() == 0 },
		2*time.Second, 10*time.Millisecond, "redis client must be closed")
}

func TestApp_CloseNil(t *testing.T) {
	var a *app
	assert.NotPanics(t, a.Close)
}

//Personal.AI order the ending
