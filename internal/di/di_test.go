package di

import (
	"testing"

	"DemandCast/internal/service/ratelimit"
	"DemandCast/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeAppDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Output = "stderr"

	app, err := InitializeApp(cfg)
	require.NoError(t, err)
	require.NotNil(t, app.Server())

	routes := map[string]bool{}
	for _, r := range app.Server().Echo().Routes() {
		routes[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"POST /api/predict",
		"POST /api/predict-batch",
		"GET /api/health",
		"GET /api/model-info",
		"GET /api/describe",
		"GET /metrics",
	} {
		assert.True(t, routes[want], want)
	}
}

func TestProvideLimiter(t *testing.T) {
	cfg := config.Default()
	_, ok := ProvideLimiter(cfg).(*ratelimit.Limiter)
	assert.True(t, ok)

	cfg.RateLimit.Backend = "redis"
	r, ok := ProvideLimiter(cfg).(*ratelimit.RedisLimiter)
	require.True(t, ok)
	require.NoError(t, r.Close())

	cfg.RateLimit.Enabled = false
	assert.Nil(t, ProvideLimiter(cfg))
}

func TestProvideKafkaProducerDisabled(t *testing.T) {
	p, err := ProvideKafkaProducer(config.Default())
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestInvalidLogLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "loud"
	_, err := InitializeApp(cfg)
	assert.Error(t, err)
}
