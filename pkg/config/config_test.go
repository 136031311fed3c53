package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, "development", c.Environment)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, 10*time.Second, c.Server.ReadTimeout)
	assert.Equal(t, "http://localhost:8000", c.Scoring.BaseURL)
	assert.Equal(t, "info", c.Logging.Level)
	assert.Equal(t, "memory", c.RateLimit.Backend)
	assert.Equal(t, -1, c.Kafka.RequiredAcks)
	assert.False(t, c.Kafka.Enabled)
	require.NoError(t, c.Validate())
}

func TestParseOverridesDefaults(t *testing.T) {
	c, err := Parse([]byte(`
environment: production
server:
  port: 9090
  read_timeout: 3s
scoring:
  base_url: https://scoring.internal:8443
ratelimit:
  backend: redis
  limit: 10
  window: 30s
logging:
  level: warn
  format: json
`))
	require.NoError(t, err)
	assert.Equal(t, "production", c.Environment)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, 3*time.Second, c.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, c.Server.ShutdownTimeout)
	assert.Equal(t, "https://scoring.internal:8443", c.Scoring.BaseURL)
	assert.Equal(t, "redis", c.RateLimit.Backend)
	assert.Equal(t, 30*time.Second, c.RateLimit.Window)
	assert.Equal(t, "warn", c.Logging.Level)
	assert.Equal(t, "json", c.Logging.Format)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"relative base url", "scoring:\n  base_url: localhost:8000\n"},
		{"bad port", "server:\n  port: 70000\n"},
		{"unknown limiter", "ratelimit:\n  backend: memcached\n"},
		{"kafka without brokers", "kafka:\n  enabled: true\n"},
		{"bad trusted proxy", "server:\n  trusted_proxies: [\"10.0.0.0\"]\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadWithEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("environment: staging\n"), 0o644))

	t.Setenv("SCORING_BASE_URL", "http://scoring:8000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	c, err := LoadWithEnv(path)
	require.NoError(t, err)
	assert.Equal(t, "staging", c.Environment)
	assert.Equal(t, "http://scoring:8000", c.Scoring.BaseURL)
	assert.Equal(t, "debug", c.Logging.Level)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Kafka.Brokers)
	assert.True(t, c.Kafka.Enabled)
}

func TestLoadWithEnvMissingFileUsesDefaults(t *testing.T) {
	c, err := LoadWithEnv(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, c.Server.Port)
}
