package ratelimit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestLimiterRefills(t *testing.T) {
	clk := &clock{t: time.Unix(1_700_000_000, 0)}
	l := New(2, 1)
	l.now = clk.now
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := l.Allow(ctx, "10.0.0.1")
	assert.False(t, ok)

	ok, _ = l.Allow(ctx, "10.0.0.2")
	assert.True(t, ok, "keys are independent")

	clk.t = clk.t.Add(time.Second)
	ok, _ = l.Allow(ctx, "10.0.0.1")
	assert.True(t, ok)
}

func TestLimiterSweep(t *testing.T) {
	clk := &clock{t: time.Unix(1_700_000_000, 0)}
	l := New(1, 1)
	l.now = clk.now
	_, _ = l.Allow(context.Background(), "a")

	assert.Equal(t, 0, l.Sweep(time.Minute))
	clk.t = clk.t.Add(2 * time.Minute)
	assert.Equal(t, 1, l.Sweep(time.Minute))
}

func TestWindowKey(t *testing.T) {
	base := time.Unix(1_700_000_040, 0)
	k1 := windowKey("p", "ip", base, time.Minute)
	k2 := windowKey("p", "ip", base.Add(10*time.Second), time.Minute)
	k3 := windowKey("p", "ip", base.Add(70*time.Second), time.Minute)
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}

func TestRedisLimiter(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	r := NewRedisLimiter(RedisConfig{Addr: addr, Prefix: "test:" + uuid.NewString(), Limit: 2, Window: time.Minute})
	defer r.Close()
	ctx := context.Background()
	require.NoError(t, r.Ping(ctx))

	for i := 0; i < 2; i++ {
		ok, err := r.Allow(ctx, "ip")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := r.Allow(ctx, "ip")
	require.NoError(t, err)
	assert.False(t, ok)
}
