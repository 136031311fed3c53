package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	Limit    int
	Window   time.Duration
}

// RedisLimiter is a fixed-window counter shared by every gateway replica.
type RedisLimiter struct {
	cli    *redis.Client
	prefix string
	limit  int64
	window time.Duration
	now    func() time.Time
}

func NewRedisLimiter(cfg RedisConfig) *RedisLimiter {
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "demandcast:rl"
	}
	return &RedisLimiter{cli: rdb, prefix: prefix, limit: int64(cfg.Limit), window: cfg.Window, now: time.Now}
}

// Allow increments the counter of key's current window.
func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := windowKey(r.prefix, key, r.now(), r.window)

	var incr *redis.IntCmd
	_, err := r.cli.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		p.Expire(ctx, k, r.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	return incr.Val() <= r.limit, nil
}

// Ping checks connectivity.
func (r *RedisLimiter) Ping(ctx context.Context) error {
	return r.cli.Ping(ctx).Err()
}

func (r *RedisLimiter) Close() error {
	return r.cli.Close()
}

func windowKey(prefix, key string, now time.Time, window time.Duration) string {
	return fmt.Sprintf("%s:%s:%d", prefix, key, now.UnixNano()/int64(window))
}
