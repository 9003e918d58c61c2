// Package ratelimit holds a Redis-backed store for echo's rate limiter
// middleware, so several service instances share one budget per client.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4/middleware"
)

const keyPrefix = "ratelimit"

var _ middleware.RateLimiterStore = (*RedisStore)(nil)

// RedisStore is a fixed-window counter: at most limit requests per identifier
// in each window.
type RedisStore struct {
	rdb     *redis.Client
	limit   int64
	window  time.Duration
	timeout time.Duration
	now     func() time.Time
}

func NewRedisStore(rdb *redis.Client, limit int, window time.Duration) *RedisStore {
	if window <= 0 {
		window = time.Second
	}
	return &RedisStore{
		rdb:     rdb,
		limit:   int64(limit),
		window:  window,
		timeout: 500 * time.Millisecond,
		now:     time.Now,
	}
}

// Allow implements middleware.RateLimiterStore.
func (s *RedisStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	slot := s.now().UnixMilli() / s.window.Milliseconds()
	key := fmt.Sprintf("%s:%s:%d", keyPrefix, identifier, slot)

	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return incr.Val() <= s.limit, nil
}
