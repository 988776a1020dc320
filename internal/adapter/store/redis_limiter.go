package store

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window counter: at most limit calls per key per
// window.
type RedisLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	prefix string
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  int64(limit),
		window: window,
		prefix: "ratelimit:ai-generate:",
	}
}

func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := r.prefix + key

	pipe := r.client.TxPipeline()
	count := pipe.Incr(ctx, redisKey)
	// NX keeps the first expiry so the window does not slide.
	pipe.ExpireNX(ctx, redisKey, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, errors.Wrap(err, "rate limiter")
	}
	return count.Val() <= r.limit, nil
}
