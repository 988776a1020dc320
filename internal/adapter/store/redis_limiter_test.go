package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisLimiter_AllowsUpToLimitPerWindow(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	limiter := NewRedisLimiter(client, 2, time.Minute)

	for i := range 2 {
		ok, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok, "call %d", i+1)
	}

	ok, err := limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = limiter.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, ok, "keys are independent")

	mr.FastForward(time.Minute + time.Second)

	ok, err = limiter.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok, "window reset")
}

func TestRedisLimiter_ErrorWhenRedisDown(t *testing.T) {
	mr, client := newTestRedis(t)
	limiter := NewRedisLimiter(client, 1, time.Minute)
	mr.Close()

	_, err := limiter.Allow(context.Background(), "10.0.0.1")
	assert.Error(t, err)
}
