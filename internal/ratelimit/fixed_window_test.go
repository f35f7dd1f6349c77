package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedWindowLimiterRedis(t *testing.T) {
	redis := miniredis.RunT(t)
	limiter, err := NewRedisFixedWindowLimiter(redis.Addr(), "", "test:inquiries", 2, time.Minute)
	require.NoError(t, err)
	defer limiter.Close()

	ctx := context.Background()
	first := limiter.Take(ctx, "10.0.0.1")
	assert.True(t, first.Allowed)
	assert.Equal(t, 2, first.Limit)
	assert.Equal(t, 1, first.Remaining)
	assert.Greater(t, first.Reset, time.Duration(0))
	assert.LessOrEqual(t, first.Reset, time.Minute)

	second := limiter.Take(ctx, "10.0.0.1")
	assert.True(t, second.Allowed)
	assert.Equal(t, 0, second.Remaining)

	third := limiter.Take(ctx, "10.0.0.1")
	assert.False(t, third.Allowed)
	assert.Equal(t, 0, third.Remaining)

	// other keys have their own budget
	assert.True(t, limiter.Take(ctx, "10.0.0.2").Allowed)
}

func TestFixedWindowLimiterFailClosed(t *testing.T) {
	redis := miniredis.RunT(t)
	limiter, err := NewRedisFixedWindowLimiter(redis.Addr(), "", "test:inquiries", 1, time.Minute)
	require.NoError(t, err)
	defer limiter.Close()

	redis.Close()
	d := limiter.Take(context.Background(), "10.0.0.1")
	assert.False(t, d.Allowed)
	assert.Equal(t, 1, d.Limit)
	assert.Equal(t, time.Minute, d.Reset)
}

func TestFixedWindowLimiterValidation(t *testing.T) {
	_, err := NewRedisFixedWindowLimiter("", "", "", 1, time.Second)
	assert.Error(t, err)

	_, err = NewRedisFixedWindowLimiter("127.0.0.1:6379", "", "", 0, time.Second)
	assert.Error(t, err)
}
