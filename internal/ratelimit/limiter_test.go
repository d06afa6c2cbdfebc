package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitAllowsBurst(t *testing.T) {
	limiter := New("test", 10)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// The full burst should pass without blocking for long.
	start := time.Now()
	for i := 0; i < 10; i++ {
		require.NoError(t, limiter.Wait(ctx))
	}
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestWaitCancelledContext(t *testing.T) {
	limiter := New("test", 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Drain the burst so the next Wait has to block.
	_ = limiter.Wait(context.Background())

	err := limiter.Wait(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit wait for test")
}

func TestName(t *testing.T) {
	assert.Equal(t, "TMDB", New("TMDB", 4).Name())
}
