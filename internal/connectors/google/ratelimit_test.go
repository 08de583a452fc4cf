package google

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRateLimiter_SheetsDefaults(t *testing.T) {
	r := NewRateLimiter(ServiceSheets)

	for i := 0; i < DefaultRateLimits[ServiceSheets].BurstSize; i++ {
		assert.True(t, r.Allow(), "burst request %d", i)
	}
	assert.False(t, r.Allow(), "burst exhausted")
}

func TestRateLimiter_BackoffBlocksAllow(t *testing.T) {
	r := NewRateLimiterWithConfig(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 10})
	require.True(t, r.Allow())

	r.RecordRateLimitError(30)
	assert.False(t, r.Allow())
	assert.WithinDuration(t, time.Now().Add(30*time.Second), r.BackoffUntil(), time.Second)

	r.RecordRateLimitError(0)
	assert.WithinDuration(t, time.Now().Add(defaultBackoff), r.BackoffUntil(), time.Second)
}

func TestRateLimiter_WaitRespectsContext(t *testing.T) {
	r := NewRateLimiterWithConfig(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 10})
	r.RecordRateLimitError(60)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := r.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimiter_WaitWithoutBackoff(t *testing.T) {
	r := NewRateLimiterWithConfig(RateLimitConfig{RequestsPerSecond: 100, BurstSize: 10})
	assert.NoError(t, r.Wait(context.Background()))
}
