package ratelimiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestLimiter は時刻とスリープを差し替えたRateLimiterを生成します。
func newTestLimiter(limit int, interval time.Duration, clock *time.Time, slept *[]time.Duration) *RateLimiter {
	rl := NewRateLimiter(limit, interval)
	rl.now = func() time.Time { return *clock }
	rl.lastReset = *clock
	rl.sleep = func(ctx context.Context, d time.Duration) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		*slept = append(*slept, d)
		*clock = clock.Add(d)
		return nil
	}
	return rl
}

// TestRateLimiter_WithinLimit は上限以内の呼び出しで待機しないことを検証します。
func TestRateLimiter_WithinLimit(t *testing.T) {
	t.Parallel()

	clock := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	var slept []time.Duration
	rl := newTestLimiter(3, time.Minute, &clock, &slept)

	for i := 0; i < 3; i++ {
		require.NoError(t, rl.WaitIfNeeded(context.Background()))
	}
	assert.Empty(t, slept)
}

// TestRateLimiter_WaitsWhenExceeded は上限超過時にウィンドウ残り時間だけ待機することを検証します。
func TestRateLimiter_WaitsWhenExceeded(t *testing.T) {
	t.Parallel()

	clock := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	var slept []time.Duration
	rl := newTestLimiter(2, time.Minute, &clock, &slept)

	require.NoError(t, rl.WaitIfNeeded(context.Background()))
	clock = clock.Add(20 * time.Second)
	require.NoError(t, rl.WaitIfNeeded(context.Background()))
	require.NoError(t, rl.WaitIfNeeded(context.Background()))

	require.Len(t, slept, 1)
	assert.Equal(t, 40*time.Second, slept[0])
	assert.Equal(t, 1, rl.count)
}

// TestRateLimiter_ResetsAfterInterval はインターバル経過後にカウントがリセットされることを検証します。
func TestRateLimiter_ResetsAfterInterval(t *testing.T) {
	t.Parallel()

	clock := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	var slept []time.Duration
	rl := newTestLimiter(1, time.Minute, &clock, &slept)

	require.NoError(t, rl.WaitIfNeeded(context.Background()))
	clock = clock.Add(time.Minute)
	require.NoError(t, rl.WaitIfNeeded(context.Background()))
	assert.Empty(t, slept)
}

// TestRateLimiter_CanceledContext は待機中のキャンセルでエラーが返ることを検証します。
func TestRateLimiter_CanceledContext(t *testing.T) {
	t.Parallel()

	clock := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	var slept []time.Duration
	rl := newTestLimiter(1, time.Minute, &clock, &slept)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, rl.WaitIfNeeded(ctx))
	err := rl.WaitIfNeeded(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

// TestRateLimiter_Unlimited はlimitが0以下の場合やnilレシーバで制限されないことを検証します。
func TestRateLimiter_Unlimited(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(0, time.Minute)
	for i := 0; i < 100; i++ {
		assert.NoError(t, rl.WaitIfNeeded(context.Background()))
	}

	var nilLimiter *RateLimiter
	assert.NoError(t, nilLimiter.WaitIfNeeded(context.Background()))
}
