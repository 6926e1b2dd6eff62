package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPacerFirstWaitNeverBlocks(t *testing.T) {
	p := NewPacer(time.Hour)

	start := time.Now()
	require.NoError(t, p.Wait(context.Background()))
	require.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestPacerMeasuresFromEndOfPreviousOperation(t *testing.T) {
	p := NewPacer(30 * time.Millisecond)

	var slept time.Duration
	p.sleep = func(ctx context.Context, d time.Duration) error {
		slept = d
		return nil
	}

	require.NoError(t, p.Wait(context.Background()))
	require.Zero(t, slept)

	p.Done()
	require.NoError(t, p.Wait(context.Background()))
	require.Greater(t, slept, time.Duration(0))
	require.LessOrEqual(t, slept, 30*time.Millisecond)
}

func TestPacerSkipsSleepAfterLongOperation(t *testing.T) {
	p := NewPacer(10 * time.Millisecond)

	p.sleep = func(ctx context.Context, d time.Duration) error {
		t.Fatalf("unexpected sleep of %v", d)
		return nil
	}

	p.Done()
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, p.Wait(context.Background()))
}

func TestPacerHonorsContextCancellation(t *testing.T) {
	p := NewPacer(time.Hour)
	p.Done()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, p.Wait(ctx), context.Canceled)
}

func TestLimiterAllowsBurstThenThrottles(t *testing.T) {
	l := NewLimiter(1, time.Hour, 2)

	require.True(t, l.Allow())
	require.True(t, l.Allow())
	require.False(t, l.Allow())
}
