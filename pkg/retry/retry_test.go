package retry

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/orgball2608/facebook-group-parser/pkg/errors"
	"github.com/orgball2608/facebook-group-parser/pkg/logger"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		MaxRetries:      3,
		InitialInterval: 10 * time.Millisecond,
		MaxInterval:     50 * time.Millisecond,
		MaxElapsedTime:  5 * time.Second,
		Multiplier:      2,
	}
}

func testLogger() logger.Logger {
	return logger.New(logger.Opts{})
}

func TestDoRetriesTransientErrors(t *testing.T) {
	attempts := 0
	op := func() error {
		attempts++
		if attempts < 3 {
			return apperrors.WrapTransient(apperrors.New("boom"), "fetch")
		}
		return nil
	}

	err := Do(context.Background(), testLogger(), "fetch", op, testConfig())
	require.NoError(t, err)
	require.Equal(t, 3, attempts)
}

func TestDoDoesNotRetryPermanentErrors(t *testing.T) {
	attempts := 0
	permanent := apperrors.New("bad input")
	op := func() error {
		attempts++
		return permanent
	}

	err := Do(context.Background(), testLogger(), "parse", op, testConfig())
	require.ErrorIs(t, err, permanent)
	// A fatal failure is not an exhausted budget and must not report as one.
	require.NotErrorIs(t, err, apperrors.ErrRetryExhausted)
	require.Equal(t, 1, attempts)
}

func TestDoExhaustsRetryBudget(t *testing.T) {
	cfg := Config{
		MaxRetries:      3,
		InitialInterval: 50 * time.Millisecond,
		MaxInterval:     time.Second,
		MaxElapsedTime:  10 * time.Second,
		Multiplier:      2,
	}

	var stamps []time.Time
	op := func() error {
		stamps = append(stamps, time.Now())
		return apperrors.WrapTransient(apperrors.New("still down"), "fetch")
	}

	err := Do(context.Background(), testLogger(), "fetch", op, cfg)
	require.ErrorIs(t, err, apperrors.ErrRetryExhausted)
	// Initial attempt plus MaxRetries more.
	require.Len(t, stamps, 4)

	// Each wait doubles from the initial interval, randomized by backoff's
	// default +/-50% jitter. The lower bound is exact; the upper gets slack
	// for scheduling delay.
	for i := 1; i < len(stamps); i++ {
		gap := stamps[i].Sub(stamps[i-1])
		interval := cfg.InitialInterval << (i - 1)
		require.GreaterOrEqual(t, gap, interval/2, "attempt %d", i)
		require.LessOrEqual(t, gap, interval*3/2+250*time.Millisecond, "attempt %d", i)
	}
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	op := func() error {
		attempts++
		cancel()
		return apperrors.WrapTransient(apperrors.New("down"), "fetch")
	}

	err := Do(ctx, testLogger(), "fetch", op, testConfig())
	require.ErrorIs(t, err, context.Canceled)
	require.NotErrorIs(t, err, apperrors.ErrRetryExhausted)
	require.Equal(t, 1, attempts)
}
