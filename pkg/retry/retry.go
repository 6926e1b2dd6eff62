package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	apperrors "github.com/orgball2608/facebook-group-parser/pkg/errors"
	"github.com/orgball2608/facebook-group-parser/pkg/logger"
)

type Config struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
	Multiplier      float64
}

func DefaultConfig() Config {
	return Config{
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		MaxElapsedTime:  2 * time.Minute,
		Multiplier:      2,
	}
}

// Do runs operation under exponential backoff with jitter. Only transient
// errors (see pkg/errors.IsTransient) are retried; anything else fails the
// operation immediately. Cancellation is honored between attempts, never
// mid-attempt.
func Do(ctx context.Context, log logger.Logger, operationName string, operation func() error, cfg Config) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = cfg.InitialInterval
	bo.MaxInterval = cfg.MaxInterval
	bo.MaxElapsedTime = cfg.MaxElapsedTime
	bo.Multiplier = cfg.Multiplier
	bo.Reset()

	retryable := backoff.WithMaxRetries(bo, cfg.MaxRetries)
	retryableWithContext := backoff.WithContext(retryable, ctx)

	gated := func() error {
		err := operation()
		if err != nil && !apperrors.IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, t time.Duration) {
		log.Warn(
			"Operation failed, retrying...",
			"operation", operationName,
			"error", err,
			"next_attempt_in", t.Round(time.Millisecond).String(),
		)
	}

	if err := backoff.RetryNotify(gated, retryableWithContext, notify); err != nil {
		// backoff hands permanent errors (and context errors) back already
		// unwrapped; only a spent budget on a retryable failure counts as
		// exhaustion.
		if !apperrors.IsTransient(err) {
			return err
		}
		return fmt.Errorf("%w: %s: %w", apperrors.ErrRetryExhausted, operationName, err)
	}
	return nil
}
