package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Pacer enforces the minimum delay between network operations, measured from
// the end of the previous operation to the start of the next. Every fetch is
// paced, not just retried ones.
type Pacer struct {
	mu    sync.Mutex
	min   time.Duration
	last  time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewPacer(min time.Duration) *Pacer {
	return &Pacer{min: min, sleep: sleepCtx}
}

// Wait blocks until the configured delay since the last Done has elapsed.
// The first call never blocks.
func (p *Pacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	var d time.Duration
	if !p.last.IsZero() {
		d = p.min - time.Since(p.last)
	}
	p.mu.Unlock()

	if d <= 0 {
		return ctx.Err()
	}
	return p.sleep(ctx, d)
}

// Done marks the end of an operation; the next Wait is measured from here.
func (p *Pacer) Done() {
	p.mu.Lock()
	p.last = time.Now()
	p.mu.Unlock()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Limiter is a token-bucket guard for chatty downstreams (the Telegram API
// caps message throughput per chat).
type Limiter struct {
	lim *rate.Limiter
}

// NewLimiter allows `requests` operations per `per`, with the given burst.
// Example: NewLimiter(1, time.Second, 3) -> one message a second, bursts of 3.
func NewLimiter(requests int, per time.Duration, burst int) *Limiter {
	return &Limiter{
		lim: rate.NewLimiter(rate.Every(per/time.Duration(requests)), burst),
	}
}

// Allow reports whether an operation may proceed now.
func (l *Limiter) Allow() bool {
	return l.lim.Allow()
}

// Wait blocks until an operation may proceed or the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.lim.Wait(ctx)
}
