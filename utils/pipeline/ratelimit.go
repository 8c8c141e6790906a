package pipeline

import (
	"context"
	"time"
)

// Limiter paces consecutive model calls. The policy is injected into the
// pipeline so it is testable and swappable without touching orchestration.
type Limiter interface {
	Wait(ctx context.Context) error
}

// IntervalLimiter enforces a fixed minimum interval between calls. It blocks
// synchronously; upstream providers rate-limit aggressively and the module
// calls are strictly sequential anyway.
type IntervalLimiter struct {
	interval time.Duration
	last     time.Time
}

// NewIntervalLimiter creates a limiter with the given minimum call spacing
func NewIntervalLimiter(interval time.Duration) *IntervalLimiter {
	return &IntervalLimiter{interval: interval}
}

// Wait blocks until the interval since the previous call has elapsed, or the
// context is cancelled. The first call never waits.
func (l *IntervalLimiter) Wait(ctx context.Context) error {
	if l.last.IsZero() || l.interval <= 0 {
		l.last = time.Now()
		return ctx.Err()
	}

	remaining := l.interval - time.Since(l.last)
	if remaining > 0 {
		timer := time.NewTimer(remaining)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	l.last = time.Now()
	return nil
}

// NopLimiter never waits; used by tests and single-module runs
type NopLimiter struct{}

func (NopLimiter) Wait(ctx context.Context) error {
	return ctx.Err()
}
