package pipeline

import (
	"context"
	"testing"
	"time"
)

func TestIntervalLimiterFirstCallImmediate(t *testing.T) {
	l := NewIntervalLimiter(time.Hour)
	start := time.Now()
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("first Wait blocked for %v", elapsed)
	}
}

func TestIntervalLimiterSpacesCalls(t *testing.T) {
	const interval = 30 * time.Millisecond
	l := NewIntervalLimiter(interval)

	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait returned error: %v", err)
	}
	start := time.Now()
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("second Wait returned error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < interval-5*time.Millisecond {
		t.Errorf("second Wait returned after %v, want at least ~%v", elapsed, interval)
	}
}

func TestIntervalLimiterCancellation(t *testing.T) {
	l := NewIntervalLimiter(time.Hour)
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Wait(ctx); err != context.Canceled {
		t.Errorf("Wait with cancelled context returned %v, want context.Canceled", err)
	}
}

func TestNopLimiter(t *testing.T) {
	if err := (NopLimiter{}).Wait(context.Background()); err != nil {
		t.Errorf("NopLimiter.Wait returned %v", err)
	}
}
