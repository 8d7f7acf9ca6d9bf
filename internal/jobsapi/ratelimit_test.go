package jobsapi

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiter_Wait(t *testing.T) {
	rl := NewRateLimiter(10.0, 1)

	start := time.Now()
	if err := rl.Wait(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	// first request is within burst
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("expected immediate response, got %v", elapsed)
	}
}

func TestRateLimiter_Unlimited(t *testing.T) {
	rl := NewRateLimiter(0, 0)

	start := time.Now()
	for i := 0; i < 100; i++ {
		if err := rl.Wait(context.Background()); err != nil {
			t.Fatalf("request %d: unexpected error: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("unlimited limiter should not throttle, took %v", elapsed)
	}
}

func TestRateLimiter_Throttles(t *testing.T) {
	rl := NewRateLimiter(10.0, 1)

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := rl.Wait(context.Background()); err != nil {
			t.Errorf("request %d: unexpected error: %v", i, err)
		}
	}

	// burst, then ~100ms, then ~100ms
	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Errorf("expected at least 150ms for 3 requests at 10 rps, got %v", elapsed)
	}
}

func TestRateLimiter_Backoff(t *testing.T) {
	rl := NewRateLimiter(10.0, 1)
	rl.Backoff(time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := rl.Wait(ctx); err != context.DeadlineExceeded {
		t.Errorf("expected DeadlineExceeded during backoff, got %v", err)
	}
}

func TestRateLimiter_BackoffNeverShrinks(t *testing.T) {
	rl := NewRateLimiter(10.0, 1)
	rl.Backoff(time.Hour)
	first := rl.backoffUntil
	rl.Backoff(time.Second)

	if !rl.backoffUntil.Equal(first) {
		t.Errorf("shorter backoff overwrote longer one: %v -> %v", first, rl.backoffUntil)
	}
}

func TestRateLimiter_ExpiredBackoff(t *testing.T) {
	rl := NewRateLimiter(10.0, 1)
	rl.backoffUntil = time.Now().Add(-100 * time.Millisecond)

	start := time.Now()
	if err := rl.Wait(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("expected immediate response, got %v", elapsed)
	}
}
