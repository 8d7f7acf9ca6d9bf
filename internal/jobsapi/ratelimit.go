package jobsapi

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter throttles calls to the remote api.
type RateLimiter struct {
	limiter *rate.Limiter

	// set when the api answers 429 with Retry-After
	backoffUntil time.Time
	mu           sync.Mutex
}

// NewRateLimiter creates a limiter allowing rps requests per second.
// rps <= 0 disables throttling.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	lim := rate.Limit(rps)
	if rps <= 0 {
		lim = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(lim, burst),
	}
}

// Wait blocks until the next request is allowed.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	until := r.backoffUntil
	r.mu.Unlock()

	if d := time.Until(until); d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return r.limiter.Wait(ctx)
}

// Backoff holds back every request for d.
func (r *RateLimiter) Backoff(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if until := time.Now().Add(d); until.After(r.backoffUntil) {
		r.backoffUntil = until
	}
}
