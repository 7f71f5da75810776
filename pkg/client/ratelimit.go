package client

import (
	"context"
	"math/rand/v2"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter paces outgoing requests: a token bucket caps the rate and an
// optional delay, randomized between minDelay and maxDelay, spaces requests
// further apart.
type RateLimiter struct {
	limiter  *rate.Limiter
	minDelay time.Duration
	maxDelay time.Duration
}

// NewRateLimiter allows requestsPerSecond requests with a burst of one.
func NewRateLimiter(requestsPerSecond int, minDelay, maxDelay time.Duration) *RateLimiter {
	return &RateLimiter{
		limiter:  rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		minDelay: minDelay,
		maxDelay: maxDelay,
	}
}

// Wait blocks until the next request may go out or ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if err := rl.limiter.Wait(ctx); err != nil {
		return err
	}

	d := rl.delay()
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (rl *RateLimiter) delay() time.Duration {
	if rl.maxDelay <= rl.minDelay {
		return rl.minDelay
	}
	return rl.minDelay + rand.N(rl.maxDelay-rl.minDelay)
}
