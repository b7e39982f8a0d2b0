package geocode

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter enforces a minimum interval between calls to an online
// geocoding service.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a limiter that allows one call every interval
// seconds. A non-positive interval disables throttling.
func NewRateLimiter(intervalSeconds float64) *RateLimiter {
	if intervalSeconds <= 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	interval := time.Duration(intervalSeconds * float64(time.Second))
	return &RateLimiter{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the rate limiter allows another call.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	return rl.limiter.Wait(ctx)
}
