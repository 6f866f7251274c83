package census

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket bounding the request rate against the API.
// The Census Bureau throttles heavy anonymous use, so shared batch jobs
// typically cap themselves well below the documented limits.
type RateLimiter struct {
	mu         sync.Mutex
	tokens     int
	maxTokens  int
	refillRate time.Duration
	lastRefill time.Time
}

// NewRateLimiter creates a limiter holding maxTokens tokens, refilling one
// token every refillRate.
func NewRateLimiter(maxTokens int, refillRate time.Duration) *RateLimiter {
	return &RateLimiter{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// Allow consumes a token if one is available.
func (r *RateLimiter) Allow() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.refill()
	if r.tokens > 0 {
		r.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is available or the context is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		if r.Allow() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.refillRate):
		}
	}
}

func (r *RateLimiter) refill() {
	now := time.Now()
	if r.refillRate <= 0 {
		r.tokens = r.maxTokens
		return
	}
	elapsed := now.Sub(r.lastRefill)
	refills := int(elapsed / r.refillRate)
	if refills > 0 {
		r.tokens += refills
		if r.tokens > r.maxTokens {
			r.tokens = r.maxTokens
		}
		r.lastRefill = r.lastRefill.Add(time.Duration(refills) * r.refillRate)
	}
}
