package resilience

import (
	"context"
	"sync"
	"time"
)

// RateLimiterConfig configures a RateLimiter.
type RateLimiterConfig struct {
	// Rate is the sustained number of backend calls per second.
	// Default: 10
	Rate float64

	// Burst is the bucket size, the number of calls allowed back to back
	// after an idle period. Default: 1
	Burst int

	// WaitOnLimit makes Execute wait for a token instead of failing fast.
	WaitOnLimit bool

	// MaxWait bounds one wait for a token. Default: 1s
	MaxWait time.Duration

	// Now is the clock. Default: time.Now
	Now func() time.Time
}

// RateLimiter is a token bucket that keeps warm-up bursts from flooding
// a content backend.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Errors: a call denied a token returns ErrRateLimited without running op.
type RateLimiter struct {
	config RateLimiterConfig

	mu      sync.Mutex
	tokens  float64
	refresh time.Time
}

// NewRateLimiter creates a RateLimiter with a full bucket.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Rate <= 0 {
		config.Rate = 10
	}
	if config.Burst <= 0 {
		config.Burst = 1
	}
	if config.MaxWait <= 0 {
		config.MaxWait = time.Second
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &RateLimiter{
		config:  config,
		tokens:  float64(config.Burst),
		refresh: config.Now(),
	}
}

// Config returns the limiter's effective configuration.
func (rl *RateLimiter) Config() RateLimiterConfig {
	return rl.config
}

// Allow takes a token if one is available.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refillLocked()
	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is taken, ctx is done, or MaxWait passes.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rl.Allow() {
		return nil
	}

	giveUp := time.NewTimer(rl.config.MaxWait)
	defer giveUp.Stop()

	for {
		next := time.NewTimer(max(rl.untilNext(), time.Millisecond))
		select {
		case <-ctx.Done():
			next.Stop()
			return ctx.Err()
		case <-giveUp.C:
			next.Stop()
			if rl.Allow() {
				return nil
			}
			return ErrRateLimited
		case <-next.C:
			if rl.Allow() {
				return nil
			}
		}
	}
}

// Execute runs op once a token is available.
func (rl *RateLimiter) Execute(ctx context.Context, op func(context.Context) error) error {
	if rl.config.WaitOnLimit {
		if err := rl.Wait(ctx); err != nil {
			return err
		}
	} else if !rl.Allow() {
		return ErrRateLimited
	}
	return op(ctx)
}

// Tokens returns the tokens currently in the bucket.
func (rl *RateLimiter) Tokens() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refillLocked()
	return rl.tokens
}

func (rl *RateLimiter) untilNext() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	missing := 1 - rl.tokens
	if missing <= 0 {
		return 0
	}
	return time.Duration(missing / rl.config.Rate * float64(time.Second))
}

func (rl *RateLimiter) refillLocked() {
	now := rl.config.Now()
	if elapsed := now.Sub(rl.refresh); elapsed > 0 {
		rl.tokens = min(rl.tokens+elapsed.Seconds()*rl.config.Rate, float64(rl.config.Burst))
	}
	rl.refresh = now
}
