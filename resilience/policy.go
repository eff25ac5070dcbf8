package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/jonwraymond/pageblocks/block"
)

// Config is the file/env form of a Policy.
type Config struct {
	Enabled      bool          `mapstructure:"enabled"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
	InitialDelay time.Duration `mapstructure:"initial_delay"`
	MaxDelay     time.Duration `mapstructure:"max_delay"`
	Timeout      time.Duration `mapstructure:"timeout"`

	Breaker struct {
		MaxFailures  int           `mapstructure:"max_failures"`
		ResetTimeout time.Duration `mapstructure:"reset_timeout"`
	} `mapstructure:"breaker"`

	// RateLimit throttles attempts. A zero Rate means unlimited.
	RateLimit struct {
		Rate    float64       `mapstructure:"rate"`
		Burst   int           `mapstructure:"burst"`
		MaxWait time.Duration `mapstructure:"max_wait"`
	} `mapstructure:"rate_limit"`
}

// Policy composes the guards applied to one backend.
type Policy struct {
	breaker *CircuitBreaker
	retry   *Retry
	limiter *RateLimiter
	timeout *Timeout
}

// Option configures a Policy.
type Option func(*Policy)

// WithCircuitBreaker adds cb as the outermost guard.
func WithCircuitBreaker(cb *CircuitBreaker) Option {
	return func(p *Policy) {
		p.breaker = cb
	}
}

// WithRetry retries inside the breaker.
func WithRetry(r *Retry) Option {
	return func(p *Policy) {
		p.retry = r
	}
}

// WithRateLimit makes every attempt, retries included, take a token from rl.
func WithRateLimit(rl *RateLimiter) Option {
	return func(p *Policy) {
		p.limiter = rl
	}
}

// WithTimeout bounds each attempt.
func WithTimeout(d time.Duration) Option {
	return func(p *Policy) {
		p.timeout = NewTimeout(d)
	}
}

// NewPolicy creates a Policy. With no options it just calls through.
func NewPolicy(opts ...Option) *Policy {
	p := &Policy{}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewPolicyFromConfig builds a Policy from cfg: breaker, retry and timeout
// always, and a waiting rate limiter when cfg.RateLimit.Rate is positive.
// A disabled cfg yields a pass-through Policy.
func NewPolicyFromConfig(cfg Config) *Policy {
	if !cfg.Enabled {
		return NewPolicy()
	}
	opts := []Option{
		WithCircuitBreaker(NewCircuitBreaker(CircuitBreakerConfig{
			MaxFailures:  cfg.Breaker.MaxFailures,
			ResetTimeout: cfg.Breaker.ResetTimeout,
		})),
		WithRetry(NewRetry(RetryConfig{
			MaxAttempts:  cfg.MaxAttempts,
			InitialDelay: cfg.InitialDelay,
			MaxDelay:     cfg.MaxDelay,
			Jitter:       true,
		})),
		WithTimeout(cfg.Timeout),
	}
	if cfg.RateLimit.Rate > 0 {
		opts = append(opts, WithRateLimit(NewRateLimiter(RateLimiterConfig{
			Rate:        cfg.RateLimit.Rate,
			Burst:       cfg.RateLimit.Burst,
			WaitOnLimit: true,
			MaxWait:     cfg.RateLimit.MaxWait,
		})))
	}
	return NewPolicy(opts...)
}

// Breaker returns the policy's circuit breaker, or nil.
func (p *Policy) Breaker() *CircuitBreaker {
	return p.breaker
}

// Do runs op through the configured guards.
func (p *Policy) Do(ctx context.Context, op func(context.Context) error) error {
	call := op

	if p.timeout != nil {
		inner := call
		call = func(ctx context.Context) error {
			return p.timeout.Execute(ctx, inner)
		}
	}
	if p.limiter != nil {
		inner := call
		call = func(ctx context.Context) error {
			return p.limiter.Execute(ctx, inner)
		}
	}
	if p.retry != nil {
		inner := call
		call = func(ctx context.Context) error {
			return p.retry.Execute(ctx, inner)
		}
	}
	if p.breaker != nil {
		inner := call
		call = func(ctx context.Context) error {
			return p.breaker.Execute(ctx, inner)
		}
	}

	return call(ctx)
}

// WrapAdapter returns an adapter that calls fn through p. A nil fn stays
// nil so adapter providers still report that no adapter is configured.
func WrapAdapter[I any](fn block.AdapterFunc[I], p *Policy) block.AdapterFunc[I] {
	if fn == nil || p == nil {
		return fn
	}
	return func(ctx context.Context, in I) (map[string]any, error) {
		// An attempt abandoned by the timeout may still finish late.
		var (
			mu  sync.Mutex
			out map[string]any
		)
		err := p.Do(ctx, func(ctx context.Context) error {
			raw, err := fn(ctx, in)
			if err != nil {
				return err
			}
			mu.Lock()
			out = raw
			mu.Unlock()
			return nil
		})
		if err != nil {
			return nil, err
		}
		mu.Lock()
		defer mu.Unlock()
		return out, nil
	}
}
