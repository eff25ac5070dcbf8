package config

import (
	"errors"
	"fmt"

	"github.com/jonwraymond/pageblocks/cache"
)

// Validate checks c for settings the layer cannot run with.
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}

	for _, b := range c.Blocks.named() {
		if err := b.Cache().Validate(); err != nil {
			field := b.key + ".ttl"
			if errors.Is(err, cache.ErrMaxSize) {
				field = b.key + ".max_size"
			}
			return newFieldError(field, err.Error())
		}
	}
	if c.Blocks.WarmConcurrency < 0 {
		return newFieldError("blocks.warm_concurrency", "must not be negative")
	}

	if err := c.Observe.Validate(); err != nil {
		return fmt.Errorf("config: observe: %w", err)
	}

	r := c.Resilience
	if r.Enabled {
		if r.MaxAttempts < 1 {
			return newFieldError("resilience.max_attempts", "must be at least 1")
		}
		if r.Timeout <= 0 {
			return newFieldError("resilience.timeout", "must be positive")
		}
		if r.InitialDelay < 0 || r.MaxDelay < 0 {
			return newFieldError("resilience.initial_delay", "delays must not be negative")
		}
		if r.Breaker.MaxFailures < 1 {
			return newFieldError("resilience.breaker.max_failures", "must be at least 1")
		}
		if r.RateLimit.Rate < 0 {
			return newFieldError("resilience.rate_limit.rate", "must not be negative")
		}
		if r.RateLimit.Rate > 0 && r.RateLimit.Burst < 1 {
			return newFieldError("resilience.rate_limit.burst", "must be at least 1 when rate is set")
		}
		if r.RateLimit.MaxWait < 0 {
			return newFieldError("resilience.rate_limit.max_wait", "must not be negative")
		}
	}
	return nil
}
