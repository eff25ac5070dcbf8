package cache

import (
	"errors"
	"strings"
	"time"
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// Sentinel errors for cache operations.
var (
	ErrInvalidKey = errors.New("cache: key is invalid")
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
	ErrInvalidTTL = errors.New("cache: ttl must be positive")
	ErrMaxSize    = errors.New("cache: max size must not be negative")
)

// Config configures a Memory cache.
type Config struct {
	// TTL is how long an entry stays readable after Set.
	TTL time.Duration

	// MaxSize bounds the number of entries. Zero means unbounded.
	MaxSize int

	// Persist is reserved for persistent backends. Memory ignores it.
	Persist bool
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.TTL <= 0 {
		return ErrInvalidTTL
	}
	if c.MaxSize < 0 {
		return ErrMaxSize
	}
	return nil
}

// Bounded reports whether the config sets a size limit.
func (c Config) Bounded() bool {
	return c.MaxSize > 0
}

// ValidateKey checks if a key is valid for caching.
func ValidateKey(key string) error {
	if key == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	// Reject keys with newlines or carriage returns
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}
