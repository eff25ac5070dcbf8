package cache

import "time"

// Business freshness thresholds, independent of any cache TTL.
const (
	WarningAge = 90 * 24 * time.Hour
	ErrorAge   = 180 * 24 * time.Hour
)

// Staleness describes how old a cached entry is.
type Staleness struct {
	// Stale is true when the entry is older than the cache TTL.
	Stale bool

	// Warning is true when the entry is older than WarningAge.
	Warning bool

	// Error is true when the entry is older than ErrorAge.
	Error bool

	// Age is the entry age. Zero for a missing key.
	Age time.Duration

	// Missing is true when no entry exists for the key.
	Missing bool
}

// Level returns "ok", "stale", "warning", or "error", most severe first.
func (s Staleness) Level() string {
	switch {
	case s.Error:
		return "error"
	case s.Warning:
		return "warning"
	case s.Stale:
		return "stale"
	default:
		return "ok"
	}
}

func assessStaleness(age, ttl time.Duration) Staleness {
	return Staleness{
		Stale:   age > ttl,
		Warning: age > WarningAge,
		Error:   age > ErrorAge,
		Age:     age,
	}
}

// A missing key is reported at every tier.
func missingStaleness() Staleness {
	return Staleness{
		Stale:   true,
		Warning: true,
		Error:   true,
		Missing: true,
	}
}
