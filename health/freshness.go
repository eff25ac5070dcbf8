package health

import (
	"context"
	"fmt"

	"github.com/jonwraymond/pageblocks/cache"
)

// StalenessSource is what FreshnessChecker needs from a cache. Every
// cache.Memory satisfies it.
type StalenessSource interface {
	Keys() []string
	CheckStaleness(key string) cache.Staleness
}

// FreshnessChecker grades a block cache by its entries' staleness tiers.
type FreshnessChecker struct {
	name   string
	source StalenessSource
}

// NewFreshnessChecker creates a FreshnessChecker for source.
func NewFreshnessChecker(name string, source StalenessSource) *FreshnessChecker {
	return &FreshnessChecker{name: name, source: source}
}

// Name implements Checker.
func (f *FreshnessChecker) Name() string {
	return f.name
}

// Check implements Checker. Keys that disappear between listing and
// inspection are skipped.
func (f *FreshnessChecker) Check(ctx context.Context) Result {
	var stale, warning, errored int
	var oldestKey string
	var oldest cache.Staleness

	keys := f.source.Keys()
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return Unhealthy("freshness check cancelled", err)
		}
		s := f.source.CheckStaleness(key)
		if s.Missing {
			continue
		}
		if s.Stale {
			stale++
		}
		if s.Warning {
			warning++
		}
		if s.Error {
			errored++
		}
		if s.Age > oldest.Age {
			oldest, oldestKey = s, key
		}
	}

	details := map[string]any{
		"entries": len(keys),
		"stale":   stale,
		"warning": warning,
		"error":   errored,
	}
	if oldestKey != "" {
		details["oldest_key"] = oldestKey
		details["oldest_age"] = oldest.Age.String()
	}

	switch {
	case errored > 0:
		return Unhealthy(fmt.Sprintf("%d entries past error age", errored), ErrStaleContent).WithDetails(details)
	case warning > 0:
		return Degraded(fmt.Sprintf("%d entries past warning age", warning)).WithDetails(details)
	default:
		return Healthy("cache fresh").WithDetails(details)
	}
}
