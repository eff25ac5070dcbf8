package health

import (
	"context"

	"github.com/jonwraymond/pageblocks/resilience"
)

// BreakerChecker reports an adapter's circuit breaker: open is unhealthy,
// half-open is degraded.
type BreakerChecker struct {
	name    string
	breaker *resilience.CircuitBreaker
}

// NewBreakerChecker creates a BreakerChecker.
func NewBreakerChecker(name string, breaker *resilience.CircuitBreaker) *BreakerChecker {
	return &BreakerChecker{name: name, breaker: breaker}
}

func (b *BreakerChecker) Name() string { return b.name }

// Check implements Checker.
func (b *BreakerChecker) Check(context.Context) Result {
	snap := b.breaker.Snapshot()
	details := map[string]any{
		"state":    snap.State.String(),
		"failures": snap.Failures,
		"rejected": snap.Rejected,
	}
	if snap.LastError != nil {
		details["last_error"] = snap.LastError.Error()
	}

	switch snap.State {
	case resilience.StateOpen:
		return Unhealthy("circuit open", ErrCircuitOpen).WithDetails(details)
	case resilience.StateHalfOpen:
		return Degraded("circuit probing").WithDetails(details)
	default:
		return Healthy("circuit closed").WithDetails(details)
	}
}
