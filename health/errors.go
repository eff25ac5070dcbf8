package health

import "errors"

var (
	// ErrCheckTimeout is reported for a check that did not finish in time.
	ErrCheckTimeout = errors.New("health: check timeout")

	// ErrCheckerNotFound is returned for an unregistered checker name.
	ErrCheckerNotFound = errors.New("health: checker not found")

	// ErrStaleContent is attached to unhealthy freshness results.
	ErrStaleContent = errors.New("health: cached content past error age")

	// ErrCircuitOpen is attached to results for an open breaker.
	ErrCircuitOpen = errors.New("health: backend circuit open")
)
