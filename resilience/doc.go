// Package resilience guards adapter calls to content backends.
//
// A Policy composes an optional circuit breaker, retry with backoff, a
// token-bucket rate limiter and a per-attempt timeout. WrapAdapter applies a Policy to a block.AdapterFunc
// so adapter-backed providers get the protection without knowing about it.
// The block orchestrator itself imposes no timeout; only adapters that are
// wrapped here are bounded.
//
// Composition order, outermost first:
//
//	breaker -> retry -> rate limit -> timeout -> adapter
//
// The breaker therefore counts one failure per exhausted retry sequence,
// not one per attempt. Each retry takes its own token, and the wait for a
// token is not charged to the attempt's timeout.
package resilience
