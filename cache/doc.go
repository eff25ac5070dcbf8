// Package cache provides the single-process block cache.
//
// It provides a generic TTL store with lazy expiry and insertion-order
// eviction, deterministic key construction from named parameters, and
// business-level staleness tiers for monitoring cached content.
//
// Entries are never mutated after Set. Expired entries are removed only when
// they are read; there is no background sweep.
package cache
