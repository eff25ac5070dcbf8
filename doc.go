// Package pageblocks assembles the uniqueness-injection data layer: one
// Service per block type, each with its own cache, sharing an observer and
// reporting into one health aggregator.
//
// A Layer picks each block's backend in this order: a caller-supplied
// Provider, a caller-supplied adapter function (wrapped in the configured
// resilience policy), the configured seed file, and finally the stub
// provider, whose every Fetch explains how to wire a real one.
package pageblocks
