// Package observe provides observability primitives for block retrieval.
//
// It is a pure instrumentation library: no retrieval, no transport, no I/O
// beyond exporter setup. The block orchestrator wraps each Get with a
// Middleware built from an Observer.
package observe
