// Package block holds the pieces shared by every enrichment block type.
//
// It defines the validation result model, the provider contract, the
// uniform Result envelope, and the generic Orchestrator that combines key
// building, caching, provider invocation and validation.
//
// Two error channels are kept apart. Data-quality problems are returned as a
// ValidationResult and are never Go errors. Provider failures are Go errors
// that the Orchestrator converts, exactly once, into a PROVIDER_ERROR
// validation entry, so callers of Get never handle errors from this layer.
package block
