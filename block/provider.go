package block

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Sentinel errors for providers.
var (
	// ErrNotFound is returned by seed providers on a lookup miss.
	ErrNotFound = errors.New("block: not found")

	// ErrNotImplemented is returned by stub providers.
	ErrNotImplemented = errors.New("block: provider not implemented")

	// ErrAdapterNotConfigured is returned by adapter providers built without
	// an adapter function.
	ErrAdapterNotConfigured = errors.New("block: adapter not configured")

	// ErrDecode is returned when an adapter's payload cannot be remapped.
	ErrDecode = errors.New("block: cannot decode adapter payload")
)

// Provider is the backend contract for one block type.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: Fetch must honor cancellation/deadlines where it blocks.
// - Idempotency: Fetch must be a side-effect-free read; concurrent misses on
// one key may call it more than once.
// - Errors: Fetch returns errors; Validate never does.
type Provider[I, T any] interface {
	// Fetch retrieves the block for input.
	Fetch(ctx context.Context, in I) (T, error)

	// Validate checks data with the block's validator.
	Validate(data T) ValidationResult

	// LastUpdated extracts the record's last_updated timestamp.
	LastUpdated(data T) (time.Time, error)

	// Sources lists the data sources behind data.
	Sources(data T) []string
}

// AdapterFunc is the integration seam for a real backend (CMS, analytics
// store, case-study database). It returns whatever shape the backend has;
// adapter providers remap it into the canonical block.
type AdapterFunc[I any] func(ctx context.Context, in I) (map[string]any, error)

// NotFound builds the seed-provider miss error for key.
func NotFound(blockName, key string) error {
	return fmt.Errorf("%w: %s not found for %s. Add seed data or use another provider", ErrNotFound, blockName, key)
}

// NotImplemented builds the stub-provider error with remediation steps.
func NotImplemented(blockName, providerName string) error {
	return fmt.Errorf(
		"%w: %s is not implemented. To use %s blocks, implement one of: "+
			"1) a seed-backed provider with seed data, "+
			"2) an adapter-backed provider with an adapter function, "+
			"3) a custom provider implementing %s",
		ErrNotImplemented, providerName, blockName, providerName,
	)
}

// AdapterNotConfigured builds the error for an adapter provider without an
// adapter function.
func AdapterNotConfigured(blockName string) error {
	return fmt.Errorf("%w: provide an adapter function for %s or use a different provider", ErrAdapterNotConfigured, blockName)
}

// Decode remaps an adapter payload into out using its mapstructure tags.
// Scalars are converted weakly, so "4.5" decodes into a float and 1 into a
// bool. Unknown keys are ignored.
func Decode(raw map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

// LastUpdated parses a record's last_updated value.
func LastUpdated(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: last_updated is empty", ErrInvalidTimestamp)
	}
	return ParseTimestamp(value)
}
