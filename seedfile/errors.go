package seedfile

import "errors"

// Sentinel errors for seed file loading.
var (
	// ErrUnsupportedFormat is returned for an unknown file extension.
	ErrUnsupportedFormat = errors.New("seedfile: unsupported format")

	// ErrNoRecords is returned when a document is neither a list nor a table
	// with a records key.
	ErrNoRecords = errors.New("seedfile: document has no records")

	// ErrDecode wraps parse and shape errors.
	ErrDecode = errors.New("seedfile: decode failed")
)
