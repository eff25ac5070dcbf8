package block

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidTimestamp is returned for a last_updated value that is not an
// ISO 8601 timestamp.
var ErrInvalidTimestamp = errors.New("block: invalid timestamp")

// Accepted ISO 8601 shapes, most specific first. Values without a zone are
// read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses an ISO 8601 timestamp.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, ErrInvalidTimestamp
}

// FormatTimestamp renders t the way adapters default last_updated.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
