package config

import (
	"errors"
	"fmt"
)

// ErrNilConfig is returned by Validate on a nil Config.
var ErrNilConfig = errors.New("config: config is nil")

// FieldError locates an invalid setting.
type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

func newFieldError(field, reason string) error {
	return FieldError{Field: field, Reason: reason}
}
