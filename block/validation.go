package block

import (
	"fmt"
	"strings"
	"time"
)

// Codes shared by all block types.
const (
	CodeMissingData        = "MISSING_DATA"
	CodeMissingLastUpdated = "MISSING_LAST_UPDATED"
	CodeInvalidLastUpdated = "INVALID_LAST_UPDATED"
	CodeStaleData          = "STALE_DATA"
	CodeProviderError      = "PROVIDER_ERROR"
)

// MaxContentAge is the age beyond which a record's last_updated makes it
// invalid content. It is stricter than, and unrelated to, any cache TTL.
const MaxContentAge = 90 * 24 * time.Hour

// ValidationError is one violated rule.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"` // dotted path, e.g. kpis[2].metric
}

func (e ValidationError) String() string {
	if e.Field == "" {
		return e.Code + ": " + e.Message
	}
	return e.Code + " (" + e.Field + "): " + e.Message
}

// ValidationResult is the exhaustive outcome of validating one candidate.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors"`
}

// Codes returns the error codes in order.
func (r ValidationResult) Codes() []string {
	codes := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		codes[i] = e.Code
	}
	return codes
}

// Has reports whether any error carries code.
func (r ValidationResult) Has(code string) bool {
	for _, e := range r.Errors {
		if e.Code == code {
			return true
		}
	}
	return false
}

func (r ValidationResult) String() string {
	if r.Valid {
		return "valid"
	}
	parts := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		parts[i] = e.String()
	}
	return strings.Join(parts, "; ")
}

// Missing returns the result for an absent candidate: one MISSING_DATA
// error and nothing else.
func Missing(blockName string) ValidationResult {
	return ValidationResult{
		Valid:  false,
		Errors: []ValidationError{{Code: CodeMissingData, Message: blockName + " data is missing"}},
	}
}

// ProviderFailure converts a provider error into a validation result.
func ProviderFailure(err error) ValidationResult {
	msg := "unknown provider error"
	if err != nil {
		msg = err.Error()
	}
	return ValidationResult{
		Valid:  false,
		Errors: []ValidationError{{Code: CodeProviderError, Message: msg}},
	}
}

// Collector accumulates rule violations. The zero value is ready to use.
type Collector struct {
	errs []ValidationError
}

// Add appends one violation.
func (c *Collector) Add(code, field, message string) {
	c.errs = append(c.errs, ValidationError{Code: code, Message: message, Field: field})
}

// Addf appends one violation with a formatted message.
func (c *Collector) Addf(code, field, format string, args ...any) {
	c.Add(code, field, fmt.Sprintf(format, args...))
}

// Require adds a violation when value is blank.
func (c *Collector) Require(value, code, field, message string) {
	if strings.TrimSpace(value) == "" {
		c.Add(code, field, message)
	}
}

// CheckLastUpdated applies the timestamp rules: present, parseable, and no
// older than MaxContentAge at now.
func (c *Collector) CheckLastUpdated(value string, now time.Time) {
	const field = "last_updated"
	if value == "" {
		c.Add(CodeMissingLastUpdated, field, "Last updated timestamp is required")
		return
	}
	ts, err := ParseTimestamp(value)
	if err != nil {
		c.Add(CodeInvalidLastUpdated, field, "Last updated must be a valid ISO 8601 date")
		return
	}
	if now.Sub(ts) > MaxContentAge {
		c.Add(CodeStaleData, field, "Data is stale (>90 days)")
	}
}

// Result returns the accumulated result. Errors is never nil.
func (c *Collector) Result() ValidationResult {
	errs := c.errs
	if errs == nil {
		errs = []ValidationError{}
	}
	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// IndexedField renders an index-qualified field path: name[i].sub
func IndexedField(name string, i int, sub string) string {
	return fmt.Sprintf("%s[%d].%s", name, i, sub)
}
