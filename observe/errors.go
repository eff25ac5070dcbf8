package observe

import (
	"errors"
	"strings"
)

// Configuration errors.
var (
	ErrMissingServiceName     = errors.New("observe: service name is required")
	ErrInvalidSamplePct       = errors.New("observe: sample percentage must be between 0.0 and 1.0")
	ErrInvalidTracingExporter = errors.New("observe: invalid tracing exporter")
	ErrInvalidMetricsExporter = errors.New("observe: invalid metrics exporter")
	ErrInvalidLogLevel        = errors.New("observe: invalid log level")
)

// Bounds for TracingConfig.SamplePct.
const (
	MinSamplePct = 0.0
	MaxSamplePct = 1.0
)

type nameSet map[string]struct{}

func newNameSet(names ...string) nameSet {
	s := make(nameSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func (s nameSet) has(name string) bool {
	_, ok := s[name]
	return ok
}

// Empty names mean the default ("none" for exporters, "info" for levels).
var (
	tracingExporters = newNameSet("otlp", "jaeger", "stdout", "none", "")
	metricsExporters = newNameSet("otlp", "prometheus", "stdout", "none", "")
	logLevels        = newNameSet("debug", "info", "warn", "error", "")
)

// redactedKeyParts mark log field keys whose values are replaced with
// [REDACTED]. A key matches when it contains any part, ignoring case, so
// "cms_api_key" and "X-Auth-Token" are both caught. Adapter inputs can
// carry CMS credentials.
var redactedKeyParts = []string{"password", "secret", "token", "api_key", "apikey", "authorization"}

func isRedactedKey(key string) bool {
	key = strings.ToLower(key)
	for _, part := range redactedKeyParts {
		if strings.Contains(key, part) {
			return true
		}
	}
	return false
}
