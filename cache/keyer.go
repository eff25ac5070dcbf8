package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Undefined is rendered for parameters whose value is absent.
const Undefined = "undefined"

// Params holds the named parameters a key is built from.
// A nil value renders as Undefined; the name is never dropped.
type Params map[string]any

// Keyer generates deterministic cache keys from block parameters.
//
// Contract:
// - Determinism: equal name/value sets must produce the same key regardless of
// map iteration order or construction order.
// - Sensitivity: changing any single value must change the key.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key builds a cache key for the block type from params.
	Key(blockType string, params Params) string
}

// DefaultKeyer renders readable keys.
// Format: <blockType>:<name>:<value>|<name>:<value>... with names sorted.
// A backslash, ':' or '|' inside a value is escaped with a backslash, so
// distinct parameter sets cannot render to the same key.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a new default keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// Key generates a deterministic cache key.
func (k *DefaultKeyer) Key(blockType string, params Params) string {
	return blockType + ":" + canonicalize(params)
}

// HashedKeyer emits fixed-length keys for parameter sets that may exceed
// MaxKeyLength.
// Format: <blockType>:<first 16 hex chars of SHA-256(canonical params)>
type HashedKeyer struct{}

// NewHashedKeyer creates a new hashed keyer.
func NewHashedKeyer() *HashedKeyer {
	return &HashedKeyer{}
}

// Key generates a deterministic hashed cache key.
func (k *HashedKeyer) Key(blockType string, params Params) string {
	hash := sha256.Sum256([]byte(canonicalize(params)))
	return blockType + ":" + hex.EncodeToString(hash[:8])
}

// BuildKey builds a key with the DefaultKeyer.
func BuildKey(blockType string, params Params) string {
	return (&DefaultKeyer{}).Key(blockType, params)
}

// canonicalize renders params sorted by name as name:value pairs joined by |.
func canonicalize(params Params) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ":" + valueEscaper.Replace(renderValue(params[name]))
	}
	return strings.Join(parts, "|")
}

var valueEscaper = strings.NewReplacer(`\`, `\\`, ":", `\:`, "|", `\|`)

func renderValue(v any) string {
	switch val := v.(type) {
	case nil:
		return Undefined
	case string:
		return val
	case *string:
		if val == nil {
			return Undefined
		}
		return *val
	}
	if isNil(v) {
		return Undefined
	}
	switch val := v.(type) {
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// isNil reports a typed nil pointer such as a nil *int.
func isNil(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// Ensure both keyers implement Keyer
var (
	_ Keyer = (*DefaultKeyer)(nil)
	_ Keyer = (*HashedKeyer)(nil)
)
