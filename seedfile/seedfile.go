package seedfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// RecordsKey is the table key that holds records in table-form documents.
const RecordsKey = "records"

// Format is a seed file encoding.
type Format string

// Supported formats.
const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

// FormatOf infers the format from path's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// Load decodes the records in path into out, which must be a pointer to a
// slice.
func Load(path string, out any) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("seedfile: read %s: %w", path, err)
	}
	if err := Decode(bytes.NewReader(data), format, out); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Decode reads a document in format from r and decodes its records into out.
func Decode(r io.Reader, format Format, out any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	var doc any
	switch format {
	case JSON:
		err = json.Unmarshal(data, &doc)
	case YAML:
		err = yaml.Unmarshal(data, &doc)
	case TOML:
		var table map[string]any
		err = toml.Unmarshal(data, &table)
		doc = table
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	records, err := recordsOf(normalize(doc))
	if err != nil {
		return err
	}

	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

func recordsOf(doc any) ([]any, error) {
	switch v := doc.(type) {
	case nil:
		return []any{}, nil
	case []any:
		return v, nil
	case map[string]any:
		records, ok := v[RecordsKey]
		if !ok {
			return nil, ErrNoRecords
		}
		list, ok := records.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s is %T, want a list", ErrDecode, RecordsKey, records)
		}
		return list, nil
	default:
		return nil, fmt.Errorf("%w: top level is %T", ErrNoRecords, doc)
	}
}

// normalize rewrites decoded values into shapes encoding/json can marshal.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = normalize(val)
		}
		return m
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	case []map[string]any:
		list := make([]any, len(t))
		for i, val := range t {
			list[i] = normalize(val)
		}
		return list
	case time.Time:
		// last_updated must stay a string; unquoted TOML datetimes decode as
		// time.Time.
		return t.UTC().Format(time.RFC3339)
	default:
		return v
	}
}
