package dictconv

import (
	"github.com/stannote/stannote/core/errors"
)

// Numeric values in data dicts arrive as int when built in memory but as
// float64 after a trip through encoding/json. The helpers below accept both
// so decoders do not have to care where the dict came from.

// Int extracts an integer entry from a data dict.
func Int(d Dict, key string) (int, error) {
	v, ok := d[key]
	if !ok {
		return 0, errors.NewValidationf("data dict has no %q entry", key)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	}
	return 0, errors.NewValidationf("data dict entry %q is not a number: %v", key, v)
}

// String extracts a string entry from a data dict.
func String(d Dict, key string) (string, error) {
	v, ok := d[key]
	if !ok {
		return "", errors.NewValidationf("data dict has no %q entry", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.NewValidationf("data dict entry %q is not a string: %v", key, v)
	}
	return s, nil
}

// OptString extracts a nullable string entry from a data dict. A missing or
// nil entry yields the empty string.
func OptString(d Dict, key string) (string, error) {
	v, ok := d[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", errors.NewValidationf("data dict entry %q is not a string: %v", key, v)
	}
	return s, nil
}

// OptFloat extracts a nullable float entry from a data dict. The second
// return value reports whether the entry was present and non-nil.
func OptFloat(d Dict, key string) (float64, bool, error) {
	v, ok := d[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	switch n := v.(type) {
	case float64:
		return n, true, nil
	case int:
		return float64(n), true, nil
	case int64:
		return float64(n), true, nil
	}
	return 0, false, errors.NewValidationf("data dict entry %q is not a number: %v", key, v)
}

// List extracts a slice entry from a data dict. A missing or nil entry
// yields an empty slice.
func List(d Dict, key string) ([]any, error) {
	v, ok := d[key]
	if !ok || v == nil {
		return nil, nil
	}
	l, ok := v.([]any)
	if !ok {
		return nil, errors.NewValidationf("data dict entry %q is not a list: %v", key, v)
	}
	return l, nil
}

// SubDict extracts a nested data dict entry.
func SubDict(v any) (Dict, error) {
	d, ok := v.(map[string]any)
	if !ok {
		return nil, errors.NewValidationf("expected nested data dict, got %v", v)
	}
	return d, nil
}

// Metadata extracts an open key-value mapping entry from a data dict. A
// missing or nil entry yields an empty map.
func Metadata(d Dict, key string) (map[string]any, error) {
	v, ok := d[key]
	if !ok || v == nil {
		return map[string]any{}, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errors.NewValidationf("data dict entry %q is not a mapping: %v", key, v)
	}
	return m, nil
}
