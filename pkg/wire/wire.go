// Package wire smooths over the shapes the ERPDesk backend puts on the wire.
//
// The backend serializes responses with a reference-preserving JSON
// serializer, so any collection may arrive as {"$values": [...]} instead of
// a plain array, and field names are PascalCase. Everything in this package
// exists so that the rest of the SDK only ever sees plain sequences and
// canonical values; the wire convention must not leak past this boundary.
package wire

import (
	"time"
)

const valuesKey = "$values"

// UnwrapValues recursively replaces every {"$values": [...]} object with the
// plain slice it wraps. Scalars and already-plain collections pass through
// untouched.
func UnwrapValues(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if inner, ok := t[valuesKey]; ok {
			return UnwrapValues(inner)
		}
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = UnwrapValues(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = UnwrapValues(val)
		}
		return out
	default:
		return v
	}
}

// Normalize unwraps v and asserts the top-level object shape. It returns nil
// when the shape is absent so that callers can treat "no data yet" distinctly
// from an error.
func Normalize(v any) map[string]any {
	m, ok := UnwrapValues(v).(map[string]any)
	if !ok {
		return nil
	}
	return m
}

// Str returns the first non-empty string found under keys.
func Str(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Num returns the first numeric value found under keys, defaulting to 0 for
// missing or non-numeric fields.
func Num(m map[string]any, keys ...string) float64 {
	for _, k := range keys {
		switch n := m[k].(type) {
		case float64:
			return n
		case int:
			return float64(n)
		case int64:
			return float64(n)
		}
	}
	return 0
}

// Int is Num truncated to an int.
func Int(m map[string]any, keys ...string) int {
	return int(Num(m, keys...))
}

// Int64 is Num truncated to an int64, for identifiers.
func Int64(m map[string]any, keys ...string) int64 {
	return int64(Num(m, keys...))
}

// Bool returns the first boolean found under keys, defaulting to false.
func Bool(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if b, ok := m[k].(bool); ok {
			return b
		}
	}
	return false
}

// Date parses the first ISO-8601 timestamp or date found under keys. Missing
// or unparseable fields yield the zero time.
func Date(m map[string]any, keys ...string) time.Time {
	for _, k := range keys {
		s, ok := m[k].(string)
		if !ok || s == "" {
			continue
		}
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

// Object returns the first nested object found under keys, nil when absent.
func Object(m map[string]any, keys ...string) map[string]any {
	for _, k := range keys {
		if o, ok := m[k].(map[string]any); ok {
			return o
		}
	}
	return nil
}

// Collection returns the first nested collection found under keys as a slice
// of objects. Non-object elements are skipped.
func Collection(m map[string]any, keys ...string) []map[string]any {
	for _, k := range keys {
		items, ok := m[k].([]any)
		if !ok {
			continue
		}
		out := make([]map[string]any, 0, len(items))
		for _, it := range items {
			if o, ok := it.(map[string]any); ok {
				out = append(out, o)
			}
		}
		return out
	}
	return nil
}
