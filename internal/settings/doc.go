package settings

import (
	"encoding/json"
	"math"
)

// DeepCopy returns a copy of a decoded JSON value that shares no maps or slices with v.
func DeepCopy(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		return CloneMap(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = DeepCopy(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = CloneMap(item)
		}
		return out
	default:
		return v
	}
}

// CloneMap deep-copies a JSON object. A nil map stays nil.
func CloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = DeepCopy(v)
	}
	return out
}

func traverse(m map[string]any, keys ...string) (any, bool) {
	if len(keys) == 0 || m == nil {
		return nil, false
	}
	var current any = m
	for _, key := range keys {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Has reports whether the key path exists with a non-null value.
func Has(m map[string]any, keys ...string) bool {
	v, ok := traverse(m, keys...)
	return ok && v != nil
}

// Lookup returns the raw value at the key path.
func Lookup(m map[string]any, keys ...string) (any, bool) {
	return traverse(m, keys...)
}

// String returns the string at the key path; ok is false when absent or not a string.
func String(m map[string]any, keys ...string) (string, bool) {
	v, found := traverse(m, keys...)
	if !found {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Bool returns the boolean at the key path.
func Bool(m map[string]any, keys ...string) (bool, bool) {
	v, found := traverse(m, keys...)
	if !found {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Float returns the number at the key path. NaN and infinities are rejected.
func Float(m map[string]any, keys ...string) (float64, bool) {
	v, found := traverse(m, keys...)
	if !found {
		return 0, false
	}
	return toFloat(v)
}

// Int returns the integral number at the key path.
func Int(m map[string]any, keys ...string) (int, bool) {
	f, ok := Float(m, keys...)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// Map returns the object at the key path.
func Map(m map[string]any, keys ...string) (map[string]any, bool) {
	v, found := traverse(m, keys...)
	if !found {
		return nil, false
	}
	obj, ok := v.(map[string]any)
	return obj, ok
}

// Slice returns the list at the key path.
func Slice(m map[string]any, keys ...string) ([]any, bool) {
	v, found := traverse(m, keys...)
	if !found {
		return nil, false
	}
	list, ok := v.([]any)
	return list, ok
}

func toFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
