// Package cast coerces loosely typed model settings, as decoded from JSON, YAML
// or built by hand, into the typed values sent on the wire.
package cast

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ToFloat64 converts a number, json.Number or numeric string to float64.
// NaN and infinities are rejected.
func ToFloat64(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		i, ok := integer(v)
		if !ok {
			return 0, false
		}
		f = float64(i)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ToInt64 converts v to int64. Floats must be whole: 256.0 is accepted, 0.5 is not.
// Unsigned values above math.MaxInt64 clamp.
func ToInt64(v any) (int64, bool) {
	if i, ok := integer(v); ok {
		return i, true
	}
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i, true
		}
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64); err == nil {
			return i, true
		}
	}
	f, ok := ToFloat64(v)
	if !ok || f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

func integer(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int64:
		return x, true
	case int32:
		return int64(x), true
	case int16:
		return int64(x), true
	case int8:
		return int64(x), true
	case uint:
		return clampUint(uint64(x)), true
	case uint64:
		return clampUint(x), true
	case uint32:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint8:
		return int64(x), true
	default:
		return 0, false
	}
}

func clampUint(u uint64) int64 {
	if u > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(u)
}

// ToBool accepts bools and the strings strconv.ParseBool understands.
func ToBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		return b, err == nil
	default:
		return false, false
	}
}

// ToString returns non-empty strings only.
func ToString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok && s != ""
}

// ToStringSlice converts v to []string. A single string becomes a one-element
// slice; []any must hold only strings.
func ToStringSlice(v any) ([]string, bool) {
	switch x := v.(type) {
	case []string:
		return x, true
	case string:
		return []string{x}, true
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}
