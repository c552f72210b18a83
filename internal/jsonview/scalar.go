package jsonview

import (
	"encoding/json"
	"math"
	"strconv"
)

// AsFloat converts a JSON number to float64.
func AsFloat(v any) (float64, error) {
	if f, ok := toFloat(v); ok {
		return f, nil
	}
	return 0, typeError("number", v)
}

// AsInt converts an integral JSON number to int64. Numbers with a fractional
// part or outside the int64 range are rejected.
func AsInt(v any) (int64, error) {
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
	}
	f, ok := toFloat(v)
	if !ok || f != math.Trunc(f) || math.Abs(f) >= 1<<63 {
		return 0, typeError("integer", v)
	}
	return int64(f), nil
}

// AsString returns v if it is a JSON string.
func AsString(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", typeError("string", v)
}

// AsBool returns v if it is a JSON boolean.
func AsBool(v any) (bool, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	return false, typeError("boolean", v)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := strconv.ParseFloat(string(n), 64)
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
