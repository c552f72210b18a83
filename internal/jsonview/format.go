package jsonview

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Format renders v as compact JSON. Views render exactly like the value they
// wrap, and *Object members keep wire order.
func Format(v any) string {
	b, err := appendValue(nil, v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

func appendValue(buf []byte, v any) ([]byte, error) {
	switch t := v.(type) {
	case nil:
		return append(buf, "null"...), nil
	case bool:
		return strconv.AppendBool(buf, t), nil
	case json.Number:
		if t == "" {
			return append(buf, '0'), nil
		}
		return append(buf, t...), nil
	case string:
		return appendString(buf, t)
	case *Sequence:
		if t == nil {
			return append(buf, "null"...), nil
		}
		return appendValue(buf, t.items)
	case *Mapping:
		if t == nil {
			return append(buf, "null"...), nil
		}
		return appendValue(buf, t.obj)
	case []any:
		buf = append(buf, '[')
		for i, item := range t {
			if i > 0 {
				buf = append(buf, ',')
			}
			var err error
			if buf, err = appendValue(buf, item); err != nil {
				return nil, err
			}
		}
		return append(buf, ']'), nil
	case *Object:
		if t == nil {
			return append(buf, "null"...), nil
		}
		buf = append(buf, '{')
		for i, k := range t.keys {
			if i > 0 {
				buf = append(buf, ',')
			}
			var err error
			if buf, err = appendString(buf, k); err != nil {
				return nil, err
			}
			buf = append(buf, ':')
			if buf, err = appendValue(buf, t.values[k]); err != nil {
				return nil, err
			}
		}
		return append(buf, '}'), nil
	case map[string]any:
		return appendValue(buf, objectFromMap(t))
	}

	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(buf, b...), nil
}

func appendString(buf []byte, s string) ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return append(buf, b...), nil
}
