package jsonview

import (
	"encoding/json"
	"fmt"
)

// Wrap returns a view for compound values and v itself for everything else.
// Wrapping a view returns the same view.
func Wrap(v any) any {
	switch t := v.(type) {
	case []any:
		return &Sequence{items: t}
	case *Object:
		if t == nil {
			return nil
		}
		return &Mapping{obj: t}
	case map[string]any:
		return &Mapping{obj: objectFromMap(t)}
	default:
		return v
	}
}

// NewSequence wraps items without copying them.
func NewSequence(items []any) *Sequence {
	return &Sequence{items: items}
}

// NewMapping wraps obj without copying it.
func NewMapping(obj *Object) *Mapping {
	if obj == nil {
		obj = newObject()
	}
	return &Mapping{obj: obj}
}

// AsSequence asserts that v is (or wraps to) a *Sequence.
func AsSequence(v any) (*Sequence, error) {
	if s, ok := Wrap(v).(*Sequence); ok {
		return s, nil
	}
	return nil, typeError("array", v)
}

// AsMapping asserts that v is (or wraps to) a *Mapping.
func AsMapping(v any) (*Mapping, error) {
	if m, ok := Wrap(v).(*Mapping); ok {
		return m, nil
	}
	return nil, typeError("object", v)
}

// At walks v one step per element of path. A string step is a key lookup on a
// mapping, an int step an index into a sequence.
func At(v any, path ...any) (any, error) {
	cur := Wrap(v)
	for _, step := range path {
		var err error
		switch node := cur.(type) {
		case *Mapping:
			key, ok := step.(string)
			if !ok {
				return nil, &AccessError{Kind: TypeErrorKind, Want: "string key", Got: fmt.Sprintf("%T step", step)}
			}
			cur, err = node.Get(key)
		case *Sequence:
			idx, ok := step.(int)
			if !ok {
				return nil, &AccessError{Kind: TypeErrorKind, Want: "int index", Got: fmt.Sprintf("%T step", step)}
			}
			cur, err = node.Get(idx)
		default:
			return nil, typeError("object or array", cur)
		}
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

func decodeInto(v any, dst any) error {
	b, err := appendValue(nil, v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}
