package jsonview

import (
	"encoding/json"
	"math/big"
)

// Equal reports whether a and b hold the same JSON structure. Views compare
// as the values they wrap, numbers compare by value whatever their Go type,
// and object member order is ignored. Two decoded numbers compare exactly;
// a decoded number against a Go number compares as float64.
func Equal(a, b any) bool {
	a, b = unwrap(a), unwrap(b)

	if an, ok := a.(json.Number); ok {
		if bn, ok := b.(json.Number); ok {
			if an == bn {
				return true
			}
			if ar, ok := new(big.Rat).SetString(string(an)); ok {
				if br, ok := new(big.Rat).SetString(string(bn)); ok {
					return ar.Cmp(br) == 0
				}
			}
		}
	}
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}

	switch at := a.(type) {
	case nil:
		return b == nil
	case bool:
		bt, ok := b.(bool)
		return ok && at == bt
	case string:
		bt, ok := b.(string)
		return ok && at == bt
	case []any:
		bt, ok := b.([]any)
		if !ok || len(at) != len(bt) {
			return false
		}
		for i := range at {
			if !Equal(at[i], bt[i]) {
				return false
			}
		}
		return true
	case *Object:
		bt, ok := b.(*Object)
		if !ok || at.Len() != bt.Len() {
			return false
		}
		for _, k := range at.keys {
			bv, ok := bt.values[k]
			if !ok || !Equal(at.values[k], bv) {
				return false
			}
		}
		return true
	}
	return false
}

// unwrap reduces views and Go maps to the raw forms Equal compares.
func unwrap(v any) any {
	switch t := v.(type) {
	case *Sequence:
		if t == nil {
			return nil
		}
		return t.items
	case *Mapping:
		if t == nil {
			return nil
		}
		return t.obj
	case map[string]any:
		return objectFromMap(t)
	case *Object:
		if t == nil {
			return nil
		}
		return t
	}
	return v
}
