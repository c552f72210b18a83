package jsonview

import "iter"

// Mapping is a read-only view over a JSON object.
//
// Document keys are reached through Get, Field and At only. Methods such as
// Len or Keys are never consulted when resolving a key, so a member named
// "Len" is returned by Field("Len") like any other.
type Mapping struct {
	obj *Object
}

// Len returns the number of members.
func (m *Mapping) Len() int {
	return m.obj.Len()
}

// Get returns the value stored under key, wrapped if it is compound.
func (m *Mapping) Get(key string) (any, error) {
	v, ok := m.obj.Get(key)
	if !ok {
		return nil, &AccessError{Kind: KeyErrorKind, Key: key}
	}
	return Wrap(v), nil
}

// Field is field-style access and behaves exactly like Get.
func (m *Mapping) Field(name string) (any, error) {
	return m.Get(name)
}

// Lookup is Get with a presence flag instead of an error.
func (m *Mapping) Lookup(key string) (any, bool) {
	v, ok := m.obj.Get(key)
	if !ok {
		return nil, false
	}
	return Wrap(v), true
}

// Has reports whether key is present.
func (m *Mapping) Has(key string) bool {
	_, ok := m.obj.Get(key)
	return ok
}

// At navigates from this mapping; see the package-level At.
func (m *Mapping) At(path ...any) (any, error) {
	return At(m, path...)
}

// Keys yields the keys in wire order. Every call starts a new traversal.
func (m *Mapping) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, k := range m.obj.keys {
			if !yield(k) {
				return
			}
		}
	}
}

// All yields key/value pairs in wire order, wrapping each value as it goes.
func (m *Mapping) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range m.obj.keys {
			if !yield(k, Wrap(m.obj.values[k])) {
				return
			}
		}
	}
}

// Mapping returns the member under key as a *Mapping.
func (m *Mapping) Mapping(key string) (*Mapping, error) {
	v, err := m.Get(key)
	if err != nil {
		return nil, err
	}
	return AsMapping(v)
}

// Sequence returns the member under key as a *Sequence.
func (m *Mapping) Sequence(key string) (*Sequence, error) {
	v, err := m.Get(key)
	if err != nil {
		return nil, err
	}
	return AsSequence(v)
}

// Float returns the member under key as a float64.
func (m *Mapping) Float(key string) (float64, error) {
	v, err := m.Get(key)
	if err != nil {
		return 0, err
	}
	return AsFloat(v)
}

// Int returns the member under key as an int64.
func (m *Mapping) Int(key string) (int64, error) {
	v, err := m.Get(key)
	if err != nil {
		return 0, err
	}
	return AsInt(v)
}

// Text returns the member under key as a string.
func (m *Mapping) Text(key string) (string, error) {
	v, err := m.Get(key)
	if err != nil {
		return "", err
	}
	return AsString(v)
}

// Bool returns the member under key as a bool.
func (m *Mapping) Bool(key string) (bool, error) {
	v, err := m.Get(key)
	if err != nil {
		return false, err
	}
	return AsBool(v)
}

// Raw returns the backing object. Callers must not modify it.
func (m *Mapping) Raw() *Object {
	return m.obj
}

// Decode unmarshals the object into dst.
func (m *Mapping) Decode(dst any) error {
	return decodeInto(m.obj, dst)
}

// MarshalJSON encodes the wrapped object with members in wire order.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	return appendValue(nil, m.obj)
}

func (m *Mapping) String() string {
	return Format(m.obj)
}
