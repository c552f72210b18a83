package jsonview

import "sort"

// Object is a decoded JSON object. Members keep the order in which they
// appeared on the wire; lookups are O(1). A duplicated key keeps its first
// position and its last value, like encoding/json.
type Object struct {
	keys   []string
	values map[string]any
}

func newObject() *Object {
	return &Object{values: make(map[string]any)}
}

// objectFromMap builds an Object from a Go map, ordering keys
// lexically since the map carries no order of its own. Only the top level is
// copied; nested values are left for Wrap to handle on access.
func objectFromMap(m map[string]any) *Object {
	o := &Object{
		keys:   make([]string, 0, len(m)),
		values: make(map[string]any, len(m)),
	}
	for k, v := range m {
		o.keys = append(o.keys, k)
		o.values[k] = v
	}
	sort.Strings(o.keys)
	return o
}

func (o *Object) set(key string, v any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Len returns the number of members.
func (o *Object) Len() int {
	return len(o.keys)
}

// Get returns the raw value stored under key.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Key returns the i-th key in wire order.
func (o *Object) Key(i int) string {
	return o.keys[i]
}

// MarshalJSON encodes the object with members in wire order.
func (o *Object) MarshalJSON() ([]byte, error) {
	return appendValue(nil, o)
}

func (o *Object) String() string {
	return Format(o)
}
