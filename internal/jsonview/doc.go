// Package jsonview provides read-only, lazily wrapped views over decoded
// JSON documents.
//
// Decode produces plain values: nil, bool, json.Number, string, []any and
// *Object (an object that keeps wire order). Wrap turns the two compound
// kinds into views:
//
//   - []any     -> *Sequence (index, slice, iterate)
//   - *Object   -> *Mapping  (key/field lookup, iterate keys)
//
// Children are wrapped only when they are accessed, and a child view shares
// its parent's backing data. Scalars, strings included, are never wrapped.
//
// Keys from the document live in their own namespace (Get, Field, At), so a
// response member called "Len" or "Keys" never collides with a method.
//
//	v, _ := jsonview.Parse([]byte(`{"a": [1, {"b": 2}]}`))
//	b, err := jsonview.At(jsonview.Wrap(v), "a", 1, "b") // json.Number("2")
package jsonview
