package jsonview

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by AccessError through errors.Is.
var (
	ErrIndex = errors.New("index out of range")
	ErrKey   = errors.New("key not found")
	ErrType  = errors.New("unexpected value type")
	ErrEmpty = errors.New("empty json document")
)

// AccessKind classifies a failed view access.
type AccessKind int

const (
	IndexErrorKind AccessKind = iota + 1
	KeyErrorKind
	TypeErrorKind
)

func (k AccessKind) String() string {
	switch k {
	case IndexErrorKind:
		return "index"
	case KeyErrorKind:
		return "key"
	case TypeErrorKind:
		return "type"
	default:
		return "unknown"
	}
}

// AccessError is returned when a view lookup fails. It is raised at the point
// of access; nothing is validated ahead of time.
type AccessError struct {
	Kind  AccessKind
	Key   string // missing key (KeyErrorKind)
	Index int    // requested index (IndexErrorKind)
	Len   int    // sequence length (IndexErrorKind)
	Want  string // expected kind (TypeErrorKind)
	Got   string // actual kind (TypeErrorKind)
}

func (e *AccessError) Error() string {
	switch e.Kind {
	case IndexErrorKind:
		return fmt.Sprintf("jsonview: index %d out of range [0:%d]", e.Index, e.Len)
	case KeyErrorKind:
		return fmt.Sprintf("jsonview: key %q not found", e.Key)
	case TypeErrorKind:
		return fmt.Sprintf("jsonview: want %s, got %s", e.Want, e.Got)
	default:
		return "jsonview: access error"
	}
}

// Is reports whether target is the sentinel matching e.Kind.
func (e *AccessError) Is(target error) bool {
	switch target {
	case ErrIndex:
		return e.Kind == IndexErrorKind
	case ErrKey:
		return e.Kind == KeyErrorKind
	case ErrType:
		return e.Kind == TypeErrorKind
	}
	return false
}

func typeError(want string, got any) *AccessError {
	return &AccessError{Kind: TypeErrorKind, Want: want, Got: kindOf(got)}
}

// kindOf names the JSON kind of v for error messages.
func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case *Object, *Mapping, map[string]any:
		return "object"
	case []any, *Sequence:
		return "array"
	}
	if _, ok := toFloat(v); ok {
		return "number"
	}
	return fmt.Sprintf("%T", v)
}
