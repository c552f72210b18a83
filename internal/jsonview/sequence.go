package jsonview

import "iter"

// Sequence is a read-only view over a JSON array.
type Sequence struct {
	items []any
}

// Len returns the number of elements.
func (s *Sequence) Len() int {
	return len(s.items)
}

// Get returns element i, wrapped if it is compound. A negative i counts
// from the end, so Get(-1) is the last element.
func (s *Sequence) Get(i int) (any, error) {
	n := len(s.items)
	j := i
	if j < 0 {
		j += n
	}
	if j < 0 || j >= n {
		return nil, &AccessError{Kind: IndexErrorKind, Index: i, Len: n}
	}
	return Wrap(s.items[j]), nil
}

// Slice returns a view over items[lo:hi]. Negative bounds count from the
// end, bounds are then clamped to [0, Len()] and an inverted range gives an
// empty view, so Slice never fails.
func (s *Sequence) Slice(lo, hi int) *Sequence {
	n := len(s.items)
	lo = sliceBound(lo, n)
	hi = max(sliceBound(hi, n), lo)
	return &Sequence{items: s.items[lo:hi:hi]}
}

func sliceBound(i, n int) int {
	if i < 0 {
		i += n
	}
	return min(max(i, 0), n)
}

// At navigates from this sequence; see the package-level At.
func (s *Sequence) At(path ...any) (any, error) {
	return At(s, path...)
}

// Values yields each element in order. Every call starts a new traversal.
func (s *Sequence) Values() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, item := range s.items {
			if !yield(Wrap(item)) {
				return
			}
		}
	}
}

// All yields index/element pairs in order.
func (s *Sequence) All() iter.Seq2[int, any] {
	return func(yield func(int, any) bool) {
		for i, item := range s.items {
			if !yield(i, Wrap(item)) {
				return
			}
		}
	}
}

// Mapping returns element i as a *Mapping.
func (s *Sequence) Mapping(i int) (*Mapping, error) {
	v, err := s.Get(i)
	if err != nil {
		return nil, err
	}
	return AsMapping(v)
}

// Sequence returns element i as a *Sequence.
func (s *Sequence) Sequence(i int) (*Sequence, error) {
	v, err := s.Get(i)
	if err != nil {
		return nil, err
	}
	return AsSequence(v)
}

// Raw returns the backing slice. Callers must not modify it.
func (s *Sequence) Raw() []any {
	return s.items
}

// Decode unmarshals the array into dst.
func (s *Sequence) Decode(dst any) error {
	return decodeInto(s.items, dst)
}

// MarshalJSON encodes the wrapped array.
func (s *Sequence) MarshalJSON() ([]byte, error) {
	return appendValue(nil, s.items)
}

func (s *Sequence) String() string {
	return Format(s.items)
}
