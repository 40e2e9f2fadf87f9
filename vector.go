package funvec

import (
	"fmt"
	"math"
)

// Vector is an ordered, homogeneously-typed, one-dimensional container:
// every element shares one Kind, and an optional name table runs parallel
// to the elements (an absent name is the empty string). Scalars have no
// separate representation; a scalar is a length-1 Vector.
//
// Vectors have value semantics toward callers: every read or extraction
// returns an independent copy, so no aliasing is observable. Assign is
// the only mutating entry point and requires single-writer discipline.
type Vector struct {
	kind  Kind
	elems []Elem
	names []string // nil when the vector is unnamed

	// byName is the derived name → positions index, built lazily on the
	// first name lookup and discarded on any mutation of the name table.
	byName map[string][]int
}

// Empty returns a length-0 vector of kind k. A Combine of zero values
// yields the untyped empty: an empty Logical vector, Logical being the
// lattice bottom.
func Empty(k Kind) *Vector { return &Vector{kind: k} }

// FromElems builds a vector of kind k from elements already of that kind.
// names may be nil; otherwise it must run parallel to elems.
func FromElems(k Kind, elems []Elem, names []string) (*Vector, error) {
	for _, e := range elems {
		if e.Kind() != k {
			return nil, &KindError{Op: "coerce", From: e.Kind(), To: k}
		}
	}
	if names != nil && len(names) != len(elems) {
		return nil, fmt.Errorf("names length %d does not match vector length %d", len(names), len(elems))
	}
	v := &Vector{kind: k, elems: append([]Elem(nil), elems...)}
	if names != nil {
		v.names = append([]string(nil), names...)
	}
	return v, nil
}

// Combine flattens the given values and vectors into one vector. The
// output kind is the maximum lattice rank among all inputs, and every
// element is coerced to it. Concatenation order is preserved, as are the
// names of any named input vector. Accepted inputs: *Vector, Elem, bool,
// int, int64, float64, and string.
func Combine(items ...any) (*Vector, error) {
	var elems []Elem
	var names []string
	named := false
	for _, it := range items {
		switch x := it.(type) {
		case *Vector:
			elems = append(elems, x.elems...)
			if x.names != nil {
				named = true
				names = append(names, x.names...)
			} else {
				for range x.elems {
					names = append(names, "")
				}
			}
		case Elem:
			elems = append(elems, x)
			names = append(names, "")
		case bool:
			elems = append(elems, Bool(x))
			names = append(names, "")
		case int:
			elems = append(elems, Int(int64(x)))
			names = append(names, "")
		case int64:
			elems = append(elems, Int(x))
			names = append(names, "")
		case float64:
			elems = append(elems, Real(x))
			names = append(names, "")
		case string:
			elems = append(elems, Str(x))
			names = append(names, "")
		default:
			return nil, fmt.Errorf("cannot combine value of type %T", it)
		}
	}
	if len(elems) == 0 {
		return Empty(Logical), nil
	}
	kind := Logical
	for _, e := range elems {
		kind = maxKind(kind, e.Kind())
	}
	for i, e := range elems {
		elems[i] = mustCoerce(e, kind)
	}
	v := &Vector{kind: kind, elems: elems}
	if named {
		v.names = names
	}
	return v, nil
}

// Sequence produces from, from+step, ... stopping at or before to,
// inclusive. step defaults to +1 when to >= from and -1 otherwise. A zero
// step over a non-trivial range, or a step pointing away from to, is
// rejected with InvalidStepError. The result kind is Integer when both
// from and step are integral, Double otherwise.
func Sequence(from, to float64, step ...float64) (*Vector, error) {
	by := 1.0
	if to < from {
		by = -1.0
	}
	if len(step) > 0 {
		by = step[0]
	}
	if by == 0 && from != to {
		return nil, &InvalidStepError{From: from, To: to, Step: by}
	}
	if from == to {
		if from == math.Trunc(from) {
			return &Vector{kind: Integer, elems: []Elem{Int(int64(from))}}, nil
		}
		return &Vector{kind: Double, elems: []Elem{Real(from)}}, nil
	}
	span := to - from
	if span != 0 && (span > 0) != (by > 0) {
		return nil, &InvalidStepError{From: from, To: to, Step: by}
	}
	// A small epsilon keeps endpoints reachable despite float error,
	// e.g. Sequence(0, 1, 0.1) includes 1.
	n := int(math.Floor(span/by+1e-10)) + 1
	integral := from == math.Trunc(from) && by == math.Trunc(by)
	elems := make([]Elem, n)
	for i := 0; i < n; i++ {
		x := from + float64(i)*by
		if integral {
			elems[i] = Int(int64(x))
		} else {
			elems[i] = Real(x)
		}
	}
	kind := Double
	if integral {
		kind = Integer
	}
	return &Vector{kind: kind, elems: elems}, nil
}

// Repeat produces a vector of length times*len(value) by repeating the
// whole input cyclically; repetition is by whole-input cycles, not
// per-element.
func Repeat(value any, times int) (*Vector, error) {
	if times < 0 {
		return nil, ErrNegativeTimes
	}
	base, err := Combine(value)
	if err != nil {
		return nil, err
	}
	out := &Vector{kind: base.kind, elems: make([]Elem, 0, times*len(base.elems))}
	for i := 0; i < times; i++ {
		out.elems = append(out.elems, base.elems...)
	}
	if base.names != nil {
		out.names = make([]string, 0, len(out.elems))
		for i := 0; i < times; i++ {
			out.names = append(out.names, base.names...)
		}
	}
	return out, nil
}

// Len is the element count. It is never the character length of string
// elements.
func (v *Vector) Len() int { return len(v.elems) }

// Kind is the element kind shared by the whole vector.
func (v *Vector) Kind() Kind { return v.kind }

// At returns the element at 0-based offset i.
func (v *Vector) At(i int) Elem { return v.elems[i] }

// Elems returns an independent copy of the element sequence.
func (v *Vector) Elems() []Elem { return append([]Elem(nil), v.elems...) }

// HasNames reports whether a name table is attached.
func (v *Vector) HasNames() bool { return v.names != nil }

// Names returns an independent copy of the name table, or nil when the
// vector is unnamed.
func (v *Vector) Names() []string {
	if v.names == nil {
		return nil
	}
	return append([]string(nil), v.names...)
}

// SetNames attaches a name table running parallel to the elements; nil
// detaches it. The table length must equal the vector length.
func (v *Vector) SetNames(names []string) error {
	if names == nil {
		v.names = nil
		v.byName = nil
		return nil
	}
	if len(names) != len(v.elems) {
		return fmt.Errorf("names length %d does not match vector length %d", len(names), len(v.elems))
	}
	v.names = append([]string(nil), names...)
	v.byName = nil
	return nil
}

// nameAt returns the name at 0-based offset i, "" for unnamed vectors.
func (v *Vector) nameAt(i int) string {
	if v.names == nil {
		return ""
	}
	return v.names[i]
}

// nameIndex returns the derived name → positions map, building it on
// first use. Duplicate names are legal; lookups take the first position.
func (v *Vector) nameIndex() map[string][]int {
	if v.byName == nil {
		v.byName = make(map[string][]int, len(v.names))
		for i, n := range v.names {
			if n == "" {
				continue
			}
			v.byName[n] = append(v.byName[n], i)
		}
	}
	return v.byName
}

// Clone returns a deep, independent copy.
func (v *Vector) Clone() *Vector {
	out := &Vector{kind: v.kind, elems: append([]Elem(nil), v.elems...)}
	if v.names != nil {
		out.names = append([]string(nil), v.names...)
	}
	return out
}

func (v *Vector) String() string {
	s := "["
	for i, e := range v.elems {
		if i > 0 {
			s += " "
		}
		s += e.String()
	}
	return s + "]"
}
