package funvec

import (
	"fmt"
	"strconv"
)

// Kind identifies one of the four atomic element kinds. The declaration
// order is the coercion lattice: Logical < Integer < Double < Character.
// Coercion only ever moves a value toward a higher Kind.
type Kind int

const (
	Logical Kind = iota
	Integer
	Double
	Character
)

func (k Kind) String() string {
	switch k {
	case Logical:
		return "logical"
	case Integer:
		return "integer"
	case Double:
		return "double"
	case Character:
		return "character"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Rank is the total order used to pick the output kind of a multi-value
// construction: the result kind is the maximum rank among the inputs.
func (k Kind) Rank() int { return int(k) }

func maxKind(a, b Kind) Kind {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Elem is a single vector element: one value of one Kind, or that Kind's
// missing sentinel. The zero value is a logical false.
type Elem struct {
	kind Kind
	na   bool
	b    bool
	i    int64
	f    float64
	s    string
}

// Bool returns a logical element.
func Bool(v bool) Elem { return Elem{kind: Logical, b: v} }

// Int returns an integer element.
func Int(v int64) Elem { return Elem{kind: Integer, i: v} }

// Real returns a double element.
func Real(v float64) Elem { return Elem{kind: Double, f: v} }

// Str returns a character element.
func Str(v string) Elem { return Elem{kind: Character, s: v} }

// NA returns the missing sentinel of kind k. Each kind has its own
// sentinel; a missing value is never treated as a default.
func NA(k Kind) Elem { return Elem{kind: k, na: true} }

func (e Elem) Kind() Kind { return e.kind }
func (e Elem) IsNA() bool { return e.na }

// Bool reports the logical payload; false for NA or non-logical elements.
func (e Elem) Bool() bool {
	if e.na || e.kind != Logical {
		return false
	}
	return e.b
}

// Int reports the integer payload; 0 for NA or non-integer elements.
func (e Elem) Int() int64 {
	if e.na || e.kind != Integer {
		return 0
	}
	return e.i
}

// Real reports the double payload; 0 for NA or non-double elements.
func (e Elem) Real() float64 {
	if e.na || e.kind != Double {
		return 0
	}
	return e.f
}

// Str reports the character payload; "" for NA or non-character elements.
func (e Elem) Str() string {
	if e.na || e.kind != Character {
		return ""
	}
	return e.s
}

// Equal reports whether two elements hold the same value. Two NAs of the
// same kind compare equal here; this is identity of representation, not
// the vectorized == (which propagates NA).
func (e Elem) Equal(o Elem) bool {
	if e.kind != o.kind {
		return false
	}
	if e.na || o.na {
		return e.na && o.na
	}
	switch e.kind {
	case Logical:
		return e.b == o.b
	case Integer:
		return e.i == o.i
	case Double:
		return e.f == o.f
	default:
		return e.s == o.s
	}
}

func (e Elem) String() string {
	if e.na {
		return "NA"
	}
	return e.render()
}

// render is the canonical locale-independent text form used when a value
// is coerced to Character.
func (e Elem) render() string {
	switch e.kind {
	case Logical:
		if e.b {
			return "TRUE"
		}
		return "FALSE"
	case Integer:
		return strconv.FormatInt(e.i, 10)
	case Double:
		return formatReal(e.f)
	default:
		return e.s
	}
}

func formatReal(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Coerce converts e upward the lattice to kind to. The missing sentinel of
// any kind converts to the missing sentinel of the target kind. Coercion
// down the lattice is rejected; it is never invoked implicitly.
func Coerce(e Elem, to Kind) (Elem, error) {
	if e.kind == to {
		return e, nil
	}
	if to.Rank() < e.kind.Rank() {
		return Elem{}, &KindError{Op: "coerce", From: e.kind, To: to}
	}
	if e.na {
		return NA(to), nil
	}
	switch to {
	case Integer:
		// only Logical sits below Integer
		if e.b {
			return Int(1), nil
		}
		return Int(0), nil
	case Double:
		switch e.kind {
		case Logical:
			if e.b {
				return Real(1), nil
			}
			return Real(0), nil
		default: // Integer
			return Real(float64(e.i)), nil
		}
	default: // Character
		return Str(e.render()), nil
	}
}

// mustCoerce is Coerce for callers that have already established the
// target outranks the element.
func mustCoerce(e Elem, to Kind) Elem {
	out, err := Coerce(e, to)
	if err != nil {
		panic(err)
	}
	return out
}

// asReal reads any non-character element as a float64 for numeric work.
// The boolean result is false when the element is NA.
func asReal(e Elem) (float64, bool) {
	if e.na {
		return 0, false
	}
	switch e.kind {
	case Logical:
		if e.b {
			return 1, true
		}
		return 0, true
	case Integer:
		return float64(e.i), true
	case Double:
		return e.f, true
	default:
		return 0, false
	}
}
