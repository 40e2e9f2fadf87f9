package funvec

import (
	"fmt"
	"math"
	"runtime"
	"sync"
)

// Op names a pairwise primitive operator.
type Op string

const (
	OpAdd Op = "+"
	OpSub Op = "-"
	OpMul Op = "*"
	OpDiv Op = "/"
	OpLt  Op = "<"
	OpLe  Op = "<="
	OpGt  Op = ">"
	OpGe  Op = ">="
	OpEq  Op = "=="
	OpNe  Op = "!="
)

func (op Op) arithmetic() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv:
		return true
	}
	return false
}

func (op Op) comparison() bool {
	switch op {
	case OpLt, OpLe, OpGt, OpGe, OpEq, OpNe:
		return true
	}
	return false
}

// BinaryOp applies op pairwise over a and b, recycling the shorter
// operand cyclically. For arithmetic the output kind is the maximum
// lattice rank of the operands, with an Integer floor for logical
// operands; division always yields Double; Character rejects arithmetic.
// Comparisons always yield Logical, comparing Character lexicographically.
// A missing operand at a position propagates to a missing result there.
//
// The warning, when non-nil, reports a non-multiple recycling; the result
// is still fully computed.
func BinaryOp(op Op, a, b *Vector) (*Vector, *RecycleWarning, error) {
	n, warn, err := align(a.Len(), b.Len())
	if err != nil {
		return nil, nil, err
	}
	switch {
	case op.arithmetic():
		out, err := arithOp(op, a, b, n)
		if err != nil {
			return nil, nil, err
		}
		return out, warn, nil
	case op.comparison():
		return compareOp(op, a, b, n), warn, nil
	default:
		return nil, nil, fmt.Errorf("unknown operator %q", op)
	}
}

func arithOp(op Op, a, b *Vector, n int) (*Vector, error) {
	if a.kind == Character || b.kind == Character {
		return nil, &KindError{Op: string(op), From: Character}
	}
	target := maxKind(a.kind, b.kind)
	if target == Logical {
		target = Integer // arithmetic has an Integer floor
	}
	if op == OpDiv {
		target = Double
	}
	out := &Vector{kind: target, elems: make([]Elem, n)}
	la, lb := a.Len(), b.Len()
	applyIndexed(n, func(i int) {
		ea, eb := a.elems[recycleAt(i, la)], b.elems[recycleAt(i, lb)]
		if ea.na || eb.na {
			out.elems[i] = NA(target)
			return
		}
		if target == Integer {
			x := mustCoerce(ea, Integer).i
			y := mustCoerce(eb, Integer).i
			out.elems[i] = Int(intArith(op, x, y))
			return
		}
		x, _ := asReal(ea)
		y, _ := asReal(eb)
		out.elems[i] = Real(realArith(op, x, y))
	})
	return out, nil
}

func intArith(op Op, x, y int64) int64 {
	switch op {
	case OpAdd:
		return x + y
	case OpSub:
		return x - y
	default: // OpMul; division is computed in Double
		return x * y
	}
}

func realArith(op Op, x, y float64) float64 {
	switch op {
	case OpAdd:
		return x + y
	case OpSub:
		return x - y
	case OpMul:
		return x * y
	default:
		return x / y
	}
}

func compareOp(op Op, a, b *Vector, n int) *Vector {
	target := maxKind(a.kind, b.kind)
	out := &Vector{kind: Logical, elems: make([]Elem, n)}
	la, lb := a.Len(), b.Len()
	applyIndexed(n, func(i int) {
		ea, eb := a.elems[recycleAt(i, la)], b.elems[recycleAt(i, lb)]
		if ea.na || eb.na {
			out.elems[i] = NA(Logical)
			return
		}
		var cmp int
		if target == Character {
			x, y := mustCoerce(ea, Character).s, mustCoerce(eb, Character).s
			switch {
			case x < y:
				cmp = -1
			case x > y:
				cmp = 1
			}
		} else {
			x, _ := asReal(ea)
			y, _ := asReal(eb)
			switch {
			case x < y:
				cmp = -1
			case x > y:
				cmp = 1
			}
		}
		out.elems[i] = Bool(compareVerdict(op, cmp))
	})
	return out
}

func compareVerdict(op Op, cmp int) bool {
	switch op {
	case OpLt:
		return cmp < 0
	case OpLe:
		return cmp <= 0
	case OpGt:
		return cmp > 0
	case OpGe:
		return cmp >= 0
	case OpEq:
		return cmp == 0
	default:
		return cmp != 0
	}
}

// Apply applies a total function independently to every element. Output
// positions have no data dependency, so large inputs are chunked across
// goroutines; fn must treat its argument as read-only.
func Apply(fn func(Elem) Elem, v *Vector) *Vector {
	out := &Vector{kind: v.kind, elems: make([]Elem, v.Len())}
	applyIndexed(v.Len(), func(i int) {
		out.elems[i] = fn(v.elems[i])
	})
	normalizeApplied(out, v.kind)
	return out
}

// ApplyN applies a total function to every recycled tuple of elements
// drawn from the given vectors. The result length is the recycled common
// length; a non-multiple pairing carries a RecycleWarning.
func ApplyN(fn func([]Elem) Elem, vs ...*Vector) (*Vector, *RecycleWarning, error) {
	if len(vs) == 0 {
		return Empty(Logical), nil, nil
	}
	n := 0
	for _, v := range vs {
		if v.Len() > n {
			n = v.Len()
		}
	}
	var warn *RecycleWarning
	for _, v := range vs {
		_, w, err := align(n, v.Len())
		if err != nil {
			return nil, nil, err
		}
		if warn == nil {
			warn = w
		}
	}
	out := &Vector{elems: make([]Elem, n)}
	applyIndexed(n, func(i int) {
		tuple := make([]Elem, len(vs))
		for j, v := range vs {
			tuple[j] = v.elems[recycleAt(i, v.Len())]
		}
		out.elems[i] = fn(tuple)
	})
	normalizeApplied(out, vs[0].kind)
	return out, warn, nil
}

// normalizeApplied restores the homogeneity invariant after an arbitrary
// function produced the elements: the vector kind becomes the maximum
// rank among results and every element is coerced up to it. fallback is
// the kind used for an empty result.
func normalizeApplied(v *Vector, fallback Kind) {
	if len(v.elems) == 0 {
		v.kind = fallback
		return
	}
	kind := Logical
	for _, e := range v.elems {
		kind = maxKind(kind, e.Kind())
	}
	for i, e := range v.elems {
		v.elems[i] = mustCoerce(e, kind)
	}
	v.kind = kind
}

// RoundTo rounds every element to the given number of decimal places,
// half away from zero, producing a Double vector. Negative decimals round
// to tens, hundreds, and so on.
func RoundTo(v *Vector, decimals int) (*Vector, error) {
	if v.kind == Character {
		return nil, &KindError{Op: "roundTo", From: Character}
	}
	p := math.Pow(10, float64(decimals))
	out := Apply(func(e Elem) Elem {
		if e.IsNA() {
			return NA(Double)
		}
		x, _ := asReal(e)
		return Real(math.Round(x*p) / p)
	}, v)
	out.kind = Double
	return out, nil
}

// Below parallelMin elements the per-position loop runs inline; past it
// the positions are chunked across GOMAXPROCS goroutines. Positions are
// independent by contract, so no synchronization beyond the join is
// needed.
const parallelMin = 4096

func applyIndexed(n int, fn func(int)) {
	if n < parallelMin {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	workers := runtime.GOMAXPROCS(0)
	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				fn(i)
			}
		}(lo, hi)
	}
	wg.Wait()
}
