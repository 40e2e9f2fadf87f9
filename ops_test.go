package funvec

import (
	"errors"
	"testing"
)

func TestRecyclingLaw(t *testing.T) {
	a := mustVec(t, 1, 3, 5, 8)
	b := mustVec(t, 1, 2)
	got, warn, err := BinaryOp(OpAdd, a, b)
	if err != nil {
		t.Fatal(err)
	}
	if warn != nil {
		t.Errorf("exact multiple should not warn, got %v", warn)
	}
	checkElems(t, got, Int(2), Int(5), Int(6), Int(10))
}

func TestBinaryOpWarnsOnNonMultiple(t *testing.T) {
	a := mustVec(t, 1, 2, 3)
	b := mustVec(t, 10, 20)
	got, warn, err := BinaryOp(OpAdd, a, b)
	if err != nil {
		t.Fatal(err)
	}
	if warn == nil {
		t.Fatal("expected a RecycleWarning for lengths 3 and 2")
	}
	if warn.Longer != 3 || warn.Shorter != 2 {
		t.Errorf("warning = %+v, want longer 3 shorter 2", warn)
	}
	// The warning is advisory: the result is still fully computed.
	checkElems(t, got, Int(11), Int(22), Int(13))
}

func TestBinaryOpEmptyOperand(t *testing.T) {
	a := mustVec(t, 1, 2)
	_, _, err := BinaryOp(OpAdd, a, Empty(Integer))
	var le *IncompatibleLengthError
	if !errors.As(err, &le) {
		t.Fatalf("expected *IncompatibleLengthError, got %v", err)
	}
}

func TestArithmeticKinds(t *testing.T) {
	tests := []struct {
		name string
		op   Op
		a, b any
		kind Kind
		want []Elem
	}{
		{"integer add", OpAdd, 2, 3, Integer, []Elem{Int(5)}},
		{"double wins", OpAdd, 2, 0.5, Double, []Elem{Real(2.5)}},
		{"logical promotes to integer", OpAdd, true, true, Integer, []Elem{Int(2)}},
		{"division is always double", OpDiv, 5, 2, Double, []Elem{Real(2.5)}},
		{"subtraction", OpSub, 10, 4, Integer, []Elem{Int(6)}},
		{"multiplication", OpMul, 6, 7, Integer, []Elem{Int(42)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := BinaryOp(tt.op, mustVec(t, tt.a), mustVec(t, tt.b))
			if err != nil {
				t.Fatal(err)
			}
			if got.Kind() != tt.kind {
				t.Errorf("kind = %s, want %s", got.Kind(), tt.kind)
			}
			checkElems(t, got, tt.want...)
		})
	}
}

func TestArithmeticRejectsCharacter(t *testing.T) {
	a := mustVec(t, "a")
	b := mustVec(t, 1)
	_, _, err := BinaryOp(OpAdd, a, b)
	var ke *KindError
	if !errors.As(err, &ke) {
		t.Fatalf("expected *KindError, got %v", err)
	}
}

func TestComparison(t *testing.T) {
	tests := []struct {
		name string
		op   Op
		a, b any
		want []Elem
	}{
		{"lt", OpLt, 1, 2, []Elem{Bool(true)}},
		{"ge", OpGe, 2, 2, []Elem{Bool(true)}},
		{"eq across kinds", OpEq, 2, 2.0, []Elem{Bool(true)}},
		{"ne", OpNe, 1, 2, []Elem{Bool(true)}},
		{"character lexicographic", OpLt, "apple", "banana", []Elem{Bool(true)}},
		{"character vs number compares rendered text", OpEq, "2", 2, []Elem{Bool(true)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := BinaryOp(tt.op, mustVec(t, tt.a), mustVec(t, tt.b))
			if err != nil {
				t.Fatal(err)
			}
			if got.Kind() != Logical {
				t.Errorf("comparison kind = %s, want %s", got.Kind(), Logical)
			}
			checkElems(t, got, tt.want...)
		})
	}
}

func TestNAPropagation(t *testing.T) {
	a := mustVec(t, 1, NA(Integer), 3)
	b := mustVec(t, 10)

	sum, _, err := BinaryOp(OpAdd, a, b)
	if err != nil {
		t.Fatal(err)
	}
	checkElems(t, sum, Int(11), NA(Integer), Int(13))

	cmp, _, err := BinaryOp(OpLt, a, b)
	if err != nil {
		t.Fatal(err)
	}
	checkElems(t, cmp, Bool(true), NA(Logical), Bool(true))
}

func TestLogicalFilterLaw(t *testing.T) {
	v := mustVec(t, 7, 6.5, 4, 11, 8)
	mask, _, err := BinaryOp(OpGt, v, mustVec(t, 6.5))
	if err != nil {
		t.Fatal(err)
	}
	got, err := Extract(v, mask)
	if err != nil {
		t.Fatal(err)
	}
	checkElems(t, got, Real(7), Real(11), Real(8))
}

func TestUnknownOperator(t *testing.T) {
	if _, _, err := BinaryOp("%", mustVec(t, 1), mustVec(t, 2)); err == nil {
		t.Fatal("expected an error for an unknown operator")
	}
}

func TestApply(t *testing.T) {
	v := mustVec(t, 1, 2, 3)
	got := Apply(func(e Elem) Elem {
		if e.IsNA() {
			return e
		}
		return Int(e.Int() * 10)
	}, v)
	checkElems(t, got, Int(10), Int(20), Int(30))
	// The source is untouched.
	checkElems(t, v, Int(1), Int(2), Int(3))
}

func TestApplyRestoresHomogeneity(t *testing.T) {
	v := mustVec(t, 1, 2)
	// fn producing mixed kinds still yields a homogeneous vector.
	got := Apply(func(e Elem) Elem {
		if e.Int() == 1 {
			return Int(1)
		}
		return Real(2.5)
	}, v)
	if got.Kind() != Double {
		t.Errorf("kind = %s, want %s", got.Kind(), Double)
	}
	checkElems(t, got, Real(1), Real(2.5))
}

func TestApplyLargeInput(t *testing.T) {
	v, err := Sequence(1, 10000)
	if err != nil {
		t.Fatal(err)
	}
	got := Apply(func(e Elem) Elem { return Int(e.Int() * 2) }, v)
	if got.Len() != 10000 {
		t.Fatalf("length = %d, want 10000", got.Len())
	}
	for _, i := range []int{0, 4999, 9999} {
		want := Int(int64(i+1) * 2)
		if !got.At(i).Equal(want) {
			t.Errorf("element %d = %v, want %v", i, got.At(i), want)
		}
	}
}

func TestApplyN(t *testing.T) {
	a := mustVec(t, 1, 2, 3, 4)
	b := mustVec(t, 10, 20)
	got, warn, err := ApplyN(func(tuple []Elem) Elem {
		if tuple[0].IsNA() || tuple[1].IsNA() {
			return NA(Integer)
		}
		return Int(tuple[0].Int() + tuple[1].Int())
	}, a, b)
	if err != nil {
		t.Fatal(err)
	}
	if warn != nil {
		t.Errorf("exact multiple should not warn, got %v", warn)
	}
	checkElems(t, got, Int(11), Int(22), Int(13), Int(24))
}

func TestApplyNEmptyOperand(t *testing.T) {
	a := mustVec(t, 1, 2)
	_, _, err := ApplyN(func(tuple []Elem) Elem { return tuple[0] }, a, Empty(Integer))
	var le *IncompatibleLengthError
	if !errors.As(err, &le) {
		t.Fatalf("expected *IncompatibleLengthError, got %v", err)
	}
}

func TestRoundTo(t *testing.T) {
	tests := []struct {
		name     string
		in       any
		decimals int
		want     Elem
	}{
		{"half away from zero", 1.25, 1, Real(1.3)},
		{"half away from zero negative", -1.25, 1, Real(-1.3)},
		{"integer decimals zero", 2.5, 0, Real(3)},
		{"negative value", -2.5, 0, Real(-3)},
		{"plain truncation case", 1.234, 2, Real(1.23)},
		{"negative decimals", 1234, -2, Real(1200)},
		{"integer input", 7, 2, Real(7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RoundTo(mustVec(t, tt.in), tt.decimals)
			if err != nil {
				t.Fatal(err)
			}
			if got.Kind() != Double {
				t.Errorf("kind = %s, want %s", got.Kind(), Double)
			}
			checkElems(t, got, tt.want)
		})
	}

	t.Run("na stays na", func(t *testing.T) {
		got, err := RoundTo(mustVec(t, 1.25, NA(Double)), 1)
		if err != nil {
			t.Fatal(err)
		}
		checkElems(t, got, Real(1.3), NA(Double))
	})

	t.Run("character rejected", func(t *testing.T) {
		_, err := RoundTo(mustVec(t, "a"), 1)
		var ke *KindError
		if !errors.As(err, &ke) {
			t.Fatalf("expected *KindError, got %v", err)
		}
	})
}
