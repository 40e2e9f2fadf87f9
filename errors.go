package funvec

import (
	"errors"
	"fmt"
)

var (
	// ErrNASubscript is returned when an index spec used for assignment
	// contains a missing value.
	ErrNASubscript = errors.New("NA subscripts are not allowed in assignments")

	// ErrNegativeTimes is returned by Repeat for a negative repetition count.
	ErrNegativeTimes = errors.New("repetition count must be non-negative")
)

// MixedSignIndexError indicates an integer index spec that mixes positive
// and negative positions. It is rejected before any resolution happens.
type MixedSignIndexError struct {
	Positive int
	Negative int
}

func (e *MixedSignIndexError) Error() string {
	return fmt.Sprintf("cannot mix positive and negative subscripts (%d and %d)", e.Positive, e.Negative)
}

// InvalidStepError indicates a Sequence request that cannot terminate:
// a zero step over a non-trivial range, or a step pointing away from to.
type InvalidStepError struct {
	From, To, Step float64
}

func (e *InvalidStepError) Error() string {
	return fmt.Sprintf("invalid sequence step %s for range %s..%s",
		formatReal(e.Step), formatReal(e.From), formatReal(e.To))
}

// IncompatibleLengthError indicates two operand lengths that recycling
// cannot reconcile: a length-0 operand against a non-empty one, or a
// replacement whose length does not divide the number of targets.
type IncompatibleLengthError struct {
	Longer  int
	Shorter int
}

func (e *IncompatibleLengthError) Error() string {
	return fmt.Sprintf("incompatible lengths %d and %d", e.Longer, e.Shorter)
}

// KindError indicates an operation applied to a kind that cannot support
// it, including any attempt to coerce down the lattice.
type KindError struct {
	Op   string
	From Kind
	To   Kind
}

func (e *KindError) Error() string {
	if e.Op == "coerce" {
		return fmt.Sprintf("cannot coerce %s to %s", e.From, e.To)
	}
	return fmt.Sprintf("operator %s not supported for %s", e.Op, e.From)
}

// LimitError indicates a write that would grow a vector past the
// configured maximum length.
type LimitError struct {
	Requested int
	Max       int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("vector of length %d exceeds the configured maximum %d", e.Requested, e.Max)
}

// RecycleWarning is the advisory emitted when recycling reconciles two
// lengths where the longer is not an exact multiple of the shorter. The
// operation still completes under the cyclic rule; callers decide whether
// to surface the warning.
type RecycleWarning struct {
	Longer  int
	Shorter int
}

func (w *RecycleWarning) String() string {
	return fmt.Sprintf("longer operand length %d is not a multiple of shorter operand length %d", w.Longer, w.Shorter)
}
