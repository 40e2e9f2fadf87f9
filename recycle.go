package funvec

// align reconciles two operand lengths for a pairwise operation. The
// result length is the longer of the two; output position i reads the
// shorter operand at i mod its length. A non-multiple pairing completes
// under that cyclic rule but carries a RecycleWarning; a length-0 operand
// against a non-empty one cannot be reconciled at all.
func align(lenA, lenB int) (n int, warn *RecycleWarning, err error) {
	longer, shorter := lenA, lenB
	if shorter > longer {
		longer, shorter = shorter, longer
	}
	if shorter == 0 {
		if longer == 0 {
			return 0, nil, nil
		}
		return 0, nil, &IncompatibleLengthError{Longer: longer, Shorter: shorter}
	}
	if longer%shorter != 0 {
		warn = &RecycleWarning{Longer: longer, Shorter: shorter}
	}
	return longer, warn, nil
}

// recycleAt maps output position i to a source offset in an operand of
// length n.
func recycleAt(i, n int) int { return i % n }
