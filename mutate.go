package funvec

// Assign writes rhs into the positions of v selected by spec, mutating v
// in place. rhs may be a scalar, an Elem, or a Vector; it is recycled
// cyclically over the resolved positions. The call is all-or-nothing:
// resolution, length reconciliation, and the growth cap are all checked
// before the first element of v changes.
//
// Order of effects once validation passes:
//
//  1. v grows to the highest addressed position, new slots filled with
//     the current kind's NA under empty names (name-based growth attaches
//     the new names).
//  2. If rhs's kind outranks v's, the whole vector is promoted first;
//     existing elements are coerced in place.
//  3. Recycled rhs values land in the resolved positions in spec order;
//     a position addressed twice keeps the later value.
//
// Unlike read-side recycling, assignment is strict: a replacement whose
// length does not divide the number of targets is rejected, not warned
// about.
func Assign(v *Vector, spec any, rhs any) error {
	res, err := v.resolveIndex(spec, true)
	if err != nil {
		return err
	}
	rv, err := toVector(rhs)
	if err != nil {
		return err
	}
	if rv == v {
		rv = v.Clone() // self-assignment reads the pre-mutation values
	}
	targets := len(res.pos)
	if targets == 0 {
		return nil
	}
	if rv.Len() == 0 {
		return &IncompatibleLengthError{Longer: targets, Shorter: 0}
	}
	if targets%rv.Len() != 0 {
		return &IncompatibleLengthError{Longer: targets, Shorter: rv.Len()}
	}
	if res.maxPos > v.Len() {
		if limit := currentLimits().MaxLen; res.maxPos > limit {
			return &LimitError{Requested: res.maxPos, Max: limit}
		}
		grow(v, res.maxPos, res.newNames)
	}
	if rv.kind.Rank() > v.kind.Rank() {
		promote(v, rv.kind)
	}
	for i, p := range res.pos {
		e := rv.elems[recycleAt(i, rv.Len())]
		if e.kind.Rank() < v.kind.Rank() {
			e = mustCoerce(e, v.kind)
		}
		v.elems[p] = e
	}
	v.byName = nil
	return nil
}

// toVector views rhs as a vector without re-coercing an existing one.
func toVector(rhs any) (*Vector, error) {
	if v, ok := rhs.(*Vector); ok {
		return v, nil
	}
	return Combine(rhs)
}

// grow extends v to length n, filling created slots with the kind's NA
// and empty names. newNames attaches names produced by name-based
// resolution; growth of an unnamed vector through names attaches a name
// table on the way.
func grow(v *Vector, n int, newNames map[int]string) {
	if v.names == nil && len(newNames) > 0 {
		v.names = make([]string, len(v.elems))
	}
	for len(v.elems) < n {
		v.elems = append(v.elems, NA(v.kind))
		if v.names != nil {
			v.names = append(v.names, newNames[len(v.elems)-1])
		}
	}
}

// promote coerces every element of v up to kind, NA sentinels included.
func promote(v *Vector, kind Kind) {
	for i, e := range v.elems {
		v.elems[i] = mustCoerce(e, kind)
	}
	v.kind = kind
}
