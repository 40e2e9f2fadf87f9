package funvec

import (
	"fmt"
	"math"
)

// An index spec selects positions of a vector. Exactly one of four
// mutually exclusive encodings is accepted per call:
//
//   - positive integers: 1-based positions; beyond-length positions are
//     missing slots (NA on read, growth on write); zeros contribute nothing
//   - negative integers: exclusions; resolves to the ascending complement
//   - boolean mask: recycled up to the vector length when shorter; extra
//     true entries beyond the length are missing slots
//   - names: first-match lookup in the derived name index; an unmatched
//     name is a missing slot
//
// A spec may be a plain Go slice ([]int, []bool, []string) or a Vector of
// Integer, Double, Logical, or Character kind, so the result of a
// vectorized comparison indexes directly.
type idxMode int

const (
	idxInts idxMode = iota
	idxMask
	idxNames
)

type idxEntry struct {
	na bool
	i  int64
	b  bool
	s  string
}

func normalizeSpec(spec any) (idxMode, []idxEntry, error) {
	switch x := spec.(type) {
	case []int:
		out := make([]idxEntry, len(x))
		for i, p := range x {
			out[i] = idxEntry{i: int64(p)}
		}
		return idxInts, out, nil
	case []bool:
		out := make([]idxEntry, len(x))
		for i, b := range x {
			out[i] = idxEntry{b: b}
		}
		return idxMask, out, nil
	case []string:
		out := make([]idxEntry, len(x))
		for i, s := range x {
			out[i] = idxEntry{s: s}
		}
		return idxNames, out, nil
	case *Vector:
		out := make([]idxEntry, x.Len())
		switch x.Kind() {
		case Logical:
			for i, e := range x.elems {
				out[i] = idxEntry{na: e.na, b: e.b}
			}
			return idxMask, out, nil
		case Integer:
			for i, e := range x.elems {
				out[i] = idxEntry{na: e.na, i: e.i}
			}
			return idxInts, out, nil
		case Double:
			for i, e := range x.elems {
				out[i] = idxEntry{na: e.na, i: int64(math.Trunc(e.f))}
			}
			return idxInts, out, nil
		default:
			for i, e := range x.elems {
				out[i] = idxEntry{na: e.na, s: e.s}
			}
			return idxNames, out, nil
		}
	default:
		return 0, nil, fmt.Errorf("cannot index with value of type %T", spec)
	}
}

// resolution is the outcome of index resolution: an ordered list of
// 0-based target positions. On read, -1 marks a missing slot. On write,
// positions may lie beyond the current length; maxPos is the highest
// 1-based position addressed, and newNames carries names for positions
// created by name-based growth.
type resolution struct {
	pos      []int
	maxPos   int
	newNames map[int]string
}

func (v *Vector) resolveIndex(spec any, forWrite bool) (*resolution, error) {
	mode, entries, err := normalizeSpec(spec)
	if err != nil {
		return nil, err
	}
	switch mode {
	case idxInts:
		return v.resolveInts(entries, forWrite)
	case idxMask:
		return v.resolveMask(entries, forWrite)
	default:
		return v.resolveNames(entries, forWrite)
	}
}

func (v *Vector) resolveInts(entries []idxEntry, forWrite bool) (*resolution, error) {
	// Classify the spec before resolving anything: mixing signs is fatal
	// up front. Zeros and NAs carry no sign.
	var firstPos, firstNeg int64
	for _, e := range entries {
		if e.na {
			continue
		}
		if e.i > 0 && firstPos == 0 {
			firstPos = e.i
		}
		if e.i < 0 && firstNeg == 0 {
			firstNeg = e.i
		}
	}
	if firstPos != 0 && firstNeg != 0 {
		return nil, &MixedSignIndexError{Positive: int(firstPos), Negative: int(firstNeg)}
	}
	if firstNeg != 0 {
		return v.resolveExclusions(entries, forWrite)
	}

	res := &resolution{}
	n := v.Len()
	for _, e := range entries {
		if e.na {
			if forWrite {
				return nil, ErrNASubscript
			}
			res.pos = append(res.pos, -1)
			continue
		}
		if e.i == 0 {
			continue
		}
		p := int(e.i)
		if p > res.maxPos {
			res.maxPos = p
		}
		if p <= n || forWrite {
			res.pos = append(res.pos, p-1)
		} else {
			res.pos = append(res.pos, -1)
		}
	}
	return res, nil
}

// resolveExclusions computes the ascending complement of the excluded
// positions over 1..N. Out-of-range exclusions are ignored.
func (v *Vector) resolveExclusions(entries []idxEntry, forWrite bool) (*resolution, error) {
	n := v.Len()
	excluded := make(map[int]bool)
	for _, e := range entries {
		if e.na {
			// NA cannot be mixed with exclusions in either mode.
			return nil, ErrNASubscript
		}
		if e.i == 0 {
			continue
		}
		if p := int(-e.i); p <= n {
			excluded[p] = true
		}
	}
	res := &resolution{}
	for p := 1; p <= n; p++ {
		if !excluded[p] {
			res.pos = append(res.pos, p-1)
			if p > res.maxPos {
				res.maxPos = p
			}
		}
	}
	return res, nil
}

func (v *Vector) resolveMask(entries []idxEntry, forWrite bool) (*resolution, error) {
	n := v.Len()
	m := len(entries)
	res := &resolution{}
	if m == 0 {
		return res, nil
	}
	limit := n
	if m > n {
		limit = m
	}
	for i := 0; i < limit; i++ {
		var e idxEntry
		if i < n {
			e = entries[i%m] // mask shorter than the vector recycles
		} else {
			e = entries[i] // mask longer than the vector: its own tail
		}
		if e.na {
			if forWrite {
				return nil, ErrNASubscript
			}
			res.pos = append(res.pos, -1)
			continue
		}
		if !e.b {
			continue
		}
		if i+1 > res.maxPos {
			res.maxPos = i + 1
		}
		if i < n || forWrite {
			res.pos = append(res.pos, i)
		} else {
			res.pos = append(res.pos, -1)
		}
	}
	return res, nil
}

func (v *Vector) resolveNames(entries []idxEntry, forWrite bool) (*resolution, error) {
	res := &resolution{}
	var index map[string][]int
	if v.names != nil {
		index = v.nameIndex()
	}
	// Names appended earlier in the same spec are visible to later
	// entries, so assigning twice to one new name hits one slot.
	pending := make(map[string]int)
	next := v.Len()
	for _, e := range entries {
		if e.na {
			if forWrite {
				return nil, ErrNASubscript
			}
			res.pos = append(res.pos, -1)
			continue
		}
		if e.s == "" {
			// "" never names an element; it cannot address a slot.
			if forWrite {
				return nil, fmt.Errorf("empty string is not a valid subscript for assignment")
			}
			res.pos = append(res.pos, -1)
			continue
		}
		if hits, ok := index[e.s]; ok && len(hits) > 0 {
			p := hits[0] // duplicate names resolve to the first match
			res.pos = append(res.pos, p)
			if p+1 > res.maxPos {
				res.maxPos = p + 1
			}
			continue
		}
		if !forWrite {
			res.pos = append(res.pos, -1)
			continue
		}
		if p, ok := pending[e.s]; ok {
			res.pos = append(res.pos, p)
			continue
		}
		if res.newNames == nil {
			res.newNames = make(map[int]string)
		}
		pending[e.s] = next
		res.newNames[next] = e.s
		res.pos = append(res.pos, next)
		if next+1 > res.maxPos {
			res.maxPos = next + 1
		}
		next++
	}
	return res, nil
}

// Extract resolves spec against v and returns the selected elements as a
// new, independent vector. Spec order and duplicates are preserved; a
// missing slot yields the kind's NA under an empty name. Names carry over
// whenever the source is named.
func Extract(v *Vector, spec any) (*Vector, error) {
	res, err := v.resolveIndex(spec, false)
	if err != nil {
		return nil, err
	}
	out := &Vector{kind: v.kind, elems: make([]Elem, 0, len(res.pos))}
	for _, p := range res.pos {
		if p < 0 {
			out.elems = append(out.elems, NA(v.kind))
		} else {
			out.elems = append(out.elems, v.elems[p])
		}
	}
	if v.names != nil {
		out.names = make([]string, 0, len(res.pos))
		for _, p := range res.pos {
			if p < 0 {
				out.names = append(out.names, "")
			} else {
				out.names = append(out.names, v.names[p])
			}
		}
	}
	return out, nil
}
