package causal

// VV is a version vector: a mapping from actor to its maximum
// observed counter. Semantically a set of dots closed downward per
// actor. Every operation below returns a new VV rather than mutating
// its receiver in place — callers that want an updated vector use the
// return value, matching the "logically immutable" resource model
// of the CRDTs built on top of this package.
type VV map[Actor]uint64

// Fresh returns an empty version vector.
func Fresh() VV {
	return VV{}
}

// Clone returns a shallow copy (value types only, so this is also a
// deep copy).
func (v VV) Clone() VV {
	out := make(VV, len(v))
	for a, c := range v {
		out[a] = c
	}
	return out
}

// GetCounter returns actor's counter, or 0 if the actor is absent.
func (v VV) GetCounter(actor Actor) uint64 {
	return v[actor]
}

// Increment returns a new VV equal to v but with actor's counter
// advanced by one (from 0 if actor was absent), along with the fresh
// dot that advance represents.
func Increment(actor Actor, v VV) (VV, Dot) {
	next := v.Clone()
	c := next[actor] + 1
	next[actor] = c
	return next, Dot{Actor: actor, Counter: c}
}

// Merge returns the pointwise maximum of v1 and v2 over the union of
// their actor sets. Commutative, associative, idempotent.
func Merge(v1, v2 VV) VV {
	out := make(VV, len(v1)+len(v2))
	for a, c := range v1 {
		out[a] = c
	}
	for a, c := range v2 {
		if c > out[a] {
			out[a] = c
		}
	}
	return out
}

// Dominates reports whether v dominates the single dot d, i.e.
// v[d.Actor] >= d.Counter.
func (v VV) Dominates(d Dot) bool {
	return v.GetCounter(d.Actor) >= d.Counter
}

// Descends reports whether v descends (happens-after-or-equal) every
// dot in ds: every dot in ds is dominated by v.
func Descends(v VV, ds DotSet) bool {
	for d := range ds {
		if !v.Dominates(d) {
			return false
		}
	}
	return true
}

// DescendsVV reports whether v1 descends v2 as a version vector: for
// every actor known to v2, v1's counter is at least as large.
func DescendsVV(v1, v2 VV) bool {
	for a, c := range v2 {
		if v1.GetCounter(a) < c {
			return false
		}
	}
	return true
}

// Equal reports whether v1 and v2 have the same actor set with equal
// counters for every actor.
func Equal(v1, v2 VV) bool {
	if len(v1) != len(v2) {
		return false
	}
	for a, c := range v1 {
		if v2[a] != c {
			return false
		}
	}
	return true
}
