package causal

// DotSet is a minimal clock: a set of dots not closed downward, used
// to tag the causal history of a single element's adds (ORSWOT) or a
// single flag's enables (ODFlag). Unlike a VV, a DotSet may skip
// counters — it only records the specific dots that birthed the
// current presence of the thing it is attached to.
type DotSet map[Dot]struct{}

// NewDotSet builds a DotSet from zero or more dots.
func NewDotSet(dots ...Dot) DotSet {
	out := make(DotSet, len(dots))
	for _, d := range dots {
		out[d] = struct{}{}
	}
	return out
}

// Clone returns a copy of ds.
func (ds DotSet) Clone() DotSet {
	out := make(DotSet, len(ds))
	for d := range ds {
		out[d] = struct{}{}
	}
	return out
}

// Add returns a new DotSet with d added.
func (ds DotSet) Add(d Dot) DotSet {
	out := ds.Clone()
	out[d] = struct{}{}
	return out
}

// Union returns a new DotSet containing every dot in either set.
func Union(a, b DotSet) DotSet {
	out := make(DotSet, len(a)+len(b))
	for d := range a {
		out[d] = struct{}{}
	}
	for d := range b {
		out[d] = struct{}{}
	}
	return out
}

// Intersect returns the dots present in both a and b.
func Intersect(a, b DotSet) DotSet {
	small, big := a, b
	if len(big) < len(small) {
		small, big = big, small
	}
	out := make(DotSet, len(small))
	for d := range small {
		if _, ok := big[d]; ok {
			out[d] = struct{}{}
		}
	}
	return out
}

// Difference returns the dots in a that are not in b.
func Difference(a, b DotSet) DotSet {
	out := make(DotSet, len(a))
	for d := range a {
		if _, ok := b[d]; !ok {
			out[d] = struct{}{}
		}
	}
	return out
}

// SubtractDots returns exactly those dots in ds that are not
// dominated by v — spec.md §4.1's subtract_dots.
func SubtractDots(ds DotSet, v VV) DotSet {
	out := make(DotSet, len(ds))
	for d := range ds {
		if !v.Dominates(d) {
			out[d] = struct{}{}
		}
	}
	return out
}

// Empty reports whether ds has no dots.
func (ds DotSet) Empty() bool {
	return len(ds) == 0
}

// EqualTo reports whether a and b contain exactly the same dots.
func (a DotSet) EqualTo(b DotSet) bool {
	if len(a) != len(b) {
		return false
	}
	for d := range a {
		if _, ok := b[d]; !ok {
			return false
		}
	}
	return true
}
