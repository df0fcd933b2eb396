package orswot

import "github.com/nimbusdb/crdt/pkg/causal"

// Merge combines other into s following spec.md §4.2's five-step
// algorithm: clocks union, then for elements common to both sides the
// agreed-upon dots are kept unconditionally and each side's remaining
// dots survive only if the other side hasn't seen them yet; for
// elements known to only one side, the whole element survives unless
// the other side's clock already dominates every one of its dots.
// Commutative, associative, idempotent.
func (s *Set[E]) Merge(other *Set[E]) *Set[E] {
	merged := &Set[E]{
		clock:   causal.Merge(s.clock, other.clock),
		entries: make(map[E]causal.DotSet),
		sink:    s.sink,
	}

	for e, ldots := range s.entries {
		rdots, inBoth := other.entries[e]
		if !inBoth {
			// L_only: keep iff the right hasn't seen every dot.
			if causal.Descends(other.clock, ldots) {
				continue
			}
			merged.entries[e] = causal.SubtractDots(ldots, other.clock)
			continue
		}
		common := causal.Intersect(ldots, rdots)
		lKeep := causal.SubtractDots(causal.Difference(ldots, common), other.clock)
		rKeep := causal.SubtractDots(causal.Difference(rdots, common), s.clock)
		union := causal.Union(common, causal.Union(lKeep, rKeep))
		if !union.Empty() {
			merged.entries[e] = union
		}
	}

	for e, rdots := range other.entries {
		if _, inBoth := s.entries[e]; inBoth {
			continue // already handled above
		}
		// R_only: keep iff the left hasn't seen every dot.
		if causal.Descends(s.clock, rdots) {
			continue
		}
		merged.entries[e] = causal.SubtractDots(rdots, s.clock)
	}

	s.sink.IncrMerge("orswot")
	return merged
}
