// Package orswot implements an Observed-Remove Set Without Tombstones
// (ORSWOT): an add-wins set where a concurrent add and remove of the
// same element resolves in favour of the add, with no deletion
// markers left behind in the converged state.
package orswot

import (
	"fmt"

	"github.com/nimbusdb/crdt/pkg/causal"
	"github.com/nimbusdb/crdt/pkg/crdterr"

	"github.com/nimbusdb/crdt/internal/telemetry"
)

// Set is an ORSWOT over element type E. The zero value is not usable;
// construct with New or NewWithSink.
type Set[E comparable] struct {
	clock   causal.VV
	entries map[E]causal.DotSet
	sink    *telemetry.Sink
}

// New returns an empty ORSWOT with no telemetry sink wired in.
func New[E comparable]() *Set[E] {
	return &Set[E]{
		clock:   causal.Fresh(),
		entries: make(map[E]causal.DotSet),
	}
}

// NewWithSink returns an empty ORSWOT that reports update/precondition
// counters through sink. A nil sink behaves exactly like New.
func NewWithSink[E comparable](sink *telemetry.Sink) *Set[E] {
	s := New[E]()
	s.sink = sink
	return s
}

// Clock exposes the set's version vector, read-only by convention.
func (s *Set[E]) Clock() causal.VV {
	return s.clock
}

// Value returns the set of elements with at least one surviving dot.
func (s *Set[E]) Value() map[E]struct{} {
	out := make(map[E]struct{}, len(s.entries))
	for e := range s.entries {
		out[e] = struct{}{}
	}
	return out
}

// Size returns the number of distinct elements currently present.
func (s *Set[E]) Size() int {
	return len(s.entries)
}

// Contains reports whether e has at least one surviving dot.
func (s *Set[E]) Contains(e E) bool {
	_, ok := s.entries[e]
	return ok
}

// PreconditionContext returns an opaque fragment — here, the whole
// state — sufficient for a remote client to construct a valid remove.
// Spec.md §4.2 allows implementations to narrow this; this one does
// not, matching the teacher's "return everything, let the caller
// project" style.
func (s *Set[E]) PreconditionContext() *Set[E] {
	return s.clone()
}

// RawEntries returns a copy of the set's per-element dot sets, for use
// by the binary codec (pkg/crdt) — not part of the CRDT's behavioural
// contract.
func (s *Set[E]) RawEntries() map[E]causal.DotSet {
	out := make(map[E]causal.DotSet, len(s.entries))
	for e, ds := range s.entries {
		out[e] = ds.Clone()
	}
	return out
}

// FromRaw rebuilds a Set from a clock and per-element dot sets
// produced by a prior RawEntries/Clock pair — the inverse operation
// the binary codec needs for decode.
func FromRaw[E comparable](clock causal.VV, entries map[E]causal.DotSet) *Set[E] {
	out := &Set[E]{clock: clock.Clone(), entries: make(map[E]causal.DotSet, len(entries))}
	for e, ds := range entries {
		out.entries[e] = ds.Clone()
	}
	return out
}

func (s *Set[E]) clone() *Set[E] {
	out := &Set[E]{
		clock:   s.clock.Clone(),
		entries: make(map[E]causal.DotSet, len(s.entries)),
		sink:    s.sink,
	}
	for e, ds := range s.entries {
		out.entries[e] = ds.Clone()
	}
	return out
}

// Add inserts e, allocating a fresh dot from src (an actor or a
// pre-stamped dot — see causal.Source) and bumping the clock. Never
// fails.
func (s *Set[E]) Add(e E, src causal.Source) {
	clock, d := causal.Resolve(s.clock, src)
	s.clock = clock
	s.entries[e] = s.entries[e].Add(d)
	s.sink.IncrUpdate("orswot")
}

// AddAll applies Add for every element in es. Atomicity is not
// required because Add cannot fail.
func (s *Set[E]) AddAll(es []E, src causal.Source) {
	for _, e := range es {
		s.Add(e, src)
	}
}

// Remove deletes e entirely. Fails with crdterr.ErrNotPresent if e is
// not currently in the set; the set is left unchanged on failure.
func (s *Set[E]) Remove(e E) error {
	if _, ok := s.entries[e]; !ok {
		s.sink.IncrPreconditionFailed("orswot")
		return fmt.Errorf("remove %v: %w", e, crdterr.ErrNotPresent)
	}
	delete(s.entries, e)
	s.sink.IncrUpdate("orswot")
	return nil
}

// RemoveAll removes every element in es, all-or-nothing: if any
// element is absent, the whole call fails on the first missing
// element and the set is left exactly as it was.
func (s *Set[E]) RemoveAll(es []E) error {
	for _, e := range es {
		if _, ok := s.entries[e]; !ok {
			s.sink.IncrPreconditionFailed("orswot")
			return fmt.Errorf("remove_all %v: %w", e, crdterr.ErrNotPresent)
		}
	}
	for _, e := range es {
		delete(s.entries, e)
	}
	s.sink.IncrUpdate("orswot")
	return nil
}

// Equal reports whether s and other have equal clocks and equal
// per-element dot sets.
func (s *Set[E]) Equal(other *Set[E]) bool {
	if !causal.Equal(s.clock, other.clock) {
		return false
	}
	if len(s.entries) != len(other.entries) {
		return false
	}
	for e, ds := range s.entries {
		od, ok := other.entries[e]
		if !ok || !ds.EqualTo(od) {
			return false
		}
	}
	return true
}
