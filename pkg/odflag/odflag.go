// Package odflag implements the Observed-Disable Flag (ODF): a
// boolean that can be enabled and disabled repeatedly, with
// enable-wins semantics when enable and disable race concurrently.
// Structurally it is a degenerate ORSWOT with a single implicit
// element whose dot set is the flag's enable history (spec.md §4.3).
package odflag

import (
	"github.com/nimbusdb/crdt/pkg/causal"

	"github.com/nimbusdb/crdt/internal/telemetry"
)

// Flag is an observed-disable flag. The zero value is not usable;
// construct with New or NewWithSink.
type Flag struct {
	clock   causal.VV
	enabled causal.DotSet
	sink    *telemetry.Sink
}

// New returns a fresh, disabled flag with no telemetry sink wired in.
func New() *Flag {
	return &Flag{
		clock:   causal.Fresh(),
		enabled: causal.NewDotSet(),
	}
}

// NewWithSink returns a fresh, disabled flag that reports update
// counters through sink. A nil sink behaves exactly like New.
func NewWithSink(sink *telemetry.Sink) *Flag {
	f := New()
	f.sink = sink
	return f
}

// Clock exposes the flag's version vector.
func (f *Flag) Clock() causal.VV {
	return f.clock
}

// Value reports whether the flag is enabled: true iff its enabled-dot
// set is non-empty.
func (f *Flag) Value() bool {
	return !f.enabled.Empty()
}

// Stat returns "actor_count" or "dot_length", spec.md §6's per-type
// keys for ODF; any other key is not recognized.
func (f *Flag) Stat(key string) (int, bool) {
	switch key {
	case "actor_count":
		return len(f.clock), true
	case "dot_length":
		return len(f.enabled), true
	default:
		return 0, false
	}
}

// Stats returns both of ODF's statistics.
func (f *Flag) Stats() map[string]int {
	return map[string]int{
		"actor_count": len(f.clock),
		"dot_length":  len(f.enabled),
	}
}

// PreconditionContext returns the whole state, the same narrowing
// choice ORSWOT makes.
func (f *Flag) PreconditionContext() *Flag {
	return f.clone()
}

// RawEnabled returns a copy of the flag's enabled-dot set, for use by
// the binary codec (pkg/crdt) — not part of the CRDT's behavioural
// contract.
func (f *Flag) RawEnabled() causal.DotSet {
	return f.enabled.Clone()
}

// FromRaw rebuilds a Flag from a clock and enabled-dot set produced by
// a prior Clock/RawEnabled pair.
func FromRaw(clock causal.VV, enabled causal.DotSet) *Flag {
	return &Flag{clock: clock.Clone(), enabled: enabled.Clone()}
}

func (f *Flag) clone() *Flag {
	return &Flag{clock: f.clock.Clone(), enabled: f.enabled.Clone(), sink: f.sink}
}

// Enable allocates a fresh dot from src, adds it to the enabled-dot
// set, and bumps the clock. Never fails.
func (f *Flag) Enable(src causal.Source) {
	clock, d := causal.Resolve(f.clock, src)
	f.clock = clock
	f.enabled = f.enabled.Add(d)
	f.sink.IncrUpdate("odflag")
}

// Disable clears the enabled-dot set. It deliberately does not bump
// the clock or allocate a dot: disable is purely local evidence that
// this actor has seen the current enable dots, and convergence comes
// from the peer's clock subsuming those dots on the next merge — see
// spec.md §4.3.
func (f *Flag) Disable() {
	f.enabled = causal.NewDotSet()
	f.sink.IncrUpdate("odflag")
}

// Equal reports whether f and other have equal clocks and equal
// enabled-dot sets.
func (f *Flag) Equal(other *Flag) bool {
	return causal.Equal(f.clock, other.clock) && f.enabled.EqualTo(other.enabled)
}

// Merge combines other into f using the same drop-if-dominated rule
// ORSWOT applies to a single element's dot set: dots both sides agree
// on are kept unconditionally, and each side's remaining dots survive
// only if the other side has not seen them. A result of the empty set
// means the flag is disabled in the merged value — enable-wins under
// concurrency falls directly out of this rule (see spec.md §4.3).
func (f *Flag) Merge(other *Flag) *Flag {
	clock := causal.Merge(f.clock, other.clock)
	common := causal.Intersect(f.enabled, other.enabled)
	lKeep := causal.SubtractDots(causal.Difference(f.enabled, common), other.clock)
	rKeep := causal.SubtractDots(causal.Difference(other.enabled, common), f.clock)
	enabled := causal.Union(common, causal.Union(lKeep, rKeep))
	f.sink.IncrMerge("odflag")
	return &Flag{clock: clock, enabled: enabled, sink: f.sink}
}
