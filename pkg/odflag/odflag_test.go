package odflag

import (
	"testing"

	"github.com/nimbusdb/crdt/pkg/causal"
)

func TestEnableDisable(t *testing.T) {
	f := New()
	if f.Value() {
		t.Fatalf("expected fresh flag disabled")
	}
	f.Enable(causal.ByActor("a"))
	if !f.Value() {
		t.Fatalf("expected flag enabled after Enable")
	}
	f.Disable()
	if f.Value() {
		t.Fatalf("expected flag disabled after Disable")
	}
}

func TestDisableDoesNotBumpClock(t *testing.T) {
	f := New()
	f.Enable(causal.ByActor("a"))
	before := f.Clock().Clone()
	f.Disable()
	if !causal.Equal(before, f.Clock()) {
		t.Fatalf("expected Disable to leave the clock unchanged, got %v -> %v", before, f.Clock())
	}
}

func TestMergeCommutative(t *testing.T) {
	a := New()
	a.Enable(causal.ByActor("a"))
	b := New()
	b.Enable(causal.ByActor("b"))

	if a.Merge(b).Value() != b.Merge(a).Value() {
		t.Fatalf("merge not commutative on value")
	}
}

func TestMergeIdempotent(t *testing.T) {
	a := New()
	a.Enable(causal.ByActor("a"))
	if !a.Equal(a.Merge(a)) {
		t.Fatalf("merge not idempotent")
	}
}

// TestScenario4FlagDisableConvergence mirrors spec's scenario 4: two
// replicas each enable the flag and then disable it, and the disables
// must converge to false even though each replica only saw its own
// disable directly.
func TestScenario4FlagDisableConvergence(t *testing.T) {
	a := New()
	a.Enable(causal.ByActor("a"))

	b := New()
	b.Enable(causal.ByActor("b"))

	c := a.PreconditionContext()

	a2 := a.PreconditionContext()
	a2.Disable()

	a3 := a2.Merge(b)

	b2 := b.PreconditionContext()
	b2.Disable()

	merged := c.Merge(a3).Merge(b2)
	if merged.Value() {
		t.Fatalf("expected flag disabled after both replicas disabled, got enabled")
	}
}
