package orswot

import (
	"testing"

	"github.com/nimbusdb/crdt/pkg/causal"
)

func values(s *Set[string]) map[string]struct{} {
	return s.Value()
}

func equalValues(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

// TestAddRemove covers the basic add/remove lifecycle.
func TestAddRemove(t *testing.T) {
	s := New[string]()
	s.Add("go", causal.ByActor("a"))
	if !s.Contains("go") {
		t.Fatalf("expected 'go' present after Add")
	}
	if err := s.Remove("go"); err != nil {
		t.Fatalf("unexpected error removing present element: %v", err)
	}
	if s.Contains("go") {
		t.Fatalf("expected 'go' absent after Remove")
	}
}

func TestRemoveAbsentFails(t *testing.T) {
	s := New[string]()
	if err := s.Remove("nope"); err == nil {
		t.Fatalf("expected error removing an absent element")
	}
}

func TestRemoveAllIsAllOrNothing(t *testing.T) {
	s := New[string]()
	s.Add("a", causal.ByActor("actor"))
	err := s.RemoveAll([]string{"a", "missing"})
	if err == nil {
		t.Fatalf("expected RemoveAll to fail when any element is absent")
	}
	if !s.Contains("a") {
		t.Fatalf("expected 'a' to survive a failed RemoveAll batch")
	}
}

// --- Universal CRDT laws ---------------------------------------------

func TestMergeCommutative(t *testing.T) {
	a := New[string]()
	a.Add("x", causal.ByActor("a"))
	b := New[string]()
	b.Add("y", causal.ByActor("b"))

	left := a.Merge(b)
	right := b.Merge(a)
	if !equalValues(values(left), values(right)) {
		t.Fatalf("merge not commutative: %v vs %v", values(left), values(right))
	}
}

func TestMergeAssociative(t *testing.T) {
	a := New[string]()
	a.Add("1", causal.ByActor("a"))
	b := New[string]()
	b.Add("2", causal.ByActor("b"))
	c := New[string]()
	c.Add("3", causal.ByActor("c"))

	left := a.Merge(b).Merge(c)
	right := a.Merge(b.Merge(c))
	if !equalValues(values(left), values(right)) {
		t.Fatalf("merge not associative: %v vs %v", values(left), values(right))
	}
}

func TestMergeIdempotent(t *testing.T) {
	a := New[string]()
	a.Add("z", causal.ByActor("a"))
	merged := a.Merge(a)
	if !equalValues(values(a), values(merged)) {
		t.Fatalf("merge not idempotent: %v vs %v", values(a), values(merged))
	}
}

func TestMergeAbsorbsEmpty(t *testing.T) {
	a := New[string]()
	a.Add("z", causal.ByActor("a"))
	merged := a.Merge(New[string]())
	if !equalValues(values(a), values(merged)) {
		t.Fatalf("merge(a, new()) != a: %v vs %v", values(a), values(merged))
	}
}

// --- Spec scenarios ----------------------------------------------------

// TestScenario1PresentButRemoved mirrors the "present-but-removed"
// scenario: an element must not resurrect when a stale copy is merged
// in alongside both replicas' removals.
func TestScenario1PresentButRemoved(t *testing.T) {
	a1 := New[string]()
	a1.Add("Z", causal.ByActor("a"))
	c := a1.PreconditionContext() // copy of A1

	a2 := a1.PreconditionContext()
	if err := a2.Remove("Z"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b1 := New[string]()
	b1.Add("Z", causal.ByActor("b"))

	a3 := b1.Merge(a2)

	b2 := b1.PreconditionContext()
	if err := b2.Remove("Z"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	merged := a3.Merge(c).Merge(b2)
	if _, present := values(merged)["Z"]; present {
		t.Fatalf("expected 'Z' absent in converged state, got %v", values(merged))
	}
}

// TestScenario2NoDotsLeft is scenario 1 with a different merge order,
// which a correct CvRDT must still converge to the same value.
func TestScenario2NoDotsLeft(t *testing.T) {
	a1 := New[string]()
	a1.Add("Z", causal.ByActor("a"))
	c := a1.Merge(New[string]())

	a2 := a1.PreconditionContext()
	if err := a2.Remove("Z"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b1 := New[string]()
	b1.Add("Z", causal.ByActor("b"))

	a3 := b1.Merge(a2)

	b2 := b1.PreconditionContext()
	if err := b2.Remove("Z"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b3 := b2.Merge(c)
	merged := a3.Merge(b3).Merge(c)
	if _, present := values(merged)["Z"]; present {
		t.Fatalf("expected 'Z' absent in converged state, got %v", values(merged))
	}
}

// TestScenario3DisjointMergeThenRemove checks that removing an element
// on one replica does not disturb an unrelated element introduced on
// another.
func TestScenario3DisjointMergeThenRemove(t *testing.T) {
	a1 := New[string]()
	a1.Add("bar", causal.ByActor("1"))

	b1 := New[string]()
	b1.Add("baz", causal.ByActor("2"))

	c := a1.Merge(b1)

	a2 := a1.PreconditionContext()
	if err := a2.Remove("bar"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d := a2.Merge(c)
	want := map[string]struct{}{"baz": {}}
	if !equalValues(values(d), want) {
		t.Fatalf("expected %v, got %v", want, values(d))
	}
}

// TestClockDominatesEntries is the "clock dominance" universal law: any
// dot recorded in an entry must be dominated by the replica's own
// clock.
func TestClockDominatesEntries(t *testing.T) {
	s := New[string]()
	s.Add("a", causal.ByActor("actor"))
	s.Add("b", causal.ByActor("actor"))
	if err := s.Remove("a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, ds := range s.RawEntries() {
		if !causal.Descends(s.Clock(), ds) {
			t.Fatalf("clock %v does not dominate entry dots %v", s.Clock(), ds)
		}
	}
}
