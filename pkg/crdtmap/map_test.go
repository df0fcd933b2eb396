package crdtmap

import (
	"testing"

	"github.com/nimbusdb/crdt/pkg/causal"
	"github.com/nimbusdb/crdt/pkg/orswot"
)

var tagsField = Field{Name: "tags", Type: TypeORSWOT}

func setValue(t *testing.T, m *Map, f Field) map[string]struct{} {
	t.Helper()
	for _, fv := range m.Value() {
		if fv.Field == f {
			og, ok := fv.Value.(orswotGetterForTest)
			if !ok {
				t.Fatalf("field %v is not an orswot value", f)
			}
			return og.ORSWOT().Value()
		}
	}
	return map[string]struct{}{}
}

// orswotGetterForTest mirrors pkg/crdt's accessor-interface pattern so
// tests can read a field's nested ORSWOT without depending on the
// unexported wrapper type.
type orswotGetterForTest interface {
	ORSWOT() *orswot.Set[string]
}

func TestAddThenUpdate(t *testing.T) {
	m := New()
	if err := m.Update([]SubOp{Add(tagsField)}, causal.ByActor("a")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Update([]SubOp{
		Update(tagsField, ORSWOTUpdate([]orswot.Op[string]{orswot.AddOp("0")})),
	}, causal.ByActor("a")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := setValue(t, m, tagsField)
	if _, ok := got["0"]; !ok {
		t.Fatalf("expected field to contain '0', got %v", got)
	}
}

// TestAddReplacesExistingContent covers spec's destructive add: a
// second Add over a field already holding content must wipe that
// content, not merge alongside it.
func TestAddReplacesExistingContent(t *testing.T) {
	m := New()
	mustUpdate(t, m, []SubOp{Add(tagsField)}, causal.ByActor("a"))
	mustUpdate(t, m, []SubOp{
		Update(tagsField, ORSWOTUpdate([]orswot.Op[string]{orswot.AddOp("0")})),
	}, causal.ByActor("a"))

	mustUpdate(t, m, []SubOp{Add(tagsField)}, causal.ByActor("a"))

	got := setValue(t, m, tagsField)
	if len(got) != 0 {
		t.Fatalf("expected re-Add to replace prior content with an empty value, got %v", got)
	}
}

func TestRemoveAbsentFieldFails(t *testing.T) {
	m := New()
	if err := m.Update([]SubOp{Remove(tagsField)}, causal.ByActor("a")); err == nil {
		t.Fatalf("expected error removing an absent field")
	}
}

// TestScenario5FieldRecreatedAfterRemove mirrors spec's scenario 5: a
// field removed and re-created on one replica must end up holding only
// the re-created content once merged with a concurrent, stale replica.
func TestScenario5FieldRecreatedAfterRemove(t *testing.T) {
	a := New()
	mustUpdate(t, a, []SubOp{Add(tagsField)}, causal.ByActor("a"))
	mustUpdate(t, a, []SubOp{
		Update(tagsField, ORSWOTUpdate([]orswot.Op[string]{orswot.AddOp("0")})),
	}, causal.ByActor("a"))

	b := a.PreconditionContext() // B := A

	a2 := a.PreconditionContext()
	mustUpdate(t, a2, []SubOp{
		Update(tagsField, ORSWOTUpdate([]orswot.Op[string]{orswot.RemoveOp("0")})),
	}, causal.ByActor("a"))

	a3 := a2.PreconditionContext()
	mustUpdate(t, a3, []SubOp{Remove(tagsField)}, causal.ByActor("a"))

	a4 := a3.PreconditionContext()
	mustUpdate(t, a4, []SubOp{
		Add(tagsField),
	}, causal.ByActor("a"))
	mustUpdate(t, a4, []SubOp{
		Update(tagsField, ORSWOTUpdate([]orswot.Op[string]{orswot.AddOp("2")})),
	}, causal.ByActor("a"))

	merged := a4.Merge(b)
	got := setValue(t, merged, tagsField)
	if _, ok := got["2"]; !ok || len(got) != 1 {
		t.Fatalf("expected field value {2}, got %v", got)
	}
}

// TestScenario6MapValueMergeAcrossConcurrentUpdates mirrors spec's
// scenario 6: a's remove of "0" must win over the stale "add 0" it
// raced against, while b's concurrent "add 1" survives.
func TestScenario6MapValueMergeAcrossConcurrentUpdates(t *testing.T) {
	a := New()
	mustUpdate(t, a, []SubOp{Add(tagsField)}, causal.ByActor("a"))
	mustUpdate(t, a, []SubOp{
		Update(tagsField, ORSWOTUpdate([]orswot.Op[string]{orswot.AddOp("0")})),
	}, causal.ByActor("a"))

	b := a.PreconditionContext()

	b2 := b.PreconditionContext()
	mustUpdate(t, b2, []SubOp{
		Update(tagsField, ORSWOTUpdate([]orswot.Op[string]{orswot.AddOp("1")})),
	}, causal.ByActor("b"))

	a2 := a.PreconditionContext()
	mustUpdate(t, a2, []SubOp{
		Update(tagsField, ORSWOTUpdate([]orswot.Op[string]{orswot.RemoveOp("0")})),
	}, causal.ByActor("a"))

	merged := a2.Merge(b2)
	got := setValue(t, merged, tagsField)
	if _, ok := got["1"]; !ok || len(got) != 1 {
		t.Fatalf("expected field value {1}, got %v", got)
	}
}

func mustUpdate(t *testing.T, m *Map, ops []SubOp, src causal.Source) {
	t.Helper()
	if err := m.Update(ops, src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStatsEmptyMapIsEmpty(t *testing.T) {
	m := New()
	if len(m.Stats()) != 0 {
		t.Fatalf("expected empty stats on a fresh map, got %v", m.Stats())
	}
}

func TestStatsNonEmpty(t *testing.T) {
	m := New()
	mustUpdate(t, m, []SubOp{Add(tagsField)}, causal.ByActor("a"))
	stats := m.Stats()
	if stats["field_count"] != 1 {
		t.Fatalf("expected field_count 1, got %d", stats["field_count"])
	}
	if stats["max_dot_length"] < 1 {
		t.Fatalf("expected max_dot_length >= 1 on a non-empty map, got %d", stats["max_dot_length"])
	}
}

func TestMergeCommutative(t *testing.T) {
	a := New()
	mustUpdate(t, a, []SubOp{Add(tagsField)}, causal.ByActor("a"))
	b := New()
	mustUpdate(t, b, []SubOp{Add(Field{Name: "other", Type: TypeODFlag})}, causal.ByActor("b"))

	left := a.Merge(b)
	right := b.Merge(a)
	if !left.Equal(right) {
		t.Fatalf("merge not commutative")
	}
}
