package crdtmap

import (
	"fmt"

	"github.com/nimbusdb/crdt/pkg/causal"
	"github.com/nimbusdb/crdt/pkg/crdterr"
)

// SubOpKind distinguishes the three sub-ops spec.md §4.4 defines.
type SubOpKind int

const (
	SubAdd SubOpKind = iota
	SubRemove
	SubUpdate
)

// SubOp is one sub-operation within an Update batch. Inner is only
// meaningful for SubUpdate.
type SubOp struct {
	Kind  SubOpKind
	Field Field
	Inner InnerOp
}

// Add builds a sub-op that inserts (field, a fresh empty value, d).
// This unconditionally replaces any prior content — spec.md §9 flags
// this as surprising, and this implementation preserves it rather
// than silently becoming "add-if-absent".
func Add(field Field) SubOp { return SubOp{Kind: SubAdd, Field: field} }

// Remove builds a sub-op that drops every entry matching field.
func Remove(field Field) SubOp { return SubOp{Kind: SubRemove, Field: field} }

// Update builds a sub-op that merges every existing entry for field
// into one working value, applies inner to it under the batch's
// shared dot, and replaces all prior entries for field with a single
// new one.
func Update(field Field, inner InnerOp) SubOp {
	return SubOp{Kind: SubUpdate, Field: field, Inner: inner}
}

// Update atomically applies ops against m: it computes one new dot
// (allocated from src, or adopted verbatim if src is a pre-stamped
// dot — causal.Source) and shares it across every sub-op in the
// batch, per spec.md §4.4. On the first error the whole batch is
// abandoned and m is left exactly as it was. The same method backs
// MapUpdate's recursion into a nested Map (value.go), where src is
// the enclosing batch's already-resolved pre-stamped dot rather than
// a fresh actor.
func (m *Map) Update(ops []SubOp, src causal.Source) error {
	return m.apply(ops, src)
}

func (m *Map) apply(ops []SubOp, src causal.Source) error {
	working, err := m.applyBatch(ops, src)
	if err != nil {
		m.sink.IncrPreconditionFailed("map")
		return err
	}
	*m = *working
	m.sink.IncrUpdate("map")
	return nil
}

func (m *Map) applyBatch(ops []SubOp, src causal.Source) (*Map, error) {
	working := m.clone()
	clock, d := causal.Resolve(working.clock, src)
	working.clock = clock

	for _, op := range ops {
		switch op.Kind {
		case SubAdd:
			working.applyAdd(op.Field, d)
		case SubRemove:
			if err := working.applyRemove(op.Field); err != nil {
				return nil, err
			}
		case SubUpdate:
			if err := working.applyUpdate(op.Field, op.Inner, d); err != nil {
				return nil, err
			}
		}
	}
	return working, nil
}

func (m *Map) applyAdd(field Field, d causal.Dot) {
	for _, dd := range indexDots(m.index, field) {
		delete(m.entries, entryKey{field: field, dot: dd})
		m.index = indexRemoveDot(m.index, field, dd)
	}
	m.entries[entryKey{field: field, dot: d}] = Entry{Field: field, Value: newEmptyValue(field.Type), Dot: d}
	m.index = indexInsert(m.index, field, d)
}

func (m *Map) applyRemove(field Field) error {
	dots := indexDots(m.index, field)
	if len(dots) == 0 {
		return fmt.Errorf("remove field %q: %w", field.Name, crdterr.ErrNotPresent)
	}
	for _, d := range dots {
		delete(m.entries, entryKey{field: field, dot: d})
		m.index = indexRemoveDot(m.index, field, d)
	}
	return nil
}

func (m *Map) applyUpdate(field Field, inner InnerOp, d causal.Dot) error {
	dots := indexDots(m.index, field)
	var merged Value
	if len(dots) == 0 {
		merged = newEmptyValue(field.Type)
	} else {
		for _, dd := range dots {
			e := m.entries[entryKey{field: field, dot: dd}]
			if merged == nil {
				merged = e.Value
			} else {
				merged = merged.mergeValue(e.Value)
			}
		}
	}

	updated, err := inner.run(merged, causal.ByDot(d))
	if err != nil {
		return err
	}

	for _, dd := range dots {
		delete(m.entries, entryKey{field: field, dot: dd})
		m.index = indexRemoveDot(m.index, field, dd)
	}
	m.entries[entryKey{field: field, dot: d}] = Entry{Field: field, Value: updated, Dot: d}
	m.index = indexInsert(m.index, field, d)
	return nil
}
