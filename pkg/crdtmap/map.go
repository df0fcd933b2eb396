// Package crdtmap implements the nested Map CRDT: a schema that is
// itself an Observed-Remove set of (field-name, type-tag) keys, whose
// values are nested CRDTs sharing the map's causal context. This is
// the hardest of the three components (spec.md §2) because a field
// may carry several concurrent dot-tagged versions at once, each
// independently subject to the drop-if-dominated merge rule.
package crdtmap

import (
	"sort"

	"github.com/nimbusdb/crdt/pkg/causal"

	"github.com/nimbusdb/crdt/internal/telemetry"

	iradix "github.com/hashicorp/go-immutable-radix"
)

// Entry is one (field, value, dot) triple, per spec.md §3.
type Entry struct {
	Field Field
	Value Value
	Dot   causal.Dot
}

// entryKey identifies an entry uniquely. Spec.md §3's invariant is
// "two entries may share a field but never a dot" *for that field* —
// a single batch update can legitimately stamp the same dot onto
// entries for several different fields at once (they share the
// batch's one dot), so the dot alone is not a unique key; (field, dot)
// together is.
type entryKey struct {
	field Field
	dot   causal.Dot
}

// Map is the nested CRDT map. The zero value is not usable; construct
// with New.
type Map struct {
	clock   causal.VV
	entries map[entryKey]Entry
	index   *iradix.Tree // fieldKey(Field) -> []causal.Dot, copy-on-write
	sink    *telemetry.Sink
}

// New returns an empty Map with no telemetry sink wired in.
func New() *Map {
	return &Map{
		clock:   causal.Fresh(),
		entries: make(map[entryKey]Entry),
		index:   iradix.New(),
	}
}

// NewWithSink returns an empty Map that reports update/merge/
// precondition counters through sink. A nil sink behaves exactly like
// New.
func NewWithSink(sink *telemetry.Sink) *Map {
	m := New()
	m.sink = sink
	return m
}

// Clock exposes the map's version vector.
func (m *Map) Clock() causal.VV {
	return m.clock
}

// PreconditionContext returns the whole state, the same narrowing
// choice ORSWOT and ODFlag make.
func (m *Map) PreconditionContext() *Map {
	return m.clone()
}

func (m *Map) clone() *Map {
	entries := make(map[entryKey]Entry, len(m.entries))
	for k, e := range m.entries {
		entries[k] = Entry{Field: e.Field, Value: e.Value.cloneValue(), Dot: e.Dot}
	}
	return &Map{
		clock:   m.clock.Clone(),
		entries: entries,
		index:   m.index, // immutable snapshot; safe to share until the next mutation rebuilds it
		sink:    m.sink,
	}
}

// FieldValue is the value() of a single field in the result of
// Value(): the field and the merged CRDT-level value of all of its
// surviving entries.
type FieldValue struct {
	Field Field
	Value Value
}

// Value groups surviving entries by field and folds the inner CRDT
// merge over every field's entries, returning one FieldValue per
// distinct field present, in a deterministic (name, type) order.
func (m *Map) Value() []FieldValue {
	byField := make(map[Field]Value)
	for _, e := range m.entries {
		if cur, ok := byField[e.Field]; ok {
			byField[e.Field] = cur.mergeValue(e.Value)
		} else {
			byField[e.Field] = e.Value
		}
	}
	fields := make([]Field, 0, len(byField))
	for f := range byField {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool {
		if fields[i].Name != fields[j].Name {
			return fields[i].Name < fields[j].Name
		}
		return fields[i].Type < fields[j].Type
	})
	out := make([]FieldValue, 0, len(fields))
	for _, f := range fields {
		out = append(out, FieldValue{Field: f, Value: byField[f]})
	}
	return out
}

// RawEntries returns a copy of every (field, value, dot) entry, for
// use by the binary codec (pkg/crdt) — not part of the CRDT's
// behavioural contract.
func (m *Map) RawEntries() []Entry {
	out := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, Entry{Field: e.Field, Value: e.Value.cloneValue(), Dot: e.Dot})
	}
	return out
}

// FromRaw rebuilds a Map from a clock and entries produced by a prior
// Clock/RawEntries pair, reconstructing the field index alongside.
func FromRaw(clock causal.VV, entries []Entry) *Map {
	m := &Map{
		clock:   clock.Clone(),
		entries: make(map[entryKey]Entry, len(entries)),
		index:   newIndex(),
	}
	for _, e := range entries {
		m.put(Entry{Field: e.Field, Value: e.Value.cloneValue(), Dot: e.Dot})
	}
	return m
}

// Equal reports whether m and other have equal clocks, equal sorted
// entry lists pairwise on (field, dot), and pairwise-equal inner
// CRDT values.
func (m *Map) Equal(other *Map) bool {
	if !causal.Equal(m.clock, other.clock) {
		return false
	}
	if len(m.entries) != len(other.entries) {
		return false
	}
	for k, e := range m.entries {
		oe, ok := other.entries[k]
		if !ok || !e.Value.equalValue(oe.Value) {
			return false
		}
	}
	return true
}
