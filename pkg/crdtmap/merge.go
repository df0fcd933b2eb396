package crdtmap

import "github.com/nimbusdb/crdt/pkg/causal"

// Merge combines other into m following spec.md §4.4's three-step
// algorithm: clocks union, then every entry surviving on either side
// is kept if the peer has the exact same (field, dot) entry, or if
// the peer's clock does not yet dominate that entry's dot (meaning
// the peer hasn't seen, and so hasn't had a chance to remove, this
// version); an entry whose dot the peer's clock dominates — without
// the peer still holding that exact entry — has been observed and
// removed on the peer's side, so it is dropped here too.
func (m *Map) Merge(other *Map) *Map {
	merged := &Map{
		clock:   causal.Merge(m.clock, other.clock),
		entries: make(map[entryKey]Entry, len(m.entries)+len(other.entries)),
		index:   newIndex(),
		sink:    m.sink,
	}

	matchedRight := make(map[entryKey]struct{}, len(other.entries))

	for k, e := range m.entries {
		if oe, ok := other.entries[k]; ok {
			merged.put(oe)
			matchedRight[k] = struct{}{}
			continue
		}
		if other.clock.Dominates(e.Dot) {
			continue // right has seen and removed this version
		}
		merged.put(e)
	}

	for k, e := range other.entries {
		if _, done := matchedRight[k]; done {
			continue
		}
		if m.clock.Dominates(e.Dot) {
			continue
		}
		merged.put(e)
	}

	m.sink.IncrMerge("map")
	return merged
}

func (m *Map) put(e Entry) {
	k := entryKey{field: e.Field, dot: e.Dot}
	m.entries[k] = e
	m.index = indexInsert(m.index, e.Field, e.Dot)
}
