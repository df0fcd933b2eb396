package crdtmap

// Stats returns the Map's per-type statistics, per spec.md §6:
// actor_count, field_count, max_dot_length. A Map with no entries
// returns an empty map (spec.md §9), with no keys at all — actor_count
// is left out even when the clock is non-empty.
func (m *Map) Stats() map[string]int {
	if len(m.entries) == 0 {
		return map[string]int{}
	}
	byField := make(map[Field]int)
	for k := range m.entries {
		byField[k.field]++
	}
	maxDots := 0
	for _, n := range byField {
		if n > maxDots {
			maxDots = n
		}
	}
	return map[string]int{
		"actor_count":    len(m.clock),
		"field_count":    len(byField),
		"max_dot_length": maxDots,
	}
}

// Stat returns a single statistic by key, or (0, false) if the key is
// not recognized or the Map has no entries.
func (m *Map) Stat(key string) (int, bool) {
	v, ok := m.Stats()[key]
	return v, ok
}
