package orswot

// Stats returns the ORSWOT's per-type statistics as (key, value)
// pairs, per spec.md §6: actor_count, element_count, max_dot_length.
func (s *Set[E]) Stats() map[string]int {
	maxDots := 0
	for _, ds := range s.entries {
		if len(ds) > maxDots {
			maxDots = len(ds)
		}
	}
	return map[string]int{
		"actor_count":    len(s.clock),
		"element_count":  len(s.entries),
		"max_dot_length": maxDots,
	}
}

// Stat returns a single statistic by key, or (0, false) if key is not
// recognized by this type.
func (s *Set[E]) Stat(key string) (int, bool) {
	v, ok := s.Stats()[key]
	return v, ok
}
