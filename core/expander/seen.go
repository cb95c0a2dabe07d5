package expander

// seenSet tracks canonical paths already inlined in a run. Paths are never
// removed.
type seenSet struct {
	paths map[string]struct{}
	order []string
}

func newSeenSet() *seenSet {
	return &seenSet{paths: make(map[string]struct{})}
}

// Add records path and reports whether it was new.
func (s *seenSet) Add(path string) bool {
	if _, ok := s.paths[path]; ok {
		return false
	}
	s.paths[path] = struct{}{}
	s.order = append(s.order, path)
	return true
}

func (s *seenSet) Has(path string) bool {
	_, ok := s.paths[path]
	return ok
}

func (s *seenSet) Paths() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
