package expander

// contextStack holds the directory of each file currently being expanded.
// The top is the directory of the file whose lines are being read.
type contextStack struct {
	dirs []string
}

func newContextStack(root string) *contextStack {
	return &contextStack{dirs: []string{root}}
}

func (s *contextStack) Top() string {
	return s.dirs[len(s.dirs)-1]
}

func (s *contextStack) Depth() int {
	return len(s.dirs)
}

// Push enters dir and returns the matching pop, meant to be deferred.
func (s *contextStack) Push(dir string) func() {
	s.dirs = append(s.dirs, dir)
	return s.pop
}

func (s *contextStack) pop() {
	// the seed directory is never popped
	if len(s.dirs) > 1 {
		s.dirs = s.dirs[:len(s.dirs)-1]
	}
}
