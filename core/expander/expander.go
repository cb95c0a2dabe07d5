// Package expander flattens a source file by recursively inlining its local
// quoted includes.
//
// Every local file contributes its content once, at the position of the
// first directive that reaches it; later directives for the same file are
// dropped. System headers and files living directly under the excluded
// namespace directory keep their literal directive line.
package expander

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tristendillon/flatten/core/directive"
	"github.com/tristendillon/flatten/core/graph"
	"github.com/tristendillon/flatten/core/logger"
	"github.com/tristendillon/flatten/core/resolver"
)

// StdinName labels standard input in the include graph.
const StdinName = "<stdin>"

// DefaultExcludedNamespace is the directory name whose headers are assumed
// to be available to the consumer already.
const DefaultExcludedNamespace = "atcoder"

var ErrDepthExceeded = errors.New("include depth limit exceeded")

type Options struct {
	// IncludeDirs are searched in order before the including file's directory.
	IncludeDirs []string
	// ExcludedNamespace disables inlining for files whose parent directory
	// has this name. Empty turns the rule off.
	ExcludedNamespace string
	// SystemHeaders extends the built-in system header table.
	SystemHeaders []string
	// MaxDepth bounds include nesting below the entry file. Zero is unlimited.
	MaxDepth int
	// WorkDir is the parent directory used for standard input. Defaults to
	// the process working directory.
	WorkDir string
	// Graph, when set, receives every local include edge.
	Graph *graph.IncludeGraph
}

// Result is the outcome of one run.
type Result struct {
	Text string
	// Files lists the canonical paths that were inlined, in order. The entry
	// file comes first unless input was read from a stream.
	Files []string
}

type Expander struct {
	resolver *resolver.Resolver
	system   directive.HeaderSet
	excluded string
	maxDepth int
	workDir  string
	graph    *graph.IncludeGraph
}

func New(opts Options) *Expander {
	system := directive.SystemHeaders(opts.SystemHeaders...)
	logger.Debug("%d system headers, excluded namespace %q", system.Len(), opts.ExcludedNamespace)
	return &Expander{
		resolver: resolver.New(opts.IncludeDirs),
		system:   system,
		excluded: opts.ExcludedNamespace,
		maxDepth: opts.MaxDepth,
		workDir:  opts.WorkDir,
		graph:    opts.Graph,
	}
}

// run is the state owned by a single expansion.
type run struct {
	stack *contextStack
	seen  *seenSet
}

// ExpandFile flattens the file at path.
func (e *Expander) ExpandFile(path string) (*Result, error) {
	entry, err := resolver.Canonical(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	r := &run{stack: newContextStack(filepath.Dir(entry)), seen: newSeenSet()}
	r.seen.Add(entry)
	if e.graph != nil {
		e.graph.AddNode(entry)
	}

	logger.Debug("Expander: expanding %s", entry)
	lines, err := e.expandFile(entry, r)
	if err != nil {
		return nil, err
	}
	return &Result{Text: strings.Join(lines, "\n"), Files: r.seen.Paths()}, nil
}

// ExpandReader flattens a stream read to EOF, resolving relative to the
// working directory.
func (e *Expander) ExpandReader(in io.Reader) (*Result, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	wd := e.workDir
	if wd == "" {
		if wd, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("cannot determine working dir: %w", err)
		}
	}

	r := &run{stack: newContextStack(wd), seen: newSeenSet()}
	if e.graph != nil {
		e.graph.AddNode(StdinName)
	}

	logger.Debug("Expander: expanding standard input from %s", wd)
	lines, err := e.expandLines(splitLines(data), StdinName, r)
	if err != nil {
		return nil, err
	}
	return &Result{Text: strings.Join(lines, "\n"), Files: r.seen.Paths()}, nil
}

func (e *Expander) expandFile(path string, r *run) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return e.expandLines(splitLines(data), path, r)
}

func (e *Expander) expandLines(lines []string, from string, r *run) ([]string, error) {
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		d, ok := directive.Parse(line)
		if !ok {
			out = append(out, line)
			continue
		}

		kind, path, err := e.classify(d, r.stack.Top())
		if err != nil {
			return nil, fmt.Errorf("%s: %w", from, err)
		}

		switch kind {
		case directive.SystemHeader, directive.Excluded:
			logger.Debug("Expander: keeping %s include %q", kind, d.Target)
			out = append(out, line)
			continue
		}

		if e.graph != nil {
			e.graph.AddEdge(from, path)
		}
		if !r.seen.Add(path) {
			logger.Debug("Expander: %s already included, dropping directive", path)
			continue
		}

		nested, err := e.descend(path, r)
		if err != nil {
			return nil, err
		}
		out = append(out, nested...)
	}

	return out, nil
}

func (e *Expander) descend(path string, r *run) ([]string, error) {
	if e.maxDepth > 0 && r.stack.Depth() > e.maxDepth {
		return nil, fmt.Errorf("%s: %w (max %d)", path, ErrDepthExceeded, e.maxDepth)
	}

	pop := r.stack.Push(filepath.Dir(path))
	defer pop()

	logger.Debug("Expander: inlining %s (depth %d)", path, r.stack.Depth()-1)
	return e.expandFile(path, r)
}

// splitLines breaks content into lines without their terminators. A final
// newline does not start an extra empty line.
func splitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	s := strings.TrimSuffix(string(data), "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
