package graph

import (
	"fmt"
	"io"
	"strings"
)

// Labeler turns a node path into display text.
type Labeler func(path string) string

// WriteTree prints the graph as an indented tree from each root. A file seen
// earlier in the walk is printed once more with a marker and not descended.
func (g *IncludeGraph) WriteTree(w io.Writer, label Labeler) error {
	roots := g.Roots()
	if len(roots) == 0 {
		// every node sits on a cycle; start from the first one seen
		if nodes := g.Nodes(); len(nodes) > 0 {
			roots = nodes[:1]
		}
	}

	printed := make(map[string]bool)
	for _, root := range roots {
		if err := g.writeTreeNode(w, label, root, 0, printed); err != nil {
			return err
		}
	}
	return nil
}

func (g *IncludeGraph) writeTreeNode(w io.Writer, label Labeler, path string, depth int, printed map[string]bool) error {
	indent := strings.Repeat("  ", depth)
	if printed[path] {
		_, err := fmt.Fprintf(w, "%s%s (already included)\n", indent, label(path))
		return err
	}
	printed[path] = true
	if _, err := fmt.Fprintf(w, "%s%s\n", indent, label(path)); err != nil {
		return err
	}
	for _, child := range g.Includes(path) {
		if err := g.writeTreeNode(w, label, child, depth+1, printed); err != nil {
			return err
		}
	}
	return nil
}

// WriteEdges prints one "includer -> included" line per edge.
func (g *IncludeGraph) WriteEdges(w io.Writer, label Labeler) error {
	for _, path := range g.Nodes() {
		for _, child := range g.Includes(path) {
			if _, err := fmt.Fprintf(w, "%s -> %s\n", label(path), label(child)); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteTopological prints files dependencies-first, or the cycles that
// prevent an ordering.
func (g *IncludeGraph) WriteTopological(w io.Writer, label Labeler) error {
	order, err := g.TopologicalOrder()
	if err != nil {
		for _, cycle := range g.DetectCycles() {
			labels := make([]string, 0, len(cycle)+1)
			for _, p := range cycle {
				labels = append(labels, label(p))
			}
			labels = append(labels, label(cycle[0]))
			if _, werr := fmt.Fprintf(w, "cycle: %s\n", strings.Join(labels, " -> ")); werr != nil {
				return werr
			}
		}
		return err
	}
	for _, path := range order {
		if _, err := fmt.Fprintln(w, label(path)); err != nil {
			return err
		}
	}
	return nil
}
