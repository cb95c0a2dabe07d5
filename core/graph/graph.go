package graph

import (
	"fmt"
	"sync"

	"github.com/tristendillon/flatten/core/logger"
)

// Node is one file in the include graph.
type Node struct {
	Path       string   `json:"path"`
	Includes   []string `json:"includes"`    // files this one includes
	IncludedBy []string `json:"included_by"` // files that include this one
}

// IncludeGraph records which files include which during an expansion.
// Nodes and edges keep first-seen order so output is stable.
type IncludeGraph struct {
	nodes map[string]*Node
	order []string
	mutex sync.RWMutex
}

// New creates an empty include graph
func New() *IncludeGraph {
	return &IncludeGraph{
		nodes: make(map[string]*Node),
		mutex: sync.RWMutex{},
	}
}

// AddNode registers a file without edges. Adding an existing node is a no-op.
func (g *IncludeGraph) AddNode(path string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.ensureNode(path)
}

// AddEdge records that from includes to. Duplicate edges are ignored.
func (g *IncludeGraph) AddEdge(from, to string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	src := g.ensureNode(from)
	dst := g.ensureNode(to)
	if !contains(src.Includes, to) {
		src.Includes = append(src.Includes, to)
	}
	if !contains(dst.IncludedBy, from) {
		dst.IncludedBy = append(dst.IncludedBy, from)
	}
}

// Includes returns direct includes of a file
func (g *IncludeGraph) Includes(path string) []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	node, exists := g.nodes[path]
	if !exists {
		return []string{}
	}
	return copyOf(node.Includes)
}

// IncludedBy returns files that directly include this file
func (g *IncludeGraph) IncludedBy(path string) []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	node, exists := g.nodes[path]
	if !exists {
		return []string{}
	}
	return copyOf(node.IncludedBy)
}

// Nodes returns every path in first-seen order.
func (g *IncludeGraph) Nodes() []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return copyOf(g.order)
}

// Roots returns files nothing includes.
func (g *IncludeGraph) Roots() []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	var roots []string
	for _, path := range g.order {
		if len(g.nodes[path].IncludedBy) == 0 {
			roots = append(roots, path)
		}
	}
	return roots
}

// Affected returns every file that includes path, directly or transitively.
func (g *IncludeGraph) Affected(path string) []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	visited := make(map[string]bool)
	var affected []string
	g.dfsVisitIncluders(path, visited, &affected)

	logger.Debug("IncludeGraph: %s affects %d files", path, len(affected))
	return affected
}

// DetectCycles finds circular includes
func (g *IncludeGraph) DetectCycles() [][]string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	var cycles [][]string
	visited := make(map[string]bool)
	recursionStack := make(map[string]bool)

	for _, path := range g.order {
		if !visited[path] {
			if cycle := g.dfsFindCycles(path, visited, recursionStack, nil); cycle != nil {
				cycles = append(cycles, cycle)
			}
		}
	}

	if len(cycles) > 0 {
		logger.Debug("IncludeGraph: Detected %d cycles", len(cycles))
	}
	return cycles
}

// TopologicalOrder returns files with every include before its includer.
func (g *IncludeGraph) TopologicalOrder() ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	// Kahn's algorithm over the "included by" direction
	inDegree := make(map[string]int)
	queue := []string{}
	result := []string{}

	for _, path := range g.order {
		node := g.nodes[path]
		inDegree[path] = len(node.Includes)
		if len(node.Includes) == 0 {
			queue = append(queue, path)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		result = append(result, current)

		for _, includer := range g.nodes[current].IncludedBy {
			inDegree[includer]--
			if inDegree[includer] == 0 {
				queue = append(queue, includer)
			}
		}
	}

	if len(result) != len(g.nodes) {
		return nil, fmt.Errorf("include graph contains cycles")
	}
	return result, nil
}

// ensureNode is not thread-safe, caller must lock
func (g *IncludeGraph) ensureNode(path string) *Node {
	node, exists := g.nodes[path]
	if !exists {
		node = &Node{Path: path, Includes: []string{}, IncludedBy: []string{}}
		g.nodes[path] = node
		g.order = append(g.order, path)
	}
	return node
}

func (g *IncludeGraph) dfsVisitIncluders(path string, visited map[string]bool, affected *[]string) {
	if visited[path] {
		return
	}
	visited[path] = true

	node, exists := g.nodes[path]
	if !exists {
		return
	}

	for _, includer := range node.IncludedBy {
		if visited[includer] {
			continue
		}
		*affected = append(*affected, includer)
		g.dfsVisitIncluders(includer, visited, affected)
	}
}

func (g *IncludeGraph) dfsFindCycles(path string, visited, recursionStack map[string]bool, trail []string) []string {
	visited[path] = true
	recursionStack[path] = true
	trail = append(trail, path)

	for _, dep := range g.nodes[path].Includes {
		if !visited[dep] {
			if cycle := g.dfsFindCycles(dep, visited, recursionStack, trail); cycle != nil {
				recursionStack[path] = false
				return cycle
			}
		} else if recursionStack[dep] {
			for i, p := range trail {
				if p == dep {
					cycle := make([]string, len(trail)-i)
					copy(cycle, trail[i:])
					recursionStack[path] = false
					return cycle
				}
			}
		}
	}

	recursionStack[path] = false
	return nil
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func copyOf(slice []string) []string {
	out := make([]string, len(slice))
	copy(out, slice)
	return out
}
