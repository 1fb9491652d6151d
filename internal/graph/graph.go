// Package graph implements the two-relation dependency graph described
// in spec.md §4.2: adjacency (forward, "refers to") and dependency
// (backward, "referred to by"). The graph is an untyped pair of
// relations; maintaining the mirror invariant q∈adj[p] ⇔ p∈dep[q] is
// the caller's responsibility (cell package), same split as the
// teacher's refersTo/referredFrom maps in spreadsheet.go.
package graph

import (
	"golang.org/x/exp/maps"

	"github.com/cellgraph/spreadsheet/internal/position"
)

// Graph holds the forward (adjacency) and backward (dependency) relations.
type Graph struct {
	adj map[position.Position]map[position.Position]struct{}
	dep map[position.Position]map[position.Position]struct{}
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		adj: make(map[position.Position]map[position.Position]struct{}),
		dep: make(map[position.Position]map[position.Position]struct{}),
	}
}

// Adjacency returns the positions p's formula refers to. A missing key
// reads as empty, per spec.md §3.
func (g *Graph) Adjacency(p position.Position) []position.Position {
	return maps.Keys(g.adj[p])
}

// Dependency returns the positions that refer to p.
func (g *Graph) Dependency(p position.Position) []position.Position {
	return maps.Keys(g.dep[p])
}

// AddAdjacency records that src refers to dst.
func (g *Graph) AddAdjacency(src, dst position.Position) {
	if g.adj[src] == nil {
		g.adj[src] = make(map[position.Position]struct{})
	}
	g.adj[src][dst] = struct{}{}
}

// RemoveAdjacency removes the src-refers-to-dst edge, if present.
func (g *Graph) RemoveAdjacency(src, dst position.Position) {
	delete(g.adj[src], dst)
	if len(g.adj[src]) == 0 {
		delete(g.adj, src)
	}
}

// AddDependency records that src refers to dst (dst's dependency set gains src).
func (g *Graph) AddDependency(dst, src position.Position) {
	if g.dep[dst] == nil {
		g.dep[dst] = make(map[position.Position]struct{})
	}
	g.dep[dst][src] = struct{}{}
}

// RemoveDependency removes the dst-is-referred-to-by-src edge, if present.
func (g *Graph) RemoveDependency(dst, src position.Position) {
	delete(g.dep[dst], src)
	if len(g.dep[dst]) == 0 {
		delete(g.dep, dst)
	}
}
