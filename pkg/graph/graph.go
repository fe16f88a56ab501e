package graph

import (
	"maps"
	"slices"
)

// Graph is the read side of a host graph. Iteration methods return fresh
// slices in [Compare] order.
type Graph interface {
	Nodes() []Node
	Edges() []Edge
	// EdgesOf returns all edges incident to n (in or out, loops once).
	EdgesOf(n Node) []Edge
	InEdges(n Node) []Edge
	OutEdges(n Node) []Edge
	ContainsNode(n Node) bool
	ContainsEdge(e Edge) bool
	NodeCount() int
	EdgeCount() int
	// IsFixed reports whether the graph has been frozen.
	IsFixed() bool
	// Clone returns an unfixed copy.
	Clone() MutableGraph
}

// MutableGraph adds structural mutation. Mutating a fixed graph panics.
type MutableGraph interface {
	Graph
	// AddNode adds n and reports whether it was new.
	AddNode(n Node) bool
	// AddEdge adds e, and its endpoints if missing, and reports whether e was new.
	AddEdge(e Edge) bool
	// RemoveNode removes n together with its incident edges.
	RemoveNode(n Node) bool
	RemoveEdge(e Edge) bool
	SetFixed()
}

// HostGraph is the in-memory [MutableGraph].
//
// The zero value is not usable - use [NewHostGraph].
// HostGraph is not safe for concurrent use without external synchronization.
type HostGraph struct {
	nodes    map[Node]struct{}
	edges    map[Edge]struct{}
	outgoing map[Node][]Edge
	incoming map[Node][]Edge
	fixed    bool
}

// NewHostGraph creates an empty graph.
func NewHostGraph() *HostGraph {
	return &HostGraph{
		nodes:    make(map[Node]struct{}),
		edges:    make(map[Edge]struct{}),
		outgoing: make(map[Node][]Edge),
		incoming: make(map[Node][]Edge),
	}
}

// Nodes returns all nodes in [CompareNodes] order.
func (g *HostGraph) Nodes() []Node {
	return slices.SortedFunc(maps.Keys(g.nodes), CompareNodes)
}

// Edges returns all edges in [CompareEdges] order.
func (g *HostGraph) Edges() []Edge {
	return slices.SortedFunc(maps.Keys(g.edges), CompareEdges)
}

// OutEdges returns the edges with source n.
func (g *HostGraph) OutEdges(n Node) []Edge {
	return sortedEdges(g.outgoing[n])
}

// InEdges returns the edges with target n.
func (g *HostGraph) InEdges(n Node) []Edge {
	return sortedEdges(g.incoming[n])
}

// EdgesOf returns the edges incident to n; loops appear once.
func (g *HostGraph) EdgesOf(n Node) []Edge {
	result := slices.Clone(g.outgoing[n])
	for _, e := range g.incoming[n] {
		if !e.IsLoop() {
			result = append(result, e)
		}
	}
	slices.SortFunc(result, CompareEdges)
	return result
}

// ContainsNode reports whether n is in the graph.
func (g *HostGraph) ContainsNode(n Node) bool {
	_, ok := g.nodes[n]
	return ok
}

// ContainsEdge reports whether e is in the graph.
func (g *HostGraph) ContainsEdge(e Edge) bool {
	_, ok := g.edges[e]
	return ok
}

// NodeCount returns the number of nodes.
func (g *HostGraph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *HostGraph) EdgeCount() int { return len(g.edges) }

// IsFixed reports whether SetFixed has been called.
func (g *HostGraph) IsFixed() bool { return g.fixed }

// SetFixed freezes the graph. Further mutation panics.
func (g *HostGraph) SetFixed() { g.fixed = true }

// Clone returns an unfixed deep copy.
func (g *HostGraph) Clone() MutableGraph {
	c := NewHostGraph()
	for n := range g.nodes {
		c.nodes[n] = struct{}{}
	}
	for e := range g.edges {
		c.edges[e] = struct{}{}
	}
	for n, es := range g.outgoing {
		c.outgoing[n] = slices.Clone(es)
	}
	for n, es := range g.incoming {
		c.incoming[n] = slices.Clone(es)
	}
	return c
}

// AddNode adds n and reports whether it was absent.
func (g *HostGraph) AddNode(n Node) bool {
	g.checkMutable()
	if _, ok := g.nodes[n]; ok {
		return false
	}
	g.nodes[n] = struct{}{}
	return true
}

// AddEdge adds e and any missing endpoint, and reports whether e was absent.
func (g *HostGraph) AddEdge(e Edge) bool {
	g.checkMutable()
	if _, ok := g.edges[e]; ok {
		return false
	}
	g.nodes[e.Source] = struct{}{}
	g.nodes[e.Target] = struct{}{}
	g.edges[e] = struct{}{}
	g.outgoing[e.Source] = append(g.outgoing[e.Source], e)
	g.incoming[e.Target] = append(g.incoming[e.Target], e)
	return true
}

// RemoveEdge removes e and reports whether it was present.
func (g *HostGraph) RemoveEdge(e Edge) bool {
	g.checkMutable()
	if _, ok := g.edges[e]; !ok {
		return false
	}
	delete(g.edges, e)
	g.outgoing[e.Source] = removeEdge(g.outgoing[e.Source], e)
	if len(g.outgoing[e.Source]) == 0 {
		delete(g.outgoing, e.Source)
	}
	g.incoming[e.Target] = removeEdge(g.incoming[e.Target], e)
	if len(g.incoming[e.Target]) == 0 {
		delete(g.incoming, e.Target)
	}
	return true
}

// RemoveNode removes n and its incident edges, and reports whether n was present.
func (g *HostGraph) RemoveNode(n Node) bool {
	g.checkMutable()
	if _, ok := g.nodes[n]; !ok {
		return false
	}
	for _, e := range g.EdgesOf(n) {
		g.RemoveEdge(e)
	}
	delete(g.nodes, n)
	return true
}

func (g *HostGraph) checkMutable() {
	if g.fixed {
		panic("graph: mutation of fixed graph")
	}
}

func removeEdge(es []Edge, e Edge) []Edge {
	if i := slices.Index(es, e); i >= 0 {
		return slices.Delete(es, i, i+1)
	}
	return es
}

func sortedEdges(es []Edge) []Edge {
	result := slices.Clone(es)
	slices.SortFunc(result, CompareEdges)
	return result
}

// =============================================================================
// Queries
// =============================================================================

// NodeTypes returns the labels of the node-type self-loops on n.
func NodeTypes(g Graph, n Node) []Label {
	var types []Label
	for _, e := range g.OutEdges(n) {
		if e.Label.IsNodeType() && e.IsLoop() {
			types = append(types, e.Label)
		}
	}
	return types
}

// HasLabel reports whether some self-loop on n carries l.
func HasLabel(g Graph, n Node, l Label) bool {
	return g.ContainsEdge(Edge{Source: n, Label: l, Target: n})
}

// Equal reports whether two graphs have the same nodes and edges.
func Equal(a, b Graph) bool {
	if a.NodeCount() != b.NodeCount() || a.EdgeCount() != b.EdgeCount() {
		return false
	}
	for _, n := range a.Nodes() {
		if !b.ContainsNode(n) {
			return false
		}
	}
	for _, e := range a.Edges() {
		if !b.ContainsEdge(e) {
			return false
		}
	}
	return true
}
