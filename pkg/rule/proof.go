package rule

import (
	"cmp"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/graph"
)

// HostMap maps rule nodes and edges to host elements.
type HostMap struct {
	nodes map[*Node]graph.Node
	edges map[*Edge]graph.Edge
}

// NewHostMap creates an empty map.
func NewHostMap() *HostMap {
	return &HostMap{
		nodes: make(map[*Node]graph.Node),
		edges: make(map[*Edge]graph.Edge),
	}
}

// PutNode maps n to h.
func (m *HostMap) PutNode(n *Node, h graph.Node) { m.nodes[n] = h }

// PutEdge maps e to h.
func (m *HostMap) PutEdge(e *Edge, h graph.Edge) { m.edges[e] = h }

// RemoveNode unmaps n.
func (m *HostMap) RemoveNode(n *Node) { delete(m.nodes, n) }

// RemoveEdge unmaps e.
func (m *HostMap) RemoveEdge(e *Edge) { delete(m.edges, e) }

// Node returns the image of n.
func (m *HostMap) Node(n *Node) (graph.Node, bool) {
	h, ok := m.nodes[n]
	return h, ok
}

// Edge returns the image of e.
func (m *HostMap) Edge(e *Edge) (graph.Edge, bool) {
	h, ok := m.edges[e]
	return h, ok
}

// NodeCount returns the number of mapped nodes.
func (m *HostMap) NodeCount() int { return len(m.nodes) }

// EdgeCount returns the number of mapped edges.
func (m *HostMap) EdgeCount() int { return len(m.edges) }

// Nodes returns the mapped rule nodes by number.
func (m *HostMap) Nodes() []*Node {
	return slices.SortedFunc(maps.Keys(m.nodes), func(a, b *Node) int { return cmp.Compare(a.Number, b.Number) })
}

// Edges returns the mapped rule edges by number.
func (m *HostMap) Edges() []*Edge {
	return slices.SortedFunc(maps.Keys(m.edges), func(a, b *Edge) int { return cmp.Compare(a.Number, b.Number) })
}

// Clone returns an independent copy.
func (m *HostMap) Clone() *HostMap {
	return &HostMap{nodes: maps.Clone(m.nodes), edges: maps.Clone(m.edges)}
}

func (m *HostMap) image(k AnchorKey) (graph.Element, bool) {
	if k.Node != nil {
		h, ok := m.nodes[k.Node]
		return h, ok
	}
	h, ok := m.edges[k.Edge]
	return h, ok
}

func (m *HostMap) String() string {
	var parts []string
	for _, n := range m.Nodes() {
		parts = append(parts, n.String()+"->"+m.nodes[n].String())
	}
	for _, e := range m.Edges() {
		parts = append(parts, "e"+strconv.Itoa(e.Number)+"->"+m.edges[e].String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// =============================================================================
// Proofs
// =============================================================================

// Proof witnesses a match of a rule: the map of its pattern into the host
// graph, and one sub-proof per match of each sub-rule extending it.
type Proof struct {
	Rule *Rule
	Map  *HostMap
	Sub  []*Proof
}

// Events returns the basic events of p and its sub-proofs, depth first.
func (p *Proof) Events() []*BasicEvent {
	result := []*BasicEvent{NewBasicEvent(p.Rule, p.Map)}
	for _, sub := range p.Sub {
		result = append(result, sub.Events()...)
	}
	return result
}

// Event returns the event of p: a basic event for a proof without
// sub-proofs, a composite event otherwise. With a non-nil record the event
// and its constituents are interned.
func (p *Proof) Event(rec *Record) Event {
	basics := p.Events()
	if rec != nil {
		for i, b := range basics {
			basics[i] = rec.intern(b).(*BasicEvent)
		}
	}
	var ev Event
	if len(basics) == 1 {
		ev = basics[0]
	} else {
		ev = NewCompositeEvent(basics...)
	}
	if rec != nil {
		ev = rec.intern(ev)
	}
	return ev
}
