package rule

import (
	"fmt"
	"maps"
	"slices"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/graph"
)

// Fragment selects how much of an effect is computed.
type Fragment int

const (
	// NodeCreation computes only the created nodes.
	NodeCreation Fragment = iota
	// NodeAll adds erased nodes and merges.
	NodeAll
	// All computes everything, including erased and created edges.
	All
)

func (f Fragment) String() string {
	switch f {
	case NodeCreation:
		return "node-creation"
	case NodeAll:
		return "node-all"
	case All:
		return "all"
	}
	return fmt.Sprintf("Fragment(%d)", int(f))
}

// Effect accumulates the changes an event makes to a host graph. Events
// write into it through [Event.RecordEffect]; after [Effect.SetFixed] the
// derived views are available and the effect may no longer change.
type Effect struct {
	host     graph.Graph
	fragment Fragment
	record   *Record

	preset       []graph.Node
	created      []graph.Node
	erasedNodes  map[graph.Node]struct{}
	erasedEdges  map[graph.Edge]struct{}
	createdEdges map[graph.Edge]struct{}
	merge        *MergeMap

	fixed        bool
	removedNodes []graph.Node
	removedEdges []graph.Edge
	addedNodes   []graph.Node
	addedEdges   []graph.Edge
}

// NewEffect creates an empty effect on host. The record supplies fresh
// nodes, values and logging; it may be nil for effects that create no nodes.
func NewEffect(host graph.Graph, fragment Fragment, rec *Record) *Effect {
	return &Effect{
		host:         host,
		fragment:     fragment,
		record:       rec,
		erasedNodes:  make(map[graph.Node]struct{}),
		erasedEdges:  make(map[graph.Edge]struct{}),
		createdEdges: make(map[graph.Edge]struct{}),
	}
}

// Host returns the graph the effect applies to.
func (f *Effect) Host() graph.Graph { return f.host }

// Fragment returns the part of the effect that is computed.
func (f *Effect) Fragment() Fragment { return f.fragment }

// Record returns the session record, if any.
func (f *Effect) Record() *Record { return f.record }

// Preset makes node creation hand out the given nodes, in order, before
// asking for fresh ones. Replaying a transition uses this to recreate the
// same nodes.
func (f *Effect) Preset(nodes []graph.Node) {
	f.checkMutable()
	f.preset = slices.Clone(nodes)
}

func (f *Effect) takePreset() (graph.Node, bool) {
	if len(f.preset) == 0 {
		return graph.Node{}, false
	}
	n := f.preset[0]
	f.preset = f.preset[1:]
	return n, true
}

func (f *Effect) checkMutable() {
	if f.fixed {
		panic("rule: effect is fixed")
	}
}

// AddCreatedNode appends a created node.
func (f *Effect) AddCreatedNode(n graph.Node) {
	f.checkMutable()
	f.created = append(f.created, n)
}

// CreatedNodes returns the created nodes in creation order.
func (f *Effect) CreatedNodes() []graph.Node { return slices.Clone(f.created) }

// hasCreated reports whether n was already created by this effect.
func (f *Effect) hasCreated(n graph.Node) bool { return slices.Contains(f.created, n) }

// AddErasedNode records the deletion of n.
func (f *Effect) AddErasedNode(n graph.Node) {
	f.checkMutable()
	f.erasedNodes[n] = struct{}{}
}

// AddErasedEdge records the deletion of e.
func (f *Effect) AddErasedEdge(e graph.Edge) {
	f.checkMutable()
	f.erasedEdges[e] = struct{}{}
}

// AddCreatedEdge records the creation of e.
func (f *Effect) AddCreatedEdge(e graph.Edge) {
	f.checkMutable()
	f.createdEdges[e] = struct{}{}
}

// AddMerge merges the node from into to.
func (f *Effect) AddMerge(from, to graph.Node) {
	f.checkMutable()
	if f.merge == nil {
		f.merge = NewMergeMap()
	}
	f.merge.Merge(from, to)
}

// MergeMap returns the merge map, or nil if the effect merges nothing.
func (f *Effect) MergeMap() *MergeMap { return f.merge }

// ErasedNodes returns the explicitly erased nodes, sorted.
func (f *Effect) ErasedNodes() []graph.Node {
	return slices.SortedFunc(maps.Keys(f.erasedNodes), graph.CompareNodes)
}

// ErasedEdges returns the explicitly erased edges, sorted.
func (f *Effect) ErasedEdges() []graph.Edge {
	return slices.SortedFunc(maps.Keys(f.erasedEdges), graph.CompareEdges)
}

// CreatedEdges returns the created edges before merging, sorted.
func (f *Effect) CreatedEdges() []graph.Edge {
	return slices.SortedFunc(maps.Keys(f.createdEdges), graph.CompareEdges)
}

// IsFixed reports whether the effect is frozen.
func (f *Effect) IsFixed() bool { return f.fixed }

// SetFixed freezes the effect and computes its views. Erased nodes are
// removed from the merge map first, so that merging with an erased node
// erases both.
func (f *Effect) SetFixed() {
	if f.fixed {
		return
	}
	if f.merge != nil {
		for n := range f.erasedNodes {
			f.merge.Remove(n)
		}
	}
	f.fixed = true

	removedNodes := maps.Clone(f.erasedNodes)
	if f.merge != nil {
		for _, n := range f.merge.Keys() {
			if f.host.ContainsNode(n) {
				removedNodes[n] = struct{}{}
			}
		}
	}
	removedEdges := maps.Clone(f.erasedEdges)
	for n := range removedNodes {
		for _, e := range f.host.EdgesOf(n) {
			removedEdges[e] = struct{}{}
		}
	}

	addedEdges := map[graph.Edge]struct{}{}
	add := func(e graph.Edge) {
		if f.isErased(e.Source) || f.isErased(e.Target) {
			return
		}
		if f.merge != nil {
			img, ok := f.merge.MapEdge(e)
			if !ok {
				return
			}
			e = img
		}
		if _, gone := removedEdges[e]; f.host.ContainsEdge(e) && !gone {
			return
		}
		addedEdges[e] = struct{}{}
	}
	for e := range f.createdEdges {
		add(e)
	}
	// edges at merged nodes survive under their new ends
	if f.merge != nil {
		for e := range removedEdges {
			if _, erased := f.erasedEdges[e]; !erased {
				add(e)
			}
		}
	}
	// an edge both removed and re-added is left alone
	for e := range addedEdges {
		if _, ok := removedEdges[e]; ok {
			delete(removedEdges, e)
			delete(addedEdges, e)
		}
	}

	addedNodes := slices.Clone(f.created)
	if f.merge != nil {
		addedNodes = slices.DeleteFunc(addedNodes, func(n graph.Node) bool {
			img, ok := f.merge.Get(n)
			return !ok || img != n
		})
	}

	f.removedNodes = slices.SortedFunc(maps.Keys(removedNodes), graph.CompareNodes)
	f.removedEdges = slices.SortedFunc(maps.Keys(removedEdges), graph.CompareEdges)
	f.addedNodes = addedNodes
	f.addedEdges = slices.SortedFunc(maps.Keys(addedEdges), graph.CompareEdges)
}

// isErased reports whether n disappears without an image.
func (f *Effect) isErased(n graph.Node) bool {
	if _, ok := f.erasedNodes[n]; ok {
		return true
	}
	if f.merge != nil {
		if _, ok := f.merge.Get(n); !ok {
			return true
		}
	}
	return false
}

func (f *Effect) checkFixed() {
	if !f.fixed {
		panic("rule: effect views requested before SetFixed")
	}
}

// RemovedNodes returns the nodes that disappear: erased nodes and nodes
// merged into another one.
func (f *Effect) RemovedNodes() []graph.Node {
	f.checkFixed()
	return f.removedNodes
}

// RemovedEdges returns the erased edges together with all edges at removed
// nodes.
func (f *Effect) RemovedEdges() []graph.Edge {
	f.checkFixed()
	return f.removedEdges
}

// AddedNodes returns the created nodes that survive merging, in creation order.
func (f *Effect) AddedNodes() []graph.Node {
	f.checkFixed()
	return f.addedNodes
}

// AddedEdges returns the created edges and the redirected edges of merged
// nodes, mapped through the merge map.
func (f *Effect) AddedEdges() []graph.Edge {
	f.checkFixed()
	return f.addedEdges
}

// IsEmpty reports whether the fixed effect leaves the graph unchanged.
func (f *Effect) IsEmpty() bool {
	f.checkFixed()
	return len(f.removedNodes)+len(f.removedEdges)+len(f.addedNodes)+len(f.addedEdges) == 0
}
