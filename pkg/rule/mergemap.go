package rule

import (
	"maps"
	"slices"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/graph"
)

// mergeImage is the image of a node: another node, or nothing if the node
// is erased.
type mergeImage struct {
	node      graph.Node
	undefined bool
}

// MergeMap maps host nodes to the nodes they are merged into. Nodes without
// an entry map to themselves; removed nodes map to nothing.
//
// Images are always fixpoints: merging a into b, where b was itself merged
// into c, maps a and everything already mapped to a directly onto c. Lookups
// never follow chains.
type MergeMap struct {
	images map[graph.Node]mergeImage
	// preimages lists, for every current fixpoint, the other nodes mapped onto it
	preimages map[graph.Node][]graph.Node
}

// NewMergeMap creates an identity map.
func NewMergeMap() *MergeMap {
	return &MergeMap{
		images:    make(map[graph.Node]mergeImage),
		preimages: make(map[graph.Node][]graph.Node),
	}
}

// Get returns the image of n, or false if n has been removed.
func (m *MergeMap) Get(n graph.Node) (graph.Node, bool) {
	img, ok := m.images[n]
	if !ok {
		return n, true
	}
	return img.node, !img.undefined
}

// Put sets the image of n to the image of image. Nodes mapped onto n follow
// it, so images stay fixpoints. Mapping a node to itself restores the
// identity for that node alone.
func (m *MergeMap) Put(n, image graph.Node) {
	if n == image {
		m.detach(n)
		delete(m.images, n)
		return
	}
	dst, ok := m.Get(image)
	if dst == n && ok {
		return
	}
	m.detach(n)
	moved := append(m.preimages[n], n)
	delete(m.preimages, n)
	if !ok {
		for _, p := range moved {
			m.images[p] = mergeImage{undefined: true}
		}
		return
	}
	for _, p := range moved {
		m.images[p] = mergeImage{node: dst}
	}
	m.preimages[dst] = append(m.preimages[dst], moved...)
}

// Remove maps n, and every node currently mapped onto n, to nothing.
func (m *MergeMap) Remove(n graph.Node) {
	target, ok := m.Get(n)
	if !ok {
		return
	}
	for _, p := range m.preimages[target] {
		m.images[p] = mergeImage{undefined: true}
	}
	delete(m.preimages, target)
	m.images[target] = mergeImage{undefined: true}
}

// Merge merges the image of from into the image of to. Every node mapped
// onto the image of from is redirected as well. If either side has been
// removed, both end up removed.
func (m *MergeMap) Merge(from, to graph.Node) {
	src, srcOK := m.Get(from)
	dst, dstOK := m.Get(to)
	switch {
	case !srcOK && !dstOK:
		return
	case !srcOK:
		m.Remove(to)
		return
	case !dstOK:
		m.Remove(from)
		return
	case src == dst:
		return
	}
	moved := append(m.preimages[src], src)
	delete(m.preimages, src)
	for _, p := range moved {
		m.images[p] = mergeImage{node: dst}
	}
	m.preimages[dst] = append(m.preimages[dst], moved...)
}

// detach removes n from the pre-image list of its current image.
func (m *MergeMap) detach(n graph.Node) {
	img, ok := m.images[n]
	if !ok || img.undefined {
		return
	}
	pre := slices.DeleteFunc(m.preimages[img.node], func(p graph.Node) bool { return p == n })
	if len(pre) == 0 {
		delete(m.preimages, img.node)
	} else {
		m.preimages[img.node] = pre
	}
}

// MapEdge returns the image of e, or false if an endpoint has been removed.
func (m *MergeMap) MapEdge(e graph.Edge) (graph.Edge, bool) {
	s, ok := m.Get(e.Source)
	if !ok {
		return graph.Edge{}, false
	}
	t, ok := m.Get(e.Target)
	if !ok {
		return graph.Edge{}, false
	}
	return graph.Edge{Source: s, Label: e.Label, Target: t}, true
}

// Keys returns the nodes that do not map to themselves, in order.
func (m *MergeMap) Keys() []graph.Node {
	return slices.SortedFunc(maps.Keys(m.images), graph.CompareNodes)
}

// Size returns the number of non-identity entries.
func (m *MergeMap) Size() int { return len(m.images) }

// IsEmpty reports whether m is the identity.
func (m *MergeMap) IsEmpty() bool { return len(m.images) == 0 }

// Clone returns an independent copy.
func (m *MergeMap) Clone() *MergeMap {
	c := NewMergeMap()
	maps.Copy(c.images, m.images)
	for k, v := range m.preimages {
		c.preimages[k] = slices.Clone(v)
	}
	return c
}
