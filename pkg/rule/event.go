package rule

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/graph"
)

// Event is the identity of a rule match: the rule together with the host
// images of its anchor. Equal events have the same effect on any graph
// containing their anchor images.
type Event interface {
	// Rule returns the (root) rule of the event.
	Rule() *Rule
	// AnchorImage returns the host images of the anchor, in anchor order.
	AnchorImage() []graph.Element
	// Basics returns the constituent basic events in canonical order.
	Basics() []*BasicEvent
	// RecordEffect writes the event's changes into eff.
	RecordEffect(ctx context.Context, eff *Effect) error
	// Disables reports whether applying the event deletes part of the
	// anchor image of other.
	Disables(other Event) bool
	// Conflicts reports whether the event and other may interfere.
	Conflicts(other Event) bool
	Hash() uint64
	Equal(other Event) bool
	Compare(other Event) int
	// Key is a content key: equal events have equal keys.
	Key() string
	String() string
}

// hashWindow bounds the number of anchor images mixed into an event hash.
const hashWindow = 10

// BasicEvent is the event of a single rule match.
type BasicEvent struct {
	rule  *Rule
	image []graph.Element
	hash  uint64
	key   string
	cache *eventCache
	fresh [][]graph.Node
}

// NewBasicEvent creates the event of a match of r. The map must give an
// image for every anchor key of r; a missing image panics.
func NewBasicEvent(r *Rule, m *HostMap) *BasicEvent {
	anchor := r.Anchor()
	image := make([]graph.Element, len(anchor))
	for i, k := range anchor {
		el, ok := m.image(k)
		if !ok {
			panic(fmt.Sprintf("rule: no image for anchor element %s of %s", k, r.FullName()))
		}
		image[i] = el
	}
	e := &BasicEvent{rule: r, image: image}
	e.hash = e.computeHash()
	return e
}

func (e *BasicEvent) computeHash() uint64 {
	h := e.rule.Hash()
	for i, el := range e.image[:min(len(e.image), hashWindow)] {
		h += xxhash.Sum64String(el.String()) << i
	}
	return h
}

// Rule returns the matched rule.
func (e *BasicEvent) Rule() *Rule { return e.rule }

// AnchorImage returns the host images of the rule anchor.
func (e *BasicEvent) AnchorImage() []graph.Element { return slices.Clone(e.image) }

// Basics returns e itself.
func (e *BasicEvent) Basics() []*BasicEvent { return []*BasicEvent{e} }

// Hash mixes the rule hash with the first few anchor images.
func (e *BasicEvent) Hash() uint64 { return e.hash }

// Equal reports whether other is a basic event of the same rule with the
// same anchor images.
func (e *BasicEvent) Equal(other Event) bool {
	o, ok := other.(*BasicEvent)
	if !ok {
		return false
	}
	return e == o || e.rule == o.rule && e.hash == o.hash && slices.Equal(e.image, o.image)
}

// Compare orders events by rule, then lexicographically by anchor image,
// shorter images first on a common prefix. Basic events precede composite
// ones.
func (e *BasicEvent) Compare(other Event) int {
	o, ok := other.(*BasicEvent)
	if !ok {
		return -1
	}
	if c := CompareRules(e.rule, o.rule); c != 0 {
		return c
	}
	return slices.CompareFunc(e.image, o.image, graph.Compare)
}

// Key returns the qualified rule name followed by the anchor images.
func (e *BasicEvent) Key() string {
	if e.key == "" {
		parts := make([]string, len(e.image))
		for i, el := range e.image {
			parts[i] = el.String()
		}
		e.key = e.rule.FullName() + "[" + strings.Join(parts, ",") + "]"
	}
	return e.key
}

func (e *BasicEvent) String() string { return e.Key() }

// =============================================================================
// Derived data
// =============================================================================

// eventCache holds data derived from the anchor image. It does not point
// back to its event.
type eventCache struct {
	anchorMap   *HostMap
	erasedNodes map[graph.Node]struct{}
	erasedEdges map[graph.Edge]struct{}
	simpleEdges map[graph.Edge]struct{}
}

// derived returns the cache, computing it on first use.
func (e *BasicEvent) derived() *eventCache {
	if e.cache == nil {
		e.cache = newEventCache(e.rule, e.image)
	}
	return e.cache
}

// ResetCache drops the derived data; it is recomputed when needed.
func (e *BasicEvent) ResetCache() { e.cache = nil }

func newEventCache(r *Rule, image []graph.Element) *eventCache {
	c := &eventCache{
		anchorMap:   NewHostMap(),
		erasedNodes: map[graph.Node]struct{}{},
		erasedEdges: map[graph.Edge]struct{}{},
		simpleEdges: map[graph.Edge]struct{}{},
	}
	for i, k := range r.Anchor() {
		if k.Node != nil {
			c.anchorMap.PutNode(k.Node, image[i].(graph.Node))
		} else {
			c.anchorMap.PutEdge(k.Edge, image[i].(graph.Edge))
		}
	}
	for _, n := range r.nodes {
		if n.Role == Eraser {
			img, _ := c.anchorMap.Node(n)
			c.erasedNodes[img] = struct{}{}
		}
	}
	for _, m := range r.merges {
		img, _ := c.anchorMap.Node(m.From)
		c.erasedNodes[img] = struct{}{}
	}
	for _, ed := range r.edges {
		switch ed.Role {
		case Eraser:
			img, _ := c.anchorMap.Edge(ed)
			c.erasedEdges[img] = struct{}{}
		case Creator:
			if !ed.Source.Role.IsLHS() || !ed.Target.Role.IsLHS() {
				continue
			}
			src, _ := c.anchorMap.Node(ed.Source)
			tgt, _ := c.anchorMap.Node(ed.Target)
			l, _ := ed.Atom()
			c.simpleEdges[graph.Edge{Source: src, Label: l, Target: tgt}] = struct{}{}
		}
	}
	return c
}

// AnchorMap returns the rule-to-host map restricted to the anchor.
func (e *BasicEvent) AnchorMap() *HostMap { return e.derived().anchorMap.Clone() }

// Disables reports whether e deletes a node or edge of the anchor image of
// other. Nodes merged away count as deleted.
func (e *BasicEvent) Disables(other Event) bool {
	c := e.derived()
	if len(c.erasedNodes) == 0 && len(c.erasedEdges) == 0 {
		return false
	}
	for _, el := range other.AnchorImage() {
		switch el := el.(type) {
		case graph.Node:
			if _, ok := c.erasedNodes[el]; ok {
				return true
			}
		case graph.Edge:
			if _, ok := c.erasedEdges[el]; ok {
				return true
			}
			_, src := c.erasedNodes[el.Source]
			_, tgt := c.erasedNodes[el.Target]
			if src || tgt {
				return true
			}
		}
	}
	return false
}

// Conflicts reports whether e and other may interfere. Two basic events
// conflict only if one creates an edge between existing nodes that the other
// erases; anything involving a composite event is a conflict.
func (e *BasicEvent) Conflicts(other Event) bool {
	o, ok := other.(*BasicEvent)
	if !ok {
		return true
	}
	return createsErased(e.derived(), o.derived()) || createsErased(o.derived(), e.derived())
}

func createsErased(creator, eraser *eventCache) bool {
	for ed := range creator.simpleEdges {
		if _, ok := eraser.erasedEdges[ed]; ok {
			return true
		}
	}
	return false
}

// =============================================================================
// Effect
// =============================================================================

// RecordEffect writes the changes of e into eff: created nodes first, then
// erased nodes and merges, then erased and created edges, each as far as the
// fragment of eff asks for.
func (e *BasicEvent) RecordEffect(ctx context.Context, eff *Effect) error {
	c := e.derived()
	created, err := e.recordCreatedNodes(ctx, eff)
	if err != nil {
		return err
	}
	if eff.fragment == NodeCreation {
		return nil
	}
	for n := range c.erasedNodes {
		if !e.isMergeSource(n) {
			eff.AddErasedNode(n)
		}
	}
	for _, m := range e.rule.merges {
		from, _ := c.anchorMap.Node(m.From)
		to, _ := c.anchorMap.Node(m.To)
		eff.AddMerge(from, to)
	}
	if eff.fragment != All {
		return nil
	}
	for ed := range c.erasedEdges {
		eff.AddErasedEdge(ed)
	}
	image := func(n *Node) graph.Node {
		if n.Role == Creator {
			return created[n]
		}
		img, _ := c.anchorMap.Node(n)
		return img
	}
	for _, ed := range e.rule.edges {
		if ed.Role != Creator {
			continue
		}
		l, _ := ed.Atom()
		eff.AddCreatedEdge(graph.Edge{Source: image(ed.Source), Label: l, Target: image(ed.Target)})
	}
	for _, n := range e.rule.creators {
		if n.HasType() {
			img := created[n]
			eff.AddCreatedEdge(graph.Edge{Source: img, Label: n.Type, Target: img})
		}
	}
	return nil
}

// isMergeSource reports whether host node n is only removed by merging.
func (e *BasicEvent) isMergeSource(n graph.Node) bool {
	c := e.derived()
	for _, rn := range e.rule.nodes {
		if rn.Role == Eraser {
			if img, _ := c.anchorMap.Node(rn); img == n {
				return false
			}
		}
	}
	return true
}

// recordCreatedNodes adds the created nodes to eff in creator order and
// returns them by rule node.
func (e *BasicEvent) recordCreatedNodes(ctx context.Context, eff *Effect) (map[*Node]graph.Node, error) {
	created := make(map[*Node]graph.Node, len(e.rule.creators))
	for i, n := range e.rule.creators {
		var img graph.Node
		if preset, ok := eff.takePreset(); ok {
			img = preset
		} else {
			var err error
			if img, err = e.createNode(ctx, eff, i, n); err != nil {
				return nil, err
			}
		}
		created[n] = img
		eff.AddCreatedNode(img)
	}
	return created, nil
}

func (e *BasicEvent) createNode(ctx context.Context, eff *Effect, index int, n *Node) (graph.Node, error) {
	rec := eff.record
	if rec == nil {
		panic(fmt.Sprintf("rule: creating node %s without a record", n))
	}
	switch {
	case n.Param != "":
		v, err := askOracle(ctx, rec.oracle, eff.host, e, n)
		if err != nil {
			return graph.Node{}, err
		}
		return rec.factory.CreateValueNode(v), nil
	case n.IsValue():
		return rec.factory.CreateValueNode(n.Value), nil
	}
	return e.freshNode(eff, index), nil
}

// freshNode returns a node for creator index that is neither in the host
// graph nor already created by eff. Nodes this event created before are
// tried first; a new node is minted only if all of them are in use.
func (e *BasicEvent) freshNode(eff *Effect, index int) graph.Node {
	for len(e.fresh) <= index {
		e.fresh = append(e.fresh, nil)
	}
	for _, n := range e.fresh[index] {
		if !eff.host.ContainsNode(n) && !eff.hasCreated(n) {
			return n
		}
	}
	n := eff.record.mintNode()
	for eff.host.ContainsNode(n) || eff.hasCreated(n) {
		n = eff.record.mintNode()
	}
	e.fresh[index] = append(e.fresh[index], n)
	return n
}
