package rule

import (
	"context"
	"maps"
	"slices"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/graph"
)

// DeltaTarget receives the changes of an application.
// [graph.MutableGraph] is a DeltaTarget.
type DeltaTarget interface {
	AddNode(n graph.Node) bool
	AddEdge(e graph.Edge) bool
	RemoveNode(n graph.Node) bool
	RemoveEdge(e graph.Edge) bool
}

// Application applies an event to a source graph. Effect, target, morphism
// and comatch are computed on first use, each from the previous one.
type Application struct {
	event  Event
	source graph.Graph
	record *Record
	preset []graph.Node

	effect   *Effect
	target   graph.MutableGraph
	morphism *Morphism
	comatch  Comatch
}

// NewApplication prepares the application of ev to source. If addedNodes is
// given, the created nodes are taken from it instead of being allocated.
func NewApplication(ev Event, source graph.Graph, rec *Record, addedNodes ...graph.Node) *Application {
	return &Application{event: ev, source: source, record: rec, preset: addedNodes}
}

// Event returns the applied event.
func (a *Application) Event() Event { return a.event }

// Source returns the source graph.
func (a *Application) Source() graph.Graph { return a.source }

// Effect returns the complete, fixed effect of the event on the source.
// An error from the value oracle leaves the application without an effect.
func (a *Application) Effect(ctx context.Context) (*Effect, error) {
	if a.effect != nil {
		return a.effect, nil
	}
	eff := NewEffect(a.source, All, a.record)
	if len(a.preset) > 0 {
		eff.Preset(a.preset)
	}
	if err := a.event.RecordEffect(ctx, eff); err != nil {
		return nil, err
	}
	eff.SetFixed()
	a.effect = eff
	if a.record != nil {
		a.record.logger.Debug("effect",
			"event", a.event.Key(),
			"removed", len(eff.RemovedNodes())+len(eff.RemovedEdges()),
			"added", len(eff.AddedNodes())+len(eff.AddedEdges()))
	}
	return eff, nil
}

// ApplyDelta sends the changes to t: removed edges, removed nodes, added
// nodes and added edges, in that order.
func (a *Application) ApplyDelta(ctx context.Context, t DeltaTarget) error {
	eff, err := a.Effect(ctx)
	if err != nil {
		return err
	}
	for _, e := range eff.RemovedEdges() {
		t.RemoveEdge(e)
	}
	for _, n := range eff.RemovedNodes() {
		t.RemoveNode(n)
	}
	for _, n := range eff.AddedNodes() {
		t.AddNode(n)
	}
	for _, e := range eff.AddedEdges() {
		t.AddEdge(e)
	}
	return nil
}

// Target returns the fixed graph obtained by applying the delta to a copy of
// the source. Value nodes left without incoming edges are dropped.
func (a *Application) Target(ctx context.Context) (graph.Graph, error) {
	if a.target != nil {
		return a.target, nil
	}
	target := a.source.Clone()
	if err := a.ApplyDelta(ctx, target); err != nil {
		return nil, err
	}
	for _, n := range target.Nodes() {
		if n.IsValue() && len(target.InEdges(n)) == 0 {
			target.RemoveNode(n)
		}
	}
	target.SetFixed()
	a.target = target
	return target, nil
}

// Morphism returns the map from source to target elements.
func (a *Application) Morphism(ctx context.Context) (*Morphism, error) {
	if a.morphism != nil {
		return a.morphism, nil
	}
	target, err := a.Target(ctx)
	if err != nil {
		return nil, err
	}
	eff := a.effect
	m := newMorphism()
	for _, n := range a.source.Nodes() {
		if eff.isErased(n) {
			continue
		}
		img := n
		if eff.merge != nil {
			img, _ = eff.merge.Get(n)
		}
		if target.ContainsNode(img) {
			m.nodes[n] = img
		}
	}
	for _, e := range a.source.Edges() {
		if _, erased := eff.erasedEdges[e]; erased {
			continue
		}
		img := e
		if eff.merge != nil {
			var ok bool
			if img, ok = eff.merge.MapEdge(e); !ok {
				continue
			}
		} else if eff.isErased(e.Source) || eff.isErased(e.Target) {
			continue
		}
		if target.ContainsEdge(img) {
			m.edges[e] = img
		}
	}
	a.morphism = m
	return m, nil
}

// Comatch maps rule node numbers to their images in the target. Sub-rule
// nodes matched several times have several images.
type Comatch map[int][]graph.Node

// Comatch returns the images of the anchor and creator nodes of all
// constituent events in the target.
func (a *Application) Comatch(ctx context.Context) (Comatch, error) {
	if a.comatch != nil {
		return a.comatch, nil
	}
	m, err := a.Morphism(ctx)
	if err != nil {
		return nil, err
	}
	result := Comatch{}
	add := func(nr int, n graph.Node) {
		if !slices.Contains(result[nr], n) {
			result[nr] = append(result[nr], n)
		}
	}
	created := a.effect.created
	offset := 0
	for _, b := range a.event.Basics() {
		for i, k := range b.rule.Anchor() {
			if k.Node == nil {
				continue
			}
			if img, ok := m.NodeImage(b.image[i].(graph.Node)); ok {
				add(k.Node.Number, img)
			}
		}
		for j, n := range b.rule.creators {
			img := created[offset+j]
			if a.effect.merge != nil {
				img, _ = a.effect.merge.Get(img)
			}
			add(n.Number, img)
		}
		offset += len(b.rule.creators)
	}
	for nr := range result {
		slices.SortFunc(result[nr], graph.CompareNodes)
	}
	a.comatch = result
	return result, nil
}

// =============================================================================
// Morphism
// =============================================================================

// Morphism maps the surviving elements of a source graph to the target.
type Morphism struct {
	nodes map[graph.Node]graph.Node
	edges map[graph.Edge]graph.Edge
}

func newMorphism() *Morphism {
	return &Morphism{
		nodes: make(map[graph.Node]graph.Node),
		edges: make(map[graph.Edge]graph.Edge),
	}
}

// NodeImage returns the image of a source node.
func (m *Morphism) NodeImage(n graph.Node) (graph.Node, bool) {
	img, ok := m.nodes[n]
	return img, ok
}

// EdgeImage returns the image of a source edge.
func (m *Morphism) EdgeImage(e graph.Edge) (graph.Edge, bool) {
	img, ok := m.edges[e]
	return img, ok
}

// Nodes returns the source nodes that have an image, sorted.
func (m *Morphism) Nodes() []graph.Node {
	return slices.SortedFunc(maps.Keys(m.nodes), graph.CompareNodes)
}

// Edges returns the source edges that have an image, sorted.
func (m *Morphism) Edges() []graph.Edge {
	return slices.SortedFunc(maps.Keys(m.edges), graph.CompareEdges)
}
