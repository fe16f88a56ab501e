package rule

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/errors"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/graph"
)

func checkGraph(t *testing.T, g graph.Graph, nodes []graph.Node, edges []graph.Edge) {
	t.Helper()
	if diff := cmp.Diff(nodes, g.Nodes(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("nodes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(edges, g.Edges(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
}

func TestApplicationEndToEnd(t *testing.T) {
	ctx := context.Background()
	f := graph.NewFactory()
	source := parseHost(t, f, "n0 -a-> n1;")
	m := newMoveRule(t)
	rec := NewRecord(f)

	app := NewApplication(m.proof(0, 1).Event(rec), source, rec)
	target, err := app.Target(ctx)
	if err != nil {
		t.Fatalf("Target() error = %v", err)
	}
	checkGraph(t, target, []graph.Node{hostNode(1), hostNode(2)}, []graph.Edge{hostEdge(2, "a", 1)})
	if !target.IsFixed() {
		t.Error("target not fixed")
	}

	morph, err := app.Morphism(ctx)
	if err != nil {
		t.Fatalf("Morphism() error = %v", err)
	}
	if diff := cmp.Diff([]graph.Node{hostNode(1)}, morph.Nodes()); diff != "" {
		t.Errorf("morphism nodes mismatch (-want +got):\n%s", diff)
	}
	if img, ok := morph.NodeImage(hostNode(1)); !ok || img != hostNode(1) {
		t.Errorf("NodeImage(n1) = %v, %v", img, ok)
	}
	if _, ok := morph.NodeImage(hostNode(0)); ok {
		t.Error("erased n0 has an image")
	}
	if len(morph.Edges()) != 0 {
		t.Errorf("morphism edges = %v, want none", morph.Edges())
	}

	comatch, err := app.Comatch(ctx)
	if err != nil {
		t.Fatalf("Comatch() error = %v", err)
	}
	want := Comatch{m.y.Number: {hostNode(1)}, m.z.Number: {hostNode(2)}}
	if diff := cmp.Diff(want, comatch); diff != "" {
		t.Errorf("comatch mismatch (-want +got):\n%s", diff)
	}
	if source.NodeCount() != 2 || !source.ContainsEdge(hostEdge(0, "a", 1)) {
		t.Error("source graph changed")
	}
}

// orderedTarget checks that no edge refers to a missing node at any point.
type orderedTarget struct {
	t *testing.T
	g graph.MutableGraph
}

func (o *orderedTarget) AddNode(n graph.Node) bool { return o.g.AddNode(n) }

func (o *orderedTarget) AddEdge(e graph.Edge) bool {
	if !o.g.ContainsNode(e.Source) || !o.g.ContainsNode(e.Target) {
		o.t.Errorf("AddEdge(%v) before its ends were added", e)
	}
	return o.g.AddEdge(e)
}

func (o *orderedTarget) RemoveNode(n graph.Node) bool {
	if es := o.g.EdgesOf(n); len(es) > 0 {
		o.t.Errorf("RemoveNode(%v) with edges %v still present", n, es)
	}
	return o.g.RemoveNode(n)
}

func (o *orderedTarget) RemoveEdge(e graph.Edge) bool { return o.g.RemoveEdge(e) }

func TestApplyDeltaOrder(t *testing.T) {
	ctx := context.Background()
	f := graph.NewFactory()
	source := parseHost(t, f, `
n0 -a-> n1;
n0 -b-> n0;
n3 -c-> n0;
`)
	m := newMoveRule(t)
	rec := NewRecord(f)
	app := NewApplication(m.proof(0, 1).Event(rec), source, rec)

	target := &orderedTarget{t: t, g: source.Clone()}
	if err := app.ApplyDelta(ctx, target); err != nil {
		t.Fatalf("ApplyDelta() error = %v", err)
	}
	checkGraph(t, target.g,
		[]graph.Node{hostNode(1), hostNode(3), hostNode(4)},
		[]graph.Edge{hostEdge(4, "a", 1)})
}

func TestApplicationMerge(t *testing.T) {
	ctx := context.Background()
	f := graph.NewFactory()
	source := parseHost(t, f, `
n0 -x-> n2;
n1 -y-> n2;
n0 -z-> n1;
`)
	r := New("fuse")
	a, b := r.AddNode(Reader, ""), r.AddNode(Reader, "")
	r.AddMerge(a, b)
	mustFix(t, r)

	hm := NewHostMap()
	hm.PutNode(a, hostNode(0))
	hm.PutNode(b, hostNode(1))
	rec := NewRecord(f)
	app := NewApplication((&Proof{Rule: r, Map: hm}).Event(rec), source, rec)

	target, err := app.Target(ctx)
	if err != nil {
		t.Fatalf("Target() error = %v", err)
	}
	checkGraph(t, target,
		[]graph.Node{hostNode(1), hostNode(2)},
		[]graph.Edge{hostEdge(1, "x", 2), hostEdge(1, "y", 2), hostEdge(1, "z", 1)})

	morph, _ := app.Morphism(ctx)
	if img, ok := morph.NodeImage(hostNode(0)); !ok || img != hostNode(1) {
		t.Errorf("NodeImage(n0) = %v, %v, want n1", img, ok)
	}
	if img, ok := morph.EdgeImage(hostEdge(0, "z", 1)); !ok || img != hostEdge(1, "z", 1) {
		t.Errorf("EdgeImage(n0 -z-> n1) = %v, %v", img, ok)
	}
	comatch, _ := app.Comatch(ctx)
	if diff := cmp.Diff(Comatch{a.Number: {hostNode(1)}, b.Number: {hostNode(1)}}, comatch); diff != "" {
		t.Errorf("comatch mismatch (-want +got):\n%s", diff)
	}
}

func TestApplicationDropsIsolatedValues(t *testing.T) {
	f := graph.NewFactory()
	source := parseHost(t, f, "n0 -name-> 'Bob';")
	bob := source.Edges()[0].Target

	r := New("forget")
	p := r.AddNode(Reader, "")
	v := r.AddValueNode(Reader, "Bob")
	e := r.AddEdge(Eraser, p, atom("name"), v)
	mustFix(t, r)

	hm := NewHostMap()
	hm.PutNode(p, hostNode(0))
	hm.PutNode(v, bob)
	hm.PutEdge(e, source.Edges()[0])
	rec := NewRecord(f)

	target, err := NewApplication((&Proof{Rule: r, Map: hm}).Event(rec), source, rec).Target(context.Background())
	if err != nil {
		t.Fatalf("Target() error = %v", err)
	}
	checkGraph(t, target, []graph.Node{hostNode(0)}, []graph.Edge{})
}

func paramRule(t *testing.T) (*Rule, *Node) {
	t.Helper()
	r := New("birthday")
	p := r.AddNode(Reader, "Person")
	age := r.AddParamNode("age")
	r.AddEdge(Creator, p, atom("age"), age)
	return mustFix(t, r), p
}

func TestApplicationOracle(t *testing.T) {
	f := graph.NewFactory()
	source := parseHost(t, f, "node n0 Person;")
	r, p := paramRule(t)
	hm := NewHostMap()
	hm.PutNode(p, hostNode(0))
	proof := &Proof{Rule: r, Map: hm}

	rec := NewRecord(f, WithOracle(MapOracle{"age": "42"}))
	target, err := NewApplication(proof.Event(rec), source, rec).Target(context.Background())
	if err != nil {
		t.Fatalf("Target() error = %v", err)
	}
	age := f.CreateValueNode("42")
	if !target.ContainsEdge(graph.Edge{Source: hostNode(0), Label: graph.ParseLabel("age"), Target: age}) {
		t.Errorf("target edges = %v, want n0 -age-> '42'", target.Edges())
	}
}

func TestApplicationOracleCancelled(t *testing.T) {
	f := graph.NewFactory()
	source := parseHost(t, f, "node n0 Person;")
	r, p := paramRule(t)
	hm := NewHostMap()
	hm.PutNode(p, hostNode(0))
	proof := &Proof{Rule: r, Map: hm}

	refuse := ValueOracleFunc(func(context.Context, graph.Graph, Event, *Node) (string, error) {
		return "", errors.New(errors.ErrCodeCancelled, "user closed the dialog")
	})
	tests := []struct {
		name   string
		oracle ValueOracle
		ctx    func() context.Context
	}{
		{"oracle refuses", refuse, context.Background},
		{"context cancelled", MapOracle{"age": "1"}, func() context.Context {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewRecord(f, WithOracle(tt.oracle))
			app := NewApplication(proof.Event(rec), source, rec)
			_, err := app.Target(tt.ctx())
			if !errors.Is(err, errors.ErrCodeCancelled) || !errors.IsCancelled(err) {
				t.Errorf("Target() error = %v, want CANCELLED", err)
			}
			if app.effect != nil {
				t.Error("cancelled application kept an effect")
			}
		})
	}
}

func TestApplicationMissingParameter(t *testing.T) {
	f := graph.NewFactory()
	source := parseHost(t, f, "node n0 Person;")
	r, p := paramRule(t)
	hm := NewHostMap()
	hm.PutNode(p, hostNode(0))
	rec := NewRecord(f, WithOracle(MapOracle{}))

	_, err := NewApplication((&Proof{Rule: r, Map: hm}).Event(rec), source, rec).Effect(context.Background())
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Effect() error = %v, want NOT_FOUND", err)
	}
}

func spawnRule(t *testing.T) *Rule {
	t.Helper()
	r := New("spawn")
	r.AddNode(Creator, "Cell")
	return mustFix(t, r)
}

func TestFreshNodeReuse(t *testing.T) {
	ctx := context.Background()
	f := graph.NewFactory()
	empty := parseHost(t, f, "")
	rec := NewRecord(f)
	ev := (&Proof{Rule: spawnRule(t), Map: NewHostMap()}).Event(rec)

	first, err := NewApplication(ev, empty, rec).Target(ctx)
	if err != nil {
		t.Fatalf("Target() error = %v", err)
	}
	checkGraph(t, first, []graph.Node{hostNode(0)}, []graph.Edge{hostEdge(0, "type:Cell", 0)})

	// the node is not in the source again, so it is reused
	again, _ := NewApplication(ev, empty, rec).Target(ctx)
	if !graph.Equal(first, again) || rec.MintedNodes() != 1 {
		t.Errorf("second application minted a node: %v, minted %d", again.Nodes(), rec.MintedNodes())
	}

	second, _ := NewApplication(ev, first, rec).Target(ctx)
	if diff := cmp.Diff([]graph.Node{hostNode(0), hostNode(1)}, second.Nodes()); diff != "" {
		t.Errorf("nodes mismatch (-want +got):\n%s", diff)
	}
	if rec.MintedNodes() != 2 {
		t.Errorf("MintedNodes() = %d, want 2", rec.MintedNodes())
	}
}

func TestApplicationPresetNodes(t *testing.T) {
	f := graph.NewFactory()
	empty := parseHost(t, f, "")
	rec := NewRecord(f)
	ev := (&Proof{Rule: spawnRule(t), Map: NewHostMap()}).Event(rec)

	eff, err := NewApplication(ev, empty, rec, hostNode(7)).Effect(context.Background())
	if err != nil {
		t.Fatalf("Effect() error = %v", err)
	}
	if diff := cmp.Diff([]graph.Node{hostNode(7)}, eff.AddedNodes()); diff != "" {
		t.Errorf("added nodes mismatch (-want +got):\n%s", diff)
	}
	if rec.MintedNodes() != 0 {
		t.Errorf("MintedNodes() = %d, want 0", rec.MintedNodes())
	}
}

func TestCompositeApplication(t *testing.T) {
	ctx := context.Background()
	f := graph.NewFactory()
	source := parseHost(t, f, `
n0 -child-> n1;
n0 -child-> n2;
`)
	r := New("mark")
	p := r.AddNode(Reader, "")
	sub := r.AddSub("each")
	c := sub.AddNode(Reader, "")
	sub.AddEdge(Reader, p, atom("child"), c)
	sub.AddEdge(Creator, c, atom("flag:marked"), c)
	mustFix(t, r)

	subProof := func(n int) *Proof {
		hm := NewHostMap()
		hm.PutNode(p, hostNode(0))
		hm.PutNode(c, hostNode(n))
		return &Proof{Rule: sub, Map: hm}
	}
	root := NewHostMap()
	root.PutNode(p, hostNode(0))
	proof := &Proof{Rule: r, Map: root, Sub: []*Proof{subProof(2), subProof(1)}}

	rec := NewRecord(f)
	ev := proof.Event(rec)
	if _, ok := ev.(*CompositeEvent); !ok {
		t.Fatalf("Event() = %T, want composite", ev)
	}
	reordered := &Proof{Rule: r, Map: root, Sub: []*Proof{subProof(1), subProof(2)}}
	if reordered.Event(rec) != ev {
		t.Error("equal composite events not interned to one instance")
	}

	app := NewApplication(ev, source, rec)
	target, err := app.Target(ctx)
	if err != nil {
		t.Fatalf("Target() error = %v", err)
	}
	for _, n := range []int{1, 2} {
		if !target.ContainsEdge(hostEdge(n, "flag:marked", n)) {
			t.Errorf("n%d not marked: %v", n, target.Edges())
		}
	}
	comatch, _ := app.Comatch(ctx)
	if diff := cmp.Diff([]graph.Node{hostNode(1), hostNode(2)}, comatch[c.Number]); diff != "" {
		t.Errorf("comatch of c mismatch (-want +got):\n%s", diff)
	}
}
