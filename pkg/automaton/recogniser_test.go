package automaton

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/graph"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/regex"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/relation"
)

func parseGraph(t *testing.T, text string) *graph.HostGraph {
	t.Helper()
	g, err := graph.ParseText(text, nil)
	if err != nil {
		t.Fatalf("ParseText() error = %v", err)
	}
	g.SetFixed()
	return g
}

func node(n int) graph.Node { return graph.Node{Number: n} }

func nodePtr(n int) *graph.Node {
	x := node(n)
	return &x
}

func build(t *testing.T, text string, dir Direction) *DFA {
	t.Helper()
	d, err := Build(regex.MustParse(text), dir)
	if err != nil {
		t.Fatalf("Build(%s) error = %v", text, err)
	}
	return d
}

func TestRecogniserPath(t *testing.T) {
	g := parseGraph(t, `
node n1;
node n2;
node n3;
n1 -a-> n2;
n2 -a-> n3;
`)
	for _, dir := range []Direction{Outgoing, Incoming} {
		t.Run(dir.String(), func(t *testing.T) {
			r := build(t, "a.a", dir).Recogniser(g, nil)

			want := []Match{{From: node(1), To: node(3)}}
			if diff := cmp.Diff(want, r.Matches(nodePtr(1), nodePtr(3))); diff != "" {
				t.Errorf("Matches(n1, n3) mismatch (-want +got):\n%s", diff)
			}
			if got := r.Matches(nodePtr(1), nodePtr(2)); len(got) != 0 {
				t.Errorf("Matches(n1, n2) = %v, want none", got)
			}
			if diff := cmp.Diff(want, r.Matches(nil, nil)); diff != "" {
				t.Errorf("Matches(nil, nil) mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(want, r.Matches(nil, nodePtr(3))); diff != "" {
				t.Errorf("Matches(nil, n3) mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRecogniserUnknownNode(t *testing.T) {
	g := parseGraph(t, "node n0;")
	r := build(t, "=", Outgoing).Recogniser(g, nil)
	if got := r.Matches(nodePtr(7), nil); len(got) != 0 {
		t.Errorf("Matches(n7, nil) = %v, want none", got)
	}
	want := []Match{{From: node(0), To: node(0)}}
	if diff := cmp.Diff(want, r.Matches(nil, nil)); diff != "" {
		t.Errorf("Matches(nil, nil) mismatch (-want +got):\n%s", diff)
	}
}

func TestRecogniserCache(t *testing.T) {
	g := parseGraph(t, "n0 -a-> n1;")
	h := parseGraph(t, "n0 -b-> n1;")
	d := build(t, "a", Outgoing)

	r1 := d.Recogniser(g, nil)
	r1.Matches(nil, nil)
	if r2 := d.Recogniser(g, nil); r2.cache != r1.cache {
		t.Error("same graph did not reuse the cache")
	}
	if got := d.Recogniser(h, nil).Matches(nil, nil); len(got) != 0 {
		t.Errorf("Matches on second graph = %v, want none", got)
	}
	if d.cache.graph != graph.Graph(h) {
		t.Error("cache not replaced for new graph")
	}
	d.ResetRecogniser()
	if d.cache != nil {
		t.Error("ResetRecogniser() kept the cache")
	}
}

const relationGraph = `
node n0 Dog;
node n1 Animal;
node n2;
node n3;
node n4;
n0 -a-> n1;
n1 -a-> n2;
n2 -b-> n3;
n3 -a-> n1;
n4 -c-> n4;
n2 -c-> n0;
`

func TestRecogniserAgreesWithRelation(t *testing.T) {
	g := parseGraph(t, relationGraph)
	types := graph.NewTypeGraph()
	types.AddSubtype(graph.ParseLabel("type:Dog"), graph.ParseLabel("type:Animal"))

	exprs := []string{
		"a", "a.a", "a.b", "a|b", "a+", "a*", "a*.b", "(a.b)+", "-a", "-(a.b)",
		"a.-a", "=", "c*", "?", "?[^a]", "?x[a,c].b", "type:Animal", "#Animal",
		"type:Animal.a", "(a|b|c)*.#Dog", "-c.-a*", "(a.=)*|b", "a*.=.b*",
	}
	for _, text := range exprs {
		e := regex.MustParse(text)
		rel, err := relation.Evaluate(g, types, e)
		if err != nil {
			t.Fatalf("Evaluate(%s) error = %v", text, err)
		}
		want := rel.Pairs()

		aut, err := Compile(e)
		if err != nil {
			t.Fatalf("Compile(%s) error = %v", text, err)
		}
		for _, dir := range []Direction{Outgoing, Incoming} {
			plain := aut.ToDFA(dir)
			for name, d := range map[string]*DFA{"plain": plain, "minimised": plain.Minimise()} {
				t.Run(text+"/"+dir.String()+"/"+name, func(t *testing.T) {
					got := pairsOf(d.Recogniser(g, types).Matches(nil, nil))
					if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
						t.Errorf("mismatch with relation (-want +got):\n%s", diff)
					}
				})
			}
		}
	}
}

func TestRecogniserRepeatedQueries(t *testing.T) {
	g := parseGraph(t, relationGraph)
	r := build(t, "(a|b)*", Outgoing).Recogniser(g, nil)

	// query from the middle of the cycle first, then from its entry
	first := r.Matches(nodePtr(2), nil)
	all := r.Matches(nil, nil)
	again := r.Matches(nodePtr(2), nil)
	if diff := cmp.Diff(first, again); diff != "" {
		t.Errorf("repeated query differs (-first +again):\n%s", diff)
	}

	fresh := build(t, "(a|b)*", Outgoing).Recogniser(g, nil).Matches(nil, nil)
	if diff := cmp.Diff(fresh, all); diff != "" {
		t.Errorf("warm cache differs from cold (-cold +warm):\n%s", diff)
	}
}

func pairsOf(ms []Match) [][2]graph.Node {
	var result [][2]graph.Node
	for _, m := range ms {
		result = append(result, [2]graph.Node{m.From, m.To})
	}
	return result
}
