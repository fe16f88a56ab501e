package relation

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/errors"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/graph"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/regex"
)

func testGraph(t *testing.T) *graph.HostGraph {
	t.Helper()
	g, err := graph.ParseText(`
node n0 Dog;
node n1 Animal;
node n2;
node n3;
n0 -a-> n1;
n1 -a-> n2;
n2 -b-> n3;
`, nil)
	if err != nil {
		t.Fatalf("ParseText() error = %v", err)
	}
	return g
}

func TestEvaluate(t *testing.T) {
	g := testGraph(t)
	types := graph.NewTypeGraph()
	types.AddSubtype(graph.ParseLabel("type:Dog"), graph.ParseLabel("type:Animal"))

	tests := []struct {
		expr string
		want [][2]graph.Node
	}{
		{"a", pairs([2]int{0, 1}, [2]int{1, 2})},
		{"a.a", pairs([2]int{0, 2})},
		{"a.b", pairs([2]int{1, 3})},
		{"a|b", pairs([2]int{0, 1}, [2]int{1, 2}, [2]int{2, 3})},
		{"a+", pairs([2]int{0, 1}, [2]int{0, 2}, [2]int{1, 2})},
		{"a*.b", pairs([2]int{0, 3}, [2]int{1, 3}, [2]int{2, 3})},
		{"-a", pairs([2]int{1, 0}, [2]int{2, 1})},
		{"=", pairs([2]int{0, 0}, [2]int{1, 1}, [2]int{2, 2}, [2]int{3, 3})},
		{"?[^a]", pairs([2]int{2, 3})},
		{"type:Animal", pairs([2]int{0, 0}, [2]int{1, 1})},
		{"#Animal", pairs([2]int{1, 1})},
		{"type:Animal.a", pairs([2]int{0, 1}, [2]int{1, 2})},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			r, err := Evaluate(g, types, regex.MustParse(tt.expr))
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, r.Pairs()); diff != "" {
				t.Errorf("Evaluate(%s) mismatch (-want +got):\n%s", tt.expr, diff)
			}
		})
	}
}

func TestEvaluateNegation(t *testing.T) {
	_, err := Evaluate(testGraph(t), nil, regex.MustParse("!a"))
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Evaluate(!a) error = %v, want UNSUPPORTED", err)
	}
}

func TestEvaluateSupport(t *testing.T) {
	r, err := Evaluate(testGraph(t), nil, regex.MustParse("a.a"))
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	e, ok := r.Entry(n(0), n(2))
	if !ok {
		t.Fatal("missing (n0,n2)")
	}
	want := []graph.Element{edge(0, "a", 1), edge(1, "a", 2)}
	if diff := cmp.Diff(want, e.Support()); diff != "" {
		t.Errorf("support mismatch (-want +got):\n%s", diff)
	}
}
