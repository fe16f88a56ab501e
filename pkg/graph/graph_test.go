package graph

import (
	"slices"
	"testing"
)

func TestParseLabel(t *testing.T) {
	tests := []struct {
		text string
		want Label
	}{
		{"likes", Label{Kind: BinaryLabel, Text: "likes"}},
		{"type:Person", Label{Kind: NodeTypeLabel, Text: "Person"}},
		{"flag:root", Label{Kind: FlagLabel, Text: "root"}},
		{"typed", Label{Kind: BinaryLabel, Text: "typed"}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := ParseLabel(tt.text)
			if got != tt.want {
				t.Errorf("ParseLabel(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
			if got.String() != tt.text {
				t.Errorf("String() = %q, want %q", got.String(), tt.text)
			}
		})
	}
}

func TestHostGraph(t *testing.T) {
	g := NewHostGraph()
	a, b, c := Node{Number: 0}, Node{Number: 1}, Node{Number: 2}
	ab := Edge{Source: a, Label: ParseLabel("x"), Target: b}
	bc := Edge{Source: b, Label: ParseLabel("y"), Target: c}
	loop := Edge{Source: b, Label: ParseLabel("type:T"), Target: b}

	if !g.AddEdge(ab) || !g.AddEdge(bc) || !g.AddEdge(loop) {
		t.Fatal("AddEdge() = false for new edge")
	}
	if g.AddEdge(ab) {
		t.Error("AddEdge() = true for existing edge")
	}
	if g.NodeCount() != 3 || g.EdgeCount() != 3 {
		t.Fatalf("counts = %d/%d, want 3/3", g.NodeCount(), g.EdgeCount())
	}
	if got := g.EdgesOf(b); len(got) != 3 {
		t.Errorf("EdgesOf(b) = %v, want 3 edges", got)
	}
	if got := g.OutEdges(b); !slices.Equal(got, []Edge{loop, bc}) && !slices.Equal(got, []Edge{bc, loop}) {
		t.Errorf("OutEdges(b) = %v", got)
	}
	if got := g.InEdges(b); len(got) != 2 {
		t.Errorf("InEdges(b) = %v, want 2 edges", got)
	}
	if got := NodeTypes(g, b); len(got) != 1 || got[0].Text != "T" {
		t.Errorf("NodeTypes(b) = %v", got)
	}

	if !g.RemoveNode(b) {
		t.Fatal("RemoveNode(b) = false")
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d after removing b, want 0", g.EdgeCount())
	}
	if g.ContainsNode(b) || !g.ContainsNode(a) || !g.ContainsNode(c) {
		t.Error("unexpected node set after RemoveNode")
	}
}

func TestHostGraphClone(t *testing.T) {
	g := NewHostGraph()
	e := Edge{Source: Node{Number: 0}, Label: ParseLabel("x"), Target: Node{Number: 1}}
	g.AddEdge(e)
	g.SetFixed()

	c := g.Clone()
	if c.IsFixed() {
		t.Error("Clone() is fixed")
	}
	c.RemoveEdge(e)
	if !g.ContainsEdge(e) {
		t.Error("mutating clone changed original")
	}
	if !Equal(g, g.Clone()) {
		t.Error("Equal(g, g.Clone()) = false")
	}
}

func TestFixedGraphPanics(t *testing.T) {
	g := NewHostGraph()
	g.SetFixed()
	defer func() {
		if recover() == nil {
			t.Error("AddNode on fixed graph did not panic")
		}
	}()
	g.AddNode(Node{Number: 1})
}

func TestCompare(t *testing.T) {
	n0, n1 := Node{Number: 0}, Node{Number: 1}
	e := Edge{Source: n0, Label: ParseLabel("a"), Target: n1}
	f := Edge{Source: n0, Label: ParseLabel("b"), Target: n0}

	elems := []Element{f, n1, e, n0}
	slices.SortFunc(elems, Compare)
	want := []Element{n0, n1, e, f}
	for i := range want {
		if elems[i] != want[i] {
			t.Fatalf("sorted = %v, want %v", elems, want)
		}
	}
}

func TestFactory(t *testing.T) {
	f := NewFactory()
	a := f.CreateNode()
	b := f.CreateNodeNr(10)
	c := f.CreateNode()
	if a.Number != 0 || b.Number != 10 || c.Number != 11 {
		t.Errorf("numbers = %d, %d, %d, want 0, 10, 11", a.Number, b.Number, c.Number)
	}

	v1 := f.CreateValueNode("x")
	v2 := f.CreateValueNode("x")
	if v1 != v2 || !v1.IsValue() {
		t.Errorf("value nodes not canonical: %v, %v", v1, v2)
	}

	g := NewHostGraph()
	g.AddNode(Node{Number: 42})
	f.Observe(g)
	if n := f.CreateNode(); n.Number != 43 {
		t.Errorf("CreateNode() after Observe = %d, want 43", n.Number)
	}

	if _, err := f.CreateCheckedLabel("a b"); err == nil {
		t.Error("CreateCheckedLabel(\"a b\") error = nil")
	}
}

func TestTypeHierarchy(t *testing.T) {
	tg := NewTypeGraph()
	animal := ParseLabel("type:Animal")
	dog := ParseLabel("type:Dog")
	puppy := ParseLabel("type:Puppy")
	cat := ParseLabel("type:Cat")

	tg.AddSubtype(puppy, dog)
	tg.AddSubtype(dog, animal)
	tg.AddSubtype(cat, animal)

	tests := []struct {
		sub, super Label
		want       bool
	}{
		{dog, dog, true},
		{dog, animal, true},
		{puppy, animal, true},
		{animal, dog, false},
		{cat, dog, false},
	}
	for _, tt := range tests {
		if got := tg.IsSubtype(tt.sub, tt.super); got != tt.want {
			t.Errorf("IsSubtype(%v, %v) = %v, want %v", tt.sub, tt.super, got, tt.want)
		}
	}
	if got := tg.Subtypes(dog); !slices.Equal(got, []Label{dog, puppy}) {
		t.Errorf("Subtypes(Dog) = %v", got)
	}
	if IsSubtype(nil, dog, animal) {
		t.Error("IsSubtype(nil, Dog, Animal) = true")
	}
}
