package regex

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/graph"
)

func TestAcceptsEmptyWord(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"a", false},
		{"#T", false},
		{"?", false},
		{"=", true},
		{"a*", true},
		{"a+", false},
		{"=+", false},
		{"a*.=", true},
		{"a*.b", false},
		{"a|=", true},
		{"a|b", false},
		{"-(a*)", true},
		{"-a", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := MustParse(tt.input).AcceptsEmptyWord(); got != tt.want {
				t.Errorf("AcceptsEmptyWord(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestEqualAndHash(t *testing.T) {
	a := MustParse("(a.b)|c")
	b := NewChoice(NewSeq(AtomText("a"), AtomText("b")), AtomText("c"))
	if !Equal(a, b) {
		t.Errorf("Equal(%q, %q) = false", a, b)
	}
	if a.Hash() != b.Hash() {
		t.Error("equal expressions hash differently")
	}
	if Equal(a, MustParse("a.(b|c)")) {
		t.Error("Equal() = true for different expressions")
	}
	if !Equal(nil, nil) || Equal(a, nil) {
		t.Error("Equal() mishandles nil")
	}
}

func TestWildcardMatches(t *testing.T) {
	tests := []struct {
		wildcard string
		label    string
		want     bool
	}{
		{"?", "a", true},
		{"?", "type:T", false},
		{"type:?", "type:T", true},
		{"?[a,b]", "a", true},
		{"?[a,b]", "c", false},
		{"?[^a,b]", "a", false},
		{"?[^a,b]", "c", true},
		{"flag:?[^x]", "flag:y", true},
		{"flag:?[^x]", "y", false},
	}
	for _, tt := range tests {
		w := MustParse(tt.wildcard).(*Wildcard)
		if got := w.Matches(graph.ParseLabel(tt.label)); got != tt.want {
			t.Errorf("%s.Matches(%s) = %v, want %v", tt.wildcard, tt.label, got, tt.want)
		}
	}
}

func TestLabels(t *testing.T) {
	e := MustParse("a.(b|type:T)*.#S.?[c,a].-a")
	want := []graph.Label{
		graph.ParseLabel("a"),
		graph.ParseLabel("b"),
		graph.ParseLabel("c"),
		graph.ParseLabel("type:S"),
		graph.ParseLabel("type:T"),
	}
	if diff := cmp.Diff(want, Labels(e)); diff != "" {
		t.Errorf("Labels() mismatch (-want +got):\n%s", diff)
	}
}

func TestRelabel(t *testing.T) {
	e := MustParse("(a.b)|c*")
	same := Relabel(e, graph.ParseLabel("z"), graph.ParseLabel("y"))
	if same != e {
		t.Error("Relabel without occurrence did not return e")
	}

	got := Relabel(e, graph.ParseLabel("c"), graph.ParseLabel("d"))
	if got.String() != "a.b|d*" {
		t.Errorf("Relabel() = %q, want %q", got, "a.b|d*")
	}
	if got.Operands()[0] != e.Operands()[0] {
		t.Error("unchanged operand not shared")
	}

	w := Relabel(MustParse("?[^a,b]"), graph.ParseLabel("a"), graph.ParseLabel("x"))
	if w.String() != "?[^x,b]" {
		t.Errorf("Relabel(wildcard) = %q", w)
	}
}

func TestConstructorArity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewSeq with one operand did not panic")
		}
	}()
	NewSeq(AtomText("a"))
}
