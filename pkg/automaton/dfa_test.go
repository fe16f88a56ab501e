package automaton

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/regex"
)

func toDFA(t *testing.T, text string, dir Direction) *DFA {
	t.Helper()
	return compile(t, text).ToDFA(dir)
}

// describe lists each state as "nodes[*]" with its moves, in state order.
func describe(d *DFA) []string {
	var result []string
	for _, s := range d.States() {
		var b strings.Builder
		b.WriteString(s.key)
		if s.IsFinal() {
			b.WriteString("*")
		}
		for _, m := range s.Moves() {
			succ, _ := s.Successor(m)
			b.WriteString(" " + m.String() + ">" + succ.key)
		}
		result = append(result, b.String())
	}
	return result
}

func TestToDFA(t *testing.T) {
	tests := []struct {
		expr string
		dir  Direction
		want []string
	}{
		{"a.a", Outgoing, []string{"{0} a>{1}", "{1} a>{3}", "{3}*"}},
		{"a.a", Incoming, []string{"{3} -a>{1}", "{1} -a>{0}", "{0}*"}},
		{"a|b", Outgoing, []string{"{0} a>{1} b>{1}", "{1}*"}},
		{"a*", Outgoing, []string{"{0}* a>{1,2}", "{1,2}* a>{1,2}"}},
		{"-a.b", Outgoing, []string{"{1} -a>{0}", "{0} b>{3}", "{3}*"}},
		{"-a.b", Incoming, []string{"{3} -b>{0}", "{0} a>{1}", "{1}*"}},
	}
	for _, tt := range tests {
		t.Run(tt.expr+"/"+tt.dir.String(), func(t *testing.T) {
			d := toDFA(t, tt.expr, tt.dir)
			if !d.Start().IsInitial() || d.Start().Number() != 0 {
				t.Errorf("Start() = %v", d.Start())
			}
			if diff := cmp.Diff(tt.want, describe(d)); diff != "" {
				t.Errorf("states mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMinimise(t *testing.T) {
	tests := []struct {
		expr string
		want int
	}{
		{"a", 2},
		{"a.a", 3},
		{"a*", 1},
		{"a+", 2},
		{"a.b|c.b", 3},
		{"(a|b).(a|b)*", 2},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			d := toDFA(t, tt.expr, Outgoing)
			before := describe(d)
			m := d.Minimise()
			if m.Size() != tt.want {
				t.Errorf("Minimise().Size() = %d, want %d\n%s", m.Size(), tt.want, strings.Join(describe(m), "\n"))
			}
			if diff := cmp.Diff(before, describe(d)); diff != "" {
				t.Errorf("Minimise() modified its receiver:\n%s", diff)
			}
			if m.Start() == nil || m.Start().IsFinal() != d.Start().IsFinal() {
				t.Errorf("minimised start = %v", m.Start())
			}
			if !m.IsEquivalent(d.Minimise()) {
				t.Error("two minimisations are not equivalent")
			}
			if !m.Minimise().IsEquivalent(m) {
				t.Error("minimising twice changed the DFA")
			}
		})
	}
}

func TestMinimiseMergesNodes(t *testing.T) {
	m := toDFA(t, "a.b|c.b", Outgoing).Minimise()
	var merged *State
	for _, s := range m.States() {
		if len(s.Nodes()) == 2 {
			merged = s
		}
	}
	if merged == nil {
		t.Fatalf("no merged state in %v", describe(m))
	}
	if diff := cmp.Diff([]int{1, 5}, merged.Nodes()); diff != "" {
		t.Errorf("merged nodes mismatch (-want +got):\n%s", diff)
	}
	if got, ok := m.State([]int{5, 1}); !ok || got != merged {
		t.Errorf("State({1,5}) = %v, %v; want the merged state", got, ok)
	}
}

func TestMinimiseKeyCollision(t *testing.T) {
	d := NewDFA(Outgoing)
	s0 := d.AddState([]int{0}, true, false)
	s1 := d.AddState([]int{1}, false, true)
	s2 := d.AddState([]int{2}, false, true)
	s12 := d.AddState([]int{1, 2}, false, false)
	s0.AddSuccessor(Move{Direction: Outgoing, Expr: regex.AtomText("a")}, s1)
	s0.AddSuccessor(Move{Direction: Outgoing, Expr: regex.AtomText("b")}, s2)
	s0.AddSuccessor(Move{Direction: Outgoing, Expr: regex.AtomText("c")}, s12)

	m := d.Minimise()
	if m.Size() != 3 {
		t.Fatalf("Minimise().Size() = %d, want 3\n%s", m.Size(), strings.Join(describe(m), "\n"))
	}
	// {1,2} keeps its own key; the merged {1} and {2} fall back to member keys
	got, ok := m.State([]int{1, 2})
	if !ok || got.IsFinal() {
		t.Errorf("State({1,2}) = %v, %v; want the non-final state", got, ok)
	}
	want := []string{"{0} a>{1}|{2} b>{1}|{2} c>{1,2}", "{1}|{2}*", "{1,2}"}
	if diff := cmp.Diff(want, describe(m)); diff != "" {
		t.Errorf("states mismatch (-want +got):\n%s", diff)
	}
}

func TestIsEquivalent(t *testing.T) {
	aa := toDFA(t, "a.a", Outgoing)
	if !aa.IsEquivalent(toDFA(t, "a.a", Outgoing)) {
		t.Error("a.a not equivalent to itself")
	}
	if aa.IsEquivalent(toDFA(t, "a.b", Outgoing)) {
		t.Error("a.a equivalent to a.b")
	}
	if aa.IsEquivalent(toDFA(t, "a.a", Incoming)) {
		t.Error("directions ignored")
	}
	star := toDFA(t, "a*", Outgoing)
	if star.IsEquivalent(star.Minimise()) {
		t.Error("a* with 2 states equivalent to 1 state")
	}
}

func TestAddStateDuplicate(t *testing.T) {
	d := NewDFA(Outgoing)
	s := d.AddState([]int{2, 1}, true, false)
	if d.Start() != s {
		t.Fatal("first initial state is not the start")
	}
	if got, ok := d.State([]int{1, 2}); !ok || got != s {
		t.Errorf("State({1,2}) = %v, %v", got, ok)
	}
	defer func() {
		if recover() == nil {
			t.Error("adding {1,2} twice did not panic")
		}
	}()
	d.AddState([]int{1, 2, 2}, false, true)
}

func TestAddSuccessorDuplicate(t *testing.T) {
	d := NewDFA(Outgoing)
	s := d.AddState([]int{0}, true, false)
	u := d.AddState([]int{1}, false, true)
	m := Move{Direction: Outgoing, Expr: regex.AtomText("a")}
	s.AddSuccessor(m, u)
	if got, ok := s.Successor(m); !ok || got != u {
		t.Fatalf("Successor() = %v, %v", got, ok)
	}
	defer func() {
		if recover() == nil {
			t.Error("second successor for the same move did not panic")
		}
	}()
	s.AddSuccessor(m, s)
}

func TestToDOT(t *testing.T) {
	d, err := Build(regex.MustParse("a.-b"), Outgoing)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	dot := d.ToDOT()
	for _, want := range []string{"digraph DFA", `label="-b"`, "doublecircle", "direction: out"} {
		if !strings.Contains(dot, want) {
			t.Errorf("DFA DOT missing %q:\n%s", want, dot)
		}
	}
	aut := compile(t, "a*").ToDOT()
	for _, want := range []string{"digraph RegAut", "2 -> 2", "accepts empty word"} {
		if !strings.Contains(aut, want) {
			t.Errorf("RegAut DOT missing %q:\n%s", want, aut)
		}
	}
}
