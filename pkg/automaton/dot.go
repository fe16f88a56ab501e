package automaton

import (
	"bytes"
	"fmt"
)

// ToDOT renders the automaton in Graphviz DOT. The start node is drawn bold,
// the end node doubly circled.
func (a *RegAut) ToDOT() string {
	var buf bytes.Buffer
	buf.WriteString("digraph RegAut {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=circle, fontsize=12];\n")
	if a.acceptsEmpty {
		buf.WriteString("  label=\"accepts empty word\";\n")
	}
	buf.WriteString("\n")

	for _, n := range a.Nodes() {
		var attrs string
		switch n {
		case a.start:
			attrs = " [style=bold]"
		case a.end:
			attrs = " [shape=doublecircle]"
		}
		fmt.Fprintf(&buf, "  %d%s;\n", n, attrs)
	}
	buf.WriteString("\n")
	for _, t := range a.Transitions() {
		fmt.Fprintf(&buf, "  %d -> %d [label=%q];\n", t.Source, t.Target, t.Label.Key())
	}
	buf.WriteString("}\n")
	return buf.String()
}

// ToDOT renders the DFA in Graphviz DOT, labelling each state with its node
// set and each transition with its move.
func (d *DFA) ToDOT() string {
	var buf bytes.Buffer
	buf.WriteString("digraph DFA {\n")
	buf.WriteString("  rankdir=LR;\n")
	fmt.Fprintf(&buf, "  label=%q;\n", "direction: "+d.direction.String())
	buf.WriteString("  node [shape=circle, fontsize=12];\n\n")

	for _, s := range d.states {
		shape := "circle"
		if s.final {
			shape = "doublecircle"
		}
		style := ""
		if s == d.start {
			style = ", style=bold"
		}
		fmt.Fprintf(&buf, "  s%d [label=%q, shape=%s%s];\n", s.number, s.key, shape, style)
	}
	buf.WriteString("\n")
	for _, s := range d.states {
		for _, m := range s.Moves() {
			t := s.succ[m.key()]
			fmt.Fprintf(&buf, "  s%d -> s%d [label=%q];\n", s.number, t.number, m.String())
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}
