package graph

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// Labels
// =============================================================================

// LabelKind distinguishes binary edge labels from node-type and flag labels.
type LabelKind int

const (
	// BinaryLabel labels an ordinary edge between two nodes.
	BinaryLabel LabelKind = iota
	// NodeTypeLabel labels a self-loop that declares the type of its node.
	NodeTypeLabel
	// FlagLabel labels a self-loop that marks its node with a flag.
	FlagLabel
)

const (
	typePrefix = "type:"
	flagPrefix = "flag:"
)

// Prefix returns the textual prefix of the kind ("type:", "flag:" or "").
func (k LabelKind) Prefix() string {
	switch k {
	case NodeTypeLabel:
		return typePrefix
	case FlagLabel:
		return flagPrefix
	default:
		return ""
	}
}

// String returns a readable name for the kind.
func (k LabelKind) String() string {
	switch k {
	case NodeTypeLabel:
		return "type"
	case FlagLabel:
		return "flag"
	default:
		return "binary"
	}
}

// Label is an edge label. The zero value is the empty binary label.
type Label struct {
	Kind LabelKind
	Text string
}

// ParseLabel splits a kind prefix off text. Text without a recognised prefix
// yields a binary label.
func ParseLabel(text string) Label {
	switch {
	case strings.HasPrefix(text, typePrefix):
		return Label{Kind: NodeTypeLabel, Text: text[len(typePrefix):]}
	case strings.HasPrefix(text, flagPrefix):
		return Label{Kind: FlagLabel, Text: text[len(flagPrefix):]}
	default:
		return Label{Kind: BinaryLabel, Text: text}
	}
}

// String returns the prefixed label text; ParseLabel(l.String()) == l.
func (l Label) String() string { return l.Kind.Prefix() + l.Text }

// IsBinary reports whether l labels an ordinary edge.
func (l Label) IsBinary() bool { return l.Kind == BinaryLabel }

// IsNodeType reports whether l is a node-type label.
func (l Label) IsNodeType() bool { return l.Kind == NodeTypeLabel }

// CompareLabels orders labels by kind, then text.
func CompareLabels(a, b Label) int {
	if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
		return c
	}
	return strings.Compare(a.Text, b.Text)
}

// =============================================================================
// Elements
// =============================================================================

// Element is either a [Node] or an [Edge].
type Element interface {
	fmt.Stringer
	isElement()
}

// NodeKind distinguishes object nodes from data value nodes.
type NodeKind int

const (
	// ObjectNode is an ordinary node identified by its number.
	ObjectNode NodeKind = iota
	// ValueNode carries a data literal in [Node.Value].
	ValueNode
)

// Node is a host-graph node. Nodes are values; two nodes are the same node
// iff all fields are equal.
type Node struct {
	Number int
	Kind   NodeKind
	Value  string // literal, only for ValueNode
}

func (Node) isElement() {}

// IsValue reports whether n is a data value node.
func (n Node) IsValue() bool { return n.Kind == ValueNode }

// String renders object nodes as "n<number>" and value nodes as their quoted literal.
func (n Node) String() string {
	if n.IsValue() {
		return quoteValue(n.Value)
	}
	return "n" + strconv.Itoa(n.Number)
}

// Edge is a labelled directed edge. Value-equal edges are the same edge.
type Edge struct {
	Source Node
	Label  Label
	Target Node
}

func (Edge) isElement() {}

// String renders the edge as "source -label-> target".
func (e Edge) String() string {
	return fmt.Sprintf("%s -%s-> %s", e.Source, e.Label, e.Target)
}

// IsLoop reports whether source and target coincide.
func (e Edge) IsLoop() bool { return e.Source == e.Target }

// Opposite returns the endpoint of e that is not n (or n for loops).
func (e Edge) Opposite(n Node) Node {
	if e.Source == n {
		return e.Target
	}
	return e.Source
}

// CompareNodes orders nodes by number, then kind, then value.
func CompareNodes(a, b Node) int {
	if c := cmp.Compare(a.Number, b.Number); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
		return c
	}
	return strings.Compare(a.Value, b.Value)
}

// CompareEdges orders edges by source, label, then target.
func CompareEdges(a, b Edge) int {
	if c := CompareNodes(a.Source, b.Source); c != 0 {
		return c
	}
	if c := CompareLabels(a.Label, b.Label); c != 0 {
		return c
	}
	return CompareNodes(a.Target, b.Target)
}

// Compare is a total order on elements: nodes sort before edges.
func Compare(a, b Element) int {
	switch x := a.(type) {
	case Node:
		if y, ok := b.(Node); ok {
			return CompareNodes(x, y)
		}
		return -1
	case Edge:
		if y, ok := b.(Edge); ok {
			return CompareEdges(x, y)
		}
		return 1
	}
	panic(fmt.Sprintf("graph: unknown element type %T", a))
}

func quoteValue(v string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range v {
		if r == '\'' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('\'')
	return b.String()
}

func unquoteValue(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		s = s[1 : len(s)-1]
	}
	var b strings.Builder
	escaped := false
	for _, r := range s {
		if !escaped && r == '\\' {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}
