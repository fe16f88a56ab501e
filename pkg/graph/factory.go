package graph

import "github.com/mjmehrabi/Groove-RL-sub013/pkg/errors"

// Factory creates canonical host elements. Object node numbers are handed out
// in increasing order and never reused by CreateNode; value nodes are
// canonical per literal.
//
// A Factory is normally owned by one exploration session and is not safe for
// concurrent use.
type Factory struct {
	next   int
	values map[string]Node
}

// NewFactory creates a factory that starts numbering at 0.
func NewFactory() *Factory {
	return &Factory{values: make(map[string]Node)}
}

// Observe makes the factory aware of all nodes in g, so fresh nodes never
// collide with them and value nodes of g stay canonical.
func (f *Factory) Observe(g Graph) {
	for _, n := range g.Nodes() {
		f.reserve(n.Number)
		if n.IsValue() {
			if _, ok := f.values[n.Value]; !ok {
				f.values[n.Value] = n
			}
		}
	}
}

// CreateNode returns a node with a number not handed out before.
func (f *Factory) CreateNode() Node {
	n := Node{Number: f.next}
	f.next++
	return n
}

// CreateNodeNr returns the object node with the given number and reserves it.
func (f *Factory) CreateNodeNr(nr int) Node {
	f.reserve(nr)
	return Node{Number: nr}
}

// CreateValueNode returns the canonical node for literal v.
func (f *Factory) CreateValueNode(v string) Node {
	if n, ok := f.values[v]; ok {
		return n
	}
	n := Node{Number: f.next, Kind: ValueNode, Value: v}
	f.next++
	f.values[v] = n
	return n
}

// CreateEdge returns the edge (s, l, t).
func (f *Factory) CreateEdge(s Node, l Label, t Node) Edge {
	return Edge{Source: s, Label: l, Target: t}
}

// CreateLabel parses text into a label.
func (f *Factory) CreateLabel(text string) Label {
	return ParseLabel(text)
}

// CreateCheckedLabel parses text into a label after validating it.
func (f *Factory) CreateCheckedLabel(text string) (Label, error) {
	if err := errors.ValidateLabelText(text); err != nil {
		return Label{}, err
	}
	return ParseLabel(text), nil
}

// NextNumber returns the number the next fresh node would receive.
func (f *Factory) NextNumber() int { return f.next }

func (f *Factory) reserve(nr int) {
	if nr >= f.next {
		f.next = nr + 1
	}
}
