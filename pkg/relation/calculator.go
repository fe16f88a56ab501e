package relation

import (
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/graph"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/regex"
)

// Calculator evaluates expressions to relations over one graph. The type
// graph, if non-nil, widens node-type atoms to their subtypes.
type Calculator struct {
	graph graph.Graph
	types graph.TypeGraph
}

// NewCalculator creates a calculator for g.
func NewCalculator(g graph.Graph, types graph.TypeGraph) *Calculator {
	return &Calculator{graph: g, types: types}
}

// Evaluate computes the relation denoted by e over g.
func Evaluate(g graph.Graph, types graph.TypeGraph, e regex.Expr) (*Relation, error) {
	return regex.Calculate[*Relation](e, NewCalculator(g, types))
}

func (c *Calculator) edgesWhere(match func(graph.Label) bool) *Relation {
	r := New()
	for _, e := range c.graph.Edges() {
		if match(e.Label) {
			r.AddRelated(e)
		}
	}
	return r
}

// Atom relates the endpoints of edges labelled with the atom, or with a
// subtype for node-type atoms.
func (c *Calculator) Atom(e *regex.Atom) (*Relation, error) {
	want := e.Label()
	if want.IsNodeType() {
		return c.edgesWhere(func(l graph.Label) bool {
			return l.IsNodeType() && graph.IsSubtype(c.types, l, want)
		}), nil
	}
	return c.edgesWhere(func(l graph.Label) bool { return l == want }), nil
}

// Sharp relates each node of exactly the given type to itself.
func (c *Calculator) Sharp(e *regex.Sharp) (*Relation, error) {
	want := e.Type()
	return c.edgesWhere(func(l graph.Label) bool { return l == want }), nil
}

// Wildcard relates the endpoints of edges whose label passes the guard.
func (c *Calculator) Wildcard(e *regex.Wildcard) (*Relation, error) {
	return c.edgesWhere(e.Matches), nil
}

// Empty is the identity on the nodes of the graph.
func (c *Calculator) Empty(*regex.Empty) (*Relation, error) {
	r := New()
	for _, n := range c.graph.Nodes() {
		r.AddSelfRelated(n)
	}
	return r, nil
}

// Seq composes the operand relations left to right.
func (c *Calculator) Seq(_ *regex.Seq, operands []*Relation) (*Relation, error) {
	result := operands[0].Clone()
	for _, op := range operands[1:] {
		result.DoThen(op)
	}
	return result, nil
}

// Choice unites the operand relations.
func (c *Calculator) Choice(_ *regex.Choice, operands []*Relation) (*Relation, error) {
	result := operands[0].Clone()
	for _, op := range operands[1:] {
		result.DoOr(op)
	}
	return result, nil
}

// Star is the reflexive transitive closure.
func (c *Calculator) Star(_ *regex.Star, operand *Relation) (*Relation, error) {
	result := operand.Clone()
	result.DoTransitiveClosure()
	identity, _ := c.Empty(nil)
	result.DoOr(identity)
	return result, nil
}

// Plus is the transitive closure.
func (c *Calculator) Plus(_ *regex.Plus, operand *Relation) (*Relation, error) {
	result := operand.Clone()
	result.DoTransitiveClosure()
	return result, nil
}

// Inv is the converse.
func (c *Calculator) Inv(_ *regex.Inv, operand *Relation) (*Relation, error) {
	result := operand.Clone()
	result.DoInverse()
	return result, nil
}

// Neg is not supported.
func (c *Calculator) Neg(*regex.Neg, *Relation) (*Relation, error) {
	return nil, regex.ErrNegation
}
