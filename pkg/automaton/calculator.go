package automaton

import (
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/regex"
)

// Calculator builds a [RegAut] for every operator. Node numbers are drawn
// from a counter owned by the calculator, so automata built by one
// calculator never share nodes by accident.
type Calculator struct {
	next int
}

// NewCalculator creates a calculator numbering nodes from 0.
func NewCalculator() *Calculator { return &Calculator{} }

// Compile builds the automaton for e with a fresh calculator.
func Compile(e regex.Expr) (*RegAut, error) {
	return regex.Calculate[*RegAut](e, NewCalculator())
}

func (c *Calculator) fresh() int {
	n := c.next
	c.next++
	return n
}

func (c *Calculator) single(e regex.Expr) *RegAut {
	a := newRegAut(c.fresh(), c.fresh())
	a.addTransition(a.start, Label{Expr: e}, a.end)
	return a
}

// Atom is a single transition.
func (c *Calculator) Atom(e *regex.Atom) (*RegAut, error) { return c.single(e), nil }

// Sharp is a single transition.
func (c *Calculator) Sharp(e *regex.Sharp) (*RegAut, error) { return c.single(e), nil }

// Wildcard is a single transition.
func (c *Calculator) Wildcard(e *regex.Wildcard) (*RegAut, error) { return c.single(e), nil }

// Empty has no transitions and accepts the empty word.
func (c *Calculator) Empty(*regex.Empty) (*RegAut, error) {
	a := newRegAut(c.fresh(), c.fresh())
	a.acceptsEmpty = true
	return a, nil
}

// Seq chains the operands by merging each end node with the next start node.
// Around an operand accepting the empty word, the transitions that reach its
// start (or leave its end) are copied so that it can be skipped.
func (c *Calculator) Seq(_ *regex.Seq, operands []*RegAut) (*RegAut, error) {
	result := operands[0]
	for _, next := range operands[1:] {
		intoEnd := result.Into(result.end)
		fromStart := next.From(next.start)
		result.absorb(next)
		mid := result.end
		result.merge(mid, next.start)
		if next.acceptsEmpty {
			for _, t := range intoEnd {
				result.addTransition(t.Source, t.Label, next.end)
			}
		}
		if result.acceptsEmpty {
			for _, t := range fromStart {
				result.addTransition(result.start, t.Label, t.Target)
			}
		}
		result.end = next.end
		result.acceptsEmpty = result.acceptsEmpty && next.acceptsEmpty
	}
	return result, nil
}

// Choice merges all start nodes and all end nodes.
func (c *Calculator) Choice(_ *regex.Choice, operands []*RegAut) (*RegAut, error) {
	result := operands[0]
	for _, op := range operands[1:] {
		result.absorb(op)
		result.merge(result.start, op.start)
		result.merge(result.end, op.end)
		result.acceptsEmpty = result.acceptsEmpty || op.acceptsEmpty
	}
	return result, nil
}

// Star is Plus, additionally accepting the empty word.
func (c *Calculator) Star(_ *regex.Star, operand *RegAut) (*RegAut, error) {
	result := c.loop(operand)
	result.acceptsEmpty = true
	return result, nil
}

// Plus adds a loop node that takes over the role of both end and start.
func (c *Calculator) Plus(_ *regex.Plus, operand *RegAut) (*RegAut, error) {
	return c.loop(operand), nil
}

// loop adds a node receiving copies of the transitions into the end node and
// sending copies of the transitions out of the start node. Start and end
// themselves keep their invariants.
func (c *Calculator) loop(a *RegAut) *RegAut {
	l := c.fresh()
	a.addNode(l)
	for _, t := range a.Into(a.end) {
		src := t.Source
		if src == a.start {
			a.addTransition(l, t.Label, l)
		}
		a.addTransition(src, t.Label, l)
	}
	for _, t := range a.From(a.start) {
		tgt := t.Target
		if tgt == a.end {
			a.addTransition(l, t.Label, l)
		}
		a.addTransition(l, t.Label, tgt)
	}
	return a
}

// Inv reverses every transition, inverts its label and swaps start and end.
func (c *Calculator) Inv(_ *regex.Inv, operand *RegAut) (*RegAut, error) {
	result := newRegAut(operand.end, operand.start)
	for n := range operand.nodes {
		result.addNode(n)
	}
	for _, t := range operand.transitions {
		result.addTransition(t.Target, t.Label.Invert(), t.Source)
	}
	result.acceptsEmpty = operand.acceptsEmpty
	return result, nil
}

// Neg is not supported.
func (c *Calculator) Neg(*regex.Neg, *RegAut) (*RegAut, error) {
	return nil, regex.ErrNegation
}
