package regex

import (
	"fmt"
	"slices"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/errors"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/graph"
)

// Calculator computes a result of type R for every operator. Composite
// operators receive the results already computed for their operands.
type Calculator[R any] interface {
	Atom(e *Atom) (R, error)
	Sharp(e *Sharp) (R, error)
	Wildcard(e *Wildcard) (R, error)
	Empty(e *Empty) (R, error)
	Seq(e *Seq, operands []R) (R, error)
	Choice(e *Choice, operands []R) (R, error)
	Star(e *Star, operand R) (R, error)
	Plus(e *Plus, operand R) (R, error)
	Inv(e *Inv, operand R) (R, error)
	// Neg has to be handled; calculators without a negation semantics
	// return an [errors.ErrCodeUnsupported] error.
	Neg(e *Neg, operand R) (R, error)
}

// Calculate evaluates e bottom-up with c. The first error aborts evaluation.
func Calculate[R any](e Expr, c Calculator[R]) (R, error) {
	var zero R
	switch x := e.(type) {
	case *Atom:
		return c.Atom(x)
	case *Sharp:
		return c.Sharp(x)
	case *Wildcard:
		return c.Wildcard(x)
	case *Empty:
		return c.Empty(x)
	case *Seq:
		ops, err := calculateAll(x.operands, c)
		if err != nil {
			return zero, err
		}
		return c.Seq(x, ops)
	case *Choice:
		ops, err := calculateAll(x.operands, c)
		if err != nil {
			return zero, err
		}
		return c.Choice(x, ops)
	case *Star:
		op, err := Calculate(x.operand, c)
		if err != nil {
			return zero, err
		}
		return c.Star(x, op)
	case *Plus:
		op, err := Calculate(x.operand, c)
		if err != nil {
			return zero, err
		}
		return c.Plus(x, op)
	case *Inv:
		op, err := Calculate(x.operand, c)
		if err != nil {
			return zero, err
		}
		return c.Inv(x, op)
	case *Neg:
		op, err := Calculate(x.operand, c)
		if err != nil {
			return zero, err
		}
		return c.Neg(x, op)
	}
	panic(fmt.Sprintf("regex: unknown expression type %T", e))
}

func calculateAll[R any](operands []Expr, c Calculator[R]) ([]R, error) {
	results := make([]R, len(operands))
	for i, op := range operands {
		r, err := Calculate(op, c)
		if err != nil {
			return nil, err
		}
		results[i] = r
	}
	return results, nil
}

// ErrNegation is returned by calculators for the negation operator.
var ErrNegation = errors.Unsupported("negation of regular expressions")

// =============================================================================
// Labels
// =============================================================================

// labelCollector gathers the labels an expression mentions.
type labelCollector struct{}

func (labelCollector) Atom(e *Atom) ([]graph.Label, error)   { return []graph.Label{e.label}, nil }
func (labelCollector) Sharp(e *Sharp) ([]graph.Label, error) { return []graph.Label{e.typ}, nil }
func (labelCollector) Empty(*Empty) ([]graph.Label, error)   { return nil, nil }

func (labelCollector) Wildcard(e *Wildcard) ([]graph.Label, error) {
	var result []graph.Label
	for _, text := range e.constraint {
		result = append(result, graph.Label{Kind: e.kind, Text: text})
	}
	return result, nil
}

func (labelCollector) Seq(_ *Seq, ops [][]graph.Label) ([]graph.Label, error) {
	return slices.Concat(ops...), nil
}

func (labelCollector) Choice(_ *Choice, ops [][]graph.Label) ([]graph.Label, error) {
	return slices.Concat(ops...), nil
}

func (labelCollector) Star(_ *Star, op []graph.Label) ([]graph.Label, error) { return op, nil }
func (labelCollector) Plus(_ *Plus, op []graph.Label) ([]graph.Label, error) { return op, nil }
func (labelCollector) Inv(_ *Inv, op []graph.Label) ([]graph.Label, error)   { return op, nil }
func (labelCollector) Neg(_ *Neg, op []graph.Label) ([]graph.Label, error)   { return op, nil }

// Labels returns the distinct labels occurring in e, sorted.
func Labels(e Expr) []graph.Label {
	labels, _ := Calculate[[]graph.Label](e, labelCollector{})
	slices.SortFunc(labels, graph.CompareLabels)
	return slices.Compact(labels)
}

// Relabel returns e with every occurrence of from replaced by to. Unchanged
// sub-expressions are shared; if nothing changes, e itself is returned.
func Relabel(e Expr, from, to graph.Label) Expr {
	switch x := e.(type) {
	case *Atom:
		if x.label == from {
			return NewAtom(to)
		}
	case *Sharp:
		if x.typ == from && to.Kind == graph.NodeTypeLabel {
			return NewSharp(to)
		}
	case *Wildcard:
		if from.Kind == x.kind && to.Kind == x.kind && slices.Contains(x.constraint, from.Text) {
			constraint := slices.Clone(x.constraint)
			for i, text := range constraint {
				if text == from.Text {
					constraint[i] = to.Text
				}
			}
			return NewWildcard(x.kind, x.name, constraint, x.negated)
		}
	case *Seq:
		if ops, changed := relabelAll(x.operands, from, to); changed {
			return NewSeq(ops...)
		}
	case *Choice:
		if ops, changed := relabelAll(x.operands, from, to); changed {
			return NewChoice(ops...)
		}
	case *Star:
		if op := Relabel(x.operand, from, to); op != x.operand {
			return NewStar(op)
		}
	case *Plus:
		if op := Relabel(x.operand, from, to); op != x.operand {
			return NewPlus(op)
		}
	case *Inv:
		if op := Relabel(x.operand, from, to); op != x.operand {
			return NewInv(op)
		}
	case *Neg:
		if op := Relabel(x.operand, from, to); op != x.operand {
			return NewNeg(op)
		}
	}
	return e
}

func relabelAll(operands []Expr, from, to graph.Label) ([]Expr, bool) {
	result := make([]Expr, len(operands))
	changed := false
	for i, op := range operands {
		result[i] = Relabel(op, from, to)
		changed = changed || result[i] != op
	}
	return result, changed
}
