package automaton

import (
	"cmp"
	"maps"
	"slices"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/regex"
)

// Label is an atomic expression labelling an automaton edge. Inverse labels
// match host edges traversed against their direction.
type Label struct {
	Expr    regex.Expr
	Inverse bool
}

// Key returns the canonical text of the label ("a" or "-a").
func (l Label) Key() string {
	if l.Inverse {
		return "-" + l.Expr.String()
	}
	return l.Expr.String()
}

// String returns Key.
func (l Label) String() string { return l.Key() }

// Direction returns Incoming for inverse labels and Outgoing otherwise.
func (l Label) Direction() Direction {
	if l.Inverse {
		return Incoming
	}
	return Outgoing
}

// Invert flips the traversal direction.
func (l Label) Invert() Label { return Label{Expr: l.Expr, Inverse: !l.Inverse} }

// Transition is a labelled automaton edge.
type Transition struct {
	Source int
	Label  Label
	Target int
}

type transitionKey struct {
	source int
	label  string
	target int
}

func (t Transition) key() transitionKey {
	return transitionKey{source: t.Source, label: t.Label.Key(), target: t.Target}
}

func compareTransitions(a, b Transition) int {
	if c := cmp.Compare(a.Source, b.Source); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Label.Key(), b.Label.Key()); c != 0 {
		return c
	}
	return cmp.Compare(a.Target, b.Target)
}

// RegAut is a nondeterministic automaton with one start and one end node.
// The start node has no incoming and the end node no outgoing transitions.
type RegAut struct {
	nodes        map[int]struct{}
	transitions  map[transitionKey]Transition
	start, end   int
	acceptsEmpty bool
}

func newRegAut(start, end int) *RegAut {
	return &RegAut{
		nodes:       map[int]struct{}{start: {}, end: {}},
		transitions: make(map[transitionKey]Transition),
		start:       start,
		end:         end,
	}
}

// Start returns the start node.
func (a *RegAut) Start() int { return a.start }

// End returns the end node.
func (a *RegAut) End() int { return a.end }

// AcceptsEmptyWord reports whether the empty path is accepted.
func (a *RegAut) AcceptsEmptyWord() bool { return a.acceptsEmpty }

// Nodes returns the node numbers in increasing order.
func (a *RegAut) Nodes() []int { return slices.Sorted(maps.Keys(a.nodes)) }

// Transitions returns all transitions sorted by source, label, target.
func (a *RegAut) Transitions() []Transition {
	return slices.SortedFunc(maps.Values(a.transitions), compareTransitions)
}

// From returns the transitions leaving n.
func (a *RegAut) From(n int) []Transition {
	var result []Transition
	for _, t := range a.transitions {
		if t.Source == n {
			result = append(result, t)
		}
	}
	slices.SortFunc(result, compareTransitions)
	return result
}

// Into returns the transitions entering n.
func (a *RegAut) Into(n int) []Transition {
	var result []Transition
	for _, t := range a.transitions {
		if t.Target == n {
			result = append(result, t)
		}
	}
	slices.SortFunc(result, compareTransitions)
	return result
}

func (a *RegAut) addNode(n int) { a.nodes[n] = struct{}{} }

func (a *RegAut) addTransition(source int, l Label, target int) {
	t := Transition{Source: source, Label: l, Target: target}
	a.addNode(source)
	a.addNode(target)
	a.transitions[t.key()] = t
}

// absorb copies all nodes and transitions of other into a.
func (a *RegAut) absorb(other *RegAut) {
	for n := range other.nodes {
		a.addNode(n)
	}
	for k, t := range other.transitions {
		a.transitions[k] = t
	}
}

// merge redirects every transition at drop to keep and removes drop.
func (a *RegAut) merge(keep, drop int) {
	if keep == drop {
		return
	}
	for k, t := range a.transitions {
		if t.Source != drop && t.Target != drop {
			continue
		}
		delete(a.transitions, k)
		if t.Source == drop {
			t.Source = keep
		}
		if t.Target == drop {
			t.Target = keep
		}
		a.transitions[t.key()] = t
	}
	delete(a.nodes, drop)
	a.addNode(keep)
}
