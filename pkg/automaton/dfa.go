package automaton

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/regex"
)

// Direction tells whether a DFA reads paths from their start or their end,
// and whether a transition follows a host edge along or against it.
type Direction int

const (
	// Outgoing follows edges from source to target.
	Outgoing Direction = iota
	// Incoming follows edges from target to source.
	Incoming
)

// Inverse returns the opposite direction.
func (d Direction) Inverse() Direction {
	if d == Outgoing {
		return Incoming
	}
	return Outgoing
}

func (d Direction) String() string {
	if d == Outgoing {
		return "out"
	}
	return "in"
}

// Move labels a DFA transition: an atomic expression and the direction in
// which the matching host edge is traversed.
type Move struct {
	Direction Direction
	Expr      regex.Expr
}

type moveKey struct {
	dir  Direction
	text string
}

func (m Move) key() moveKey { return moveKey{dir: m.Direction, text: m.Expr.String()} }

// String renders outgoing moves as the expression and incoming ones prefixed with '-'.
func (m Move) String() string {
	if m.Direction == Incoming {
		return "-" + m.Expr.String()
	}
	return m.Expr.String()
}

func compareMoveKeys(a, b moveKey) int {
	if c := cmp.Compare(a.dir, b.dir); c != 0 {
		return c
	}
	return strings.Compare(a.text, b.text)
}

// =============================================================================
// States
// =============================================================================

// State is a DFA state. It stands for a set of automaton nodes.
type State struct {
	number  int
	nodes   []int
	key     string
	initial bool
	final   bool
	moves   map[moveKey]Move
	succ    map[moveKey]*State
}

// Number returns the state number; numbers order states by creation.
func (s *State) Number() int { return s.number }

// Nodes returns the automaton nodes the state stands for.
func (s *State) Nodes() []int { return slices.Clone(s.nodes) }

// IsInitial reports whether s is the start state.
func (s *State) IsInitial() bool { return s.initial }

// IsFinal reports whether s accepts.
func (s *State) IsFinal() bool { return s.final }

// Successor returns the state reached by m, if any.
func (s *State) Successor(m Move) (*State, bool) {
	t, ok := s.succ[m.key()]
	return t, ok
}

// Moves returns the moves leaving s, outgoing before incoming, then by expression.
func (s *State) Moves() []Move {
	keys := slices.SortedFunc(maps.Keys(s.moves), compareMoveKeys)
	result := make([]Move, len(keys))
	for i, k := range keys {
		result[i] = s.moves[k]
	}
	return result
}

// AddSuccessor adds the transition s --m--> target. Adding a second
// transition for the same move panics.
func (s *State) AddSuccessor(m Move, target *State) {
	k := m.key()
	if _, ok := s.succ[k]; ok {
		panic(fmt.Sprintf("automaton: state %d already has a successor for %s", s.number, m))
	}
	s.moves[k] = m
	s.succ[k] = target
}

func (s *State) String() string {
	return fmt.Sprintf("s%d%v", s.number, s.nodes)
}

// =============================================================================
// DFA
// =============================================================================

// DFA is a deterministic automaton whose states are identified by node sets.
type DFA struct {
	direction Direction
	states    []*State
	byKey     map[string]*State
	start     *State
	cache     *recogniserCache
}

// NewDFA creates an empty DFA reading in the given direction.
func NewDFA(dir Direction) *DFA {
	return &DFA{direction: dir, byKey: make(map[string]*State)}
}

// Direction returns the reading direction.
func (d *DFA) Direction() Direction { return d.direction }

// Start returns the initial state, or nil for an empty DFA.
func (d *DFA) Start() *State { return d.start }

// States returns the states in number order.
func (d *DFA) States() []*State { return slices.Clone(d.states) }

// Size returns the number of states.
func (d *DFA) Size() int { return len(d.states) }

// State returns the state for a node set, if present.
func (d *DFA) State(nodes []int) (*State, bool) {
	s, ok := d.byKey[nodeSetKey(nodes)]
	return s, ok
}

// AddState adds a state for the given node set. The first state added with
// initial set becomes the start state. Adding a node set twice panics.
func (d *DFA) AddState(nodes []int, initial, final bool) *State {
	set := slices.Clone(nodes)
	slices.Sort(set)
	set = slices.Compact(set)
	return d.addState(nodeSetKey(set), set, initial, final)
}

func (d *DFA) addState(key string, nodes []int, initial, final bool) *State {
	if _, ok := d.byKey[key]; ok {
		panic(fmt.Sprintf("automaton: duplicate DFA state for node set %s", key))
	}
	s := &State{
		number:  len(d.states),
		nodes:   nodes,
		key:     key,
		initial: initial,
		final:   final,
		moves:   make(map[moveKey]Move),
		succ:    make(map[moveKey]*State),
	}
	d.states = append(d.states, s)
	d.byKey[key] = s
	if initial && d.start == nil {
		d.start = s
	}
	return s
}

func nodeSetKey(nodes []int) string {
	set := slices.Clone(nodes)
	slices.Sort(set)
	set = slices.Compact(set)
	parts := make([]string, len(set))
	for i, n := range set {
		parts[i] = strconv.Itoa(n)
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// =============================================================================
// Determinisation
// =============================================================================

// ToDFA determinises a. An Outgoing DFA reads paths from the start node; an
// Incoming DFA reads them backwards from the end node.
func (a *RegAut) ToDFA(dir Direction) *DFA {
	d := NewDFA(dir)
	from, to := a.start, a.end
	if dir == Incoming {
		from, to = a.end, a.start
	}

	initial := d.AddState([]int{from}, true, a.acceptsEmpty)
	for queue := []*State{initial}; len(queue) > 0; {
		s := queue[0]
		queue = queue[1:]

		targets := make(map[moveKey][]int)
		moves := make(map[moveKey]Move)
		for _, n := range s.nodes {
			for _, t := range a.steps(n, dir) {
				k := t.move.key()
				moves[k] = t.move
				targets[k] = append(targets[k], t.target)
			}
		}
		for _, k := range slices.SortedFunc(maps.Keys(targets), compareMoveKeys) {
			next, ok := d.State(targets[k])
			if !ok {
				next = d.AddState(targets[k], false, slices.Contains(targets[k], to))
				queue = append(queue, next)
			}
			s.AddSuccessor(moves[k], next)
		}
	}
	return d
}

type step struct {
	move   Move
	target int
}

// steps lists the moves from automaton node n when reading in direction dir.
func (a *RegAut) steps(n int, dir Direction) []step {
	var result []step
	if dir == Outgoing {
		for _, t := range a.From(n) {
			result = append(result, step{move: moveFor(t.Label, Outgoing), target: t.Target})
		}
	} else {
		for _, t := range a.Into(n) {
			result = append(result, step{move: moveFor(t.Label, Incoming), target: t.Source})
		}
	}
	return result
}

// moveFor converts an automaton label read in direction dir into a host move.
func moveFor(l Label, dir Direction) Move {
	if l.Inverse {
		dir = dir.Inverse()
	}
	return Move{Direction: dir, Expr: l.Expr}
}

// Build compiles e into a minimised DFA reading in direction dir.
func Build(e regex.Expr, dir Direction) (*DFA, error) {
	a, err := Compile(e)
	if err != nil {
		return nil, err
	}
	return a.ToDFA(dir).Minimise(), nil
}
