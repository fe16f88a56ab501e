package automaton

import (
	"maps"
	"slices"
	"strings"
)

type statePair struct{ i, j int }

func orderedPair(a, b int) statePair {
	if a > b {
		a, b = b, a
	}
	return statePair{a, b}
}

// Minimise returns the minimal DFA equivalent to d. The receiver is not
// modified.
//
// Every pair of distinct states is examined once, in increasing number
// order. A pair is distinct if the states differ in finality or in their
// move sets, or if a common move leads to a pair already known to be
// distinct. Otherwise the pair is registered as a dependent of each of its
// successor pairs; when a pair is later found distinct, its dependents are
// removed with it, and distinctness propagates transitively through their
// own dependents within the same pass. The pairs left over are equivalent.
func (d *DFA) Minimise() *DFA {
	deps := d.equivalentPairs()

	// union-find over equivalent pairs
	parent := make([]int, len(d.states))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	for p := range deps {
		ri, rj := find(p.i), find(p.j)
		if ri < rj {
			parent[rj] = ri
		} else if rj < ri {
			parent[ri] = rj
		}
	}

	// cells in order of their smallest member
	cells := make(map[int][]*State)
	var roots []int
	for _, s := range d.states {
		r := find(s.number)
		if _, ok := cells[r]; !ok {
			roots = append(roots, r)
		}
		cells[r] = append(cells[r], s)
	}

	// singleton cells keep their keys; merged cells must not take them
	taken := make(map[string]bool, len(roots))
	for _, r := range roots {
		if len(cells[r]) == 1 {
			taken[cells[r][0].key] = true
		}
	}

	result := NewDFA(d.direction)
	rep := make(map[int]*State, len(roots))
	for _, r := range roots {
		members := cells[r]
		var nodes []int
		keys := make([]string, len(members))
		initial := false
		for i, m := range members {
			nodes = append(nodes, m.nodes...)
			keys[i] = m.key
			initial = initial || m.initial
		}
		slices.Sort(nodes)
		nodes = slices.Compact(nodes)
		key := nodeSetKey(nodes)
		if len(members) > 1 {
			if taken[key] {
				key = strings.Join(keys, "|")
			}
			taken[key] = true
		}
		rep[r] = result.addState(key, nodes, initial, members[0].final)
	}
	for _, r := range roots {
		s := cells[r][0]
		for _, k := range slices.SortedFunc(maps.Keys(s.succ), compareMoveKeys) {
			rep[r].AddSuccessor(s.moves[k], rep[find(s.succ[k].number)])
		}
	}
	if d.start != nil {
		result.start = rep[find(d.start.number)]
	}
	return result
}

// equivalentPairs runs the pair table and returns the surviving pairs,
// mapped to their dependents.
func (d *DFA) equivalentPairs() map[statePair]map[statePair]struct{} {
	n := len(d.states)
	deps := make(map[statePair]map[statePair]struct{}, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			p := statePair{i, j}
			deps[p] = map[statePair]struct{}{p: {}}
		}
	}

	var distinguish func(p statePair)
	distinguish = func(p statePair) {
		dependents, ok := deps[p]
		if !ok {
			return
		}
		delete(deps, p)
		for q := range dependents {
			if q != p {
				distinguish(q)
			}
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			p := statePair{i, j}
			if _, ok := deps[p]; !ok {
				continue
			}
			succ, distinct := d.successorPairs(d.states[i], d.states[j], deps)
			if distinct {
				distinguish(p)
				continue
			}
			for _, q := range succ {
				deps[q][p] = struct{}{}
			}
		}
	}
	return deps
}

// successorPairs returns the pairs of distinct successors of s and t, or
// distinct=true if s and t can already be told apart.
func (d *DFA) successorPairs(s, t *State, deps map[statePair]map[statePair]struct{}) (succ []statePair, distinct bool) {
	if s.final != t.final || len(s.succ) != len(t.succ) {
		return nil, true
	}
	for _, k := range slices.SortedFunc(maps.Keys(s.succ), compareMoveKeys) {
		ts, ok := t.succ[k]
		if !ok {
			return nil, true
		}
		ss := s.succ[k]
		if ss == ts {
			continue
		}
		q := orderedPair(ss.number, ts.number)
		if _, ok := deps[q]; !ok {
			return nil, true
		}
		succ = append(succ, q)
	}
	return succ, false
}

// =============================================================================
// Equivalence
// =============================================================================

// IsEquivalent reports whether d and other are isomorphic: their start
// states correspond, and corresponding states agree on finality and on
// their moves, leading again to corresponding states.
func (d *DFA) IsEquivalent(other *DFA) bool {
	if d.direction != other.direction || len(d.states) != len(other.states) {
		return false
	}
	if d.start == nil || other.start == nil {
		return d.start == other.start
	}
	forward := map[*State]*State{d.start: other.start}
	backward := map[*State]*State{other.start: d.start}
	for queue := []*State{d.start}; len(queue) > 0; {
		s := queue[0]
		queue = queue[1:]
		t := forward[s]
		if s.final != t.final || len(s.succ) != len(t.succ) {
			return false
		}
		for k, ss := range s.succ {
			ts, ok := t.succ[k]
			if !ok {
				return false
			}
			image, mapped := forward[ss]
			preimage, back := backward[ts]
			switch {
			case !mapped && !back:
				forward[ss] = ts
				backward[ts] = ss
				queue = append(queue, ss)
			case image != ts || preimage != ss:
				return false
			}
		}
	}
	return true
}
