package automaton

import (
	"cmp"
	"maps"
	"slices"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/graph"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/regex"
)

// Match is a pair of host nodes connected by an accepted path.
type Match struct {
	From graph.Node
	To   graph.Node
}

func (m Match) String() string { return "(" + m.From.String() + "," + m.To.String() + ")" }

// CompareMatches orders matches by source, then target.
func CompareMatches(a, b Match) int {
	if c := graph.CompareNodes(a.From, b.From); c != 0 {
		return c
	}
	return graph.CompareNodes(a.To, b.To)
}

// productState pairs a host node with a DFA state number.
type productState struct {
	node  graph.Node
	state int
}

type nodeSet = map[graph.Node]struct{}

// recogniserCache holds the memo tables for one (DFA, graph) pair. Entries
// are only ever added; the graph must not change while the cache is in use.
type recogniserCache struct {
	graph graph.Graph
	types graph.TypeGraph
	next  map[productState][]productState
	reach map[productState]nodeSet
}

func newRecogniserCache(g graph.Graph, types graph.TypeGraph) *recogniserCache {
	return &recogniserCache{
		graph: g,
		types: types,
		next:  make(map[productState][]productState),
		reach: make(map[productState]nodeSet),
	}
}

// Recogniser finds the node pairs of a host graph connected by paths the
// DFA accepts.
type Recogniser struct {
	dfa   *DFA
	cache *recogniserCache
}

// Recogniser returns a recogniser for g. The DFA keeps the memo tables of
// the last graph it was asked about, compared by identity, so repeated
// calls with the same graph and type graph share their work. Asking about
// another graph discards the old tables.
func (d *DFA) Recogniser(g graph.Graph, types graph.TypeGraph) *Recogniser {
	if d.cache == nil || d.cache.graph != g || d.cache.types != types {
		d.cache = newRecogniserCache(g, types)
	}
	return &Recogniser{dfa: d, cache: d.cache}
}

// ResetRecogniser drops the memo tables held by d.
func (d *DFA) ResetRecogniser() { d.cache = nil }

// Matches returns the pairs (from, to) connected by an accepted path, sorted.
// A nil bound ranges over all nodes of the graph. An Incoming DFA explores
// from the to side and orients its results accordingly.
func (r *Recogniser) Matches(from, to *graph.Node) []Match {
	start := r.dfa.start
	if start == nil {
		return nil
	}
	origin, target := from, to
	if r.dfa.direction == Incoming {
		origin, target = to, from
	}

	var origins []graph.Node
	if origin != nil {
		if r.cache.graph.ContainsNode(*origin) {
			origins = []graph.Node{*origin}
		}
	} else {
		origins = r.cache.graph.Nodes()
	}

	var result []Match
	for _, o := range origins {
		ps := productState{node: o, state: start.number}
		r.augmentReachMap(ps)
		for m := range r.cache.reach[ps] {
			if target != nil && m != *target {
				continue
			}
			if r.dfa.direction == Incoming {
				result = append(result, Match{From: m, To: o})
			} else {
				result = append(result, Match{From: o, To: m})
			}
		}
	}
	slices.SortFunc(result, CompareMatches)
	return result
}

// augmentReachMap makes sure reach has an entry for ps and for every product
// state reachable from it.
//
// The forward pass discovers product states not yet in reach, recording for
// each the predecessors that led to it; states already in reach are not
// expanded further. The backward pass then pushes reachable accepting nodes
// to predecessors until nothing changes.
func (r *Recogniser) augmentReachMap(ps productState) {
	reach := r.cache.reach
	if _, ok := reach[ps]; ok {
		return
	}

	preds := map[productState][]productState{}
	fresh := []productState{ps}
	seen := map[productState]bool{ps: true}
	for i := 0; i < len(fresh); i++ {
		cur := fresh[i]
		for _, nxt := range r.getNext(cur) {
			preds[nxt] = append(preds[nxt], cur)
			if seen[nxt] {
				continue
			}
			seen[nxt] = true
			if _, done := reach[nxt]; !done {
				fresh = append(fresh, nxt)
			}
		}
	}

	var queue []productState
	isFresh := make(map[productState]bool, len(fresh))
	for _, cur := range fresh {
		isFresh[cur] = true
		set := nodeSet{}
		if r.dfa.states[cur.state].final {
			set[cur.node] = struct{}{}
		}
		reach[cur] = set
		queue = append(queue, cur)
	}
	// successors completed earlier also feed their predecessors
	for _, succ := range slices.SortedFunc(maps.Keys(preds), compareProductStates) {
		if !isFresh[succ] {
			queue = append(queue, succ)
		}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		from := reach[cur]
		for _, p := range preds[cur] {
			to := reach[p]
			changed := false
			for n := range from {
				if _, ok := to[n]; !ok {
					to[n] = struct{}{}
					changed = true
				}
			}
			if changed {
				queue = append(queue, p)
			}
		}
	}
}

// getNext returns the product states one host edge away from ps.
func (r *Recogniser) getNext(ps productState) []productState {
	if next, ok := r.cache.next[ps]; ok {
		return next
	}
	g := r.cache.graph
	var next []productState
	for _, m := range r.dfa.states[ps.state].Moves() {
		succ, _ := r.dfa.states[ps.state].Successor(m)
		if m.Direction == Outgoing {
			for _, e := range g.OutEdges(ps.node) {
				if matchesLabel(m.Expr, e.Label, r.cache.types) {
					next = append(next, productState{node: e.Target, state: succ.number})
				}
			}
		} else {
			for _, e := range g.InEdges(ps.node) {
				if matchesLabel(m.Expr, e.Label, r.cache.types) {
					next = append(next, productState{node: e.Source, state: succ.number})
				}
			}
		}
	}
	r.cache.next[ps] = next
	return next
}

// matchesLabel decides whether a host label satisfies an atomic expression.
// Node-type atoms also match subtypes; sharp types match exactly.
func matchesLabel(e regex.Expr, l graph.Label, types graph.TypeGraph) bool {
	switch e := e.(type) {
	case *regex.Atom:
		want := e.Label()
		if want.IsNodeType() {
			return l.IsNodeType() && graph.IsSubtype(types, l, want)
		}
		return l == want
	case *regex.Sharp:
		return l == e.Type()
	case *regex.Wildcard:
		return e.Matches(l)
	}
	return false
}

func compareProductStates(a, b productState) int {
	if c := graph.CompareNodes(a.node, b.node); c != 0 {
		return c
	}
	return cmp.Compare(a.state, b.state)
}
