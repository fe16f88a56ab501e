// Package automaton compiles regular path expressions into automata and runs
// them against host graphs.
//
// # Pipeline
//
// Matching a path expression goes through four stages:
//
//	e := regex.MustParse("a.(b|-c)*")
//	aut, _ := automaton.Compile(e)           // RegAut: one start, one end node
//	dfa := aut.ToDFA(automaton.Outgoing)     // states keyed by node sets
//	min := dfa.Minimise()                    // coarsest equivalent DFA
//	ms := min.Recogniser(g, nil).Matches(&from, nil)
//
// [Build] runs the first three stages in one call.
//
// # RegAut
//
// [Calculator] builds a [RegAut] per operator. Every automaton has a single
// start node without incoming edges and a single end node without outgoing
// edges; composition merges these nodes rather than adding epsilon edges.
// Empty-word acceptance is carried as a flag, and sequences copy the edges
// around operands that accept the empty word. Edge labels are atomic
// expressions, flagged when they must be traversed backwards.
//
// # DFA
//
// [RegAut.ToDFA] discovers deterministic states on demand, each identified by
// the exact set of automaton nodes it stands for. A DFA reads paths either
// forwards from the start node ([Outgoing]) or backwards from the end node
// ([Incoming]); in both cases a transition says whether the next host edge is
// followed along or against its direction.
//
// [DFA.Minimise] computes state equivalence with a pair table: each pair of
// states is checked once in state-number order, pairs whose successors are
// not yet decided are recorded as dependents, and proving a pair distinct
// also removes everything that depended on it.
//
// # Recogniser
//
// A [Recogniser] explores the product of a DFA and a host graph. Exploration
// from a start node runs forwards over product states, then reachable
// accepting host nodes are propagated backwards until nothing changes.
// Results are memoized for as long as the DFA is queried on the same graph;
// the graph must not change in the meantime.
package automaton
