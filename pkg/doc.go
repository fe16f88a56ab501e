// Package pkg provides the core libraries of groove, a graph rewriting engine.
//
// # Overview
//
// Groove explores the state spaces of systems modelled as graphs. States
// are host graphs; transitions apply production rules. Rules may test for
// paths described by regular expressions over edge labels. The pkg
// directory is organized into three areas:
//
//  1. Graphs and expressions: [graph], [regex]
//  2. Path evaluation: [relation], [automaton]
//  3. Rewriting: [rule], [match]
//
// Supporting packages are [errors], [cache], [observability] and [buildinfo].
//
// # Architecture
//
// The typical data flow of one transition:
//
//	host graph + rule
//	         ↓
//	    [match] package (search LHS images, evaluate path edges)
//	         ↓
//	    [rule] package (proof → event → application)
//	         ↓
//	    target graph + transition label
//
// Path edges are evaluated either by [automaton] (compile, determinise,
// minimise, recognise) or, for whole-graph queries, by [relation].
//
// # Quick Start
//
// Find the node pairs connected by a path expression:
//
//	import (
//	    "github.com/mjmehrabi/Groove-RL-sub013/pkg/automaton"
//	    "github.com/mjmehrabi/Groove-RL-sub013/pkg/graph"
//	    "github.com/mjmehrabi/Groove-RL-sub013/pkg/regex"
//	)
//
//	// 1. Load a host graph
//	g, _ := graph.ParseText("n0 -parent-> n1; n1 -parent-> n2;", nil)
//
//	// 2. Parse and compile an expression
//	e, _ := regex.Parse("parent+")
//	dfa, _ := automaton.Build(e, automaton.Outgoing)
//
//	// 3. Recognise matches
//	for _, m := range dfa.Recogniser(g, nil).Matches(nil, nil) {
//	    fmt.Println(m)
//	}
//
// # Main Packages
//
// [graph] - Host graphs, labels, the element factory, type hierarchies and
// the text, JSON and DOT formats.
//
// [regex] - Regular path expressions: the AST, the participle-based parser
// and the Calculator fold.
//
// [relation] - Binary node relations with the relational algebra used to
// evaluate expressions over a whole graph.
//
// [automaton] - Regular automata compiled from expressions, their subset
// construction into DFAs, minimisation, equivalence and the recogniser.
//
// [rule] - Rules, events, proofs, effects, merge maps, applications and the
// record that interns events across an exploration.
//
// [match] - Backtracking search for rule matches in a host graph.
//
// [graph]: https://pkg.go.dev/github.com/mjmehrabi/Groove-RL-sub013/pkg/graph
// [regex]: https://pkg.go.dev/github.com/mjmehrabi/Groove-RL-sub013/pkg/regex
// [relation]: https://pkg.go.dev/github.com/mjmehrabi/Groove-RL-sub013/pkg/relation
// [automaton]: https://pkg.go.dev/github.com/mjmehrabi/Groove-RL-sub013/pkg/automaton
// [rule]: https://pkg.go.dev/github.com/mjmehrabi/Groove-RL-sub013/pkg/rule
// [match]: https://pkg.go.dev/github.com/mjmehrabi/Groove-RL-sub013/pkg/match
// [errors]: https://pkg.go.dev/github.com/mjmehrabi/Groove-RL-sub013/pkg/errors
// [cache]: https://pkg.go.dev/github.com/mjmehrabi/Groove-RL-sub013/pkg/cache
// [observability]: https://pkg.go.dev/github.com/mjmehrabi/Groove-RL-sub013/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/mjmehrabi/Groove-RL-sub013/pkg/buildinfo
package pkg
