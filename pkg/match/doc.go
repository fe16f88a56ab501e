// Package match finds the matches of rule left-hand sides in host graphs.
//
// A [Matcher] enumerates every match of a fixed [rule.Rule] by backtracking
// over the reader and eraser nodes in node number order. Edges labelled with
// a plain atom are looked up directly; all other edges are path conditions
// checked with a DFA compiled from the edge expression:
//
//	m := &match.Matcher{Graph: g, Injective: true}
//	proofs, err := m.Find(ctx, r)
//	for _, p := range proofs {
//		ev := p.Event(rec)
//		...
//	}
//
// Sub-rules are universally quantified: each proof carries one sub-proof
// for every way the sub-rule extends the enclosing match.
//
// [rule.Rule]: github.com/mjmehrabi/Groove-RL-sub013/pkg/rule
package match
