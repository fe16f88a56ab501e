// Package relation interprets regular path expressions as binary relations
// over host-graph nodes.
//
// # Overview
//
// A [Relation] is a set of node pairs. Every pair carries a support: the
// graph elements that justify its membership. Pairs are kept unique; when the
// same pair is derived twice the supports are merged.
//
// The algebra mirrors the expression operators:
//
//   - [Relation.DoOr]: union (Choice)
//   - [Relation.DoThen]: composition (Seq)
//   - [Relation.DoTransitiveClosure]: closure (Plus, and Star with identity)
//   - [Relation.DoInverse]: converse (Inv)
//
// [Calculator] ties these together as a regex calculator over a fixed graph:
//
//	r, err := relation.Evaluate(g, nil, regex.MustParse("parent+"))
//	for _, e := range r.Entries() {
//	    fmt.Println(e.One, "->", e.Two)
//	}
//
// Relations computed this way give the same node pairs as the automaton
// recogniser, which makes them a convenient reference for it.
package relation
