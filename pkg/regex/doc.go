// Package regex implements the regular path expressions that label rule edges.
//
// # Overview
//
// An [Expr] describes a set of paths through a host graph. Expressions are
// immutable trees built from ten operators:
//
//	a, type:T, 'a b'   Atom      a single edge with the given label
//	#T                 Sharp     a node-type self-loop of exactly type T
//	?, ?x, ?[a,b]      Wildcard  any edge whose label satisfies the guard
//	=                  Empty     the empty path
//	e.f                Seq       e followed by f
//	e|f                Choice    e or f
//	e*                 Star      zero or more e
//	e+                 Plus      one or more e
//	-e                 Inv       e traversed backwards
//	!e                 Neg       negation (parsed, but no calculator supports it)
//
// Operator priority, lowest first, is Neg, Choice, Seq, Inv, Star, Plus; the
// constants bind tightest. [Parse] and [Expr.String] are inverses: printing
// inserts exactly the parentheses that priority requires, so
// Parse(e.String()) prints as e.String() again.
//
// Wildcards may carry a kind prefix ("type:?", "flag:?") to range over
// node-type or flag labels, a name ("?x") and a constraint list that is
// either positive ("?[a,b]") or negated ("?[^a,b]").
//
// # Calculators
//
// Semantics are attached through [Calculator], a visitor with one method per
// operator. [Calculate] evaluates an expression bottom-up: composite operators
// receive the results already computed for their operands. The automaton
// compiler and the node-relation evaluator are both calculators.
//
// # Equality
//
// Two expressions are equal iff they print the same ([Equal]); the printed
// form and a hash of it are memoized on first use.
package regex
