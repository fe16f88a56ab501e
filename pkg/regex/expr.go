package regex

import (
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/graph"
)

// Kind enumerates the expression operators.
type Kind int

const (
	KindAtom Kind = iota
	KindSharp
	KindWildcard
	KindEmpty
	KindSeq
	KindChoice
	KindStar
	KindPlus
	KindInv
	KindNeg
)

var kindNames = [...]string{"atom", "sharp", "wildcard", "empty", "seq", "choice", "star", "plus", "inv", "neg"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Operator priorities, lowest binding first.
const (
	prioNeg = iota + 1
	prioChoice
	prioSeq
	prioInv
	prioStar
	prioPlus
	prioConstant
)

// Expr is a regular path expression. The concrete types are [*Atom],
// [*Sharp], [*Wildcard], [*Empty], [*Seq], [*Choice], [*Star], [*Plus],
// [*Inv] and [*Neg].
type Expr interface {
	Kind() Kind
	// String returns the canonical text, memoized.
	String() string
	// Hash returns a hash of the canonical text, memoized.
	Hash() uint64
	AcceptsEmptyWord() bool
	// Operands returns the direct sub-expressions (nil for constants).
	Operands() []Expr
	priority() int
	print() string
	memoized() *memo
}

// memo caches derived values of an immutable expression.
type memo struct {
	line   string
	hash   uint64
	cached bool
}

func (m *memo) memoized() *memo { return m }

func line(e Expr) string {
	m := e.memoized()
	if !m.cached {
		m.line = e.print()
		m.hash = xxhash.Sum64String(m.line)
		m.cached = true
	}
	return m.line
}

func hash(e Expr) uint64 {
	line(e)
	return e.memoized().hash
}

// Equal reports whether a and b print identically.
func Equal(a, b Expr) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Hash() == b.Hash() && a.String() == b.String()
}

// IsAtomic reports whether e is an Atom, Sharp or Wildcard, i.e. matches a
// single edge.
func IsAtomic(e Expr) bool {
	switch e.(type) {
	case *Atom, *Sharp, *Wildcard:
		return true
	}
	return false
}

// =============================================================================
// Constants
// =============================================================================

// Atom matches a single edge carrying its label.
type Atom struct {
	memo
	label graph.Label
}

// NewAtom creates an atom for l.
func NewAtom(l graph.Label) *Atom { return &Atom{label: l} }

// AtomText creates an atom from label text such as "a" or "type:T".
func AtomText(text string) *Atom { return NewAtom(graph.ParseLabel(text)) }

func (e *Atom) Kind() Kind             { return KindAtom }
func (e *Atom) String() string         { return line(e) }
func (e *Atom) Hash() uint64           { return hash(e) }
func (e *Atom) AcceptsEmptyWord() bool { return false }
func (e *Atom) Operands() []Expr       { return nil }
func (e *Atom) priority() int          { return prioConstant }
func (e *Atom) print() string          { return e.label.Kind.Prefix() + quoteIfNeeded(e.label.Text) }

// Label returns the edge label the atom matches.
func (e *Atom) Label() graph.Label { return e.label }

// Sharp matches a node-type self-loop of exactly the given type, excluding subtypes.
type Sharp struct {
	memo
	typ graph.Label
}

// NewSharp creates a sharp-type expression. The label kind is forced to node type.
func NewSharp(typ graph.Label) *Sharp {
	typ.Kind = graph.NodeTypeLabel
	return &Sharp{typ: typ}
}

func (e *Sharp) Kind() Kind             { return KindSharp }
func (e *Sharp) String() string         { return line(e) }
func (e *Sharp) Hash() uint64           { return hash(e) }
func (e *Sharp) AcceptsEmptyWord() bool { return false }
func (e *Sharp) Operands() []Expr       { return nil }
func (e *Sharp) priority() int          { return prioConstant }
func (e *Sharp) print() string          { return "#" + quoteIfNeeded(e.typ.Text) }

// Type returns the node-type label.
func (e *Sharp) Type() graph.Label { return e.typ }

// Wildcard matches any single edge whose label passes its guard.
type Wildcard struct {
	memo
	kind       graph.LabelKind
	name       string
	constraint []string
	negated    bool
}

// NewWildcard creates a wildcard over labels of the given kind. A nil
// constraint accepts every label of that kind; otherwise the label text must
// be in the constraint, or outside it if negated.
func NewWildcard(kind graph.LabelKind, name string, constraint []string, negated bool) *Wildcard {
	w := &Wildcard{kind: kind, name: name}
	if constraint != nil {
		w.constraint = slices.Clone(constraint)
		w.negated = negated
	}
	return w
}

func (e *Wildcard) Kind() Kind             { return KindWildcard }
func (e *Wildcard) String() string         { return line(e) }
func (e *Wildcard) Hash() uint64           { return hash(e) }
func (e *Wildcard) AcceptsEmptyWord() bool { return false }
func (e *Wildcard) Operands() []Expr       { return nil }
func (e *Wildcard) priority() int          { return prioConstant }

func (e *Wildcard) print() string {
	var b strings.Builder
	b.WriteString(e.kind.Prefix())
	b.WriteByte('?')
	b.WriteString(e.name)
	if e.constraint != nil {
		b.WriteByte('[')
		if e.negated {
			b.WriteByte('^')
		}
		for i, text := range e.constraint {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quoteIfNeeded(text))
		}
		b.WriteByte(']')
	}
	return b.String()
}

// LabelKind returns the kind of label the wildcard ranges over.
func (e *Wildcard) LabelKind() graph.LabelKind { return e.kind }

// Name returns the wildcard variable name, or "".
func (e *Wildcard) Name() string { return e.name }

// Constraint returns the label texts of the guard, or nil if unconstrained.
func (e *Wildcard) Constraint() []string { return slices.Clone(e.constraint) }

// Negated reports whether the constraint is an exclusion list.
func (e *Wildcard) Negated() bool { return e.negated }

// Matches reports whether l passes the guard.
func (e *Wildcard) Matches(l graph.Label) bool {
	if l.Kind != e.kind {
		return false
	}
	if e.constraint == nil {
		return true
	}
	return slices.Contains(e.constraint, l.Text) != e.negated
}

// Empty matches the empty path.
type Empty struct {
	memo
}

// NewEmpty creates the empty-path expression.
func NewEmpty() *Empty { return &Empty{} }

func (e *Empty) Kind() Kind             { return KindEmpty }
func (e *Empty) String() string         { return line(e) }
func (e *Empty) Hash() uint64           { return hash(e) }
func (e *Empty) AcceptsEmptyWord() bool { return true }
func (e *Empty) Operands() []Expr       { return nil }
func (e *Empty) priority() int          { return prioConstant }
func (e *Empty) print() string          { return "=" }

// =============================================================================
// Operators
// =============================================================================

// Seq matches its operands in order.
type Seq struct {
	memo
	operands []Expr
}

// NewSeq creates a sequence. It panics with fewer than two operands.
func NewSeq(operands ...Expr) *Seq {
	checkArity("seq", operands)
	return &Seq{operands: slices.Clone(operands)}
}

func (e *Seq) Kind() Kind       { return KindSeq }
func (e *Seq) String() string   { return line(e) }
func (e *Seq) Hash() uint64     { return hash(e) }
func (e *Seq) Operands() []Expr { return slices.Clone(e.operands) }
func (e *Seq) priority() int    { return prioSeq }
func (e *Seq) print() string    { return printInfix(e.operands, ".", prioSeq) }

// AcceptsEmptyWord holds iff every operand accepts the empty word.
func (e *Seq) AcceptsEmptyWord() bool {
	for _, op := range e.operands {
		if !op.AcceptsEmptyWord() {
			return false
		}
	}
	return true
}

// Choice matches any one of its operands.
type Choice struct {
	memo
	operands []Expr
}

// NewChoice creates a choice. It panics with fewer than two operands.
func NewChoice(operands ...Expr) *Choice {
	checkArity("choice", operands)
	return &Choice{operands: slices.Clone(operands)}
}

func (e *Choice) Kind() Kind       { return KindChoice }
func (e *Choice) String() string   { return line(e) }
func (e *Choice) Hash() uint64     { return hash(e) }
func (e *Choice) Operands() []Expr { return slices.Clone(e.operands) }
func (e *Choice) priority() int    { return prioChoice }
func (e *Choice) print() string    { return printInfix(e.operands, "|", prioChoice) }

// AcceptsEmptyWord holds iff some operand accepts the empty word.
func (e *Choice) AcceptsEmptyWord() bool {
	for _, op := range e.operands {
		if op.AcceptsEmptyWord() {
			return true
		}
	}
	return false
}

// Star matches zero or more repetitions.
type Star struct {
	memo
	operand Expr
}

// NewStar creates e*.
func NewStar(e Expr) *Star { return &Star{operand: e} }

func (e *Star) Kind() Kind             { return KindStar }
func (e *Star) String() string         { return line(e) }
func (e *Star) Hash() uint64           { return hash(e) }
func (e *Star) AcceptsEmptyWord() bool { return true }
func (e *Star) Operands() []Expr       { return []Expr{e.operand} }
func (e *Star) priority() int          { return prioStar }
func (e *Star) print() string          { return operandText(e.operand, prioStar) + "*" }

// Operand returns the repeated expression.
func (e *Star) Operand() Expr { return e.operand }

// Plus matches one or more repetitions.
type Plus struct {
	memo
	operand Expr
}

// NewPlus creates e+.
func NewPlus(e Expr) *Plus { return &Plus{operand: e} }

func (e *Plus) Kind() Kind       { return KindPlus }
func (e *Plus) String() string   { return line(e) }
func (e *Plus) Hash() uint64     { return hash(e) }
func (e *Plus) Operands() []Expr { return []Expr{e.operand} }
func (e *Plus) priority() int    { return prioPlus }
func (e *Plus) print() string    { return operandText(e.operand, prioPlus) + "+" }

// AcceptsEmptyWord is false: the structural rule does not look at the operand.
func (e *Plus) AcceptsEmptyWord() bool { return false }

// Operand returns the repeated expression.
func (e *Plus) Operand() Expr { return e.operand }

// Inv matches its operand traversed against edge direction.
type Inv struct {
	memo
	operand Expr
}

// NewInv creates -e.
func NewInv(e Expr) *Inv { return &Inv{operand: e} }

func (e *Inv) Kind() Kind             { return KindInv }
func (e *Inv) String() string         { return line(e) }
func (e *Inv) Hash() uint64           { return hash(e) }
func (e *Inv) AcceptsEmptyWord() bool { return e.operand.AcceptsEmptyWord() }
func (e *Inv) Operands() []Expr       { return []Expr{e.operand} }
func (e *Inv) priority() int          { return prioInv }
func (e *Inv) print() string          { return "-" + operandText(e.operand, prioInv) }

// Operand returns the inverted expression.
func (e *Inv) Operand() Expr { return e.operand }

// Neg is the negation of its operand. It can be parsed and printed, but
// calculators report it as unsupported.
type Neg struct {
	memo
	operand Expr
}

// NewNeg creates !e.
func NewNeg(e Expr) *Neg { return &Neg{operand: e} }

func (e *Neg) Kind() Kind             { return KindNeg }
func (e *Neg) String() string         { return line(e) }
func (e *Neg) Hash() uint64           { return hash(e) }
func (e *Neg) AcceptsEmptyWord() bool { return !e.operand.AcceptsEmptyWord() }
func (e *Neg) Operands() []Expr       { return []Expr{e.operand} }
func (e *Neg) priority() int          { return prioNeg }
func (e *Neg) print() string          { return "!" + operandText(e.operand, prioNeg) }

// Operand returns the negated expression.
func (e *Neg) Operand() Expr { return e.operand }

// =============================================================================
// Printing
// =============================================================================

func checkArity(op string, operands []Expr) {
	if len(operands) < 2 {
		panic("regex: " + op + " needs at least two operands")
	}
}

// operandText parenthesizes op unless it binds strictly tighter than its parent.
func operandText(op Expr, parent int) string {
	if op.priority() <= parent {
		return "(" + op.String() + ")"
	}
	return op.String()
}

func printInfix(operands []Expr, sep string, prio int) string {
	parts := make([]string, len(operands))
	for i, op := range operands {
		parts[i] = operandText(op, prio)
	}
	return strings.Join(parts, sep)
}

// IsIdentifier reports whether text can be printed as an atom without quotes.
func IsIdentifier(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if !isIdentRune(r) {
			return false
		}
	}
	return true
}

func isIdentRune(r rune) bool {
	return r == '_' || r == '$' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
}

func quoteIfNeeded(text string) string {
	if IsIdentifier(text) {
		return text
	}
	return Quote(text)
}

// Quote wraps text in single quotes, escaping quotes and backslashes.
func Quote(text string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range text {
		if r == '\'' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('\'')
	return b.String()
}
