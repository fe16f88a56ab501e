package rule

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/errors"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/graph"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/regex"
)

// Role tells which side of a rule an element belongs to.
type Role int

const (
	// Reader elements are matched and preserved.
	Reader Role = iota
	// Eraser elements are matched and deleted.
	Eraser
	// Creator elements are added by the rule.
	Creator
)

func (r Role) String() string {
	switch r {
	case Reader:
		return "reader"
	case Eraser:
		return "eraser"
	case Creator:
		return "creator"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// IsLHS reports whether elements with this role are matched in the host.
func (r Role) IsLHS() bool { return r != Creator }

// Node is a rule node. Node numbers are unique within a rule and all of its
// sub-rules.
type Node struct {
	Number int
	Role   Role
	// Type is the node type, or the zero label.
	Type graph.Label
	// Value is the literal of a value node.
	Value string
	// Param names the oracle parameter supplying a created value.
	Param string

	isValue bool
}

// IsValue reports whether n stands for a data value.
func (n *Node) IsValue() bool { return n.isValue }

// HasType reports whether n carries a node type.
func (n *Node) HasType() bool { return n.Type.Text != "" }

func (n *Node) String() string {
	switch {
	case n.Param != "":
		return fmt.Sprintf("r%d(%s)", n.Number, n.Param)
	case n.isValue:
		return fmt.Sprintf("r%d=%s", n.Number, regex.Quote(n.Value))
	}
	return fmt.Sprintf("r%d", n.Number)
}

// Edge is a rule edge. Reader edges may carry any expression; erased and
// created edges carry a single atom.
type Edge struct {
	Number int
	Role   Role
	Source *Node
	Label  regex.Expr
	Target *Node
}

// Atom returns the graph label of an atom-labelled edge.
func (e *Edge) Atom() (graph.Label, bool) {
	a, ok := e.Label.(*regex.Atom)
	if !ok {
		return graph.Label{}, false
	}
	return a.Label(), true
}

func (e *Edge) String() string {
	return fmt.Sprintf("%s -%s-> %s", e.Source, e.Label, e.Target)
}

// Merge unifies two LHS nodes; the image of From is merged into that of To.
type Merge struct {
	From, To *Node
}

// Rule is a production rule: a pattern with reader, eraser and creator
// elements, optional node merges and nested sub-rules. Sub-rules are
// universally quantified over the matches of their parent and may refer to
// the parent's nodes.
//
// A rule is built incrementally and then frozen with [Rule.Fix]; changing a
// fixed rule panics.
type Rule struct {
	name   string
	parent *Rule
	nodes  []*Node
	edges  []*Edge
	merges []Merge
	subs   []*Rule

	nextNode, nextEdge int

	fixed    bool
	anchor   []AnchorKey
	creators []*Node
	hash     uint64
}

// New creates an empty rule.
func New(name string) *Rule {
	return &Rule{name: name}
}

// Name returns the rule name.
func (r *Rule) Name() string { return r.name }

// FullName returns the name qualified by the names of enclosing rules.
func (r *Rule) FullName() string {
	if r.parent == nil {
		return r.name
	}
	return r.parent.FullName() + "/" + r.name
}

// Parent returns the enclosing rule of a sub-rule.
func (r *Rule) Parent() *Rule { return r.parent }

// Root returns the outermost enclosing rule.
func (r *Rule) Root() *Rule {
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Nodes returns the nodes declared in r, not those of its parent.
func (r *Rule) Nodes() []*Node { return slices.Clone(r.nodes) }

// Edges returns the edges declared in r.
func (r *Rule) Edges() []*Edge { return slices.Clone(r.edges) }

// Merges returns the merges declared in r.
func (r *Rule) Merges() []Merge { return slices.Clone(r.merges) }

// Subs returns the sub-rules.
func (r *Rule) Subs() []*Rule { return slices.Clone(r.subs) }

// IsFixed reports whether r has been frozen.
func (r *Rule) IsFixed() bool { return r.fixed }

func (r *Rule) checkMutable() {
	if r.fixed {
		panic(fmt.Sprintf("rule: %s is fixed", r.FullName()))
	}
}

func (r *Rule) addNode(n *Node) *Node {
	r.checkMutable()
	root := r.Root()
	n.Number = root.nextNode
	root.nextNode++
	r.nodes = append(r.nodes, n)
	return n
}

// AddNode adds an object node. An empty typ leaves the node untyped.
func (r *Rule) AddNode(role Role, typ string) *Node {
	n := &Node{Role: role}
	if typ != "" {
		n.Type = graph.Label{Kind: graph.NodeTypeLabel, Text: typ}
	}
	return r.addNode(n)
}

// AddValueNode adds a node for a constant data value.
func (r *Rule) AddValueNode(role Role, value string) *Node {
	return r.addNode(&Node{Role: role, Value: value, isValue: true})
}

// AddParamNode adds a created value node whose value is supplied by a
// [ValueOracle] under the given parameter name.
func (r *Rule) AddParamNode(param string) *Node {
	return r.addNode(&Node{Role: Creator, Param: param, isValue: true})
}

// AddEdge adds an edge between two nodes of r or its enclosing rules.
func (r *Rule) AddEdge(role Role, source *Node, label regex.Expr, target *Node) *Edge {
	r.checkMutable()
	root := r.Root()
	e := &Edge{Number: root.nextEdge, Role: role, Source: source, Label: label, Target: target}
	root.nextEdge++
	r.edges = append(r.edges, e)
	return e
}

// AddMerge merges the image of from into the image of to.
func (r *Rule) AddMerge(from, to *Node) {
	r.checkMutable()
	r.merges = append(r.merges, Merge{From: from, To: to})
}

// AddSub adds a nested sub-rule.
func (r *Rule) AddSub(name string) *Rule {
	r.checkMutable()
	sub := &Rule{name: name, parent: r}
	r.subs = append(r.subs, sub)
	return sub
}

// Lookup finds a node of r or of an enclosing rule by number.
func (r *Rule) Lookup(number int) (*Node, bool) {
	for cur := r; cur != nil; cur = cur.parent {
		for _, n := range cur.nodes {
			if n.Number == number {
				return n, true
			}
		}
	}
	return nil, false
}

// owns reports whether n is declared by r or an enclosing rule.
func (r *Rule) owns(n *Node) bool {
	if n == nil {
		return false
	}
	found, ok := r.Lookup(n.Number)
	return ok && found == n
}

// Fix validates r and its sub-rules, computes their anchors and freezes them.
// Nothing is frozen if validation fails.
func (r *Rule) Fix() error {
	if r.fixed {
		return nil
	}
	if err := r.validateAll(); err != nil {
		return err
	}
	r.freeze()
	return nil
}

func (r *Rule) validateAll() error {
	if err := r.validate(); err != nil {
		return err
	}
	for _, sub := range r.subs {
		if err := sub.validateAll(); err != nil {
			return err
		}
	}
	return nil
}

func (r *Rule) freeze() {
	r.anchor = r.computeAnchor()
	for _, n := range r.nodes {
		if n.Role == Creator {
			r.creators = append(r.creators, n)
		}
	}
	r.hash = xxhash.Sum64String(r.FullName())
	r.fixed = true
	for _, sub := range r.subs {
		sub.freeze()
	}
}

func (r *Rule) validate() error {
	if err := errors.ValidateIdentifier(r.name); err != nil {
		return err
	}
	for _, n := range r.nodes {
		if n.Param != "" && n.Role != Creator {
			return errors.New(errors.ErrCodeInvalidRule, "%s: parameter node %s must be a creator", r.FullName(), n)
		}
	}
	for _, e := range r.edges {
		if !r.owns(e.Source) || !r.owns(e.Target) {
			return errors.New(errors.ErrCodeInvalidRule, "%s: edge %s refers to a foreign node", r.FullName(), e)
		}
		switch e.Role {
		case Reader:
			if e.Source.Role == Creator || e.Target.Role == Creator {
				return errors.New(errors.ErrCodeInvalidRule, "%s: reader edge %s touches a creator node", r.FullName(), e)
			}
		case Eraser:
			if _, ok := e.Atom(); !ok {
				return errors.New(errors.ErrCodeInvalidRule, "%s: eraser edge %s must be labelled by an atom", r.FullName(), e)
			}
			if e.Source.Role == Creator || e.Target.Role == Creator {
				return errors.New(errors.ErrCodeInvalidRule, "%s: eraser edge %s touches a creator node", r.FullName(), e)
			}
		case Creator:
			if _, ok := e.Atom(); !ok {
				return errors.New(errors.ErrCodeInvalidRule, "%s: creator edge %s must be labelled by an atom", r.FullName(), e)
			}
			if e.Source.Role == Eraser || e.Target.Role == Eraser {
				return errors.New(errors.ErrCodeInvalidRule, "%s: creator edge %s touches an eraser node", r.FullName(), e)
			}
		}
	}
	for _, m := range r.merges {
		if !r.owns(m.From) || !r.owns(m.To) {
			return errors.New(errors.ErrCodeInvalidRule, "%s: merge refers to a foreign node", r.FullName())
		}
		if !m.From.Role.IsLHS() || !m.To.Role.IsLHS() {
			return errors.New(errors.ErrCodeInvalidRule, "%s: merge of %s into %s involves a creator node", r.FullName(), m.From, m.To)
		}
	}
	return nil
}

// =============================================================================
// Anchor
// =============================================================================

// AnchorKey is a rule element whose host image is part of an event's
// identity: a node or an (erased) edge.
type AnchorKey struct {
	Node *Node
	Edge *Edge
}

func (k AnchorKey) String() string {
	if k.Node != nil {
		return k.Node.String()
	}
	return k.Edge.String()
}

// Anchor returns the anchor of a fixed rule: the LHS nodes an application
// needs to know (eraser nodes, merged nodes, LHS ends of creator and eraser
// edges) by node number, followed by the eraser edges by edge number.
func (r *Rule) Anchor() []AnchorKey {
	if !r.fixed {
		panic(fmt.Sprintf("rule: anchor of unfixed rule %s", r.FullName()))
	}
	return slices.Clone(r.anchor)
}

// Creators returns the creator nodes of r in creation order.
func (r *Rule) Creators() []*Node { return slices.Clone(r.creators) }

// Hash returns the hash of the qualified name of a fixed rule.
func (r *Rule) Hash() uint64 { return r.hash }

func (r *Rule) computeAnchor() []AnchorKey {
	nodes := map[*Node]struct{}{}
	addLHS := func(n *Node) {
		if n.Role.IsLHS() {
			nodes[n] = struct{}{}
		}
	}
	for _, n := range r.nodes {
		if n.Role == Eraser {
			nodes[n] = struct{}{}
		}
	}
	for _, m := range r.merges {
		addLHS(m.From)
		addLHS(m.To)
	}
	var erased []*Edge
	for _, e := range r.edges {
		switch e.Role {
		case Creator:
			addLHS(e.Source)
			addLHS(e.Target)
		case Eraser:
			addLHS(e.Source)
			addLHS(e.Target)
			erased = append(erased, e)
		}
	}

	ordered := make([]*Node, 0, len(nodes))
	for n := range nodes {
		ordered = append(ordered, n)
	}
	slices.SortFunc(ordered, func(a, b *Node) int { return cmp.Compare(a.Number, b.Number) })
	slices.SortFunc(erased, func(a, b *Edge) int { return cmp.Compare(a.Number, b.Number) })

	anchor := make([]AnchorKey, 0, len(ordered)+len(erased))
	for _, n := range ordered {
		anchor = append(anchor, AnchorKey{Node: n})
	}
	for _, e := range erased {
		anchor = append(anchor, AnchorKey{Edge: e})
	}
	return anchor
}

// CompareRules orders rules by qualified name.
func CompareRules(a, b *Rule) int {
	return cmp.Compare(a.FullName(), b.FullName())
}
