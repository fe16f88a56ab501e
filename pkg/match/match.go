package match

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/automaton"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/errors"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/graph"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/observability"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/rule"
)

// Matcher finds rule matches in a fixed host graph. Path DFAs are cached
// per expression text for the lifetime of the matcher, so one matcher
// should be used per graph.
type Matcher struct {
	Graph     graph.Graph
	TypeGraph graph.TypeGraph
	// Injective forbids two rule nodes from sharing a host node.
	Injective bool
	// Logger receives debug output; nil discards it.
	Logger *log.Logger

	dfas map[string]*automaton.DFA
}

// search holds the state of one backtracking run.
type search struct {
	m     *Matcher
	ctx   context.Context
	hm    *rule.HostMap
	used  map[graph.Node]int
	nodes []graph.Node
}

// Find returns all matches of r, ordered by the host images of the rule
// nodes in number order.
func (m *Matcher) Find(ctx context.Context, r *rule.Rule) ([]*rule.Proof, error) {
	if !r.IsFixed() {
		return nil, errors.New(errors.ErrCodeInvalidRule, "rule %s is not fixed", r.FullName())
	}
	if r.Parent() != nil {
		return nil, errors.New(errors.ErrCodeInvalidRule, "%s is a sub-rule", r.FullName())
	}
	hooks := observability.Rewrite()
	hooks.OnMatchStart(ctx, r.FullName())
	start := time.Now()
	s := &search{
		m:     m,
		ctx:   ctx,
		hm:    rule.NewHostMap(),
		used:  make(map[graph.Node]int),
		nodes: m.Graph.Nodes(),
	}
	proofs, err := s.extend(r)
	hooks.OnMatchComplete(ctx, r.FullName(), len(proofs), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	m.logger().Debug("matched", "rule", r.FullName(), "proofs", len(proofs))
	return proofs, nil
}

// Events returns the events of all matches of r, interned in rec.
func (m *Matcher) Events(ctx context.Context, r *rule.Rule, rec *rule.Record) ([]rule.Event, error) {
	proofs, err := m.Find(ctx, r)
	if err != nil {
		return nil, err
	}
	events := make([]rule.Event, len(proofs))
	for i, p := range proofs {
		events[i] = p.Event(rec)
	}
	return events, nil
}

func (m *Matcher) logger() *log.Logger {
	if m.Logger == nil {
		m.Logger = log.New(io.Discard)
	}
	return m.Logger
}

// dfa returns the cached DFA for a path expression.
func (m *Matcher) dfa(e *rule.Edge) (*automaton.DFA, error) {
	key := e.Label.String()
	if d, ok := m.dfas[key]; ok {
		return d, nil
	}
	d, err := automaton.Build(e.Label, automaton.Outgoing)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRule, err, "edge %s", e)
	}
	if m.dfas == nil {
		m.dfas = make(map[string]*automaton.DFA)
	}
	m.dfas[key] = d
	m.logger().Debug("path automaton", "expr", key, "states", d.Size())
	return d, nil
}

// extend enumerates the extensions of the current host map to the LHS of r
// and returns one proof per extension.
func (s *search) extend(r *rule.Rule) ([]*rule.Proof, error) {
	var lhs []*rule.Node
	for _, n := range r.Nodes() {
		if n.Role.IsLHS() {
			lhs = append(lhs, n)
		}
	}
	// edges between nodes of enclosing rules are checked up front
	ok, err := s.checkEdges(r, nil)
	if err != nil || !ok {
		return nil, err
	}
	var proofs []*rule.Proof
	err = s.assign(r, lhs, func() error {
		p := &rule.Proof{Rule: r, Map: s.hm.Clone()}
		for _, sub := range r.Subs() {
			subProofs, err := s.extend(sub)
			if err != nil {
				return err
			}
			p.Sub = append(p.Sub, subProofs...)
		}
		proofs = append(proofs, p)
		return nil
	})
	return proofs, err
}

// assign binds the remaining nodes one at a time and calls found for every
// complete binding.
func (s *search) assign(r *rule.Rule, rest []*rule.Node, found func() error) error {
	if err := s.ctx.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeCancelled, err, "matching %s", r.FullName())
	}
	if len(rest) == 0 {
		return found()
	}
	n := rest[0]
	for _, h := range s.nodes {
		if !s.candidate(n, h) {
			continue
		}
		s.bind(n, h)
		ok, err := s.checkEdges(r, n)
		if err == nil && ok {
			err = s.assign(r, rest[1:], found)
		}
		s.unbind(r, n, h)
		if err != nil {
			return err
		}
	}
	return nil
}

// candidate reports whether host node h may be the image of n.
func (s *search) candidate(n *rule.Node, h graph.Node) bool {
	if s.m.Injective && s.used[h] > 0 {
		return false
	}
	if n.IsValue() {
		return h.IsValue() && h.Value == n.Value
	}
	if h.IsValue() {
		return false
	}
	if !n.HasType() {
		return true
	}
	for _, t := range graph.NodeTypes(s.m.Graph, h) {
		if graph.IsSubtype(s.m.TypeGraph, t, n.Type) {
			return true
		}
	}
	return false
}

func (s *search) bind(n *rule.Node, h graph.Node) {
	s.hm.PutNode(n, h)
	s.used[h]++
}

func (s *search) unbind(r *rule.Rule, n *rule.Node, h graph.Node) {
	s.hm.RemoveNode(n)
	s.used[h]--
	for _, e := range r.Edges() {
		if e.Source == n || e.Target == n {
			s.hm.RemoveEdge(e)
		}
	}
}

// checkEdges checks the LHS edges of r that become fully bound with n. A nil
// n selects the edges whose ends are all bound already.
func (s *search) checkEdges(r *rule.Rule, n *rule.Node) (bool, error) {
	for _, e := range r.Edges() {
		if !e.Role.IsLHS() {
			continue
		}
		src, srcOK := s.hm.Node(e.Source)
		tgt, tgtOK := s.hm.Node(e.Target)
		if !srcOK || !tgtOK {
			continue
		}
		if n != nil && e.Source != n && e.Target != n {
			continue
		}
		ok, err := s.checkEdge(e, src, tgt)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// checkEdge checks one edge between bound host nodes. Atom edges are bound
// to their host edge; other expressions must connect src to tgt by a path.
func (s *search) checkEdge(e *rule.Edge, src, tgt graph.Node) (bool, error) {
	if l, ok := e.Atom(); ok {
		h, found := s.hostEdge(src, l, tgt)
		if found {
			s.hm.PutEdge(e, h)
		}
		return found, nil
	}
	d, err := s.m.dfa(e)
	if err != nil {
		return false, err
	}
	return len(d.Recogniser(s.m.Graph, s.m.TypeGraph).Matches(&src, &tgt)) > 0, nil
}

// hostEdge finds the host edge matching (src, l, tgt). Node-type labels
// match the subtypes of l.
func (s *search) hostEdge(src graph.Node, l graph.Label, tgt graph.Node) (graph.Edge, bool) {
	if !l.IsNodeType() {
		e := graph.Edge{Source: src, Label: l, Target: tgt}
		return e, s.m.Graph.ContainsEdge(e)
	}
	if src != tgt {
		return graph.Edge{}, false
	}
	for _, t := range graph.NodeTypes(s.m.Graph, src) {
		if graph.IsSubtype(s.m.TypeGraph, t, l) {
			return graph.Edge{Source: src, Label: t, Target: src}, true
		}
	}
	return graph.Edge{}, false
}
