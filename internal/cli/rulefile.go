package cli

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/errors"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/graph"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/regex"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/rule"
)

// ruleFile is the YAML layout of a rule file:
//
//	types:
//	  - {sub: Dog, super: Animal}
//	rules:
//	  - name: adopt
//	    nodes:
//	      - {id: p, type: Person}
//	      - {id: d, type: Animal}
//	      - {id: v, role: creator, param: since}
//	    edges:
//	      - {from: p, label: owns, to: d, role: creator}
//	      - {from: p, label: "knows+", to: d}
//	    subs:
//	      - name: each
//	        ...
type ruleFile struct {
	Types []subtypeSpec `yaml:"types"`
	Rules []ruleSpec    `yaml:"rules"`
}

type subtypeSpec struct {
	Sub   string `yaml:"sub"`
	Super string `yaml:"super"`
}

type ruleSpec struct {
	Name   string      `yaml:"name"`
	Nodes  []nodeSpec  `yaml:"nodes"`
	Edges  []edgeSpec  `yaml:"edges"`
	Merges []mergeSpec `yaml:"merges"`
	Subs   []ruleSpec  `yaml:"subs"`
}

type nodeSpec struct {
	ID    string  `yaml:"id"`
	Role  string  `yaml:"role"`
	Type  string  `yaml:"type"`
	Value *string `yaml:"value"`
	Param string  `yaml:"param"`
}

type edgeSpec struct {
	From  string `yaml:"from"`
	Label string `yaml:"label"`
	To    string `yaml:"to"`
	Role  string `yaml:"role"`
}

type mergeSpec struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// ruleSet is the result of loading a rule file.
type ruleSet struct {
	Rules []*rule.Rule
	// Types is nil if the file declares no subtypes.
	Types graph.TypeGraph
}

// Rule returns the rule with the given name.
func (s *ruleSet) Rule(name string) (*rule.Rule, bool) {
	for _, r := range s.Rules {
		if r.Name() == name {
			return r, true
		}
	}
	return nil, false
}

// loadRules reads and fixes the rules in a YAML file.
func loadRules(path string) (*ruleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return parseRules(data)
}

// parseRules builds rules from YAML text.
func parseRules(data []byte) (*ruleSet, error) {
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse rule file")
	}
	set := &ruleSet{}
	if len(file.Types) > 0 {
		th := graph.NewTypeGraph()
		for _, st := range file.Types {
			th.AddSubtype(typeLabel(st.Sub), typeLabel(st.Super))
		}
		set.Types = th
	}
	seen := make(map[string]bool)
	for _, spec := range file.Rules {
		if seen[spec.Name] {
			return nil, errors.New(errors.ErrCodeInvalidRule, "duplicate rule %q", spec.Name)
		}
		seen[spec.Name] = true
		r := rule.New(spec.Name)
		if err := buildRule(r, spec, map[string]*rule.Node{}); err != nil {
			return nil, err
		}
		if err := r.Fix(); err != nil {
			return nil, err
		}
		set.Rules = append(set.Rules, r)
	}
	return set, nil
}

func typeLabel(name string) graph.Label {
	return graph.Label{Kind: graph.NodeTypeLabel, Text: name}
}

// buildRule adds the elements of spec to r. Node ids of enclosing rules are
// visible through outer and may not be declared again.
func buildRule(r *rule.Rule, spec ruleSpec, outer map[string]*rule.Node) error {
	ids := make(map[string]*rule.Node, len(outer)+len(spec.Nodes))
	for id, n := range outer {
		ids[id] = n
	}
	for _, ns := range spec.Nodes {
		if ns.ID == "" {
			return errors.New(errors.ErrCodeInvalidRule, "%s: node without id", r.FullName())
		}
		if _, dup := ids[ns.ID]; dup {
			return errors.New(errors.ErrCodeInvalidRule, "%s: duplicate node id %q", r.FullName(), ns.ID)
		}
		role, err := parseRole(ns.Role)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRule, err, "%s: node %s", r.FullName(), ns.ID)
		}
		switch {
		case ns.Param != "":
			if ns.Role != "" && role != rule.Creator {
				return errors.New(errors.ErrCodeInvalidRule, "%s: parameter node %s must be a creator", r.FullName(), ns.ID)
			}
			ids[ns.ID] = r.AddParamNode(ns.Param)
		case ns.Value != nil:
			ids[ns.ID] = r.AddValueNode(role, *ns.Value)
		default:
			ids[ns.ID] = r.AddNode(role, ns.Type)
		}
	}
	for _, es := range spec.Edges {
		src, ok := ids[es.From]
		if !ok {
			return errors.New(errors.ErrCodeInvalidRule, "%s: unknown node %q", r.FullName(), es.From)
		}
		tgt, ok := ids[es.To]
		if !ok {
			return errors.New(errors.ErrCodeInvalidRule, "%s: unknown node %q", r.FullName(), es.To)
		}
		role, err := parseRole(es.Role)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRule, err, "%s: edge %s -> %s", r.FullName(), es.From, es.To)
		}
		label, err := regex.Parse(es.Label)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRule, err, "%s: edge %s -> %s", r.FullName(), es.From, es.To)
		}
		r.AddEdge(role, src, label, tgt)
	}
	for _, ms := range spec.Merges {
		from, okFrom := ids[ms.From]
		to, okTo := ids[ms.To]
		if !okFrom || !okTo {
			return errors.New(errors.ErrCodeInvalidRule, "%s: merge %s into %s refers to an unknown node", r.FullName(), ms.From, ms.To)
		}
		r.AddMerge(from, to)
	}
	for _, sub := range spec.Subs {
		if err := buildRule(r.AddSub(sub.Name), sub, ids); err != nil {
			return err
		}
	}
	return nil
}

// parseRole maps a role name to a rule role; empty means reader.
func parseRole(s string) (rule.Role, error) {
	switch s {
	case "", "reader":
		return rule.Reader, nil
	case "eraser":
		return rule.Eraser, nil
	case "creator":
		return rule.Creator, nil
	}
	return rule.Reader, errors.New(errors.ErrCodeInvalidRule, "unknown role %q (must be reader, eraser or creator)", s)
}
