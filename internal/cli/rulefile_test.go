package cli

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/errors"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/graph"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/rule"
)

const adoptRules = `
types:
  - {sub: Dog, super: Animal}
rules:
  - name: adopt
    nodes:
      - {id: p, type: Person}
      - {id: d, type: Animal}
      - {id: since, role: creator, param: year}
    edges:
      - {from: p, label: owns, to: d, role: creator}
      - {from: p, label: since, to: since, role: creator}
      - {from: p, label: "knows+", to: d}
  - name: release
    nodes:
      - {id: p}
      - {id: d, role: eraser}
    merges: []
    subs:
      - name: tags
        nodes:
          - {id: t, value: "pet"}
        edges:
          - {from: d, label: tag, to: t, role: eraser}
`

func TestParseRules(t *testing.T) {
	set, err := parseRules([]byte(adoptRules))
	if err != nil {
		t.Fatalf("parseRules() error = %v", err)
	}
	var names []string
	for _, r := range set.Rules {
		names = append(names, r.Name())
		if !r.IsFixed() {
			t.Errorf("%s not fixed", r.Name())
		}
	}
	if diff := cmp.Diff([]string{"adopt", "release"}, names); diff != "" {
		t.Errorf("rule names mismatch (-want +got):\n%s", diff)
	}

	adopt, ok := set.Rule("adopt")
	if !ok {
		t.Fatal("Rule(adopt) not found")
	}
	var roles []string
	for _, n := range adopt.Nodes() {
		roles = append(roles, n.String()+":"+n.Role.String())
	}
	if diff := cmp.Diff([]string{"r0:reader", "r1:reader", "r2(year):creator"}, roles); diff != "" {
		t.Errorf("nodes mismatch (-want +got):\n%s", diff)
	}
	if got := adopt.Edges()[2].Label.String(); got != "knows+" {
		t.Errorf("path edge label = %q, want knows+", got)
	}

	release, _ := set.Rule("release")
	subs := release.Subs()
	if len(subs) != 1 || subs[0].FullName() != "release/tags" {
		t.Fatalf("Subs() = %v", subs)
	}
	if e := subs[0].Edges()[0]; e.Source != release.Nodes()[1] {
		t.Errorf("sub-rule edge source = %v, want the enclosing eraser node", e.Source)
	}

	if set.Types == nil || !set.Types.IsSubtype(graph.ParseLabel("type:Dog"), graph.ParseLabel("type:Animal")) {
		t.Fatal("Dog is not a subtype of Animal")
	}
	if set.Types.IsSubtype(graph.ParseLabel("type:Animal"), graph.ParseLabel("type:Dog")) {
		t.Error("Animal is a subtype of Dog")
	}
}

func TestParseRulesErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		code errors.Code
	}{
		{"bad yaml", "rules: [", errors.ErrCodeInvalidFormat},
		{"unknown node", `
rules:
  - name: r
    nodes: [{id: a}]
    edges: [{from: a, label: x, to: b}]
`, errors.ErrCodeInvalidRule},
		{"unknown role", `
rules:
  - name: r
    nodes: [{id: a, role: writer}]
`, errors.ErrCodeInvalidRule},
		{"duplicate id", `
rules:
  - name: r
    nodes: [{id: a}, {id: a}]
`, errors.ErrCodeInvalidRule},
		{"duplicate rule", `
rules:
  - name: r
  - name: r
`, errors.ErrCodeInvalidRule},
		{"bad label", `
rules:
  - name: r
    nodes: [{id: a}]
    edges: [{from: a, label: "(x", to: a}]
`, errors.ErrCodeInvalidRule},
		{"created path", `
rules:
  - name: r
    nodes: [{id: a}]
    edges: [{from: a, label: "x*", to: a, role: creator}]
`, errors.ErrCodeInvalidRule},
		{"reader parameter", `
rules:
  - name: r
    nodes: [{id: a, role: reader, param: p}]
`, errors.ErrCodeInvalidRule},
		{"bad name", `
rules:
  - name: "two words"
`, errors.ErrCodeInvalidRule},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseRules([]byte(tt.yaml))
			if !errors.Is(err, tt.code) {
				t.Errorf("parseRules() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	for in, want := range map[string]rule.Role{"": rule.Reader, "reader": rule.Reader, "eraser": rule.Eraser, "creator": rule.Creator} {
		if got, err := parseRole(in); err != nil || got != want {
			t.Errorf("parseRole(%q) = %v, %v, want %v", in, got, err, want)
		}
	}
}
