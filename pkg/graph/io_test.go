package graph

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/errors"
)

func sampleGraph() *HostGraph {
	f := NewFactory()
	g := NewHostGraph()
	alice, bob := f.CreateNode(), f.CreateNode()
	name := f.CreateValueNode("Alice")
	g.AddEdge(f.CreateEdge(alice, f.CreateLabel("type:Person"), alice))
	g.AddEdge(f.CreateEdge(alice, f.CreateLabel("knows"), bob))
	g.AddEdge(f.CreateEdge(alice, f.CreateLabel("name"), name))
	g.AddEdge(f.CreateEdge(bob, f.CreateLabel("flag:new"), bob))
	return g
}

func TestJSONRoundTrip(t *testing.T) {
	g := sampleGraph()
	data, err := MarshalJSON(g)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	back, err := ReadJSON(bytes.NewReader(data), nil)
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if !Equal(g, back) {
		t.Errorf("round trip changed graph:\n%s", data)
	}
}

func TestJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "g.json")
	if err := WriteJSONFile(sampleGraph(), path); err != nil {
		t.Fatalf("WriteJSONFile() error = %v", err)
	}
	f := NewFactory()
	g, err := ReadJSONFile(path, f)
	if err != nil {
		t.Fatalf("ReadJSONFile() error = %v", err)
	}
	if g.NodeCount() != 3 {
		t.Errorf("NodeCount() = %d, want 3", g.NodeCount())
	}
	if f.NextNumber() != 3 {
		t.Errorf("factory did not observe graph: next = %d", f.NextNumber())
	}

	_, err = ReadJSONFile(filepath.Join(t.TempDir(), "missing.json"), nil)
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
	_ = os.Remove(path)
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"nodes": [`},
		{"duplicate id", `{"nodes":[{"id":1},{"id":1}],"edges":[]}`},
		{"unknown source", `{"nodes":[{"id":1}],"edges":[{"from":2,"label":"a","to":1}]}`},
		{"unknown target", `{"nodes":[{"id":1}],"edges":[{"from":1,"label":"a","to":2}]}`},
		{"empty label", `{"nodes":[{"id":1}],"edges":[{"from":1,"label":"","to":1}]}`},
		{"type not loop", `{"nodes":[{"id":1},{"id":2}],"edges":[{"from":1,"label":"type:T","to":2}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input), nil)
			if !errors.Is(err, errors.ErrCodeInvalidGraph) {
				t.Errorf("ReadJSON() error = %v, want INVALID_GRAPH", err)
			}
		})
	}
}
