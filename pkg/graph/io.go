package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/errors"
)

// =============================================================================
// JSON Serialization API
// =============================================================================

// jsonGraph is the node-link wire format.
type jsonGraph struct {
	Nodes []jsonNode `json:"nodes"`
	Edges []jsonEdge `json:"edges"`
}

type jsonNode struct {
	ID    int     `json:"id"`
	Value *string `json:"value,omitempty"`
}

type jsonEdge struct {
	From  int    `json:"from"`
	Label string `json:"label"`
	To    int    `json:"to"`
}

// MarshalJSON converts a graph to indented JSON bytes.
// Nodes and edges are written in [Compare] order.
func MarshalJSON(g Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSONFile writes a graph to a JSON file.
func WriteJSONFile(g Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}

// WriteJSON writes a graph as JSON to w.
func WriteJSON(g Graph, w io.Writer) error {
	out := jsonGraph{Nodes: []jsonNode{}, Edges: []jsonEdge{}}
	for _, n := range g.Nodes() {
		jn := jsonNode{ID: n.Number}
		if n.IsValue() {
			v := n.Value
			jn.Value = &v
		}
		out.Nodes = append(out.Nodes, jn)
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, jsonEdge{From: e.Source.Number, Label: e.Label.String(), To: e.Target.Number})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSONFile reads a JSON graph file. The factory, if non-nil, observes
// the result so later fresh nodes do not collide with it.
func ReadJSONFile(path string, f *Factory) (*HostGraph, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	return ReadJSON(file, f)
}

// ReadJSON decodes a JSON graph from r.
func ReadJSON(r io.Reader, f *Factory) (*HostGraph, error) {
	var data jsonGraph
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode")
	}
	g := NewHostGraph()
	byID := make(map[int]Node, len(data.Nodes))
	for _, jn := range data.Nodes {
		if _, dup := byID[jn.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidGraph, "duplicate node id %d", jn.ID)
		}
		n := Node{Number: jn.ID}
		if jn.Value != nil {
			n.Kind = ValueNode
			n.Value = *jn.Value
		}
		byID[jn.ID] = n
		g.AddNode(n)
	}
	for _, je := range data.Edges {
		src, ok := byID[je.From]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidGraph, "edge %d -%s-> %d: unknown source", je.From, je.Label, je.To)
		}
		tgt, ok := byID[je.To]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidGraph, "edge %d -%s-> %d: unknown target", je.From, je.Label, je.To)
		}
		if err := errors.ValidateLabelText(je.Label); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "edge %d -> %d", je.From, je.To)
		}
		l := ParseLabel(je.Label)
		if !l.IsBinary() && src != tgt {
			return nil, errors.New(errors.ErrCodeInvalidGraph, "label %q must be a self-loop", je.Label)
		}
		g.AddEdge(Edge{Source: src, Label: l, Target: tgt})
	}
	if f != nil {
		f.Observe(g)
	}
	return g, nil
}
