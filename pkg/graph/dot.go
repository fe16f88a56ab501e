package graph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"
)

// ToDOT converts a graph to Graphviz DOT format. Node types and flags are
// folded into the node label; value nodes are drawn as plain text.
// The result can be rendered with [RenderSVG].
func ToDOT(g Graph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", dotID(n), strings.Join(nodeAttrs(g, n), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if !e.Label.IsBinary() && e.IsLoop() {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", dotID(e.Source), dotID(e.Target), e.Label.String())
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotID(n Node) string {
	if n.IsValue() {
		return "v" + strconv.Itoa(n.Number)
	}
	return n.String()
}

func nodeAttrs(g Graph, n Node) []string {
	if n.IsValue() {
		return []string{fmt.Sprintf("label=%q", n.Value), "shape=plaintext", "style=\"\""}
	}
	lines := []string{n.String()}
	for _, e := range g.OutEdges(n) {
		if e.IsLoop() && !e.Label.IsBinary() {
			lines = append(lines, e.Label.String())
		}
	}
	return []string{fmt.Sprintf("label=%q", strings.Join(lines, "\n"))}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing scales from its origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
