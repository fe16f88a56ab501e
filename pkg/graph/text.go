package graph

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/errors"
)

// =============================================================================
// Text Format Grammar
// =============================================================================

var textLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "Arrow", Pattern: `->`},
	{Name: "String", Pattern: `'(\\.|[^'\\])*'`},
	{Name: "Ident", Pattern: `[A-Za-z_$][A-Za-z0-9_$]*(:[A-Za-z_$][A-Za-z0-9_$]*)?`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[-=;]`},
})

type textGraph struct {
	Statements []*textStatement `parser:"@@*"`
}

type textStatement struct {
	Node  *textNode  `parser:"  @@ ';'"`
	Value *textValue `parser:"| @@ ';'"`
	Edge  *textEdge  `parser:"| @@ ';'"`
}

type textNode struct {
	Name  string   `parser:"'node' @Ident"`
	Types []string `parser:"@Ident*"`
}

type textValue struct {
	Literal string `parser:"'value' @(String|Int)"`
}

type textEdge struct {
	Source *textRef `parser:"@@"`
	Label  string   `parser:"'-' @(Ident|String|Int) Arrow"`
	Target *textRef `parser:"@@"`
}

type textRef struct {
	Name    *string `parser:"  @Ident"`
	Literal *string `parser:"| @(String|Int)"`
}

var textParser = participle.MustBuild[textGraph](
	participle.Lexer(textLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.UseLookahead(2),
)

// =============================================================================
// Text Format API
// =============================================================================

// ParseText reads the compact text format:
//
//	node n0 Person;        # object node with node type Person
//	value 'Alice';         # isolated value node
//	n0 -name-> 'Alice';    # edge to a value node
//	n0 -flag:root-> n0;    # flag
//
// Node names of the form n<digits> keep their number; other names receive
// fresh numbers from f (or from a private factory if f is nil).
func ParseText(text string, f *Factory) (*HostGraph, error) {
	ast, err := textParser.ParseString("graph", text)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse graph text")
	}
	if f == nil {
		f = NewFactory()
	}
	b := &textBuilder{factory: f, names: make(map[string]Node), graph: NewHostGraph()}
	b.reserveNumbers(ast)
	for _, st := range ast.Statements {
		if err := b.statement(st); err != nil {
			return nil, err
		}
	}
	return b.graph, nil
}

// ReadTextFile reads a graph in text format from path.
func ReadTextFile(path string, f *Factory) (*HostGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ParseText(string(data), f)
}

// WriteText writes g in the text format accepted by [ParseText].
func WriteText(g Graph, w io.Writer) error {
	var sb strings.Builder
	for _, n := range g.Nodes() {
		switch {
		case n.IsValue():
			if len(g.InEdges(n)) == 0 {
				fmt.Fprintf(&sb, "value %s;\n", n)
			}
		default:
			sb.WriteString("node " + n.String())
			for _, t := range NodeTypes(g, n) {
				sb.WriteString(" " + t.Text)
			}
			sb.WriteString(";\n")
		}
	}
	for _, e := range g.Edges() {
		if e.Label.IsNodeType() && e.IsLoop() {
			continue
		}
		fmt.Fprintf(&sb, "%s -%s-> %s;\n", e.Source, textLabel(e.Label), e.Target)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func textLabel(l Label) string {
	s := l.String()
	if isTextIdent(s) {
		return s
	}
	return quoteValue(s)
}

// isTextIdent mirrors the Ident token rule.
func isTextIdent(s string) bool {
	name, rest, hasColon := strings.Cut(s, ":")
	if !isPlainIdent(name) {
		return false
	}
	return !hasColon || isPlainIdent(rest)
}

func isPlainIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z'):
		case i > 0 && '0' <= r && r <= '9':
		default:
			return false
		}
	}
	return true
}

// =============================================================================
// Internal Implementation
// =============================================================================

type textBuilder struct {
	factory *Factory
	names   map[string]Node
	graph   *HostGraph
}

func (b *textBuilder) reserveNumbers(ast *textGraph) {
	reserve := func(name string) {
		if nr, ok := numberedName(name); ok {
			b.names[name] = b.factory.CreateNodeNr(nr)
		}
	}
	for _, st := range ast.Statements {
		switch {
		case st.Node != nil:
			reserve(st.Node.Name)
		case st.Edge != nil:
			for _, r := range []*textRef{st.Edge.Source, st.Edge.Target} {
				if r.Name != nil {
					reserve(*r.Name)
				}
			}
		}
	}
}

func (b *textBuilder) statement(st *textStatement) error {
	switch {
	case st.Node != nil:
		n := b.named(st.Node.Name)
		b.graph.AddNode(n)
		for _, t := range st.Node.Types {
			b.graph.AddEdge(Edge{Source: n, Label: Label{Kind: NodeTypeLabel, Text: t}, Target: n})
		}
	case st.Value != nil:
		b.graph.AddNode(b.factory.CreateValueNode(literal(st.Value.Literal)))
	case st.Edge != nil:
		text := st.Edge.Label
		if strings.HasPrefix(text, "'") {
			text = unquoteValue(text)
		}
		if err := errors.ValidateLabelText(text); err != nil {
			return err
		}
		l := ParseLabel(text)
		src, tgt := b.ref(st.Edge.Source), b.ref(st.Edge.Target)
		if !l.IsBinary() && src != tgt {
			return errors.New(errors.ErrCodeInvalidGraph, "label %q must be a self-loop", text)
		}
		b.graph.AddEdge(Edge{Source: src, Label: l, Target: tgt})
	}
	return nil
}

func (b *textBuilder) ref(r *textRef) Node {
	if r.Name != nil {
		return b.named(*r.Name)
	}
	return b.factory.CreateValueNode(literal(*r.Literal))
}

func (b *textBuilder) named(name string) Node {
	if n, ok := b.names[name]; ok {
		return n
	}
	n := b.factory.CreateNode()
	b.names[name] = n
	return n
}

func literal(tok string) string {
	if strings.HasPrefix(tok, "'") {
		return unquoteValue(tok)
	}
	return tok
}

func numberedName(name string) (int, bool) {
	if len(name) < 2 || name[0] != 'n' {
		return 0, false
	}
	nr, err := strconv.Atoi(name[1:])
	if err != nil || nr < 0 || strconv.Itoa(nr) != name[1:] {
		return 0, false
	}
	return nr, true
}
