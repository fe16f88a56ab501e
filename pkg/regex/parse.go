package regex

import (
	"strings"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/errors"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/graph"
)

// prototype recognises one operator. It returns ok=false if text does not
// have the operator's shape; a shaped but malformed text yields an error.
type prototype func(text string) (e Expr, ok bool, err error)

// prototypes in the order they are tried.
var prototypes []prototype

func init() {
	prototypes = []prototype{
		parseAtom,
		parseNeg,
		parseChoice,
		parseSeq,
		parseInv,
		parseStar,
		parsePlus,
		parseWildcard,
		parseSharp,
		parseEmpty,
	}
}

// Parse reads an expression. Malformed text yields an
// [errors.ErrCodeInvalidFormat] error.
func Parse(text string) (Expr, error) {
	if err := checkBalanced(text); err != nil {
		return nil, err
	}
	return parse(text)
}

// MustParse is like Parse but panics on malformed text.
func MustParse(text string) Expr {
	e, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return e
}

// IsAtom reports whether text parses to a single atom.
func IsAtom(text string) bool {
	e, err := Parse(text)
	if err != nil {
		return false
	}
	_, ok := e.(*Atom)
	return ok
}

func parse(text string) (Expr, error) {
	text = stripParens(strings.TrimSpace(text))
	if text == "" {
		return nil, formatError(text, "empty expression")
	}
	for _, proto := range prototypes {
		e, ok, err := proto(text)
		if err != nil {
			return nil, err
		}
		if ok {
			return e, nil
		}
	}
	return nil, formatError(text, "unrecognised expression")
}

func formatError(text, reason string) error {
	return errors.New(errors.ErrCodeInvalidFormat, "%s in %q", reason, text)
}

// =============================================================================
// Prototypes
// =============================================================================

func parseAtom(text string) (Expr, bool, error) {
	l, ok := parseLabel(text)
	if !ok {
		return nil, false, nil
	}
	return NewAtom(l), true, nil
}

func parseNeg(text string) (Expr, bool, error) {
	return parsePrefix(text, '!', func(op Expr) Expr { return NewNeg(op) })
}

func parseInv(text string) (Expr, bool, error) {
	return parsePrefix(text, '-', func(op Expr) Expr { return NewInv(op) })
}

func parseStar(text string) (Expr, bool, error) {
	return parsePostfix(text, '*', func(op Expr) Expr { return NewStar(op) })
}

func parsePlus(text string) (Expr, bool, error) {
	return parsePostfix(text, '+', func(op Expr) Expr { return NewPlus(op) })
}

func parseChoice(text string) (Expr, bool, error) {
	return parseInfix(text, '|', func(ops []Expr) Expr { return NewChoice(ops...) })
}

func parseSeq(text string) (Expr, bool, error) {
	return parseInfix(text, '.', func(ops []Expr) Expr { return NewSeq(ops...) })
}

func parseEmpty(text string) (Expr, bool, error) {
	return NewEmpty(), text == "=", nil
}

func parseSharp(text string) (Expr, bool, error) {
	if !strings.HasPrefix(text, "#") {
		return nil, false, nil
	}
	name, ok := parseName(text[1:])
	if !ok {
		return nil, false, formatError(text, "malformed node type")
	}
	return NewSharp(graph.Label{Kind: graph.NodeTypeLabel, Text: name}), true, nil
}

func parseWildcard(text string) (Expr, bool, error) {
	kind, rest := splitKind(text)
	if !strings.HasPrefix(rest, "?") {
		return nil, false, nil
	}
	rest = rest[1:]
	i := 0
	for i < len(rest) && isIdentRune(rune(rest[i])) {
		i++
	}
	name := rest[:i]
	if name != "" && '0' <= name[0] && name[0] <= '9' {
		return nil, false, formatError(text, "wildcard name must not start with a digit")
	}
	rest = rest[i:]
	if rest == "" {
		return NewWildcard(kind, name, nil, false), true, nil
	}
	if rest[0] != '[' || rest[len(rest)-1] != ']' {
		return nil, false, formatError(text, "malformed wildcard guard")
	}
	body := rest[1 : len(rest)-1]
	negated := strings.HasPrefix(body, "^")
	if negated {
		body = body[1:]
	}
	// an empty guard admits no label, or every label when negated
	if strings.TrimSpace(body) == "" {
		return NewWildcard(kind, name, []string{}, negated), true, nil
	}
	parts, err := splitTop(body, ',')
	if err != nil {
		return nil, false, err
	}
	constraint := make([]string, 0, len(parts))
	for _, p := range parts {
		label, ok := parseName(strings.TrimSpace(p))
		if !ok {
			return nil, false, formatError(text, "malformed wildcard label")
		}
		constraint = append(constraint, label)
	}
	return NewWildcard(kind, name, constraint, negated), true, nil
}

func parsePrefix(text string, op byte, build func(Expr) Expr) (Expr, bool, error) {
	if text[0] != op {
		return nil, false, nil
	}
	operand, err := parse(text[1:])
	if err != nil {
		return nil, false, err
	}
	return build(operand), true, nil
}

func parsePostfix(text string, op byte, build func(Expr) Expr) (Expr, bool, error) {
	if text[len(text)-1] != op {
		return nil, false, nil
	}
	operand, err := parse(text[:len(text)-1])
	if err != nil {
		return nil, false, err
	}
	return build(operand), true, nil
}

func parseInfix(text string, op byte, build func([]Expr) Expr) (Expr, bool, error) {
	parts, err := splitTop(text, op)
	if err != nil {
		return nil, false, err
	}
	if len(parts) < 2 {
		return nil, false, nil
	}
	operands := make([]Expr, len(parts))
	for i, p := range parts {
		if strings.TrimSpace(p) == "" {
			return nil, false, formatError(text, "missing operand of '"+string(op)+"'")
		}
		if operands[i], err = parse(p); err != nil {
			return nil, false, err
		}
	}
	return build(operands), true, nil
}

// =============================================================================
// Lexical Helpers
// =============================================================================

func splitKind(text string) (graph.LabelKind, string) {
	for _, kind := range []graph.LabelKind{graph.NodeTypeLabel, graph.FlagLabel} {
		if rest, ok := strings.CutPrefix(text, kind.Prefix()); ok {
			return kind, rest
		}
	}
	return graph.BinaryLabel, text
}

// parseLabel recognises an optionally prefixed identifier or quoted string.
func parseLabel(text string) (graph.Label, bool) {
	kind, rest := splitKind(text)
	name, ok := parseName(rest)
	if !ok {
		return graph.Label{}, false
	}
	return graph.Label{Kind: kind, Text: name}, true
}

// parseName recognises a bare identifier or one complete quoted string.
func parseName(text string) (string, bool) {
	if IsIdentifier(text) {
		return text, true
	}
	if len(text) < 2 || text[0] != '\'' {
		return "", false
	}
	end, ok := quoteEnd(text, 0)
	if !ok || end != len(text)-1 {
		return "", false
	}
	return Unquote(text), true
}

// Unquote reverses [Quote]. Text that is not quoted is returned unchanged.
func Unquote(text string) string {
	if len(text) < 2 || text[0] != '\'' || text[len(text)-1] != '\'' {
		return text
	}
	var b strings.Builder
	escaped := false
	for _, r := range text[1 : len(text)-1] {
		if !escaped && r == '\\' {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}

// quoteEnd returns the index of the quote closing the string opened at start.
func quoteEnd(text string, start int) (int, bool) {
	for i := start + 1; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case '\'':
			return i, true
		}
	}
	return 0, false
}

// splitTop splits text at occurrences of sep outside brackets and quotes.
func splitTop(text string, sep byte) ([]string, error) {
	var parts []string
	depth, last := 0, 0
	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '\'':
			end, ok := quoteEnd(text, i)
			if !ok {
				return nil, formatError(text, "unterminated quote")
			}
			i = end
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		default:
			if c == sep && depth == 0 {
				parts = append(parts, text[last:i])
				last = i + 1
			}
		}
	}
	return append(parts, text[last:]), nil
}

// matchingClose returns the index of the bracket closing the one at open.
func matchingClose(text string, open int) int {
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '\'':
			end, ok := quoteEnd(text, i)
			if !ok {
				return -1
			}
			i = end
		case '(', '[':
			depth++
		case ')', ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// stripParens removes parentheses enclosing the whole text, repeatedly.
func stripParens(text string) string {
	for len(text) >= 2 && text[0] == '(' && matchingClose(text, 0) == len(text)-1 {
		text = strings.TrimSpace(text[1 : len(text)-1])
	}
	return text
}

func checkBalanced(text string) error {
	var stack []byte
	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '\'':
			end, ok := quoteEnd(text, i)
			if !ok {
				return formatError(text, "unterminated quote")
			}
			i = end
		case '(', '[':
			stack = append(stack, c)
		case ')', ']':
			open := byte('(')
			if c == ']' {
				open = '['
			}
			if len(stack) == 0 || stack[len(stack)-1] != open {
				return formatError(text, "unbalanced '"+string(c)+"'")
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) > 0 {
		return formatError(text, "unclosed '"+string(stack[len(stack)-1])+"'")
	}
	return nil
}
