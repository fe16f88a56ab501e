package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/automaton"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/errors"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/graph"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/regex"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/relation"
)

// matchOpts holds the flags of the match command.
type matchOpts struct {
	graphPath  string
	from, to   string
	direction  string
	relational bool
}

func (c *CLI) matchCommand() *cobra.Command {
	var opts matchOpts
	cmd := &cobra.Command{
		Use:   "match EXPR",
		Short: "List the node pairs connected by a path matching EXPR",
		Long: `List the node pairs (from, to) of a host graph connected by a path whose
labels spell a word of EXPR. By default the pairs are found with a DFA
recogniser; --relational evaluates the expression as a node relation instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMatch(cmd, args[0], &opts)
		},
	}
	cmd.Flags().StringVarP(&opts.graphPath, "graph", "g", "", "host graph file (.json or text)")
	cmd.Flags().StringVar(&opts.from, "from", "", "restrict the source node, e.g. n0")
	cmd.Flags().StringVar(&opts.to, "to", "", "restrict the target node, e.g. n3")
	cmd.Flags().StringVar(&opts.direction, "direction", "out", "DFA reading direction: out, in")
	cmd.Flags().BoolVar(&opts.relational, "relational", false, "evaluate as a node relation")
	_ = cmd.MarkFlagRequired("graph")
	return cmd
}

func (c *CLI) runMatch(cmd *cobra.Command, text string, opts *matchOpts) error {
	logger := loggerFromContext(cmd.Context())

	e, err := regex.Parse(text)
	if err != nil {
		return err
	}
	g, err := readGraph(opts.graphPath, nil)
	if err != nil {
		return err
	}
	from, err := parseNodeRef(g, opts.from)
	if err != nil {
		return err
	}
	to, err := parseNodeRef(g, opts.to)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	var matches []automaton.Match
	if opts.relational {
		matches, err = relationalMatches(g, e, from, to)
	} else {
		matches, err = recogniserMatches(g, e, opts.direction, from, to, c.Config.Minimise)
	}
	if err != nil {
		return err
	}
	prog.done("Matched " + e.String())

	w := cmd.OutOrStdout()
	for _, m := range matches {
		printInfo(w, "%s", m)
	}
	printSuccess(w, "%s pairs", StyleNumber.Render(strconv.Itoa(len(matches))))
	return nil
}

func recogniserMatches(g graph.Graph, e regex.Expr, direction string, from, to *graph.Node, minimise bool) ([]automaton.Match, error) {
	dir, err := parseDirection(direction)
	if err != nil {
		return nil, err
	}
	aut, err := automaton.Compile(e)
	if err != nil {
		return nil, err
	}
	dfa := aut.ToDFA(dir)
	if minimise {
		dfa = dfa.Minimise()
	}
	return dfa.Recogniser(g, nil).Matches(from, to), nil
}

func relationalMatches(g graph.Graph, e regex.Expr, from, to *graph.Node) ([]automaton.Match, error) {
	rel, err := relation.Evaluate(g, nil, e)
	if err != nil {
		return nil, err
	}
	var matches []automaton.Match
	for _, p := range rel.Pairs() {
		if from != nil && p[0] != *from || to != nil && p[1] != *to {
			continue
		}
		matches = append(matches, automaton.Match{From: p[0], To: p[1]})
	}
	return matches, nil
}

// parseNodeRef resolves "n3" or "3" to a node of g. An empty reference
// yields nil.
func parseNodeRef(g graph.Graph, ref string) (*graph.Node, error) {
	if ref == "" {
		return nil, nil
	}
	nr, err := strconv.Atoi(strings.TrimPrefix(ref, "n"))
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid node reference %q", ref)
	}
	for _, n := range g.Nodes() {
		if n.Number == nr {
			return &n, nil
		}
	}
	return nil, errors.New(errors.ErrCodeNotFound, "node %s not in graph", ref)
}
