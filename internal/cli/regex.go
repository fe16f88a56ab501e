package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/automaton"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/errors"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/observability"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/regex"
)

// regexCommand groups the commands working on a single expression.
func (c *CLI) regexCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regex",
		Short: "Inspect regular path expressions",
	}
	cmd.AddCommand(c.regexParseCommand())
	cmd.AddCommand(c.regexDFACommand())
	return cmd
}

func (c *CLI) regexParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parse EXPR",
		Short: "Parse an expression and show its structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := regex.Parse(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printKeyValue(w, "expression", e.String())
			printKeyValue(w, "kind", e.Kind().String())
			printKeyValue(w, "empty word", fmt.Sprint(e.AcceptsEmptyWord()))
			labels := regex.Labels(e)
			names := make([]string, len(labels))
			for i, l := range labels {
				names[i] = l.String()
			}
			printKeyValue(w, "labels", strings.Join(names, ", "))
			printTree(w, e, 0)
			return nil
		},
	}
}

// dfaOpts holds the flags of the regex dfa command.
type dfaOpts struct {
	direction string
	minimise  bool
	format    string
	output    string
	nfa       bool
}

func (c *CLI) regexDFACommand() *cobra.Command {
	var opts dfaOpts
	cmd := &cobra.Command{
		Use:   "dfa EXPR",
		Short: "Compile an expression to a DFA and render it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("minimise") {
				opts.minimise = c.Config.Minimise
			}
			if opts.format == "" {
				opts.format = c.Config.Render.Format
			}
			return c.runDFA(cmd, args[0], &opts)
		},
	}
	cmd.Flags().StringVar(&opts.direction, "direction", "out", "reading direction: out, in")
	cmd.Flags().BoolVar(&opts.minimise, "minimise", true, "minimise the automaton")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: dot, svg (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.nfa, "nfa", false, "render the automaton before determinisation")
	return cmd
}

func (c *CLI) runDFA(cmd *cobra.Command, text string, opts *dfaOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	dir, err := parseDirection(opts.direction)
	if err != nil {
		return err
	}
	e, err := regex.Parse(text)
	if err != nil {
		return err
	}
	aut, err := automaton.Compile(e)
	if err != nil {
		return err
	}
	dfa := aut.ToDFA(dir)
	logger.Debug("compiled", "expr", e.String(), "nfa", len(aut.Nodes()), "dfa", dfa.Size())
	if opts.minimise {
		prog := newProgress(logger)
		minimal := dfa.Minimise()
		observability.Automaton().OnMinimise(ctx, e.String(), dfa.Size(), minimal.Size(), time.Since(prog.start))
		prog.done(fmt.Sprintf("Minimised %d to %d states", dfa.Size(), minimal.Size()))
		dfa = minimal
	}
	dot := dfa.ToDOT()
	if opts.nfa {
		dot = aut.ToDOT()
	}

	out, err := openOutput(cmd.OutOrStdout(), opts.output)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := c.writeDOT(ctx, out, dot, opts.format); err != nil {
		return err
	}
	if opts.output != "" {
		printFile(cmd.ErrOrStderr(), opts.output)
	}
	return nil
}

// printTree prints the operator tree of e, one node per line.
func printTree(w io.Writer, e regex.Expr, depth int) {
	label := e.Kind().String()
	if len(e.Operands()) == 0 {
		label = e.String()
	}
	fmt.Fprintln(w, strings.Repeat("  ", depth+1)+StyleDim.Render(iconInfo)+" "+StyleHighlight.Render(label))
	for _, op := range e.Operands() {
		printTree(w, op, depth+1)
	}
}

// parseDirection maps "out" and "in" to DFA reading directions.
func parseDirection(s string) (automaton.Direction, error) {
	switch s {
	case "out", "":
		return automaton.Outgoing, nil
	case "in":
		return automaton.Incoming, nil
	}
	return automaton.Outgoing, errors.New(errors.ErrCodeInvalidInput, "invalid direction: %s (must be 'out' or 'in')", s)
}
