package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mjmehrabi/Groove-RL-sub013/pkg/errors"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/graph"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/match"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/observability"
	"github.com/mjmehrabi/Groove-RL-sub013/pkg/rule"
)

// applyOpts holds the flags of the apply command.
type applyOpts struct {
	graphPath string
	rulesPath string
	ruleName  string
	all       bool
	values    []string
	format    string
	output    string
	injective bool
}

func (c *CLI) applyCommand() *cobra.Command {
	var opts applyOpts
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply rules from a YAML file to a host graph",
		Long: `Apply rules from a YAML rule file to a host graph and write the result.

Rules are tried in file order. Without --all the first match found is applied.
With --all every rule applies as many of its matches as possible, skipping
matches that an already applied event disables or conflicts with.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("injective") {
				opts.injective = c.Config.Injective
			}
			return c.runApply(cmd, &opts)
		},
	}
	cmd.Flags().StringVarP(&opts.graphPath, "graph", "g", "", "host graph file (.json or text)")
	cmd.Flags().StringVarP(&opts.rulesPath, "rules", "r", "", "rule file (YAML)")
	cmd.Flags().StringVar(&opts.ruleName, "rule", "", "apply only the named rule")
	cmd.Flags().BoolVar(&opts.all, "all", false, "apply all independent matches")
	cmd.Flags().StringSliceVar(&opts.values, "set", nil, "parameter values for created value nodes (name=value)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", FormatText, "output format: text, json, dot, svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.injective, "injective", true, "require injective matches")
	_ = cmd.MarkFlagRequired("graph")
	_ = cmd.MarkFlagRequired("rules")
	return cmd
}

func (c *CLI) runApply(cmd *cobra.Command, opts *applyOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	oracle, err := parseValues(opts.values)
	if err != nil {
		return err
	}
	set, err := loadRules(opts.rulesPath)
	if err != nil {
		return err
	}
	rules := set.Rules
	if opts.ruleName != "" {
		r, ok := set.Rule(opts.ruleName)
		if !ok {
			return errors.New(errors.ErrCodeNotFound, "rule %q not in %s", opts.ruleName, opts.rulesPath)
		}
		rules = []*rule.Rule{r}
	}

	f := graph.NewFactory()
	g, err := readGraph(opts.graphPath, f)
	if err != nil {
		return err
	}
	f.Observe(g)
	rec := rule.NewRecord(f,
		rule.WithReuse(c.Config.ReuseMode()),
		rule.WithOracle(oracle),
		rule.WithLogger(logger))

	prog := newProgress(logger)
	a := &applier{
		ctx:       ctx,
		record:    rec,
		types:     set.Types,
		injective: opts.injective,
		w:         cmd.ErrOrStderr(),
	}
	result, err := a.run(g, rules, opts.all)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Applied %d events", a.applied))

	out, err := openOutput(cmd.OutOrStdout(), opts.output)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := c.writeGraph(ctx, out, result, opts.format); err != nil {
		return err
	}
	if opts.output != "" {
		printFile(cmd.ErrOrStderr(), opts.output)
	}
	return nil
}

// applier applies rule matches one after another. Matches of one rule are
// found on the same graph; an event is skipped if an event of the same
// round disables or conflicts with it.
type applier struct {
	ctx       context.Context
	record    *rule.Record
	types     graph.TypeGraph
	injective bool
	w         io.Writer

	round   []rule.Event
	applied int
}

// run applies the rules to g and returns the final graph.
func (a *applier) run(g graph.Graph, rules []*rule.Rule, all bool) (graph.Graph, error) {
	for _, r := range rules {
		m := &match.Matcher{Graph: g, TypeGraph: a.types, Injective: a.injective, Logger: a.record.Logger()}
		events, err := m.Events(a.ctx, r, a.record)
		if err != nil {
			return nil, err
		}
		a.record.Logger().Debug("matches", "rule", r.Name(), "events", len(events))
		a.round = a.round[:0]
		for _, ev := range events {
			if a.blocked(ev) {
				printDetail(a.w, "skipped %s", ev.Key())
				continue
			}
			if g, err = a.apply(g, ev); err != nil {
				return nil, err
			}
			if !all {
				return g, nil
			}
		}
	}
	if a.applied == 0 {
		printWarning(a.w, "no rule matched")
	}
	return g, nil
}

// blocked reports whether an event applied in this round disables or
// conflicts with ev.
func (a *applier) blocked(ev rule.Event) bool {
	for _, done := range a.round {
		if done.Disables(ev) || done.Conflicts(ev) {
			return true
		}
	}
	return false
}

func (a *applier) apply(g graph.Graph, ev rule.Event) (graph.Graph, error) {
	app := rule.NewApplication(ev, g, a.record)
	target, err := app.Target(a.ctx)
	if err != nil {
		return nil, err
	}
	eff, err := app.Effect(a.ctx)
	if err != nil {
		return nil, err
	}
	observability.Rewrite().OnApply(a.ctx, ev.Key(),
		len(eff.AddedNodes())+len(eff.AddedEdges()), len(eff.RemovedNodes())+len(eff.RemovedEdges()))
	label := a.record.TransitionLabel(ev, eff.AddedNodes())
	printSuccess(a.w, "%s", StyleHighlight.Render(label.String()))
	printStats(a.w, target.NodeCount(), target.EdgeCount())
	a.round = append(a.round, ev)
	a.applied++
	return target, nil
}

// parseValues turns name=value pairs into a value oracle.
func parseValues(pairs []string) (rule.MapOracle, error) {
	oracle := rule.MapOracle{}
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid value %q (want name=value)", p)
		}
		oracle[name] = value
	}
	return oracle, nil
}
