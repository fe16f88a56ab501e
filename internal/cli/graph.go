package cli

import (
	"github.com/spf13/cobra"
)

// graphCommand groups the commands working on host graph files.
func (c *CLI) graphCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Inspect and convert host graphs",
	}
	cmd.AddCommand(c.graphShowCommand())
	return cmd
}

// showOpts holds the flags of the graph show command.
type showOpts struct {
	graphPath string
	format    string
	output    string
}

func (c *CLI) graphShowCommand() *cobra.Command {
	var opts showOpts
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print a host graph as text, JSON, DOT or SVG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format == "" {
				opts.format = c.Config.Render.Format
			}
			return c.runShow(cmd, &opts)
		},
	}
	cmd.Flags().StringVarP(&opts.graphPath, "graph", "g", "", "host graph file (.json or text)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: dot, svg, json, text (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	_ = cmd.MarkFlagRequired("graph")
	return cmd
}

func (c *CLI) runShow(cmd *cobra.Command, opts *showOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	g, err := readGraph(opts.graphPath, nil)
	if err != nil {
		return err
	}
	logger.Infof("Loaded graph: %d nodes, %d edges", g.NodeCount(), g.EdgeCount())

	out, err := openOutput(cmd.OutOrStdout(), opts.output)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := c.writeGraph(ctx, out, g, opts.format); err != nil {
		return err
	}
	if opts.output != "" {
		printFile(cmd.ErrOrStderr(), opts.output)
	}
	return nil
}
