package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/patchwire/patchwire/pkg/flow"
	"github.com/patchwire/patchwire/pkg/pipeline"
)

// layoutCommand creates the layout command for computing patch layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		apply   bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute a layout for a patch graph",
		Long: `Compute a layout for a patch graph.

The layout command takes a graph.json file and computes positions for every
node: producers end up left of their consumers, disconnected islands are
stacked vertically, and crossings are minimized. The output is a layout.json
file with positions and the overall extent.

With --apply the positions are written back into a copy of the graph file
instead, so the result can be fed straight back into an editor.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache, apply)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&apply, "apply", false, "write positions into a copy of the graph instead of a layout file")

	// Layout flags
	cmd.Flags().Float64Var(&opts.SpacingX, "spacing-x", 0, "horizontal gap between columns")
	cmd.Flags().Float64Var(&opts.SpacingY, "spacing-y", 0, "vertical gap between rows")
	cmd.Flags().Float64Var(&opts.IslandSpacing, "island-spacing", 0, "vertical gap between islands")
	cmd.Flags().IntVar(&opts.MaxSweeps, "max-sweeps", 0, "cap on crossing-reduction sweeps (0 = automatic)")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "recompute even when every node already has a position")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "bypass the cache and recompute")

	return cmd
}

// runLayout loads the graph, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache, apply bool) error {
	g, err := flow.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if c.Config != nil {
		c.Config.ApplyLayout(&opts)
	}
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	l, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, &g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		if apply {
			outputPath = base + ".laid.json"
		} else {
			outputPath = base + ".layout.json"
		}
	}

	if apply {
		l.Apply(&g)
		if err := flow.WriteGraphFile(&g, outputPath); err != nil {
			return fmt.Errorf("write output %s: %w", outputPath, err)
		}
	} else {
		if err := flow.WriteLayoutFile(l, outputPath); err != nil {
			return fmt.Errorf("write output %s: %w", outputPath, err)
		}
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(g.NodeCount(), g.EdgeCount(), cacheHit)
	printNewline()
	printNextStep("Render", appName+" render "+input)

	return nil
}
