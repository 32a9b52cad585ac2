package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tickplot/pkg/pipeline"
	"github.com/matzehuels/tickplot/pkg/plot"
)

// layoutCommand creates the layout command for resolving chart geometry.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [chart.toml]",
		Short: "Resolve the chart layout and write it as JSON",
		Long: `Resolve the chart layout and write it as JSON.

The output lists every layout element with its outer and inner rect and
margins, every axis with its range and visible ticks, and the members of each
layer in draw order. It is the same document 'render -f json' produces.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "override chart width")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "override chart height")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")

	return cmd
}

// runLayout loads the chart, resolves the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	snap, hit, err := c.loadSnapshot(ctx, input, opts, noCache)
	if err != nil {
		return err
	}

	data, err := pipeline.MarshalSnapshot(snap)
	if err != nil {
		return err
	}
	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", input) + ".layout.json"
	}
	if err := writeOutput(outputPath, data); err != nil {
		return err
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(countPanels(snap), len(snap.Series), hit)
	printNewline()
	printNextStep("Inspect", appName+" inspect "+input)
	return nil
}

// loadSnapshot runs the load and layout stages for input.
func (c *CLI) loadSnapshot(ctx context.Context, input string, opts pipeline.Options, noCache bool) (plot.Snapshot, bool, error) {
	data, err := readChart(input)
	if err != nil {
		return plot.Snapshot{}, false, fmt.Errorf("read chart %s: %w", input, err)
	}
	opts.Chart = data
	opts.Logger = c.Logger

	runner, err := c.newRunner(noCache)
	if err != nil {
		return plot.Snapshot{}, false, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()
	snap, hit, err := runner.LayoutWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return plot.Snapshot{}, false, fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	if ctx.Err() != nil {
		return plot.Snapshot{}, false, ctx.Err()
	}
	return snap, hit, nil
}

func countPanels(s plot.Snapshot) int {
	n := 0
	for _, el := range s.Elements {
		if el.Kind == "axis-rect" {
			n++
		}
	}
	return n
}
