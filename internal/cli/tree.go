package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tickplot/pkg/pipeline"
	"github.com/matzehuels/tickplot/pkg/plot"
)

// treeCommand creates the tree command, which draws the layout tree and
// layer stack of a chart.
func (c *CLI) treeCommand() *cobra.Command {
	var (
		output string
		format string
		width  int
		height int
	)

	cmd := &cobra.Command{
		Use:   "tree [chart.toml]",
		Short: "Draw the layout tree and layer stack",
		Long: `Draw the layout tree and layer stack of a chart.

Layout elements appear as boxes connected parent to child with their resolved
rects; each layer is a cluster listing its members in draw order. With
--format dot the Graphviz source is written instead of SVG.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "svg" && format != "dot" {
				return fmt.Errorf("invalid format: %s (must be 'svg' or 'dot')", format)
			}
			return c.runTree(cmd.Context(), args[0], pipeline.Options{Width: width, Height: height}, format, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.tree.<format>, - for stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg, dot")
	cmd.Flags().IntVar(&width, "width", 0, "override chart width")
	cmd.Flags().IntVar(&height, "height", 0, "override chart height")

	return cmd
}

func (c *CLI) runTree(ctx context.Context, input string, opts pipeline.Options, format, output string) error {
	data, err := readChart(input)
	if err != nil {
		return fmt.Errorf("read chart %s: %w", input, err)
	}
	opts.Chart = data

	chart, err := pipeline.Load(opts)
	if err != nil {
		return err
	}
	p, err := pipeline.BuildPlot(chart, false)
	if err != nil {
		return err
	}
	p.UpdateLayout()
	dot := p.ToDOT()
	logger := loggerFromContext(ctx)
	logger.Debug("generated DOT", "bytes", len(dot))

	out := []byte(dot)
	if format == "svg" {
		prog := newProgress(logger)
		if out, err = plot.RenderTreeSVG(ctx, dot); err != nil {
			return err
		}
		prog.done("Rendered layout tree")
	}

	if output == "-" {
		_, err := os.Stdout.Write(out)
		return err
	}
	if output == "" {
		output = basePath("", input) + ".tree." + format
	}
	if err := writeOutput(output, out); err != nil {
		return err
	}
	printSuccess("Tree complete")
	printFile(output)
	return nil
}
