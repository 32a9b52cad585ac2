package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tickplot/pkg/pipeline"
	"github.com/matzehuels/tickplot/pkg/render"
)

// renderFlags holds the command-line flags for the render command.
type renderFlags struct {
	output  string
	formats string
	noCache bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags
	opts := pipeline.Options{Scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render [chart.toml]",
		Short: "Render a chart to SVG, PNG, PDF or JSON",
		Long: `Render a chart to SVG, PNG, PDF or JSON.

The chart is read from the given TOML file ("-" reads stdin). Each requested
format is written next to the input, or to --output. With several formats,
--output is used as the base path and each file gets its format extension.

PDF output and PNG output at --scale other than 1 need rsvg-convert (librsvg).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(flags.formats)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "override chart width")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "override chart height")
	cmd.Flags().Float64Var(&opts.Scale, "scale", opts.Scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.EmbedFonts, "embed-fonts", false, "embed the Go font in SVG/PDF output")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")

	return cmd
}

// runRender executes the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, flags renderFlags) error {
	data, err := readChart(input)
	if err != nil {
		return fmt.Errorf("read chart %s: %w", input, err)
	}
	opts.Chart = data
	opts.Logger = c.Logger

	needsTool := slices.Contains(opts.Formats, pipeline.FormatPDF) ||
		(slices.Contains(opts.Formats, pipeline.FormatPNG) && opts.Scale != 1)
	if needsTool && !render.Available() {
		printWarning("rsvg-convert not found; PDF fails and PNG renders at 1x")
	}

	runner, err := c.newRunner(flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Rendering chart...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := basePath(flags.output, input)
	var written []string
	for _, format := range opts.Formats {
		path := base + "." + format
		if flags.output != "" && len(opts.Formats) == 1 {
			path = flags.output
		}
		if err := writeOutput(path, result.Artifacts[format]); err != nil {
			return err
		}
		written = append(written, path)
	}
	prog.done(fmt.Sprintf("Rendered %s", plural(len(written), "file")))

	printSuccess("Render complete")
	for _, p := range written {
		printFile(p)
	}
	printStats(result.Stats.PanelCount, result.Stats.SeriesCount, result.CacheInfo.RenderHit)
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input; stdin renders to
// "chart". Known format extensions are stripped from output.
func basePath(output, input string) string {
	if output == "" {
		if input == "-" {
			return "chart"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeOutput writes data to path, creating parent directories.
func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}
