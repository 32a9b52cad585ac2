package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tickplot/pkg/pipeline"
	"github.com/matzehuels/tickplot/pkg/plot"
)

// ticksCommand creates the ticks command, which prints the resolved axes.
func (c *CLI) ticksCommand() *cobra.Command {
	var (
		asJSON  bool
		hidden  bool
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "ticks [chart.toml]",
		Short: "Print every axis' range, ticks and labels",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTicks(cmd.Context(), args[0], opts, asJSON, hidden, noCache)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the axes as JSON")
	cmd.Flags().BoolVar(&hidden, "all", false, "include hidden axes")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "override chart width")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "override chart height")

	return cmd
}

func (c *CLI) runTicks(ctx context.Context, input string, opts pipeline.Options, asJSON, hidden, noCache bool) error {
	snap, _, err := c.loadSnapshot(ctx, input, opts, noCache)
	if err != nil {
		return err
	}

	axes := filterAxes(snap.Axes, hidden)
	if asJSON {
		data, err := json.MarshalIndent(axes, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, string(data))
		return nil
	}
	if len(axes) == 0 {
		printInfo("No visible axes")
		return nil
	}
	fmt.Fprintln(stdout, ticksTable(axes))
	return nil
}

func filterAxes(axes []plot.AxisInfo, hidden bool) []plot.AxisInfo {
	if hidden {
		return axes
	}
	out := make([]plot.AxisInfo, 0, len(axes))
	for _, a := range axes {
		if a.Visible {
			out = append(out, a)
		}
	}
	return out
}

// ticksTable renders one row per axis.
func ticksTable(axes []plot.AxisInfo) string {
	rows := make([][]string, 0, len(axes))
	for _, a := range axes {
		scale := a.Scale
		if a.Reversed {
			scale += " (rev)"
		}
		rows = append(rows, []string{
			strconv.Itoa(a.Panel),
			a.Type,
			scale,
			a.Range.String(),
			strings.Join(a.Labels, " "),
			strconv.Itoa(len(a.SubTicks)),
			strconv.Itoa(a.Margin),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Panel", "Axis", "Scale", "Range", "Tick labels", "Sub", "Margin").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case col == 4:
				return StyleValue
			case col == 3 || col == 6:
				return StyleNumber
			}
			return StyleDim
		}).
		Render()
}
