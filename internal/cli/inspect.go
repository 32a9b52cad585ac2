package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tickplot/pkg/pipeline"
	"github.com/matzehuels/tickplot/pkg/plot"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	detailBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

// inspectCommand creates the inspect command, an interactive browser for the
// resolved layout.
func (c *CLI) inspectCommand() *cobra.Command {
	var noCache bool
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "inspect [chart.toml]",
		Short: "Browse the resolved layout interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], opts, noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVar(&opts.Width, "width", 0, "override chart width")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "override chart height")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, opts pipeline.Options, noCache bool) error {
	snap, _, err := c.loadSnapshot(ctx, input, opts, noCache)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(NewInspectModel(snap), tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}

// =============================================================================
// InspectModel - Interactive layout browser
// =============================================================================

// inspectTab selects what the list shows.
type inspectTab int

const (
	tabElements inspectTab = iota
	tabAxes
	tabLayers
	tabCount
)

func (t inspectTab) String() string {
	return [...]string{"Elements", "Axes", "Layers"}[t]
}

// InspectModel is the bubbletea model for browsing a layout snapshot.
type InspectModel struct {
	Snapshot plot.Snapshot
	Tab      inspectTab
	Cursor   int
	Offset   int
	Height   int
}

// NewInspectModel creates an inspect model positioned on the first element.
func NewInspectModel(s plot.Snapshot) InspectModel {
	return InspectModel{Snapshot: s, Height: 15}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "right", "l":
			m.Tab = (m.Tab + 1) % tabCount
			m.Cursor, m.Offset = 0, 0
		case "shift+tab", "left", "h":
			m.Tab = (m.Tab + tabCount - 1) % tabCount
			m.Cursor, m.Offset = 0, 0
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < m.rowCount()-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-10, 5)
	}
	return m, nil
}

func (m InspectModel) rowCount() int {
	switch m.Tab {
	case tabAxes:
		return len(m.Snapshot.Axes)
	case tabLayers:
		return len(m.Snapshot.Layers)
	}
	return len(m.Snapshot.Elements)
}

// rows returns the list labels for the current tab.
func (m InspectModel) rows() []string {
	var rows []string
	switch m.Tab {
	case tabElements:
		for _, el := range m.Snapshot.Elements {
			rows = append(rows, fmt.Sprintf("%s%-10s %s", strings.Repeat("  ", el.Depth), el.Kind, el.Path))
		}
	case tabAxes:
		for _, a := range m.Snapshot.Axes {
			rows = append(rows, fmt.Sprintf("panel %d  %-6s %s", a.Panel, a.Type, a.Range))
		}
	case tabLayers:
		for _, l := range m.Snapshot.Layers {
			rows = append(rows, fmt.Sprintf("%d  %-12s %d members", l.Index, l.Name, len(l.Members)))
		}
	}
	return rows
}

// detail describes the selected row.
func (m InspectModel) detail() string {
	if m.Cursor >= m.rowCount() {
		return ""
	}
	var b strings.Builder
	switch m.Tab {
	case tabElements:
		el := m.Snapshot.Elements[m.Cursor]
		fmt.Fprintf(&b, "%s  %s\n", StyleTitle.Render(el.Kind), el.Path)
		fmt.Fprintf(&b, "outer    %s\n", formatRect(el.Outer))
		fmt.Fprintf(&b, "inner    %s\n", formatRect(el.Inner))
		fmt.Fprintf(&b, "margins  l=%d t=%d r=%d b=%d\n", el.Margins.Left, el.Margins.Top, el.Margins.Right, el.Margins.Bottom)
		fmt.Fprintf(&b, "visible  %t", el.Visible)
	case tabAxes:
		a := m.Snapshot.Axes[m.Cursor]
		fmt.Fprintf(&b, "%s  panel %d\n", StyleTitle.Render(a.Type), a.Panel)
		if a.Label != "" {
			fmt.Fprintf(&b, "label    %s\n", a.Label)
		}
		fmt.Fprintf(&b, "scale    %s reversed=%t\n", a.Scale, a.Reversed)
		fmt.Fprintf(&b, "range    %s\n", a.Range)
		fmt.Fprintf(&b, "margin   %d offset=%d\n", a.Margin, a.Offset)
		fmt.Fprintf(&b, "ticks    %s\n", strings.Join(a.Labels, " "))
		fmt.Fprintf(&b, "subticks %d", len(a.SubTicks))
	case tabLayers:
		l := m.Snapshot.Layers[m.Cursor]
		fmt.Fprintf(&b, "%s  index %d\n", StyleTitle.Render(l.Name), l.Index)
		for i, member := range l.Members {
			fmt.Fprintf(&b, "%2d  %s\n", i, member)
		}
		if len(l.Members) == 0 {
			b.WriteString(listDimStyle.Render("(empty)"))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m InspectModel) View() string {
	var b strings.Builder

	var tabs []string
	for t := range tabCount {
		if t == m.Tab {
			tabs = append(tabs, listSelectedStyle.Render("["+t.String()+"]"))
		} else {
			tabs = append(tabs, listDimStyle.Render(" "+t.String()+" "))
		}
	}
	b.WriteString(StyleTitle.Render(fmt.Sprintf("Layout %dx%d", m.Snapshot.Width, m.Snapshot.Height)))
	b.WriteString("  ")
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⇥ switch view  q quit"))
	b.WriteString("\n\n")

	rows := m.rows()
	end := min(m.Offset+m.Height, len(rows))
	var list strings.Builder
	for i := m.Offset; i < end; i++ {
		if i == m.Cursor {
			list.WriteString(listSelectedStyle.Render("▸ " + rows[i]))
		} else {
			list.WriteString(listNormalStyle.Render("  " + rows[i]))
		}
		list.WriteString("\n")
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list.String(), "  ", detailBoxStyle.Render(m.detail())))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", min(m.Cursor+1, len(rows)), len(rows))))
	return b.String()
}

func formatRect(r plot.Rect) string {
	return fmt.Sprintf("%dx%d+%d+%d", r.W, r.H, r.X, r.Y)
}
