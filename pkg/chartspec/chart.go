// Package chartspec reads chart descriptions from TOML and builds plots
// from them.
//
// A chart file names the viewport size, optional extra layers and one or
// more panels. Each panel is an axis rect placed in a cell of the top-level
// grid, with its axes, line series and inset notes:
//
//	title = "Prices"
//	width = 800
//	height = 600
//
//	[[panels]]
//	row = 0
//	column = 0
//	  [panels.y]
//	  scale = "log"
//	  [[panels.series]]
//	  name = "ACME"
//	  x = [0, 1, 2]
//	  y = [10, 20, 15]
//
// Decode and Load only parse; Validate checks every reference and value;
// Build validates and assembles a [plot.Plot].
package chartspec

import (
	"bytes"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/tickplot/pkg/errors"
)

// Defaults applied by Decode for omitted fields.
const (
	DefaultWidth    = 800
	DefaultHeight   = 600
	DefaultFontSize = 12
)

// Chart is a decoded chart file.
type Chart struct {
	Title      string      `toml:"title" json:"title,omitempty"`
	Width      int         `toml:"width" json:"width"`
	Height     int         `toml:"height" json:"height"`
	FontSize   float64     `toml:"font_size" json:"font_size"`
	Font       string      `toml:"font" json:"font,omitempty"`
	Background string      `toml:"background" json:"background,omitempty"`
	Layout     GridSpec    `toml:"layout" json:"layout"`
	Layers     []LayerSpec `toml:"layers" json:"layers,omitempty"`
	Panels     []Panel     `toml:"panels" json:"panels"`
}

// GridSpec configures the top-level grid. Nil spacings keep the default.
type GridSpec struct {
	ColumnSpacing *int      `toml:"column_spacing" json:"column_spacing,omitempty"`
	RowSpacing    *int      `toml:"row_spacing" json:"row_spacing,omitempty"`
	ColumnStretch []float64 `toml:"column_stretch" json:"column_stretch,omitempty"`
	RowStretch    []float64 `toml:"row_stretch" json:"row_stretch,omitempty"`
}

// LayerSpec adds a layer above or below an existing one.
type LayerSpec struct {
	Name  string `toml:"name" json:"name"`
	Above string `toml:"above" json:"above,omitempty"`
	Below string `toml:"below" json:"below,omitempty"`
}

// Panel is one axis rect in the top-level grid.
type Panel struct {
	Row          int          `toml:"row" json:"row"`
	Column       int          `toml:"column" json:"column"`
	MarginGroups []string     `toml:"margin_groups" json:"margin_groups,omitempty"`
	MinWidth     int          `toml:"min_width" json:"min_width,omitempty"`
	MinHeight    int          `toml:"min_height" json:"min_height,omitempty"`
	Background   string       `toml:"background" json:"background,omitempty"`
	X            AxisSpec     `toml:"x" json:"x"`
	Y            AxisSpec     `toml:"y" json:"y"`
	X2           *AxisSpec    `toml:"x2" json:"x2,omitempty"`
	Y2           *AxisSpec    `toml:"y2" json:"y2,omitempty"`
	Series       []SeriesSpec `toml:"series" json:"series,omitempty"`
	Notes        []NoteSpec   `toml:"notes" json:"notes,omitempty"`
}

// AxisSpec configures one axis. Zero values keep the axis defaults; a
// missing range is fitted to the series plotted against the axis.
type AxisSpec struct {
	Range        []float64 `toml:"range" json:"range,omitempty"`
	Scale        string    `toml:"scale" json:"scale,omitempty"`
	LogBase      float64   `toml:"log_base" json:"log_base,omitempty"`
	Reversed     bool      `toml:"reversed" json:"reversed,omitempty"`
	Label        string    `toml:"label" json:"label,omitempty"`
	Hidden       bool      `toml:"hidden" json:"hidden,omitempty"`
	Offset       int       `toml:"offset" json:"offset,omitempty"`
	TickStep     float64   `toml:"tick_step" json:"tick_step,omitempty"`
	TickCount    int       `toml:"tick_count" json:"tick_count,omitempty"`
	SubTicks     *int      `toml:"sub_ticks" json:"sub_ticks,omitempty"`
	Ticks        []float64 `toml:"ticks" json:"ticks,omitempty"`
	TickLabels   []string  `toml:"tick_labels" json:"tick_labels,omitempty"`
	LabelAngle   float64   `toml:"label_angle" json:"label_angle,omitempty"`
	Format       string    `toml:"format" json:"format,omitempty"`
	Precision    *int      `toml:"precision" json:"precision,omitempty"`
	Grid         *bool     `toml:"grid" json:"grid,omitempty"`
	SubGrid      bool      `toml:"sub_grid" json:"sub_grid,omitempty"`
	ScaleRatioTo string    `toml:"scale_ratio_to" json:"scale_ratio_to,omitempty"`
	ScaleRatio   float64   `toml:"scale_ratio" json:"scale_ratio,omitempty"`
}

// SeriesSpec is a line series. XAxis and YAxis pick "x"/"x2" and "y"/"y2".
type SeriesSpec struct {
	Name    string    `toml:"name" json:"name"`
	Color   string    `toml:"color" json:"color,omitempty"`
	Width   float64   `toml:"width" json:"width,omitempty"`
	Dash    []float64 `toml:"dash" json:"dash,omitempty"`
	Scatter float64   `toml:"scatter" json:"scatter,omitempty"`
	Layer   string    `toml:"layer" json:"layer,omitempty"`
	XAxis   string    `toml:"x_axis" json:"x_axis,omitempty"`
	YAxis   string    `toml:"y_axis" json:"y_axis,omitempty"`
	X       []float64 `toml:"x" json:"x"`
	Y       []float64 `toml:"y" json:"y"`
}

// NoteSpec is a text element in a panel's inset. Align places it against
// the panel border; Rect places it freely as [x, y, w, h] fractions.
type NoteSpec struct {
	Text  string    `toml:"text" json:"text"`
	Align string    `toml:"align" json:"align,omitempty"`
	Rect  []float64 `toml:"rect" json:"rect,omitempty"`
	Color string    `toml:"color" json:"color,omitempty"`
}

// Decode parses a chart from r and applies defaults. Unknown keys are
// rejected so typos do not silently fall back to defaults.
func Decode(r io.Reader) (*Chart, error) {
	var c Chart
	md, err := toml.NewDecoder(r).Decode(&c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidChart, err, "decode chart")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeInvalidChart, "unknown keys: %s", strings.Join(keys, ", "))
	}
	c.applyDefaults()
	return &c, nil
}

// DecodeBytes parses a chart from data.
func DecodeBytes(data []byte) (*Chart, error) {
	return Decode(bytes.NewReader(data))
}

// Load reads and parses the chart file at path.
func Load(path string) (*Chart, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "chart %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidChart, err, "read chart %s", path)
	}
	c, err := DecodeBytes(data)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "load %s", path)
	}
	return c, nil
}

func (c *Chart) applyDefaults() {
	if c.Width == 0 {
		c.Width = DefaultWidth
	}
	if c.Height == 0 {
		c.Height = DefaultHeight
	}
	if c.FontSize == 0 {
		c.FontSize = DefaultFontSize
	}
	if len(c.Panels) == 0 {
		c.Panels = []Panel{{}}
	}
}
