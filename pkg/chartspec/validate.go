package chartspec

import (
	"fmt"
	"math"
	"slices"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/tickplot/pkg/errors"
	"github.com/matzehuels/tickplot/pkg/fonts"
	"github.com/matzehuels/tickplot/pkg/layer"
	"github.com/matzehuels/tickplot/pkg/layout"
)

// Validate checks sizes, layer references, panel placement and every axis,
// series and note. The first problem found is returned with the path of
// the offending field.
func (c *Chart) Validate() error {
	if err := errors.ValidateDimensions(c.Width, c.Height); err != nil {
		return invalid("", "%s", errors.UserMessage(err))
	}
	if c.FontSize <= 0 || math.IsInf(c.FontSize, 0) || math.IsNaN(c.FontSize) {
		return invalid("font_size", "must be positive, got %g", c.FontSize)
	}
	if _, err := fonts.ParseStyle(c.Font); err != nil {
		return invalid("font", "%s", errors.UserMessage(err))
	}
	if err := validColor(c.Background); err != nil {
		return invalid("background", "%v", err)
	}

	layers := slices.Clone(layer.DefaultLayers)
	for i, l := range c.Layers {
		field := fmt.Sprintf("layers[%d]", i)
		if err := errors.ValidateName(l.Name); err != nil {
			return invalid(field+".name", "%s", errors.UserMessage(err))
		}
		if slices.Contains(layers, l.Name) {
			return errors.New(errors.ErrCodeDuplicate, "%s.name: layer %q already exists", field, l.Name)
		}
		if (l.Above == "") == (l.Below == "") {
			return invalid(field, "set exactly one of above or below")
		}
		ref := l.Above + l.Below
		if !slices.Contains(layers, ref) {
			return invalid(field, "unknown layer %q", ref)
		}
		layers = append(layers, l.Name)
	}

	if err := c.Layout.validate(); err != nil {
		return err
	}

	cells := map[[2]int]int{}
	for i := range c.Panels {
		p := &c.Panels[i]
		field := fmt.Sprintf("panels[%d]", i)
		if p.Row < 0 || p.Column < 0 {
			return invalid(field, "row and column must be non-negative")
		}
		cell := [2]int{p.Row, p.Column}
		if j, ok := cells[cell]; ok {
			return errors.New(errors.ErrCodeDuplicate, "%s: cell (%d, %d) already used by panels[%d]", field, p.Row, p.Column, j)
		}
		cells[cell] = i
		if err := p.validate(field, layers); err != nil {
			return err
		}
	}

	rows, cols := c.gridSize()
	if n := len(c.Layout.ColumnStretch); n > 0 && n != cols {
		return invalid("layout.column_stretch", "has %d factors for %d columns", n, cols)
	}
	if n := len(c.Layout.RowStretch); n > 0 && n != rows+c.titleRows() {
		return invalid("layout.row_stretch", "has %d factors for %d rows", n, rows+c.titleRows())
	}
	return nil
}

func (g GridSpec) validate() error {
	if g.ColumnSpacing != nil && *g.ColumnSpacing < 0 {
		return invalid("layout.column_spacing", "must be non-negative")
	}
	if g.RowSpacing != nil && *g.RowSpacing < 0 {
		return invalid("layout.row_spacing", "must be non-negative")
	}
	for _, f := range append(slices.Clone(g.ColumnStretch), g.RowStretch...) {
		if f <= 0 || math.IsInf(f, 0) || math.IsNaN(f) {
			return invalid("layout", "stretch factors must be positive, got %g", f)
		}
	}
	return nil
}

func (p *Panel) validate(field string, layers []string) error {
	for _, s := range p.MarginGroups {
		if _, err := layout.ParseSide(s); err != nil {
			return invalid(field+".margin_groups", "%s", errors.UserMessage(err))
		}
	}
	if p.MinWidth < 0 || p.MinHeight < 0 {
		return invalid(field, "minimum size must be non-negative")
	}
	if err := validColor(p.Background); err != nil {
		return invalid(field+".background", "%v", err)
	}
	specs := p.axisSpecs()
	for _, name := range axisNames {
		if a, ok := specs[name]; ok {
			if err := a.validate(field+"."+name, p); err != nil {
				return err
			}
		}
	}
	for i, s := range p.Series {
		if err := s.validate(fmt.Sprintf("%s.series[%d]", field, i), p, layers); err != nil {
			return err
		}
	}
	for i, n := range p.Notes {
		if err := n.validate(fmt.Sprintf("%s.notes[%d]", field, i)); err != nil {
			return err
		}
	}
	return nil
}

var axisNames = []string{"x", "y", "x2", "y2"}

// axisSpecs returns the configured axes by name. x and y always exist.
func (p *Panel) axisSpecs() map[string]*AxisSpec {
	out := map[string]*AxisSpec{"x": &p.X, "y": &p.Y}
	if p.X2 != nil {
		out["x2"] = p.X2
	}
	if p.Y2 != nil {
		out["y2"] = p.Y2
	}
	return out
}

func (a *AxisSpec) validate(field string, p *Panel) error {
	switch len(a.Range) {
	case 0:
	case 2:
		for _, v := range a.Range {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return invalid(field+".range", "bounds must be finite")
			}
		}
		if a.Range[0] == a.Range[1] {
			return invalid(field+".range", "bounds must differ")
		}
	default:
		return invalid(field+".range", "needs exactly two values, got %d", len(a.Range))
	}
	switch a.Scale {
	case "", "linear":
	case "log":
		if len(a.Range) == 2 && a.Range[0]*a.Range[1] <= 0 {
			return invalid(field+".range", "log range must not touch or span zero")
		}
	default:
		return invalid(field+".scale", "must be linear or log, got %q", a.Scale)
	}
	if a.LogBase != 0 && (a.LogBase <= 1 || math.IsInf(a.LogBase, 0)) {
		return invalid(field+".log_base", "must be greater than 1, got %g", a.LogBase)
	}
	if a.TickStep < 0 || a.TickCount < 0 {
		return invalid(field, "tick_step and tick_count must be non-negative")
	}
	if a.SubTicks != nil && *a.SubTicks < 0 {
		return invalid(field+".sub_ticks", "must be non-negative")
	}
	if len(a.TickLabels) > 0 && len(a.Ticks) == 0 {
		return invalid(field+".tick_labels", "need explicit ticks")
	}
	switch a.Format {
	case "", "e", "f", "g":
	default:
		return invalid(field+".format", "must be e, f or g, got %q", a.Format)
	}
	if a.Precision != nil && *a.Precision < 0 {
		return invalid(field+".precision", "must be non-negative")
	}
	if a.ScaleRatioTo != "" {
		if _, ok := p.axisSpecs()[a.ScaleRatioTo]; !ok {
			return invalid(field+".scale_ratio_to", "unknown axis %q", a.ScaleRatioTo)
		}
		if a.ScaleRatio < 0 {
			return invalid(field+".scale_ratio", "must be positive")
		}
	}
	return nil
}

func (s *SeriesSpec) validate(field string, p *Panel, layers []string) error {
	if s.Name == "" {
		return invalid(field+".name", "cannot be empty")
	}
	if len(s.X) != len(s.Y) {
		return invalid(field, "x has %d values but y has %d", len(s.X), len(s.Y))
	}
	if err := validColor(s.Color); err != nil {
		return invalid(field+".color", "%v", err)
	}
	if s.Width < 0 || s.Scatter < 0 {
		return invalid(field, "width and scatter must be non-negative")
	}
	if s.Layer != "" && !slices.Contains(layers, s.Layer) {
		return invalid(field+".layer", "unknown layer %q", s.Layer)
	}
	if err := checkAxisRef(s.XAxis, "x", p.X2 != nil); err != nil {
		return invalid(field+".x_axis", "%v", err)
	}
	if err := checkAxisRef(s.YAxis, "y", p.Y2 != nil); err != nil {
		return invalid(field+".y_axis", "%v", err)
	}
	return nil
}

func checkAxisRef(ref, primary string, hasSecondary bool) error {
	switch ref {
	case "", primary:
		return nil
	case primary + "2":
		if hasSecondary {
			return nil
		}
		return fmt.Errorf("axis %q is not configured", ref)
	}
	return fmt.Errorf("must be %q or %q, got %q", primary, primary+"2", ref)
}

func (n *NoteSpec) validate(field string) error {
	if n.Text == "" {
		return invalid(field+".text", "cannot be empty")
	}
	if n.Align != "" && len(n.Rect) > 0 {
		return invalid(field, "set align or rect, not both")
	}
	if n.Align != "" {
		if _, err := layout.ParseAlignment(n.Align); err != nil {
			return invalid(field+".align", "%s", errors.UserMessage(err))
		}
	}
	if len(n.Rect) > 0 {
		if len(n.Rect) != 4 {
			return invalid(field+".rect", "needs [x, y, w, h], got %d values", len(n.Rect))
		}
		for _, v := range n.Rect {
			if v < 0 || v > 1 {
				return invalid(field+".rect", "fractions must lie in [0, 1]")
			}
		}
	}
	return validColorField(field+".color", n.Color)
}

func validColorField(field, s string) error {
	if err := validColor(s); err != nil {
		return invalid(field, "%v", err)
	}
	return nil
}

func validColor(s string) error {
	if s == "" {
		return nil
	}
	_, err := colorful.Hex(s)
	return err
}

// gridSize returns the number of panel rows and columns.
func (c *Chart) gridSize() (rows, cols int) {
	for _, p := range c.Panels {
		rows = max(rows, p.Row+1)
		cols = max(cols, p.Column+1)
	}
	return rows, cols
}

func (c *Chart) titleRows() int {
	if c.Title != "" {
		return 1
	}
	return 0
}

func invalid(field, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if field != "" {
		msg = field + ": " + msg
	}
	return errors.New(errors.ErrCodeInvalidChart, "%s", msg)
}
