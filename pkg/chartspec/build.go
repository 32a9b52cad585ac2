package chartspec

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/tickplot/pkg/axis"
	"github.com/matzehuels/tickplot/pkg/errors"
	"github.com/matzehuels/tickplot/pkg/fonts"
	"github.com/matzehuels/tickplot/pkg/layer"
	"github.com/matzehuels/tickplot/pkg/layout"
	"github.com/matzehuels/tickplot/pkg/paint"
	"github.com/matzehuels/tickplot/pkg/plot"
)

// noteMargin pads inset notes away from the data area border.
const noteMargin = 4

// Build validates the chart and assembles a plot measured with metrics.
// Extra options are applied after the chart's own. Axes without an
// explicit range are fitted to their series.
func (c *Chart) Build(metrics paint.Metrics, opts ...plot.Option) (*plot.Plot, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	base := []plot.Option{
		plot.WithMetrics(metrics),
		plot.WithFontFamily(fonts.FallbackFontFamily, c.FontSize),
		plot.WithoutDefaultAxisRect(),
	}
	if c.Background != "" {
		base = append(base, plot.WithBackground(parseColor(c.Background)))
	}
	p := plot.New(c.Width, c.Height, append(base, opts...)...)

	stack := p.Stack()
	for _, l := range c.Layers {
		ref, mode := l.Above, layer.Above
		if l.Below != "" {
			ref, mode = l.Below, layer.Below
		}
		if _, err := stack.AddLayer(l.Name, stack.Layer(ref), mode); err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "layer %q", l.Name)
		}
	}

	b := builder{plot: p, groups: map[layout.Side]*layout.MarginGroup{}}
	for i := range c.Panels {
		if err := b.panel(&c.Panels[i]); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidChart, err, "panels[%d]", i)
		}
	}

	if c.Title != "" {
		p.SetTitle(c.Title)
	}
	grid := p.Layout()
	if c.Layout.ColumnSpacing != nil {
		grid.SetColumnSpacing(*c.Layout.ColumnSpacing)
	}
	if c.Layout.RowSpacing != nil {
		grid.SetRowSpacing(*c.Layout.RowSpacing)
	}
	if len(c.Layout.ColumnStretch) > 0 {
		if err := grid.SetColumnStretchFactors(c.Layout.ColumnStretch); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidChart, err, "layout.column_stretch")
		}
	}
	if len(c.Layout.RowStretch) > 0 {
		if err := grid.SetRowStretchFactors(c.Layout.RowStretch); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidChart, err, "layout.row_stretch")
		}
	}

	b.fitRanges()
	if len(b.ratios) > 0 {
		// scale ratios need pixel extents
		p.UpdateLayout()
		for _, r := range b.ratios {
			if err := r.axis.SetScaleRatio(r.other, r.ratio); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidChart, err, "scale ratio")
			}
		}
	}
	return p, nil
}

type scaleRatio struct {
	axis, other *axis.Axis
	ratio       float64
}

type fit struct {
	series *plot.Series
	key    bool
}

type builder struct {
	plot     *plot.Plot
	groups   map[layout.Side]*layout.MarginGroup
	explicit map[*axis.Axis]bool
	fits     []fit
	ratios   []scaleRatio
}

func (b *builder) panel(pc *Panel) error {
	r := b.plot.NewAxisRect(true)
	if err := b.plot.Layout().AddElement(pc.Row, pc.Column, r); err != nil {
		return err
	}
	for _, name := range pc.MarginGroups {
		sides, _ := layout.ParseSide(name)
		for _, side := range []layout.Side{layout.SideLeft, layout.SideRight, layout.SideTop, layout.SideBottom} {
			if !sides.Has(side) {
				continue
			}
			g := b.groups[side]
			if g == nil {
				g = layout.NewMarginGroup()
				b.groups[side] = g
			}
			r.SetMarginGroup(side, g)
		}
	}
	if pc.MinWidth > 0 || pc.MinHeight > 0 {
		r.SetMinimumSize(layout.Size{W: pc.MinWidth, H: pc.MinHeight})
	}
	if pc.Background != "" {
		r.SetBackground(paint.Brush{Color: parseColor(pc.Background)})
	}

	axes := map[string]*axis.Axis{}
	axes["x"], _ = r.Axis(axis.Bottom, 0)
	axes["y"], _ = r.Axis(axis.Left, 0)
	axes["x2"], _ = r.Axis(axis.Top, 0)
	axes["y2"], _ = r.Axis(axis.Right, 0)
	specs := pc.axisSpecs()
	for _, name := range axisNames {
		spec, ok := specs[name]
		if !ok {
			continue
		}
		a := axes[name]
		if name == "x2" || name == "y2" {
			a.SetVisible(true)
		}
		if err := b.axis(a, spec); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "%s axis", name)
		}
		if spec.ScaleRatioTo != "" {
			ratio := spec.ScaleRatio
			if ratio == 0 {
				ratio = 1
			}
			b.ratios = append(b.ratios, scaleRatio{axis: a, other: axes[spec.ScaleRatioTo], ratio: ratio})
		}
	}

	for _, ss := range pc.Series {
		key, value := axes[orDefault(ss.XAxis, "x")], axes[orDefault(ss.YAxis, "y")]
		s, err := b.plot.AddSeries(ss.Name, key, value)
		if err != nil {
			return err
		}
		if err := s.SetData(ss.X, ss.Y); err != nil {
			return err
		}
		pen := s.Pen()
		if ss.Color != "" {
			pen.Color = parseColor(ss.Color)
		}
		if ss.Width > 0 {
			pen.Width = ss.Width
		}
		pen.Dash = ss.Dash
		s.SetPen(pen)
		s.SetScatterSize(ss.Scatter)
		if ss.Layer != "" {
			if err := s.SetLayer(ss.Layer); err != nil {
				return errors.Wrap(errors.GetCode(err), err, "series %q", ss.Name)
			}
		}
		b.fits = append(b.fits, fit{series: s, key: true}, fit{series: s})
	}

	for _, n := range pc.Notes {
		t := plot.NewText(b.plot.Metrics(), n.Text)
		t.SetMargins(layout.UniformMargins(noteMargin))
		if n.Color != "" {
			t.SetColor(parseColor(n.Color))
		}
		var err error
		if len(n.Rect) == 4 {
			err = r.Inset().AddFree(t, layout.FracRect{X: n.Rect[0], Y: n.Rect[1], W: n.Rect[2], H: n.Rect[3]})
		} else {
			align, _ := layout.ParseAlignment(orDefault(n.Align, "top-right"))
			err = r.Inset().AddAligned(t, align)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) axis(a *axis.Axis, spec *AxisSpec) error {
	if spec.Scale == "log" {
		a.SetScaleType(axis.Logarithmic)
	}
	if spec.LogBase != 0 {
		if err := a.SetScaleLogBase(spec.LogBase); err != nil {
			return err
		}
	}
	if len(spec.Range) == 2 {
		if err := a.SetRangeBounds(spec.Range[0], spec.Range[1]); err != nil {
			return err
		}
		if b.explicit == nil {
			b.explicit = map[*axis.Axis]bool{}
		}
		b.explicit[a] = true
	}
	a.SetRangeReversed(spec.Reversed)
	a.SetLabel(spec.Label)
	a.SetOffset(spec.Offset)
	if spec.Hidden {
		a.SetVisible(false)
	}
	if spec.TickStep > 0 {
		a.SetAutoTickStep(false)
		if err := a.SetTickStep(spec.TickStep); err != nil {
			return err
		}
	}
	if spec.TickCount > 0 {
		if err := a.SetAutoTickCount(spec.TickCount); err != nil {
			return err
		}
	}
	if spec.SubTicks != nil {
		a.SetAutoSubTicks(false)
		if err := a.SetSubTickCount(*spec.SubTicks); err != nil {
			return err
		}
	}
	if len(spec.Ticks) > 0 {
		a.SetTickVector(spec.Ticks)
	}
	if len(spec.TickLabels) > 0 {
		a.SetTickVectorLabels(spec.TickLabels)
	}
	a.SetTickLabelRotation(spec.LabelAngle)
	if spec.Format != "" {
		if err := a.SetNumberFormat(spec.Format[0]); err != nil {
			return err
		}
	}
	if spec.Precision != nil {
		a.SetNumberPrecision(*spec.Precision)
	}
	if spec.Grid != nil {
		a.Grid().SetVisible(*spec.Grid)
	}
	a.Grid().SetSubGridVisible(spec.SubGrid)
	return nil
}

// fitRanges rescales every axis without an explicit range to the series
// plotted against it. The first series on an axis sets the range, later
// ones only enlarge it.
func (b *builder) fitRanges() {
	seen := map[*axis.Axis]bool{}
	for _, f := range b.fits {
		a := f.series.ValueAxis()
		if f.key {
			a = f.series.KeyAxis()
		}
		if b.explicit[a] {
			continue
		}
		if f.key {
			f.series.RescaleKeyAxis(seen[a])
		} else {
			f.series.RescaleValueAxis(seen[a])
		}
		seen[a] = true
	}
}

func parseColor(s string) color.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.Black
	}
	return c
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
