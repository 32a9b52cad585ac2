// Package plot assembles the charting core into a drawable surface.
//
// A [Plot] owns the layer stack, a top-level grid layout and the plottables.
// Replot runs the fixed per-frame sequence:
//
//  1. every axis regenerates its tick vectors,
//  2. the top layout is sized to the viewport and updated, which resolves
//     margins (querying axes) and child rects,
//  3. the layer stack is drawn bottom to top.
//
// Plots are not safe for concurrent use.
package plot

import (
	"image"
	"image/color"
	"io"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"

	"github.com/matzehuels/tickplot/pkg/axis"
	"github.com/matzehuels/tickplot/pkg/errors"
	"github.com/matzehuels/tickplot/pkg/layer"
	"github.com/matzehuels/tickplot/pkg/layout"
	"github.com/matzehuels/tickplot/pkg/observability"
	"github.com/matzehuels/tickplot/pkg/paint"
)

const component = "plot"

// Option configures a Plot at construction.
type Option func(*Plot)

// WithMetrics sets the text metrics used for layout. Defaults to
// paint.DefaultMetrics.
func WithMetrics(m paint.Metrics) Option {
	return func(p *Plot) { p.metrics = m }
}

// WithFace sets the font face used for raster output and, if no metrics
// were given, for layout.
func WithFace(f font.Face) Option {
	return func(p *Plot) { p.face = f }
}

// WithFontFamily sets the font family and size written to SVG output.
func WithFontFamily(family string, size float64) Option {
	return func(p *Plot) { p.fontFamily, p.fontSize = family, size }
}

// WithSVGStyle embeds css in SVG output.
func WithSVGStyle(css string) Option {
	return func(p *Plot) { p.svgStyle = css }
}

// WithBackground sets the color the surface is cleared to before drawing.
func WithBackground(c color.Color) Option {
	return func(p *Plot) { p.background = c }
}

// WithoutDefaultAxisRect leaves the top layout empty.
func WithoutDefaultAxisRect() Option {
	return func(p *Plot) { p.noDefaultRect = true }
}

// Plot is the root drawing surface.
type Plot struct {
	stack   *layer.Stack
	layout  *layout.Grid
	metrics paint.Metrics
	face    font.Face

	fontFamily    string
	fontSize      float64
	svgStyle      string
	background    color.Color
	noDefaultRect bool

	minSize layout.Size
	title   *Text
	series  []*Series
}

// New returns a width x height plot with the default layers and, unless
// WithoutDefaultAxisRect is given, one axis rect filling the layout.
func New(width, height int, opts ...Option) *Plot {
	p := &Plot{
		stack:      layer.NewStack(),
		background: color.White,
		fontSize:   12,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.metrics == nil {
		if p.face != nil {
			p.metrics = paint.NewFaceMetrics(p.face)
		} else {
			p.metrics = paint.DefaultMetrics()
		}
	}
	p.stack.SetViewport(image.Rect(0, 0, width, height))
	p.layout = layout.NewGrid(p.stack, layer.Main)
	p.layout.OnRootConstraintsChanged = p.rootConstraintsChanged
	if !p.noDefaultRect {
		_ = p.layout.AddElement(0, 0, axis.NewRect(p.stack, p.metrics, true))
	}
	return p
}

// Stack returns the layer stack.
func (p *Plot) Stack() *layer.Stack { return p.stack }

// Layout returns the top-level grid layout.
func (p *Plot) Layout() *layout.Grid { return p.layout }

// Metrics returns the text metrics used for layout.
func (p *Plot) Metrics() paint.Metrics { return p.metrics }

// Viewport returns the drawing area.
func (p *Plot) Viewport() image.Rectangle { return p.stack.Viewport() }

// SetViewport resizes the drawing area.
func (p *Plot) SetViewport(r image.Rectangle) { p.stack.SetViewport(r) }

// SetBackground sets the clear color; nil leaves the surface untouched.
func (p *Plot) SetBackground(c color.Color) { p.background = c }

// MinimumSize is the smallest viewport the layout fits into. It is refreshed
// whenever the layout tree or one of its size limits changes.
func (p *Plot) MinimumSize() layout.Size { return p.minSize }

func (p *Plot) rootConstraintsChanged() {
	p.minSize = p.layout.MinimumSizeHint()
}

// NewAxisRect returns an axis rect sharing the plot's stack and metrics,
// ready to be added to the layout.
func (p *Plot) NewAxisRect(defaultAxes bool) *axis.Rect {
	return axis.NewRect(p.stack, p.metrics, defaultAxes)
}

// AxisRects returns every axis rect in the layout tree, in layout order.
func (p *Plot) AxisRects() []*axis.Rect {
	var out []*axis.Rect
	for _, el := range p.layout.Elements(true) {
		if r, ok := el.(*axis.Rect); ok {
			out = append(out, r)
		}
	}
	return out
}

// AxisRect returns the i-th axis rect.
func (p *Plot) AxisRect(i int) (*axis.Rect, error) {
	rects := p.AxisRects()
	if i < 0 || i >= len(rects) {
		return nil, observability.Report(component, errors.New(errors.ErrCodeInvalidIndex, "no axis rect at index %d", i))
	}
	return rects[i], nil
}

// XAxis returns the primary bottom axis of the first axis rect, or nil.
func (p *Plot) XAxis() *axis.Axis { return p.primaryAxis(axis.Bottom) }

// YAxis returns the primary left axis of the first axis rect, or nil.
func (p *Plot) YAxis() *axis.Axis { return p.primaryAxis(axis.Left) }

func (p *Plot) primaryAxis(t axis.Type) *axis.Axis {
	rects := p.AxisRects()
	if len(rects) == 0 || rects[0].AxisCount(t) == 0 {
		return nil
	}
	a, _ := rects[0].Axis(t, 0)
	return a
}

// Axes returns the axes of every axis rect.
func (p *Plot) Axes() []*axis.Axis {
	var out []*axis.Axis
	for _, r := range p.AxisRects() {
		out = append(out, r.AllAxes()...)
	}
	return out
}

// UpdateLayout prepares ticks and resolves the geometry of the whole layout
// tree for the current viewport without drawing.
func (p *Plot) UpdateLayout() {
	for _, a := range p.Axes() {
		a.SetupTickVectors()
	}
	p.layout.SetOuterRect(p.stack.Viewport())
	p.layout.Update()
}

// Replot lays the plot out and draws it onto s.
func (p *Plot) Replot(s paint.Surface) {
	p.UpdateLayout()
	p.stack.Draw(s)
}

// RenderSVG replots onto a fresh SVG document.
func (p *Plot) RenderSVG() []byte {
	vp := p.stack.Viewport()
	s := paint.NewSVG(vp.Dx(), vp.Dy(), p.fontFamily, p.fontSize)
	s.Style(p.svgStyle)
	if p.background != nil {
		s.Background(colorHex(p.background))
	}
	p.Replot(s)
	return s.Bytes()
}

// RenderPNG replots onto a raster surface and encodes it as PNG.
func (p *Plot) RenderPNG(w io.Writer) error {
	vp := p.stack.Viewport()
	face := p.face
	if face == nil {
		if fm, ok := p.metrics.(paint.FaceMetrics); ok {
			face = fm.Face()
		}
	}
	painter := paint.NewPainter(vp.Dx(), vp.Dy(), face, paint.ModeDefault)
	if p.background != nil {
		painter.Fill(p.background)
	}
	p.Replot(painter)
	if err := painter.EncodePNG(w); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return nil
}

func colorHex(c color.Color) string {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return "none"
	}
	return cf.Hex()
}
