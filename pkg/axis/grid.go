package axis

import (
	"image/color"
	"math"

	"github.com/matzehuels/tickplot/pkg/layer"
	"github.com/matzehuels/tickplot/pkg/paint"
)

var (
	gridColor    = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	subGridColor = color.RGBA{R: 220, G: 220, B: 220, A: 255}
	dotted       = []float64{1, 2}
)

// Grid draws grid lines at the ticks of its axis across the axis rect. It
// lives on the grid layer, below the plot content.
type Grid struct {
	layer.Base

	axis       *Axis
	pen        paint.Pen
	subPen     paint.Pen
	zeroPen    paint.Pen
	subVisible bool
	aaSub      bool
	aaZero     bool
}

func newGrid(a *Axis) *Grid {
	g := &Grid{
		axis:    a,
		pen:     paint.Pen{Color: gridColor, Dash: dotted},
		subPen:  paint.Pen{Color: subGridColor, Dash: dotted},
		zeroPen: paint.SolidPen(gridColor, 0),
	}
	_ = g.Init(g, a.Stack(), layer.Grid)
	g.SetParentLayerable(a)
	g.SetAntialiased(false)
	return g
}

// ParentPlotInitialized places the grid on the grid layer.
func (g *Grid) ParentPlotInitialized(*layer.Stack) {
	if g.Layer() == nil {
		_ = g.SetLayer(layer.Grid)
	}
}

// SetPen sets the pen of grid lines at major ticks.
func (g *Grid) SetPen(p paint.Pen) { g.pen = p }

// SetSubGridPen sets the pen of sub-grid lines.
func (g *Grid) SetSubGridPen(p paint.Pen) { g.subPen = p }

// SetZeroLinePen sets the pen of the line at zero; paint.NoPen draws a
// regular grid line there instead.
func (g *Grid) SetZeroLinePen(p paint.Pen) { g.zeroPen = p }

// SubGridVisible reports whether sub-grid lines are drawn.
func (g *Grid) SubGridVisible() bool { return g.subVisible }

// SetSubGridVisible shows or hides sub-grid lines.
func (g *Grid) SetSubGridVisible(v bool) { g.subVisible = v }

// SetAntialiasedSubGrid sets the local antialiasing of sub-grid lines.
func (g *Grid) SetAntialiasedSubGrid(v bool) { g.aaSub = v }

// SetAntialiasedZeroLine sets the local antialiasing of the zero line.
func (g *Grid) SetAntialiasedZeroLine(v bool) { g.aaZero = v }

// ApplyDefaultAntialiasingHint applies the grid antialiasing override.
func (g *Grid) ApplyDefaultAntialiasingHint(s paint.Surface) {
	g.ApplyAntialiasingHint(s, g.Antialiased(), layer.AAGrid)
}

// Draw paints sub-grid lines, then the zero line, then grid lines.
func (g *Grid) Draw(s paint.Surface) {
	a := g.axis
	if g.subVisible {
		g.ApplyAntialiasingHint(s, g.aaSub, layer.AASubGrid)
		s.SetPen(g.subPen)
		for _, v := range a.subTickVector {
			g.line(s, v)
		}
	}

	zero := -1
	if !g.zeroPen.IsNone() && a.rng.Lower < 0 && a.rng.Upper > 0 {
		eps := a.rng.Size() * 1e-6
		for i := a.lowTick; i <= a.highTick; i++ {
			if math.Abs(a.tickVector[i]) < eps {
				zero = i
				g.ApplyAntialiasingHint(s, g.aaZero, layer.AAZeroLine)
				s.SetPen(g.zeroPen)
				g.line(s, a.tickVector[i])
				break
			}
		}
	}

	g.ApplyDefaultAntialiasingHint(s)
	s.SetPen(g.pen)
	for i := a.lowTick; i <= a.highTick; i++ {
		if i != zero {
			g.line(s, a.tickVector[i])
		}
	}
}

func (g *Grid) line(s paint.Surface, v float64) {
	r := g.axis.rect.Rect()
	t := g.axis.CoordToPixel(v)
	if g.axis.Orientation() == Horizontal {
		s.DrawLine(t, float64(r.Max.Y), t, float64(r.Min.Y))
	} else {
		s.DrawLine(float64(r.Min.X), t, float64(r.Max.X), t)
	}
}
