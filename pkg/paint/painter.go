package paint

import (
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/tickplot/pkg/errors"
	"github.com/matzehuels/tickplot/pkg/observability"
)

// Painter is the raster Surface. It owns a gg context and applies the
// pixel-alignment fixes the charting core relies on:
//   - antialiased drawing is shifted by half a pixel so one-pixel lines hit
//     pixel centers
//   - lines are snapped to integer coordinates while antialiasing is off
//   - zero-width pens are widened to one unit in ModeNonCosmetic
//
// The gg context is not exposed, so callers cannot draw around these fixes.
type Painter struct {
	dc      *gg.Context
	modes   Mode
	pen     Pen
	brush   Brush
	aa      bool
	saved   []painterState
}

type painterState struct {
	pen   Pen
	brush Brush
	aa    bool
}

// NewPainter creates a width x height raster painter. A nil face falls back
// to gg's built-in face.
func NewPainter(width, height int, face font.Face, modes Mode) *Painter {
	dc := gg.NewContext(width, height)
	if face != nil {
		dc.SetFontFace(face)
	}
	return &Painter{
		dc:    dc,
		modes: modes,
		pen:   SolidPen(color.Black, 0),
	}
}

// Modes returns the active mode flags.
func (p *Painter) Modes() Mode { return p.modes }

// SetMode switches a single mode flag.
func (p *Painter) SetMode(m Mode, enabled bool) {
	if enabled {
		p.modes |= m
	} else {
		p.modes &^= m
	}
}

// Fill paints the whole canvas with c, ignoring the clip region.
func (p *Painter) Fill(c color.Color) {
	p.dc.Push()
	p.dc.ResetClip()
	p.dc.Identity()
	p.dc.SetColor(c)
	p.dc.Clear()
	p.dc.Pop()
}

// SetPen sets the stroke pen.
func (p *Painter) SetPen(pen Pen) {
	if p.modes.Has(ModeNonCosmetic) && pen.Width == 0 {
		pen.Width = 1
	}
	p.pen = pen
}

// Pen returns the current pen.
func (p *Painter) Pen() Pen { return p.pen }

// MakeNonCosmetic widens a cosmetic current pen to one unit.
func (p *Painter) MakeNonCosmetic() {
	if p.pen.Width == 0 {
		p.pen.Width = 1
	}
}

// SetBrush sets the fill brush.
func (p *Painter) SetBrush(b Brush) { p.brush = b }

// DrawLine strokes a straight line.
func (p *Painter) DrawLine(x1, y1, x2, y2 float64) {
	if p.pen.IsNone() {
		return
	}
	if !p.aa && !p.modes.Has(ModeVectorized) {
		x1, y1, x2, y2 = math.Round(x1), math.Round(y1), math.Round(x2), math.Round(y2)
	}
	p.dc.DrawLine(x1, y1, x2, y2)
	p.stroke()
}

// DrawRect fills and strokes an axis-aligned rectangle.
func (p *Painter) DrawRect(x, y, w, h float64) {
	p.dc.DrawRectangle(x, y, w, h)
	p.fillAndStroke()
}

// DrawEllipse fills and strokes an ellipse centered at (cx, cy).
func (p *Painter) DrawEllipse(cx, cy, rx, ry float64) {
	p.dc.DrawEllipse(cx, cy, rx, ry)
	p.fillAndStroke()
}

// DrawPolyline strokes an open path through pts.
func (p *Painter) DrawPolyline(pts []Point) {
	if len(pts) < 2 || p.pen.IsNone() {
		return
	}
	p.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, pt := range pts[1:] {
		p.dc.LineTo(pt.X, pt.Y)
	}
	p.stroke()
}

// DrawPolygon fills and strokes a closed path through pts.
func (p *Painter) DrawPolygon(pts []Point) {
	if len(pts) < 3 {
		return
	}
	p.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, pt := range pts[1:] {
		p.dc.LineTo(pt.X, pt.Y)
	}
	p.dc.ClosePath()
	p.fillAndStroke()
}

// DrawText draws s in the pen color.
func (p *Painter) DrawText(s string, x, y, ax, ay, rotation float64) {
	if s == "" || p.pen.IsNone() {
		return
	}
	p.dc.Push()
	if rotation != 0 {
		p.dc.RotateAbout(gg.Radians(rotation), x, y)
	}
	p.dc.SetColor(p.pen.Color)
	// gg anchors on the baseline: ay=0 puts the baseline at y.
	p.dc.DrawStringAnchored(s, x, y, ax, 1-ay)
	p.dc.Pop()
}

// SetClipRect intersects the clip region with r.
func (p *Painter) SetClipRect(r image.Rectangle) {
	p.dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	p.dc.Clip()
}

// Save pushes the painter state.
func (p *Painter) Save() {
	p.saved = append(p.saved, painterState{pen: p.pen, brush: p.brush, aa: p.aa})
	p.dc.Push()
}

// Restore pops the painter state. An unbalanced Restore is reported and
// ignored.
func (p *Painter) Restore() {
	if len(p.saved) == 0 {
		observability.Report("paint", errors.New(errors.ErrCodeInvalidInput, "unbalanced save/restore"))
		return
	}
	st := p.saved[len(p.saved)-1]
	p.saved = p.saved[:len(p.saved)-1]
	p.pen, p.brush, p.aa = st.pen, st.brush, st.aa
	p.dc.Pop()
}

// SetAntialiasing switches antialiasing. Raster painters shift by half a
// pixel while antialiasing is on.
func (p *Painter) SetAntialiasing(enabled bool) {
	if p.aa == enabled {
		return
	}
	p.aa = enabled
	if p.modes.Has(ModeVectorized) {
		return
	}
	if enabled {
		p.dc.Translate(0.5, 0.5)
	} else {
		p.dc.Translate(-0.5, -0.5)
	}
}

// Antialiasing reports whether antialiasing is on.
func (p *Painter) Antialiasing() bool { return p.aa }

// Image returns the rendered image.
func (p *Painter) Image() image.Image { return p.dc.Image() }

// EncodePNG writes the rendered image as PNG.
func (p *Painter) EncodePNG(w io.Writer) error { return p.dc.EncodePNG(w) }

func (p *Painter) stroke() {
	p.applyPen()
	p.dc.Stroke()
}

func (p *Painter) fillAndStroke() {
	if p.brush.Color != nil {
		p.dc.SetColor(p.brush.Color)
		if p.pen.IsNone() {
			p.dc.Fill()
			return
		}
		p.dc.FillPreserve()
	}
	if p.pen.IsNone() {
		p.dc.ClearPath()
		return
	}
	p.stroke()
}

func (p *Painter) applyPen() {
	w := p.pen.Width
	if w == 0 {
		w = 1
	}
	p.dc.SetColor(p.pen.Color)
	p.dc.SetLineWidth(w)
	p.dc.SetDash(p.pen.Dash...)
}

var _ Surface = (*Painter)(nil)
