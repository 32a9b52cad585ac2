// Package paint defines the drawing surface the charting core paints on and
// provides two implementations: a raster [Painter] backed by fogleman/gg and a
// vector [SVG] surface.
//
// The core never constructs a surface. A plot is replotted onto whatever
// Surface the caller passes in, and every layerable draws through the
// corrected method set declared here. Raster-specific fixes (half-pixel
// shift, integer line snapping, cosmetic pen widths) live in the Painter
// itself so callers cannot bypass them.
//
// Text anchors use the same convention everywhere: ax and ay are fractions
// of the text's bounding box, 0 meaning left/top, 0.5 centered and 1
// right/bottom.
package paint

import (
	"fmt"
	"image"
	"image/color"
)

// Mode is a set of painter mode flags.
type Mode uint8

// ModeDefault is the plain raster mode.
const ModeDefault Mode = 0

const (
	// ModeVectorized marks vector outputs; pixel alignment fixes are skipped.
	ModeVectorized Mode = 1 << iota
	// ModeNoCaching disables internal caches such as pre-rendered labels.
	ModeNoCaching
	// ModeNonCosmetic turns zero-width (cosmetic) pens into one-unit pens.
	ModeNonCosmetic
)

// Has reports whether all flags in f are set.
func (m Mode) Has(f Mode) bool { return m&f == f }

// Point is a position in surface coordinates.
type Point struct {
	X, Y float64
}

// Pen describes how outlines are stroked. A nil Color means no outline.
// Width 0 is a cosmetic pen: one device pixel regardless of scale.
type Pen struct {
	Color color.Color
	Width float64
	Dash  []float64
}

// NoPen disables stroking.
var NoPen = Pen{}

// SolidPen returns a solid pen of the given color and width.
func SolidPen(c color.Color, width float64) Pen {
	return Pen{Color: c, Width: width}
}

// IsNone reports whether the pen strokes nothing.
func (p Pen) IsNone() bool { return p.Color == nil }

// Brush describes how shapes are filled. A nil Color means no fill.
type Brush struct {
	Color color.Color
}

// NoBrush disables filling.
var NoBrush = Brush{}

// Surface is a stateful immediate-mode 2D canvas.
type Surface interface {
	Modes() Mode

	SetPen(p Pen)
	Pen() Pen
	SetBrush(b Brush)

	DrawLine(x1, y1, x2, y2 float64)
	DrawRect(x, y, w, h float64)
	DrawEllipse(cx, cy, rx, ry float64)
	DrawPolyline(pts []Point)
	DrawPolygon(pts []Point)
	// DrawText draws s anchored at (x, y), rotated by rotation degrees
	// clockwise about the anchor.
	DrawText(s string, x, y, ax, ay, rotation float64)

	// SetClipRect intersects the clip region with r until the next Restore.
	SetClipRect(r image.Rectangle)

	// Save pushes pen, brush, clip, transform and antialiasing state.
	Save()
	// Restore pops the state pushed by the matching Save.
	Restore()

	SetAntialiasing(enabled bool)
	Antialiasing() bool
}

// hexColor formats c as #rrggbb plus its alpha in [0, 1].
func hexColor(c color.Color) (string, float64) {
	if c == nil {
		return "none", 0
	}
	r, g, b, a := c.RGBA()
	if a == 0 {
		return "none", 0
	}
	// un-premultiply
	r, g, b = r*0xffff/a, g*0xffff/a, b*0xffff/a
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8), float64(a) / 0xffff
}
