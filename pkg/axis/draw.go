package axis

import (
	"image"

	"github.com/matzehuels/tickplot/pkg/paint"
)

// origin is the start of the axis line: the rect corner it grows from,
// pushed outwards by the axis offset.
func (a *Axis) origin(r image.Rectangle) paint.Point {
	switch a.typ {
	case Left:
		return paint.Point{X: float64(r.Min.X - a.offset), Y: float64(r.Max.Y)}
	case Right:
		return paint.Point{X: float64(r.Max.X + a.offset), Y: float64(r.Max.Y)}
	case Top:
		return paint.Point{X: float64(r.Min.X), Y: float64(r.Min.Y - a.offset)}
	default:
		return paint.Point{X: float64(r.Min.X), Y: float64(r.Max.Y + a.offset)}
	}
}

// Draw paints the axis line, ticks, sub-ticks, tick labels and the axis
// label, walking outwards from the rect edge.
func (a *Axis) Draw(s paint.Surface) {
	r := a.rect.Rect()
	o := a.origin(r)
	horizontal := a.Orientation() == Horizontal

	s.SetPen(a.basePen)
	if horizontal {
		s.DrawLine(o.X, o.Y, o.X+float64(r.Dx()), o.Y)
	} else {
		s.DrawLine(o.X, o.Y, o.X, o.Y-float64(r.Dy()))
	}

	// Inward is +1 for left and top axes in surface coordinates.
	dir := 1.0
	if a.typ == Bottom || a.typ == Right {
		dir = -1
	}
	tick := func(v float64, in, out int) {
		t := a.CoordToPixel(v)
		if horizontal {
			s.DrawLine(t, o.Y-float64(out)*dir, t, o.Y+float64(in)*dir)
		} else {
			s.DrawLine(o.X-float64(out)*dir, t, o.X+float64(in)*dir, t)
		}
	}
	if a.ticks {
		s.SetPen(a.tickPen)
		for i := a.lowTick; i <= a.highTick; i++ {
			tick(a.tickVector[i], a.tickLengthIn, a.tickLengthOut)
		}
		if len(a.subTickVector) > 0 {
			s.SetPen(a.subTickPen)
			for _, v := range a.subTickVector {
				tick(v, a.subTickLengthIn, a.subTickLengthOut)
			}
		}
	}

	margin := max(0, a.tickLengthOut, a.subTickLengthOut)
	if a.tickLabels {
		margin += a.tickLabelPadding
		s.SetPen(paint.SolidPen(a.tickLabelColor, 0))
		for i := a.lowTick; i <= a.highTick && i < len(a.tickLabelVector); i++ {
			a.placeTickLabel(s, o, a.CoordToPixel(a.tickVector[i]), float64(margin), a.tickLabelVector[i])
		}
		w, h := a.tickLabelBlock()
		if horizontal {
			margin += h
		} else {
			margin += w
		}
	}

	if a.label == "" {
		return
	}
	margin += a.labelPadding
	_, lh := a.metrics.TextSize(a.label)
	m, half := float64(margin), float64(lh)/2
	s.SetPen(paint.SolidPen(a.labelColor, 0))
	cx, cy := float64(r.Min.X+r.Max.X)/2, float64(r.Min.Y+r.Max.Y)/2
	switch a.typ {
	case Left:
		s.DrawText(a.label, o.X-m-half, cy, 0.5, 0.5, -90)
	case Right:
		s.DrawText(a.label, o.X+m+half, cy, 0.5, 0.5, 90)
	case Top:
		s.DrawText(a.label, cx, o.Y-m, 0.5, 1, 0)
	default:
		s.DrawText(a.label, cx, o.Y+m, 0.5, 0, 0)
	}
}

func (a *Axis) placeTickLabel(s paint.Surface, o paint.Point, t, distance float64, text string) {
	if text == "" {
		return
	}
	rot := a.tickLabelRotation
	switch a.typ {
	case Left:
		s.DrawText(text, o.X-distance, t, 1, 0.5, rot)
	case Right:
		s.DrawText(text, o.X+distance, t, 0, 0.5, rot)
	case Top:
		s.DrawText(text, t, o.Y-distance, 0.5, 1, rot)
	default:
		s.DrawText(text, t, o.Y+distance, 0.5, 0, rot)
	}
}
