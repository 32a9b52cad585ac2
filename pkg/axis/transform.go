package axis

import "math"

// pixelSpan is the extent of the axis rect along the axis.
func (a *Axis) pixelSpan() int {
	r := a.rect.Rect()
	if a.Orientation() == Horizontal {
		return r.Dx()
	}
	return r.Dy()
}

// CoordToPixel maps a data value to a pixel position along the axis.
// Horizontal axes grow rightwards from the rect's left edge, vertical axes
// upwards from its bottom edge, unless the range is reversed.
//
// On a logarithmic axis a value of the wrong sign is placed LogOverflow
// pixels beyond the end of the rect it falls off of.
func (a *Axis) CoordToPixel(v float64) float64 {
	p, _ := a.CoordToPixelChecked(v)
	return p
}

// CoordToPixelChecked is CoordToPixel that also reports whether v was
// representable on the axis scale.
func (a *Axis) CoordToPixelChecked(v float64) (float64, bool) {
	r := a.rect.Rect()
	lo, hi := a.rng.Lower, a.rng.Upper
	horizontal := a.Orientation() == Horizontal

	var frac float64
	if a.scaleType == Linear {
		if a.reversed {
			frac = (hi - v) / a.rng.Size()
		} else {
			frac = (v - lo) / a.rng.Size()
		}
	} else {
		// towardLow: the value lies past the lower end of a non-reversed axis.
		towardLow := v <= 0 && hi > 0
		if (v >= 0 && hi < 0) || towardLow {
			if a.reversed {
				towardLow = !towardLow
			}
			switch {
			case horizontal && towardLow:
				return float64(r.Min.X - LogOverflow), false
			case horizontal:
				return float64(r.Max.X + LogOverflow), false
			case towardLow:
				return float64(r.Max.Y + LogOverflow), false
			default:
				return float64(r.Min.Y - LogOverflow), false
			}
		}
		if a.reversed {
			frac = a.baseLog(hi/v) / a.baseLog(hi/lo)
		} else {
			frac = a.baseLog(v/lo) / a.baseLog(hi/lo)
		}
	}
	if horizontal {
		return float64(r.Min.X) + frac*float64(r.Dx()), true
	}
	return float64(r.Max.Y) - frac*float64(r.Dy()), true
}

// PixelToCoord is the inverse of CoordToPixel. An axis rect without extent
// maps every pixel to the lower range bound.
func (a *Axis) PixelToCoord(px float64) float64 {
	r := a.rect.Rect()
	var frac float64
	if a.Orientation() == Horizontal {
		if r.Dx() == 0 {
			return a.rng.Lower
		}
		frac = (px - float64(r.Min.X)) / float64(r.Dx())
	} else {
		if r.Dy() == 0 {
			return a.rng.Lower
		}
		frac = (float64(r.Max.Y) - px) / float64(r.Dy())
	}
	lo, hi := a.rng.Lower, a.rng.Upper
	if a.scaleType == Linear {
		if a.reversed {
			return hi - frac*a.rng.Size()
		}
		return lo + frac*a.rng.Size()
	}
	if a.reversed {
		return math.Pow(hi/lo, -frac) * hi
	}
	return math.Pow(hi/lo, frac) * lo
}
