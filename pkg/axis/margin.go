package axis

import "github.com/matzehuels/tickplot/pkg/paint"

// CalculateMargin returns the space the axis needs outside its rect: the
// outward tick length, the tick label block plus its padding, the axis label
// plus its padding, and the axis padding. Hidden axes need none.
//
// The result is cached until a setter that affects it runs.
func (a *Axis) CalculateMargin() int {
	if !a.Visible() {
		return 0
	}
	if a.cachedMarginValid {
		return a.cachedMargin
	}
	margin := 0
	if a.ticks {
		margin += max(0, a.tickLengthOut, a.subTickLengthOut)
	}
	if a.tickLabels {
		w, h := a.tickLabelBlock()
		if a.Orientation() == Horizontal {
			margin += h
		} else {
			margin += w
		}
		margin += a.tickLabelPadding
	}
	if a.label != "" {
		_, h := a.metrics.TextSize(a.label)
		margin += h + a.labelPadding
	}
	margin += a.padding
	a.cachedMargin = margin
	a.cachedMarginValid = true
	return margin
}

// tickLabelBlock is the largest rotated bounding box over the visible tick
// labels.
func (a *Axis) tickLabelBlock() (w, h int) {
	for i := a.lowTick; i <= a.highTick && i < len(a.tickLabelVector); i++ {
		lw, lh := a.metrics.TextSize(a.tickLabelVector[i])
		if a.tickLabelRotation != 0 {
			lw, lh = paint.RotatedBounds(lw, lh, a.tickLabelRotation)
		}
		w, h = max(w, lw), max(h, lh)
	}
	return w, h
}
