// Package axis implements plot axes and the axis-bearing panel they live on.
//
// An [Axis] owns a data range, a scale (linear or logarithmic) and the tick
// vectors derived from them. It maps data coordinates to pixels inside its
// [Rect] and reports how much margin its decorations need, which the Rect
// turns into automatic layout margins.
//
// Per redraw the order is fixed: [Axis.SetupTickVectors] first, then layout
// (which queries [Axis.CalculateMargin]), then drawing.
package axis

import (
	"image/color"
	"math"

	"github.com/matzehuels/tickplot/pkg/errors"
	"github.com/matzehuels/tickplot/pkg/layer"
	"github.com/matzehuels/tickplot/pkg/layout"
	"github.com/matzehuels/tickplot/pkg/numrange"
	"github.com/matzehuels/tickplot/pkg/observability"
	"github.com/matzehuels/tickplot/pkg/paint"
)

const component = "axis"

// Type is the side of the axis rect an axis sits on.
type Type int

const (
	Left Type = iota
	Right
	Top
	Bottom
)

// Types lists all axis types in margin order.
var Types = [...]Type{Left, Right, Top, Bottom}

func (t Type) String() string {
	switch t {
	case Left:
		return "left"
	case Right:
		return "right"
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	}
	return "unknown"
}

// Orientation returns Horizontal for top and bottom axes.
func (t Type) Orientation() Orientation {
	if t == Top || t == Bottom {
		return Horizontal
	}
	return Vertical
}

// Side returns the layout margin side the axis occupies.
func (t Type) Side() layout.Side {
	switch t {
	case Left:
		return layout.SideLeft
	case Right:
		return layout.SideRight
	case Top:
		return layout.SideTop
	default:
		return layout.SideBottom
	}
}

// TypeForSide returns the axis type occupying a margin side.
func TypeForSide(s layout.Side) Type {
	switch s {
	case layout.SideLeft:
		return Left
	case layout.SideRight:
		return Right
	case layout.SideTop:
		return Top
	default:
		return Bottom
	}
}

// Orientation of an axis.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// ScaleType selects the coordinate mapping.
type ScaleType int

const (
	Linear ScaleType = iota
	Logarithmic
)

func (s ScaleType) String() string {
	if s == Logarithmic {
		return "log"
	}
	return "linear"
}

// LogOverflow is how far outside the axis rect, in pixels, values that a
// logarithmic axis cannot represent are mapped.
const LogOverflow = 200

// maxTicks bounds the tick vector for manual tick steps far below the range
// size.
const maxTicks = 1 << 16

// Axis is a horizontal or vertical axis of a [Rect].
type Axis struct {
	layer.Base

	typ     Type
	rect    *Rect
	metrics paint.Metrics
	grid    *Grid

	basePen        paint.Pen
	tickPen        paint.Pen
	subTickPen     paint.Pen
	labelColor     color.Color
	tickLabelColor color.Color

	offset            int
	padding           int
	labelPadding      int
	tickLabelPadding  int
	tickLabelRotation float64
	label             string
	ticks             bool
	tickLabels        bool
	numberFormat      byte
	numberPrecision   int

	tickStep       float64
	subTickCount   int
	autoTickCount  int
	autoTicks      bool
	autoTickStep   bool
	autoSubTicks   bool
	autoTickLabels bool

	tickLengthIn     int
	tickLengthOut    int
	subTickLengthIn  int
	subTickLengthOut int

	rng          numrange.Range
	reversed     bool
	scaleType    ScaleType
	logBase      float64
	logBaseLnInv float64

	tickVector      []float64
	subTickVector   []float64
	tickLabelVector []string
	lowTick         int
	highTick        int

	cachedMargin      int
	cachedMarginValid bool

	rangeListeners []func(newRange, oldRange numrange.Range)
}

func newAxis(r *Rect, t Type) *Axis {
	a := &Axis{
		typ:             t,
		rect:            r,
		metrics:         r.metrics,
		basePen:         paint.SolidPen(color.Black, 0),
		tickPen:         paint.SolidPen(color.Black, 0),
		subTickPen:      paint.SolidPen(color.Black, 0),
		labelColor:      color.Black,
		tickLabelColor:  color.Black,
		padding:         5,
		ticks:           true,
		tickLabels:      true,
		numberFormat:    'g',
		numberPrecision: 6,
		tickStep:        1,
		subTickCount:    4,
		autoTickCount:   6,
		autoTicks:       true,
		autoTickStep:    true,
		autoSubTicks:    true,
		autoTickLabels:  true,
		tickLengthIn:    5,
		subTickLengthIn: 2,
		rng:             numrange.Range{Lower: 0, Upper: 5},
		scaleType:       Linear,
		logBase:         10,
		logBaseLnInv:    1 / math.Ln10,
		highTick:        -1,
	}
	switch t {
	case Top:
		a.tickLabelPadding, a.labelPadding = 3, 6
	case Right:
		a.tickLabelPadding, a.labelPadding = 7, 12
	case Bottom:
		a.tickLabelPadding, a.labelPadding = 3, 3
	case Left:
		a.tickLabelPadding, a.labelPadding = 5, 10
	}
	_ = a.Init(a, r.Stack(), layer.Axes)
	a.SetParentLayerable(r)
	a.grid = newGrid(a)
	return a
}

// ParentPlotInitialized moves the axis and its grid onto their layers.
func (a *Axis) ParentPlotInitialized(s *layer.Stack) {
	if a.Layer() == nil {
		_ = a.SetLayer(layer.Axes)
	}
	if a.grid.Stack() == nil {
		_ = a.grid.InitializeParentPlot(s)
	}
}

// Type returns the side the axis sits on.
func (a *Axis) Type() Type { return a.typ }

// Orientation returns the axis orientation.
func (a *Axis) Orientation() Orientation { return a.typ.Orientation() }

// AxisRect returns the rect the axis belongs to.
func (a *Axis) AxisRect() *Rect { return a.rect }

// Grid returns the grid-line collaborator of the axis.
func (a *Axis) Grid() *Grid { return a.grid }

// Range returns the visible data range.
func (a *Axis) Range() numrange.Range { return a.rng }

// OnRangeChanged registers fn to run after every range change.
func (a *Axis) OnRangeChanged(fn func(newRange, oldRange numrange.Range)) {
	a.rangeListeners = append(a.rangeListeners, fn)
}

// SetRange sets the visible range. Identical bounds are a no-op; invalid
// bounds are rejected and leave the range unchanged. The new range is
// sanitized for the current scale type.
func (a *Axis) SetRange(r numrange.Range) error {
	if r.Lower == a.rng.Lower && r.Upper == a.rng.Upper {
		return nil
	}
	if !r.Valid() {
		return a.reportRange(r)
	}
	return a.applyRange(r)
}

// SetRangeBounds is SetRange for explicit bounds.
func (a *Axis) SetRangeBounds(lower, upper float64) error {
	return a.SetRange(numrange.Range{Lower: lower, Upper: upper})
}

// RangeAlign anchors SetRangeAt.
type RangeAlign int

const (
	AlignLower RangeAlign = iota
	AlignCenter
	AlignUpper
)

// SetRangeAt sets a range of the given size positioned at pos.
func (a *Axis) SetRangeAt(pos, size float64, align RangeAlign) error {
	switch align {
	case AlignUpper:
		return a.SetRangeBounds(pos-size, pos)
	case AlignCenter:
		return a.SetRangeBounds(pos-size/2, pos+size/2)
	default:
		return a.SetRangeBounds(pos, pos+size)
	}
}

// SetRangeLower changes only the lower bound.
func (a *Axis) SetRangeLower(lower float64) error {
	if a.rng.Lower == lower {
		return nil
	}
	r := numrange.Range{Lower: lower, Upper: a.rng.Upper}
	if !numrange.Valid(r.Lower, r.Upper) {
		return a.reportRange(r)
	}
	return a.applyRange(r)
}

// SetRangeUpper changes only the upper bound.
func (a *Axis) SetRangeUpper(upper float64) error {
	if a.rng.Upper == upper {
		return nil
	}
	r := numrange.Range{Lower: a.rng.Lower, Upper: upper}
	if !numrange.Valid(r.Lower, r.Upper) {
		return a.reportRange(r)
	}
	return a.applyRange(r)
}

// MoveRange shifts the range by diff on a linear axis and scales it by diff
// on a logarithmic one.
func (a *Axis) MoveRange(diff float64) error {
	r := a.rng
	if a.scaleType == Linear {
		r.Lower += diff
		r.Upper += diff
	} else {
		r.Lower *= diff
		r.Upper *= diff
	}
	if !numrange.Valid(r.Lower, r.Upper) {
		return a.reportRange(r)
	}
	return a.applyRange(r)
}

// ScaleRange zooms the range by factor around center. On a logarithmic
// axis center must share the range's sign.
func (a *Axis) ScaleRange(factor, center float64) error {
	var r numrange.Range
	if a.scaleType == Linear {
		r = numrange.Range{
			Lower: (a.rng.Lower-center)*factor + center,
			Upper: (a.rng.Upper-center)*factor + center,
		}
	} else {
		if !((a.rng.Upper < 0 && center < 0) || (a.rng.Upper > 0 && center > 0)) {
			return observability.Report(component, errors.New(errors.ErrCodeInvalidRange,
				"scale center %g is not in the sign domain of %v", center, a.rng))
		}
		r = numrange.Range{
			Lower: math.Pow(a.rng.Lower/center, factor) * center,
			Upper: math.Pow(a.rng.Upper/center, factor) * center,
		}
	}
	if !numrange.Valid(r.Lower, r.Upper) {
		return a.reportRange(r)
	}
	return a.applyRange(r)
}

// SetScaleRatio resizes the range around its center so one data unit spans
// ratio times the pixels it spans on other.
func (a *Axis) SetScaleRatio(other *Axis, ratio float64) error {
	otherPx, ownPx := other.pixelSpan(), a.pixelSpan()
	if otherPx == 0 {
		return observability.Report(component, errors.New(errors.ErrCodeInvalidInput, "reference axis has no extent"))
	}
	size := ratio * other.rng.Size() * float64(ownPx) / float64(otherPx)
	return a.SetRangeAt(a.rng.Center(), size, AlignCenter)
}

func (a *Axis) applyRange(r numrange.Range) error {
	old := a.rng
	if a.scaleType == Logarithmic {
		r = r.SanitizedForLogScale()
	} else {
		r = r.SanitizedForLinScale()
	}
	if !r.Valid() {
		return a.reportRange(r)
	}
	a.rng = r
	a.cachedMarginValid = false
	for _, fn := range a.rangeListeners {
		fn(a.rng, old)
	}
	return nil
}

func (a *Axis) reportRange(r numrange.Range) error {
	return observability.Report(component, errors.New(errors.ErrCodeInvalidRange, "invalid range %v for %s axis", r, a.typ))
}

// RangeReversed reports whether lower maps to the right or top end.
func (a *Axis) RangeReversed() bool { return a.reversed }

// SetRangeReversed flips the direction of the axis.
func (a *Axis) SetRangeReversed(reversed bool) {
	if a.reversed != reversed {
		a.reversed = reversed
		a.cachedMarginValid = false
	}
}

// ScaleType returns the scale type.
func (a *Axis) ScaleType() ScaleType { return a.scaleType }

// SetScaleType switches the scale. Switching to logarithmic sanitizes the
// range so it no longer touches zero.
func (a *Axis) SetScaleType(t ScaleType) {
	if a.scaleType == t {
		return
	}
	a.scaleType = t
	if t == Logarithmic {
		old := a.rng
		a.rng = a.rng.SanitizedForLogScale()
		if a.rng != old {
			for _, fn := range a.rangeListeners {
				fn(a.rng, old)
			}
		}
	}
	a.cachedMarginValid = false
}

// ScaleLogBase returns the logarithm base.
func (a *Axis) ScaleLogBase() float64 { return a.logBase }

// SetScaleLogBase sets the logarithm base, which must be greater than 1.
func (a *Axis) SetScaleLogBase(base float64) error {
	if !(base > 1) || math.IsInf(base, 1) {
		return observability.Report(component, errors.New(errors.ErrCodeInvalidInput, "log base must be greater than 1, got %g", base))
	}
	a.logBase = base
	a.logBaseLnInv = 1 / math.Log(base)
	a.cachedMarginValid = false
	return nil
}

func (a *Axis) baseLog(v float64) float64 { return math.Log(v) * a.logBaseLnInv }

func (a *Axis) basePow(v float64) float64 { return math.Pow(a.logBase, v) }

// Offset returns the distance of the axis from the rect edge.
func (a *Axis) Offset() int { return a.offset }

// SetOffset sets the distance of the axis from the rect edge. Axis rects
// manage it for stacked axes.
func (a *Axis) SetOffset(px int) { a.offset = px }

// Label returns the axis label.
func (a *Axis) Label() string { return a.label }

// SetLabel sets the axis label.
func (a *Axis) SetLabel(s string) {
	if a.label != s {
		a.label = s
		a.cachedMarginValid = false
	}
}

// Padding returns the space outside the axis decorations.
func (a *Axis) Padding() int { return a.padding }

// SetPadding sets the space outside the axis decorations.
func (a *Axis) SetPadding(px int) {
	if a.padding != px {
		a.padding = px
		a.cachedMarginValid = false
	}
}

// LabelPadding returns the gap between tick labels and the axis label.
func (a *Axis) LabelPadding() int { return a.labelPadding }

// SetLabelPadding sets the gap between tick labels and the axis label.
func (a *Axis) SetLabelPadding(px int) {
	if a.labelPadding != px {
		a.labelPadding = px
		a.cachedMarginValid = false
	}
}

// TickLabelPadding returns the gap between ticks and tick labels.
func (a *Axis) TickLabelPadding() int { return a.tickLabelPadding }

// SetTickLabelPadding sets the gap between ticks and tick labels.
func (a *Axis) SetTickLabelPadding(px int) {
	if a.tickLabelPadding != px {
		a.tickLabelPadding = px
		a.cachedMarginValid = false
	}
}

// TickLabelRotation returns the tick label rotation in degrees.
func (a *Axis) TickLabelRotation() float64 { return a.tickLabelRotation }

// SetTickLabelRotation sets the tick label rotation, clamped to [-90, 90].
func (a *Axis) SetTickLabelRotation(degrees float64) {
	degrees = min(max(degrees, -90), 90)
	if a.tickLabelRotation != degrees {
		a.tickLabelRotation = degrees
		a.cachedMarginValid = false
	}
}

// Ticks reports whether tick marks are drawn.
func (a *Axis) Ticks() bool { return a.ticks }

// SetTicks shows or hides tick marks.
func (a *Axis) SetTicks(show bool) {
	if a.ticks != show {
		a.ticks = show
		a.cachedMarginValid = false
	}
}

// ShowTickLabels reports whether tick labels are drawn.
func (a *Axis) ShowTickLabels() bool { return a.tickLabels }

// SetShowTickLabels shows or hides tick labels.
func (a *Axis) SetShowTickLabels(show bool) {
	if a.tickLabels != show {
		a.tickLabels = show
		a.cachedMarginValid = false
	}
}

// TickLength returns the inward and outward tick lengths.
func (a *Axis) TickLength() (in, out int) { return a.tickLengthIn, a.tickLengthOut }

// SetTickLength sets the inward and outward tick lengths.
func (a *Axis) SetTickLength(in, out int) {
	a.tickLengthIn = in
	if a.tickLengthOut != out {
		a.tickLengthOut = out
		a.cachedMarginValid = false
	}
}

// SubTickLength returns the inward and outward sub-tick lengths.
func (a *Axis) SubTickLength() (in, out int) { return a.subTickLengthIn, a.subTickLengthOut }

// SetSubTickLength sets the inward and outward sub-tick lengths.
func (a *Axis) SetSubTickLength(in, out int) {
	a.subTickLengthIn = in
	if a.subTickLengthOut != out {
		a.subTickLengthOut = out
		a.cachedMarginValid = false
	}
}

// NumberFormat returns the tick label format character.
func (a *Axis) NumberFormat() byte { return a.numberFormat }

// SetNumberFormat sets the tick label format: 'e', 'f' or 'g'.
func (a *Axis) SetNumberFormat(f byte) error {
	switch f {
	case 'e', 'f', 'g':
	default:
		return observability.Report(component, errors.New(errors.ErrCodeInvalidFormat, "unsupported number format %q", f))
	}
	if a.numberFormat != f {
		a.numberFormat = f
		a.cachedMarginValid = false
	}
	return nil
}

// NumberPrecision returns the tick label precision.
func (a *Axis) NumberPrecision() int { return a.numberPrecision }

// SetNumberPrecision sets the tick label precision.
func (a *Axis) SetNumberPrecision(p int) {
	if a.numberPrecision != p {
		a.numberPrecision = p
		a.cachedMarginValid = false
	}
}

// SetBasePen sets the pen of the axis line.
func (a *Axis) SetBasePen(p paint.Pen) { a.basePen = p }

// SetTickPen sets the pen of major ticks.
func (a *Axis) SetTickPen(p paint.Pen) { a.tickPen = p }

// SetSubTickPen sets the pen of sub-ticks.
func (a *Axis) SetSubTickPen(p paint.Pen) { a.subTickPen = p }

// SetLabelColor sets the axis label color.
func (a *Axis) SetLabelColor(c color.Color) { a.labelColor = c }

// SetTickLabelColor sets the tick label color.
func (a *Axis) SetTickLabelColor(c color.Color) { a.tickLabelColor = c }

// SetVisible shows or hides the axis. Hidden axes need no margin.
func (a *Axis) SetVisible(v bool) {
	if a.Visible() != v {
		a.Base.SetVisible(v)
		a.cachedMarginValid = false
	}
}

// ApplyDefaultAntialiasingHint applies the axes antialiasing override.
func (a *Axis) ApplyDefaultAntialiasingHint(s paint.Surface) {
	a.ApplyAntialiasingHint(s, a.Antialiased(), layer.AAAxes)
}

func (a *Axis) detach() {
	a.grid.Detach()
	a.Detach()
}
