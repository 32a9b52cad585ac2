package axis

import (
	"slices"

	"github.com/matzehuels/tickplot/pkg/errors"
	"github.com/matzehuels/tickplot/pkg/layer"
	"github.com/matzehuels/tickplot/pkg/layout"
	"github.com/matzehuels/tickplot/pkg/observability"
	"github.com/matzehuels/tickplot/pkg/paint"
)

// Rect is a layout element whose inner rect is the data area and whose
// margins hold its axes. Axes on the same side stack outwards; the margin on
// a side is the outermost axis's offset plus its own margin.
type Rect struct {
	layout.ElementBase

	axes       map[Type][]*Axis
	inset      *layout.Inset
	metrics    paint.Metrics
	background paint.Brush
}

// NewRect returns an axis rect measuring text with metrics. With
// defaultAxes it carries one axis per side, of which top and right are
// hidden and only bottom and left show grid lines.
func NewRect(stack *layer.Stack, metrics paint.Metrics, defaultAxes bool) *Rect {
	r := &Rect{
		axes:    make(map[Type][]*Axis, len(Types)),
		metrics: metrics,
	}
	if r.metrics == nil {
		r.metrics = paint.DefaultMetrics()
	}
	r.InitElement(r, stack, "")
	r.inset = layout.NewInset(stack, "")
	r.inset.SetParentLayerable(r)
	r.SetMinimumSize(layout.Size{W: 50, H: 50})
	r.SetMinimumMargins(layout.UniformMargins(15))

	if defaultAxes {
		x := r.AddAxis(Bottom)
		y := r.AddAxis(Left)
		x2 := r.AddAxis(Top)
		y2 := r.AddAxis(Right)
		x2.SetVisible(false)
		y2.SetVisible(false)
		x.Grid().SetVisible(true)
		y.Grid().SetVisible(true)
		x2.Grid().SetVisible(false)
		y2.Grid().SetVisible(false)
		x2.Grid().SetZeroLinePen(paint.NoPen)
		y2.Grid().SetZeroLinePen(paint.NoPen)
	}
	return r
}

// ParentPlotInitialized hands the stack to the inset and the axes.
func (r *Rect) ParentPlotInitialized(s *layer.Stack) {
	r.ElementBase.ParentPlotInitialized(s)
	for _, a := range r.AllAxes() {
		if a.Stack() == nil {
			_ = a.InitializeParentPlot(s)
		}
	}
}

// Metrics returns the text metrics used by the axes.
func (r *Rect) Metrics() paint.Metrics { return r.metrics }

// Inset returns the overlay layout covering the data area.
func (r *Rect) Inset() *layout.Inset { return r.inset }

// SetBackground sets the fill of the data area.
func (r *Rect) SetBackground(b paint.Brush) { r.background = b }

// AddAxis appends a new axis of type t, outermost on its side.
func (r *Rect) AddAxis(t Type) *Axis {
	a := newAxis(r, t)
	r.axes[t] = append(r.axes[t], a)
	return a
}

// RemoveAxis removes and detaches a.
func (r *Rect) RemoveAxis(a *Axis) error {
	if a != nil {
		list := r.axes[a.typ]
		if i := slices.Index(list, a); i >= 0 {
			r.axes[a.typ] = slices.Delete(list, i, i+1)
			a.detach()
			return nil
		}
	}
	return observability.Report(component, errors.New(errors.ErrCodeNotFound, "axis is not part of this axis rect"))
}

// Axis returns the i-th axis of type t, counting outwards.
func (r *Rect) Axis(t Type, i int) (*Axis, error) {
	list := r.axes[t]
	if i < 0 || i >= len(list) {
		return nil, observability.Report(component, errors.New(errors.ErrCodeInvalidIndex, "no %s axis at index %d", t, i))
	}
	return list[i], nil
}

// AxisCount returns the number of axes of type t.
func (r *Rect) AxisCount(t Type) int { return len(r.axes[t]) }

// Axes returns the axes of type t, innermost first.
func (r *Rect) Axes(t Type) []*Axis { return slices.Clone(r.axes[t]) }

// AllAxes returns every axis: left, right, top, then bottom.
func (r *Rect) AllAxes() []*Axis {
	var out []*Axis
	for _, t := range Types {
		out = append(out, r.axes[t]...)
	}
	return out
}

// SetupTickVectors refreshes the ticks of every axis.
func (r *Rect) SetupTickVectors() {
	for _, a := range r.AllAxes() {
		a.SetupTickVectors()
	}
}

// CalculateAutoMargin stacks the axes on side and returns the extent of
// the outermost one.
func (r *Rect) CalculateAutoMargin(side layout.Side) int {
	t := TypeForSide(side)
	r.updateAxesOffset(t)
	list := r.axes[t]
	if len(list) == 0 {
		return 0
	}
	last := list[len(list)-1]
	return last.Offset() + last.CalculateMargin()
}

// updateAxesOffset positions every axis of type t just outside the one
// before it. Visible axes other than the first visible one also clear their
// own inward ticks.
func (r *Rect) updateAxesOffset(t Type) {
	list := r.axes[t]
	if len(list) == 0 {
		return
	}
	firstVisible := !list[0].Visible()
	for i := 1; i < len(list); i++ {
		prev := list[i-1]
		offset := prev.Offset() + prev.CalculateMargin()
		if list[i].Visible() {
			if !firstVisible {
				offset += list[i].tickLengthIn
			}
			firstVisible = false
		}
		list[i].SetOffset(offset)
	}
}

// Update recomputes margins, then lays the inset over the data area.
func (r *Rect) Update() {
	r.ElementBase.Update()
	r.inset.SetOuterRect(r.Rect())
	r.inset.Update()
}

// Elements returns the inset and, if recursive, its descendants.
func (r *Rect) Elements(recursive bool) []layout.Element {
	out := []layout.Element{r.inset}
	if recursive {
		out = append(out, r.inset.Elements(true)...)
	}
	return out
}

// Draw fills the data area with the background brush.
func (r *Rect) Draw(s paint.Surface) {
	if r.background.Color == nil {
		return
	}
	in := r.Rect()
	s.SetPen(paint.NoPen)
	s.SetBrush(r.background)
	s.DrawRect(float64(in.Min.X), float64(in.Min.Y), float64(in.Dx()), float64(in.Dy()))
}

// OnDispose detaches the axes together with the rect.
func (r *Rect) OnDispose() {
	for _, a := range r.AllAxes() {
		a.detach()
	}
	r.axes = make(map[Type][]*Axis, len(Types))
}
