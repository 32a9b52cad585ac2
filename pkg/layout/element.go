// Package layout arranges rectangular plot elements.
//
// Every [Element] has an outer rect assigned by its parent layout and an
// inner rect that is the outer rect shrunk by its margins. A margin is
// either manual or automatic. Automatic margins are resolved on [Element.Update]
// from [Element.CalculateAutoMargin] or, for sides in a [MarginGroup], from
// the group's common margin so panels line up.
//
// Containers ([Grid], [Inset]) are elements that own and place other
// elements. A [Grid] distributes its inner rect among rows and columns with
// [SectionSizes]; an [Inset] places children at fractional rects or aligned
// to its borders.
package layout

import (
	"image"

	"github.com/matzehuels/tickplot/pkg/errors"
	"github.com/matzehuels/tickplot/pkg/layer"
	"github.com/matzehuels/tickplot/pkg/observability"
	"github.com/matzehuels/tickplot/pkg/paint"
)

const component = "layout"

// Element is a rectangular layerable managed by a layout.
type Element interface {
	layer.Layerable

	// Layout returns the embedded element state.
	Layout() *ElementBase
	MinimumSizeHint() Size
	MaximumSizeHint() Size
	// CalculateAutoMargin returns the margin the element wants on side.
	CalculateAutoMargin(side Side) int
	// Update resolves automatic margins and, for containers, child rects.
	Update()
	// Elements returns owned child elements, descending when recursive.
	Elements(recursive bool) []Element
}

// ElementBase implements the state and default behavior of an Element.
// Concrete elements embed it and call InitElement from their constructor.
type ElementBase struct {
	layer.Base

	self        Element
	layerName   string
	outer       image.Rectangle
	inner       image.Rectangle
	margins     Margins
	minMargins  Margins
	autoMargins Side
	minSize     Size
	maxSize     Size
	groups      map[Side]*MarginGroup
	parent      Container
}

// InitElement binds e to its owner. With a nil stack the element stays
// detached until a container adopts it, at which point it moves to
// layerName (or the current layer).
func (e *ElementBase) InitElement(self Element, stack *layer.Stack, layerName string) {
	e.self = self
	e.layerName = layerName
	e.autoMargins = SideAll
	e.maxSize = MaxSizes
	e.groups = make(map[Side]*MarginGroup)
	_ = e.Init(self, stack, layerName)
}

// Layout returns e.
func (e *ElementBase) Layout() *ElementBase { return e }

func (e *ElementBase) element() Element {
	if e.self != nil {
		return e.self
	}
	return e
}

// Rect returns the inner rect.
func (e *ElementBase) Rect() image.Rectangle { return e.inner }

// OuterRect returns the rect assigned by the parent layout.
func (e *ElementBase) OuterRect() image.Rectangle { return e.outer }

// SetOuterRect sets the outer rect and recomputes the inner rect.
func (e *ElementBase) SetOuterRect(r image.Rectangle) {
	if e.outer == r {
		return
	}
	e.outer = r
	e.inner = shrink(r, e.margins)
}

// Margins returns the current margins.
func (e *ElementBase) Margins() Margins { return e.margins }

// SetMargins sets the margins. Automatic sides are overwritten again by
// the next Update.
func (e *ElementBase) SetMargins(m Margins) {
	if e.margins == m {
		return
	}
	e.margins = m
	e.inner = shrink(e.outer, m)
}

// MinimumMargins returns the lower bound for automatic margins.
func (e *ElementBase) MinimumMargins() Margins { return e.minMargins }

// SetMinimumMargins sets the lower bound for automatic margins.
func (e *ElementBase) SetMinimumMargins(m Margins) { e.minMargins = m }

// AutoMargins returns the sides under automatic control.
func (e *ElementBase) AutoMargins() Side { return e.autoMargins }

// SetAutoMargins puts sides under automatic control.
func (e *ElementBase) SetAutoMargins(sides Side) { e.autoMargins = sides }

// MinimumSize returns the explicit minimum size; zero components are unset.
func (e *ElementBase) MinimumSize() Size { return e.minSize }

// SetMinimumSize sets the explicit minimum size and notifies the parent
// layout on change.
func (e *ElementBase) SetMinimumSize(s Size) {
	if e.minSize == s {
		return
	}
	e.minSize = s
	if e.parent != nil {
		e.parent.SizeConstraintsChanged()
	}
}

// MaximumSize returns the explicit maximum size; MaxSize components are
// unset.
func (e *ElementBase) MaximumSize() Size { return e.maxSize }

// SetMaximumSize sets the explicit maximum size and notifies the parent
// layout on change.
func (e *ElementBase) SetMaximumSize(s Size) {
	if e.maxSize == s {
		return
	}
	e.maxSize = s
	if e.parent != nil {
		e.parent.SizeConstraintsChanged()
	}
}

// ParentLayout returns the owning container, or nil.
func (e *ElementBase) ParentLayout() Container { return e.parent }

// MarginGroup returns the group synchronizing side, or nil.
func (e *ElementBase) MarginGroup(side Side) *MarginGroup { return e.groups[side] }

// SetMarginGroup makes every side in sides follow g. A nil g removes the
// sides from their groups.
func (e *ElementBase) SetMarginGroup(sides Side, g *MarginGroup) {
	for _, side := range sidesOf(sides) {
		old := e.groups[side]
		if old == g {
			continue
		}
		if old != nil {
			_ = old.removeChild(side, e.element())
		}
		if g == nil {
			delete(e.groups, side)
			continue
		}
		e.groups[side] = g
		_ = g.addChild(side, e.element())
	}
}

// UpdateMargins resolves every automatic side, from the margin group when
// grouped, and clamps the result to the minimum margin.
func (e *ElementBase) UpdateMargins() {
	if e.autoMargins == SideNone {
		return
	}
	m := e.margins
	for _, side := range sides {
		if !e.autoMargins.Has(side) {
			continue
		}
		var v int
		if g := e.groups[side]; g != nil {
			v = g.CommonMargin(side)
		} else {
			v = e.element().CalculateAutoMargin(side)
		}
		m.Set(side, max(v, e.minMargins.Get(side)))
	}
	e.SetMargins(m)
}

// CalculateAutoMargin returns the larger of the manual and minimum margin.
func (e *ElementBase) CalculateAutoMargin(side Side) int {
	return max(e.margins.Get(side), e.minMargins.Get(side))
}

// MinimumSizeHint returns the explicit minimum size.
func (e *ElementBase) MinimumSizeHint() Size { return e.minSize }

// MaximumSizeHint returns the explicit maximum size.
func (e *ElementBase) MaximumSizeHint() Size { return e.maxSize }

// Update resolves automatic margins.
func (e *ElementBase) Update() { e.UpdateMargins() }

// Elements returns nil; plain elements own no children.
func (e *ElementBase) Elements(bool) []Element { return nil }

// Draw paints nothing.
func (e *ElementBase) Draw(paint.Surface) {}

// ApplyDefaultAntialiasingHint leaves the surface unchanged.
func (e *ElementBase) ApplyDefaultAntialiasingHint(paint.Surface) {}

// ParentPlotInitialized places a detached element on its layer and hands
// the stack to its children.
func (e *ElementBase) ParentPlotInitialized(s *layer.Stack) {
	if e.Layer() == nil {
		if e.layerName != "" {
			_ = e.SetLayer(e.layerName)
		} else {
			_ = e.MoveToLayer(s.CurrentLayer(), false)
		}
	}
	for _, c := range e.element().Elements(false) {
		if c.LayerBase().Stack() == nil {
			_ = c.LayerBase().InitializeParentPlot(s)
		}
	}
}

// finalMinSize is the explicit minimum where set, else the hint.
func finalMinSize(el Element) Size {
	explicit, s := el.Layout().MinimumSize(), el.MinimumSizeHint()
	if explicit.W > 0 {
		s.W = explicit.W
	}
	if explicit.H > 0 {
		s.H = explicit.H
	}
	return s
}

// finalMaxSize is the explicit maximum where set, else the hint.
func finalMaxSize(el Element) Size {
	explicit, s := el.Layout().MaximumSize(), el.MaximumSizeHint()
	if explicit.W < MaxSize {
		s.W = explicit.W
	}
	if explicit.H < MaxSize {
		s.H = explicit.H
	}
	return s
}

func sidesOf(s Side) []Side {
	var out []Side
	for _, side := range sides {
		if s.Has(side) {
			out = append(out, side)
		}
	}
	return out
}

// Spacer is an empty element that only takes up space.
type Spacer struct {
	ElementBase
}

// NewSpacer returns a spacer, detached until a layout adopts it.
func NewSpacer() *Spacer {
	s := &Spacer{}
	s.InitElement(s, nil, "")
	return s
}

// Dispose tears an element down: child elements are disposed first, then
// the element leaves its margin groups, its parent layout and its layer.
func Dispose(el Element) {
	if el == nil {
		return
	}
	for _, c := range el.Elements(false) {
		Dispose(c)
	}
	if d, ok := el.(Disposer); ok {
		d.OnDispose()
	}
	eb := el.Layout()
	eb.SetMarginGroup(SideAll, nil)
	if eb.parent != nil {
		_ = eb.parent.Take(el)
	}
	eb.Detach()
}

// Disposer is implemented by elements that own layerables outside the
// element tree, such as axes.
type Disposer interface {
	OnDispose()
}

func reportf(code errors.Code, format string, args ...any) error {
	return observability.Report(component, errors.New(code, format, args...))
}
