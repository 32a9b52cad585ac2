package layer

import (
	"image"

	"github.com/matzehuels/tickplot/pkg/errors"
	"github.com/matzehuels/tickplot/pkg/observability"
	"github.com/matzehuels/tickplot/pkg/paint"
)

// Layerable is anything that can be placed on a layer and painted.
type Layerable interface {
	// LayerBase returns the embedded bookkeeping state.
	LayerBase() *Base
	// Draw paints the object. It is called between Save and Restore with
	// the clip rect and default antialiasing hint already applied.
	Draw(s paint.Surface)
	// ApplyDefaultAntialiasingHint sets the antialiasing state used when
	// Draw does not set one itself.
	ApplyDefaultAntialiasingHint(s paint.Surface)
	// ClipRect returns the region painting is clipped to.
	ClipRect() image.Rectangle
}

// ParentPlotInitializer is implemented by layerables that need to react when
// they are attached to a stack after construction, e.g. to propagate the
// stack to their children.
type ParentPlotInitializer interface {
	ParentPlotInitialized(s *Stack)
}

// Base carries the state shared by every layerable. Concrete types embed it
// and call Init from their constructor.
type Base struct {
	self        Layerable
	visible     bool
	antialiased bool
	parent      Layerable
	layer       *Layer
	stack       *Stack
}

// Init binds the base to its owner and, if stack is non-nil, places it on
// layerName (the stack's current layer when empty).
func (b *Base) Init(self Layerable, stack *Stack, layerName string) error {
	b.self = self
	b.visible = true
	b.antialiased = true
	b.stack = stack
	if stack == nil {
		return nil
	}
	if layerName == "" {
		return b.MoveToLayer(stack.CurrentLayer(), false)
	}
	return b.SetLayer(layerName)
}

// LayerBase returns b, so embedding types satisfy part of [Layerable].
func (b *Base) LayerBase() *Base { return b }

// Self returns the layerable b was initialized for.
func (b *Base) Self() Layerable { return b.self }

// Visible returns the object's own visibility flag.
func (b *Base) Visible() bool { return b.visible }

// SetVisible sets the object's own visibility flag.
func (b *Base) SetVisible(v bool) { b.visible = v }

// Antialiased returns the local antialiasing preference.
func (b *Base) Antialiased() bool { return b.antialiased }

// SetAntialiased sets the local antialiasing preference.
func (b *Base) SetAntialiased(v bool) { b.antialiased = v }

// Layer returns the layer the object is on, or nil.
func (b *Base) Layer() *Layer { return b.layer }

// Stack returns the stack the object belongs to, or nil.
func (b *Base) Stack() *Stack { return b.stack }

// ParentLayerable returns the visibility parent, or nil.
func (b *Base) ParentLayerable() Layerable { return b.parent }

// SetParentLayerable sets the visibility parent.
func (b *Base) SetParentLayerable(p Layerable) { b.parent = p }

// ClipRect returns the stack viewport, or the empty rectangle when detached.
func (b *Base) ClipRect() image.Rectangle {
	if b.stack == nil {
		return image.Rectangle{}
	}
	return b.stack.Viewport()
}

// RealVisibility reports whether the object and every ancestor are visible.
// It is recomputed on every call.
func (b *Base) RealVisibility() bool {
	if !b.visible {
		return false
	}
	return b.parent == nil || b.parent.LayerBase().RealVisibility()
}

// SetLayer moves the object to the layer called name.
func (b *Base) SetLayer(name string) error {
	if b.stack == nil {
		return observability.Report(component, errors.New(errors.ErrCodeInvalidInput, "no stack set"))
	}
	l := b.stack.Layer(name)
	if l == nil {
		return observability.Report(component, errors.New(errors.ErrCodeNotFound, "layer %q does not exist", name))
	}
	return b.MoveToLayer(l, false)
}

// MoveToLayer removes the object from its current layer and adds it to l,
// prepending if requested. A nil l only detaches. On error nothing changes.
func (b *Base) MoveToLayer(l *Layer, prepend bool) error {
	if l != nil && b.stack == nil {
		return observability.Report(component, errors.New(errors.ErrCodeInvalidInput, "no stack set"))
	}
	if l != nil && l.stack != b.stack {
		return observability.Report(component, errors.New(errors.ErrCodeForeignOwner, "layer %q belongs to another stack", l.name))
	}
	if b.self == nil {
		return observability.Report(component, errors.New(errors.ErrCodeInvalidInput, "layerable not initialized"))
	}
	if b.layer != nil {
		_ = b.layer.removeChild(b.self)
	}
	b.layer = l
	if l != nil {
		_ = l.addChild(b.self, prepend)
	}
	return nil
}

// Detach removes the object from its layer.
func (b *Base) Detach() {
	if b.layer != nil && b.self != nil {
		_ = b.layer.removeChild(b.self)
	}
	b.layer = nil
}

// InitializeParentPlot sets the stack of an object created without one. It
// can only be called once; afterwards the owner's ParentPlotInitialized hook
// runs.
func (b *Base) InitializeParentPlot(s *Stack) error {
	if b.stack != nil {
		return observability.Report(component, errors.New(errors.ErrCodeAlreadyInitialized, "stack already set"))
	}
	if s == nil {
		return observability.Report(component, errors.New(errors.ErrCodeInvalidInput, "nil stack"))
	}
	b.stack = s
	if pi, ok := b.self.(ParentPlotInitializer); ok {
		pi.ParentPlotInitialized(s)
	}
	return nil
}

// ApplyAntialiasingHint sets antialiasing on s from the local preference,
// unless the stack forces element on or off.
func (b *Base) ApplyAntialiasingHint(s paint.Surface, local bool, element AAElement) {
	switch {
	case b.stack != nil && b.stack.NotAntialiasedElements().Has(element):
		s.SetAntialiasing(false)
	case b.stack != nil && b.stack.AntialiasedElements().Has(element):
		s.SetAntialiasing(true)
	default:
		s.SetAntialiasing(local)
	}
}
