package layer

import (
	"image"

	"github.com/matzehuels/tickplot/pkg/errors"
	"github.com/matzehuels/tickplot/pkg/observability"
	"github.com/matzehuels/tickplot/pkg/paint"
)

// Default layer names, bottom to top.
const (
	Background = "background"
	Grid       = "grid"
	Main       = "main"
	Axes       = "axes"
	Legend     = "legend"
)

// DefaultLayers lists the layers of a new stack in paint order.
var DefaultLayers = []string{Background, Grid, Main, Axes, Legend}

// InsertMode places a layer relative to another.
type InsertMode int

const (
	Below InsertMode = iota
	Above
)

// AAElement is a set of element kinds for stack-wide antialiasing overrides.
type AAElement uint32

const (
	AAAxes AAElement = 1 << iota
	AAGrid
	AASubGrid
	AALegend
	AALegendItems
	AAPlottables
	AAItems
	AAScatters
	AAFills
	AAZeroLine
)

const (
	AANone AAElement = 0
	AAAll            = AAZeroLine<<1 - 1
)

// Has reports whether every flag in e is set. AANone is never contained.
func (a AAElement) Has(e AAElement) bool { return e != 0 && a&e == e }

// Stack is the layer registry of one plot.
type Stack struct {
	layers   []*Layer
	current  *Layer
	aa       AAElement
	notAA    AAElement
	viewport image.Rectangle
}

// NewStack returns a stack holding the default layers with "main" current.
func NewStack() *Stack {
	s := &Stack{}
	for _, name := range DefaultLayers {
		s.layers = append(s.layers, newLayer(s, name))
	}
	s.updateIndices()
	s.current = s.Layer(Main)
	return s
}

// Layer returns the layer called name, or nil.
func (s *Stack) Layer(name string) *Layer {
	for _, l := range s.layers {
		if l.name == name {
			return l
		}
	}
	return nil
}

// LayerAt returns the layer at index i.
func (s *Stack) LayerAt(i int) (*Layer, error) {
	if i < 0 || i >= len(s.layers) {
		return nil, observability.Report(component, errors.New(errors.ErrCodeInvalidIndex, "invalid layer index %d", i))
	}
	return s.layers[i], nil
}

// Layers returns the layers bottom to top.
func (s *Stack) Layers() []*Layer {
	out := make([]*Layer, len(s.layers))
	copy(out, s.layers)
	return out
}

// Viewport returns the plot area in surface pixels.
func (s *Stack) Viewport() image.Rectangle { return s.viewport }

// SetViewport sets the plot area. It is the default clip rect of every
// layerable on the stack.
func (s *Stack) SetViewport(r image.Rectangle) { s.viewport = r }

// LayerCount returns the number of layers.
func (s *Stack) LayerCount() int { return len(s.layers) }

// CurrentLayer returns the layer new layerables are placed on by default.
func (s *Stack) CurrentLayer() *Layer { return s.current }

// SetCurrentLayer makes the layer called name current.
func (s *Stack) SetCurrentLayer(name string) error {
	l := s.Layer(name)
	if l == nil {
		return observability.Report(component, errors.New(errors.ErrCodeNotFound, "layer %q does not exist", name))
	}
	s.current = l
	return nil
}

func (s *Stack) owns(l *Layer) bool {
	return l != nil && l.stack == s && l.index >= 0 && l.index < len(s.layers) && s.layers[l.index] == l
}

// AddLayer inserts a new layer called name above or below other. A nil
// other means the topmost layer.
func (s *Stack) AddLayer(name string, other *Layer, mode InsertMode) (*Layer, error) {
	if other == nil {
		other = s.layers[len(s.layers)-1]
	}
	if !s.owns(other) {
		return nil, observability.Report(component, errors.New(errors.ErrCodeForeignOwner, "layer %q is not in this stack", other.name))
	}
	if err := errors.ValidateName(name); err != nil {
		return nil, observability.Report(component, err)
	}
	if s.Layer(name) != nil {
		return nil, observability.Report(component, errors.New(errors.ErrCodeDuplicate, "layer %q already exists", name))
	}
	l := newLayer(s, name)
	at := other.index
	if mode == Above {
		at++
	}
	s.layers = append(s.layers[:at], append([]*Layer{l}, s.layers[at:]...)...)
	s.updateIndices()
	return l, nil
}

// RemoveLayer deletes l. Its children move to the layer below, or are
// prepended to the layer above when l is the lowest layer. The last
// remaining layer cannot be removed.
func (s *Stack) RemoveLayer(l *Layer) error {
	if !s.owns(l) {
		return observability.Report(component, errors.New(errors.ErrCodeNotFound, "layer is not in this stack"))
	}
	if len(s.layers) < 2 {
		return observability.Report(component, errors.New(errors.ErrCodeInvalidInput, "cannot remove the last layer"))
	}
	first := l.index == 0
	var target *Layer
	if first {
		target = s.layers[1]
	} else {
		target = s.layers[l.index-1]
	}
	children := l.Children()
	if first {
		// reverse prepend keeps their relative order
		for i := len(children) - 1; i >= 0; i-- {
			_ = children[i].LayerBase().MoveToLayer(target, true)
		}
	} else {
		for _, c := range children {
			_ = c.LayerBase().MoveToLayer(target, false)
		}
	}
	if s.current == l {
		s.current = target
	}
	s.layers = append(s.layers[:l.index], s.layers[l.index+1:]...)
	l.index = -1
	l.stack = nil
	s.updateIndices()
	return nil
}

// MoveLayer repositions l directly above or below other.
func (s *Stack) MoveLayer(l, other *Layer, mode InsertMode) error {
	if !s.owns(l) || !s.owns(other) {
		return observability.Report(component, errors.New(errors.ErrCodeNotFound, "layer is not in this stack"))
	}
	if l == other {
		return nil
	}
	rest := append(s.layers[:l.index:l.index], s.layers[l.index+1:]...)
	at := 0
	for i, x := range rest {
		if x == other {
			at = i
			break
		}
	}
	if mode == Above {
		at++
	}
	s.layers = append(rest[:at:at], append([]*Layer{l}, rest[at:]...)...)
	s.updateIndices()
	return nil
}

func (s *Stack) updateIndices() {
	for i, l := range s.layers {
		l.index = i
	}
}

// AntialiasedElements returns the elements forced to antialias.
func (s *Stack) AntialiasedElements() AAElement { return s.aa }

// NotAntialiasedElements returns the elements forced not to antialias.
func (s *Stack) NotAntialiasedElements() AAElement { return s.notAA }

// SetAntialiasedElements forces e on. Flags in e are cleared from the
// not-antialiased set.
func (s *Stack) SetAntialiasedElements(e AAElement) {
	s.aa = e
	s.notAA &^= e
}

// SetAntialiasedElement switches a single override on or off.
func (s *Stack) SetAntialiasedElement(e AAElement, enabled bool) {
	if enabled {
		s.SetAntialiasedElements(s.aa | e)
	} else {
		s.aa &^= e
	}
}

// SetNotAntialiasedElements forces e off. Flags in e are cleared from the
// antialiased set.
func (s *Stack) SetNotAntialiasedElements(e AAElement) {
	s.notAA = e
	s.aa &^= e
}

// SetNotAntialiasedElement switches a single override on or off.
func (s *Stack) SetNotAntialiasedElement(e AAElement, enabled bool) {
	if enabled {
		s.SetNotAntialiasedElements(s.notAA | e)
	} else {
		s.notAA &^= e
	}
}

// Draw paints every really-visible layerable, layer by layer.
func (s *Stack) Draw(surface paint.Surface) {
	for _, l := range s.layers {
		for _, c := range l.Children() {
			if !c.LayerBase().RealVisibility() {
				continue
			}
			surface.Save()
			surface.SetClipRect(c.ClipRect())
			c.ApplyDefaultAntialiasingHint(surface)
			c.Draw(surface)
			surface.Restore()
		}
	}
}
