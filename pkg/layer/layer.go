// Package layer implements the rendering order of a plot.
//
// A [Stack] holds an ordered list of named [Layer]s. Each Layer holds an
// ordered list of [Layerable]s. Painting walks layers by ascending index and
// each layer's children in list order; nothing else decides what draws over
// what.
//
// Visibility is a separate hierarchy: a Layerable may name a parent
// layerable, and it is only drawn while it and every ancestor are visible.
//
// # Ownership
//
// A Layerable sits on at most one Layer at a time. [Base.MoveToLayer]
// always removes from the old layer before adding to the new one, so the
// invariant holds across every mutation. Back-pointers from a Layerable to
// its Layer and Stack are relations, not owners: [Base.Detach] deregisters
// symmetrically.
package layer

import (
	"github.com/matzehuels/tickplot/pkg/errors"
	"github.com/matzehuels/tickplot/pkg/observability"
)

const component = "layer"

// Layer is an ordered bucket of layerables. Layers are created and owned by
// a [Stack]; their index is their position in it.
type Layer struct {
	name     string
	index    int
	children []Layerable
	stack    *Stack
}

func newLayer(stack *Stack, name string) *Layer {
	return &Layer{name: name, index: -1, stack: stack}
}

// Name returns the layer name.
func (l *Layer) Name() string { return l.name }

// Index returns the layer's position in its stack, or -1 before it is added.
func (l *Layer) Index() int { return l.index }

// Stack returns the stack that owns the layer.
func (l *Layer) Stack() *Stack { return l.stack }

// Children returns a copy of the layer's children in paint order.
func (l *Layer) Children() []Layerable {
	out := make([]Layerable, len(l.children))
	copy(out, l.children)
	return out
}

// Len returns the number of children.
func (l *Layer) Len() int { return len(l.children) }

func (l *Layer) indexOf(c Layerable) int {
	for i, x := range l.children {
		if x == c {
			return i
		}
	}
	return -1
}

func (l *Layer) addChild(c Layerable, prepend bool) error {
	if l.indexOf(c) >= 0 {
		return observability.Report(component, errors.New(errors.ErrCodeDuplicate, "layerable already on layer %q", l.name))
	}
	if prepend {
		l.children = append([]Layerable{c}, l.children...)
	} else {
		l.children = append(l.children, c)
	}
	return nil
}

func (l *Layer) removeChild(c Layerable) error {
	i := l.indexOf(c)
	if i < 0 {
		return observability.Report(component, errors.New(errors.ErrCodeNotFound, "layerable not on layer %q", l.name))
	}
	l.children = append(l.children[:i], l.children[i+1:]...)
	return nil
}
