package layout

import (
	"github.com/matzehuels/tickplot/pkg/errors"
	"github.com/matzehuels/tickplot/pkg/layer"
)

// Container is an element that owns and places child elements.
type Container interface {
	Element

	// ElementCount returns the number of cells, including empty ones.
	ElementCount() int
	// ElementAt returns the element in cell i, or nil if i is out of range
	// or the cell is empty.
	ElementAt(i int) Element
	// TakeAt removes and returns the element in cell i without disposing it.
	TakeAt(i int) Element
	// Take removes el without disposing it.
	Take(el Element) error
	// Simplify drops empty cells where the container supports it.
	Simplify()
	// UpdateLayout assigns outer rects to the children.
	UpdateLayout()
	// SizeConstraintsChanged is called when a child's size limits change.
	SizeConstraintsChanged()
}

// ContainerBase implements the shared parts of a Container. Concrete
// containers embed it and call InitContainer from their constructor.
type ContainerBase struct {
	ElementBase

	container Container

	// OnRootConstraintsChanged is called when a size constraint change
	// reaches a container without a parent layout.
	OnRootConstraintsChanged func()
}

// InitContainer binds c to its owner.
func (c *ContainerBase) InitContainer(self Container, stack *layer.Stack, layerName string) {
	c.container = self
	c.InitElement(self, stack, layerName)
}

// Update resolves the container's margins, lays out the children and
// updates each child.
func (c *ContainerBase) Update() {
	c.UpdateMargins()
	c.container.UpdateLayout()
	for i := 0; i < c.container.ElementCount(); i++ {
		if el := c.container.ElementAt(i); el != nil {
			el.Update()
		}
	}
}

// Elements returns the non-empty cells in index order.
func (c *ContainerBase) Elements(recursive bool) []Element {
	var out []Element
	for i := 0; i < c.container.ElementCount(); i++ {
		if el := c.container.ElementAt(i); el != nil {
			out = append(out, el)
		}
	}
	if recursive {
		direct := out
		for _, el := range direct {
			out = append(out, el.Elements(true)...)
		}
	}
	return out
}

// RemoveAt takes the element in cell i and disposes it.
func (c *ContainerBase) RemoveAt(i int) error {
	el := c.container.TakeAt(i)
	if el == nil {
		return errors.New(errors.ErrCodeInvalidIndex, "no element at index %d", i)
	}
	Dispose(el)
	return nil
}

// Remove takes el and disposes it.
func (c *ContainerBase) Remove(el Element) error {
	if err := c.container.Take(el); err != nil {
		return err
	}
	Dispose(el)
	return nil
}

// Clear disposes every child and simplifies.
func (c *ContainerBase) Clear() {
	for i := c.container.ElementCount() - 1; i >= 0; i-- {
		if c.container.ElementAt(i) != nil {
			_ = c.RemoveAt(i)
		}
	}
	c.container.Simplify()
}

// Simplify does nothing by default.
func (c *ContainerBase) Simplify() {}

// SizeConstraintsChanged bubbles up to the root container.
func (c *ContainerBase) SizeConstraintsChanged() {
	if p := c.ParentLayout(); p != nil {
		p.SizeConstraintsChanged()
		return
	}
	if c.OnRootConstraintsChanged != nil {
		c.OnRootConstraintsChanged()
	}
}

// adopt makes the container the parent of el. The element must already be
// stored in the container, since the root is told its constraints changed.
func (c *ContainerBase) adopt(el Element) {
	eb := el.Layout()
	eb.parent = c.container
	eb.SetParentLayerable(c.container)
	if eb.Stack() == nil && c.Stack() != nil {
		_ = eb.InitializeParentPlot(c.Stack())
	}
	c.container.SizeConstraintsChanged()
}

// release clears the parent of el, which must already be removed.
func (c *ContainerBase) release(el Element) {
	eb := el.Layout()
	eb.parent = nil
	eb.SetParentLayerable(nil)
	c.container.SizeConstraintsChanged()
}

// takeFromParent removes el from whatever layout currently holds it.
func takeFromParent(el Element) {
	if p := el.Layout().ParentLayout(); p != nil {
		_ = p.Take(el)
	}
}
