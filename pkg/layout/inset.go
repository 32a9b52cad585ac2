package layout

import (
	"image"

	"github.com/matzehuels/tickplot/pkg/errors"
	"github.com/matzehuels/tickplot/pkg/layer"
)

// Placement selects how an inset child is positioned.
type Placement int

const (
	// PlaceFree positions the child at a fractional rect of the inset.
	PlaceFree Placement = iota
	// PlaceBorderAligned sizes the child to its minimum and aligns it to
	// the inset's borders.
	PlaceBorderAligned
)

type insetItem struct {
	el        Element
	placement Placement
	alignment Alignment
	rect      FracRect
}

// Inset overlays children on top of its own rect, e.g. notes inside an
// axis rect.
type Inset struct {
	ContainerBase

	items []insetItem
}

// NewInset returns an empty inset layout.
func NewInset(stack *layer.Stack, layerName string) *Inset {
	in := &Inset{}
	in.InitContainer(in, stack, layerName)
	return in
}

// AddAligned adds el border-aligned with the given alignment.
func (in *Inset) AddAligned(el Element, a Alignment) error {
	return in.add(el, insetItem{placement: PlaceBorderAligned, alignment: a, rect: DefaultFracRect})
}

// AddFree adds el at the fractional rect r.
func (in *Inset) AddFree(el Element, r FracRect) error {
	return in.add(el, insetItem{placement: PlaceFree, alignment: AlignRight | AlignTop, rect: r})
}

func (in *Inset) add(el Element, it insetItem) error {
	if el == nil {
		return reportf(errors.ErrCodeInvalidInput, "nil element")
	}
	takeFromParent(el)
	it.el = el
	in.items = append(in.items, it)
	in.adopt(el)
	return nil
}

func (in *Inset) item(i int) (*insetItem, error) {
	if i < 0 || i >= len(in.items) {
		return nil, reportf(errors.ErrCodeInvalidIndex, "invalid inset index %d", i)
	}
	return &in.items[i], nil
}

// Placement returns the placement of child i; PlaceFree if i is invalid.
func (in *Inset) Placement(i int) Placement {
	it, err := in.item(i)
	if err != nil {
		return PlaceFree
	}
	return it.placement
}

// Alignment returns the alignment of child i; 0 if i is invalid.
func (in *Inset) Alignment(i int) Alignment {
	it, err := in.item(i)
	if err != nil {
		return 0
	}
	return it.alignment
}

// FracRect returns the fractional rect of child i; zero if i is invalid.
func (in *Inset) FracRect(i int) FracRect {
	it, err := in.item(i)
	if err != nil {
		return FracRect{}
	}
	return it.rect
}

// SetPlacement changes how child i is positioned.
func (in *Inset) SetPlacement(i int, p Placement) error {
	it, err := in.item(i)
	if err != nil {
		return err
	}
	it.placement = p
	return nil
}

// SetAlignment changes the alignment used when child i is border-aligned.
func (in *Inset) SetAlignment(i int, a Alignment) error {
	it, err := in.item(i)
	if err != nil {
		return err
	}
	it.alignment = a
	return nil
}

// SetFracRect changes the rect used when child i is placed freely.
func (in *Inset) SetFracRect(i int, r FracRect) error {
	it, err := in.item(i)
	if err != nil {
		return err
	}
	it.rect = r
	return nil
}

// UpdateLayout assigns each child its outer rect.
func (in *Inset) UpdateLayout() {
	r := in.Rect()
	x, y := float64(r.Min.X), float64(r.Min.Y)
	w, h := float64(r.Dx()), float64(r.Dy())
	for _, it := range in.items {
		minS, maxS := finalMinSize(it.el), finalMaxSize(it.el)
		var out image.Rectangle
		switch it.placement {
		case PlaceFree:
			left := int(x + w*it.rect.X)
			top := int(y + h*it.rect.Y)
			cw := int(w * it.rect.W)
			ch := int(h * it.rect.H)
			cw = min(max(cw, minS.W), maxS.W)
			ch = min(max(ch, minS.H), maxS.H)
			out = image.Rect(left, top, left+cw, top+ch)
		case PlaceBorderAligned:
			var left, top int
			switch {
			case it.alignment&AlignLeft != 0:
				left = r.Min.X
			case it.alignment&AlignRight != 0:
				left = r.Max.X - minS.W
			default:
				left = int(x + w*0.5 - float64(minS.W)*0.5)
			}
			switch {
			case it.alignment&AlignTop != 0:
				top = r.Min.Y
			case it.alignment&AlignBottom != 0:
				top = r.Max.Y - minS.H
			default:
				top = int(y + h*0.5 - float64(minS.H)*0.5)
			}
			out = image.Rect(left, top, left+minS.W, top+minS.H)
		}
		it.el.Layout().SetOuterRect(out)
	}
}

// ElementCount returns the number of children.
func (in *Inset) ElementCount() int { return len(in.items) }

// ElementAt returns child i, or nil.
func (in *Inset) ElementAt(i int) Element {
	if i < 0 || i >= len(in.items) {
		return nil
	}
	return in.items[i].el
}

// TakeAt removes and returns child i.
func (in *Inset) TakeAt(i int) Element {
	if i < 0 || i >= len(in.items) {
		_ = reportf(errors.ErrCodeInvalidIndex, "nothing to take at index %d", i)
		return nil
	}
	el := in.items[i].el
	in.items = append(in.items[:i], in.items[i+1:]...)
	in.release(el)
	return el
}

// Take removes el.
func (in *Inset) Take(el Element) error {
	if el == nil {
		return reportf(errors.ErrCodeInvalidInput, "nil element")
	}
	for i, it := range in.items {
		if it.el == el {
			in.TakeAt(i)
			return nil
		}
	}
	return reportf(errors.ErrCodeNotFound, "element not in this inset")
}

var _ Container = (*Inset)(nil)
