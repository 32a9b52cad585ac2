package layout

import "github.com/matzehuels/tickplot/pkg/errors"

// MarginGroup synchronizes one margin side across several elements, so the
// inner rects of stacked panels line up. Members register themselves through
// [ElementBase.SetMarginGroup]; the group only observes them.
type MarginGroup struct {
	children map[Side][]Element
}

// NewMarginGroup returns an empty group.
func NewMarginGroup() *MarginGroup {
	return &MarginGroup{children: make(map[Side][]Element)}
}

// Elements returns the members synchronized on side.
func (g *MarginGroup) Elements(side Side) []Element {
	out := make([]Element, len(g.children[side]))
	copy(out, g.children[side])
	return out
}

// IsEmpty reports whether no element uses the group.
func (g *MarginGroup) IsEmpty() bool {
	for _, side := range sides {
		if len(g.children[side]) > 0 {
			return false
		}
	}
	return true
}

// Clear detaches every member; they fall back to their own margins.
func (g *MarginGroup) Clear() {
	for _, side := range sides {
		els := g.Elements(side)
		for i := len(els) - 1; i >= 0; i-- {
			els[i].Layout().SetMarginGroup(side, nil)
		}
	}
}

// CommonMargin returns the largest automatic margin any member wants on
// side, each floored by that member's minimum margin. Members with a
// manual margin on side are ignored.
func (g *MarginGroup) CommonMargin(side Side) int {
	result := 0
	for _, el := range g.children[side] {
		eb := el.Layout()
		if !eb.AutoMargins().Has(side) {
			continue
		}
		result = max(result, el.CalculateAutoMargin(side), eb.MinimumMargins().Get(side))
	}
	return result
}

func (g *MarginGroup) addChild(side Side, el Element) error {
	for _, x := range g.children[side] {
		if x == el {
			return reportf(errors.ErrCodeDuplicate, "element already in margin group on side %v", side)
		}
	}
	g.children[side] = append(g.children[side], el)
	return nil
}

func (g *MarginGroup) removeChild(side Side, el Element) error {
	list := g.children[side]
	for i, x := range list {
		if x == el {
			g.children[side] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return reportf(errors.ErrCodeNotFound, "element not in margin group on side %v", side)
}
