package layout

import (
	"image"
	"strings"

	"github.com/matzehuels/tickplot/pkg/errors"
)

// MaxSize is the largest width or height an element can be constrained to.
const MaxSize = 16777215

// Side is a set of rectangle sides.
type Side uint8

const (
	SideLeft Side = 1 << iota
	SideRight
	SideTop
	SideBottom
)

const (
	SideNone Side = 0
	SideAll       = SideLeft | SideRight | SideTop | SideBottom
)

// sides lists the single sides in margin update order.
var sides = [...]Side{SideLeft, SideRight, SideTop, SideBottom}

// Has reports whether every side in s is set.
func (s Side) Has(side Side) bool { return side != 0 && s&side == side }

func (s Side) String() string {
	if s == SideNone {
		return "none"
	}
	var parts []string
	for _, side := range sides {
		if s.Has(side) {
			parts = append(parts, sideNames[side])
		}
	}
	return strings.Join(parts, "|")
}

var sideNames = map[Side]string{
	SideLeft:   "left",
	SideRight:  "right",
	SideTop:    "top",
	SideBottom: "bottom",
}

// ParseSide parses "left", "right", "top", "bottom", "all" or "none".
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all":
		return SideAll, nil
	case "none", "":
		return SideNone, nil
	}
	for side, name := range sideNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return side, nil
		}
	}
	return SideNone, errors.New(errors.ErrCodeInvalidInput, "unknown side %q", s)
}

// Margins are per-side distances in pixels.
type Margins struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// UniformMargins returns margins of v on every side.
func UniformMargins(v int) Margins { return Margins{v, v, v, v} }

// Get returns the margin of a single side.
func (m Margins) Get(side Side) int {
	switch side {
	case SideLeft:
		return m.Left
	case SideRight:
		return m.Right
	case SideTop:
		return m.Top
	case SideBottom:
		return m.Bottom
	}
	return 0
}

// Set changes the margin of a single side.
func (m *Margins) Set(side Side, v int) {
	switch side {
	case SideLeft:
		m.Left = v
	case SideRight:
		m.Right = v
	case SideTop:
		m.Top = v
	case SideBottom:
		m.Bottom = v
	}
}

// Size is a width and height in pixels.
type Size struct {
	W int `json:"w"`
	H int `json:"h"`
}

// MaxSizes is the unconstrained maximum size.
var MaxSizes = Size{MaxSize, MaxSize}

// shrink returns outer reduced by m, never with negative extent.
func shrink(outer image.Rectangle, m Margins) image.Rectangle {
	r := image.Rectangle{
		Min: image.Point{X: outer.Min.X + m.Left, Y: outer.Min.Y + m.Top},
		Max: image.Point{X: outer.Max.X - m.Right, Y: outer.Max.Y - m.Bottom},
	}
	if r.Max.X < r.Min.X {
		r.Max.X = r.Min.X
	}
	if r.Max.Y < r.Min.Y {
		r.Max.Y = r.Min.Y
	}
	return r
}

// Alignment places a border-aligned inset element.
type Alignment uint8

const (
	AlignLeft Alignment = 1 << iota
	AlignRight
	AlignHCenter
	AlignTop
	AlignBottom
	AlignVCenter

	AlignCenter = AlignHCenter | AlignVCenter
)

// ParseAlignment parses names like "top-right", "bottom", "center" or
// "left-center".
func ParseAlignment(s string) (Alignment, error) {
	var a Alignment
	for _, part := range strings.Split(strings.ToLower(strings.TrimSpace(s)), "-") {
		switch part {
		case "left":
			a |= AlignLeft
		case "right":
			a |= AlignRight
		case "top":
			a |= AlignTop
		case "bottom":
			a |= AlignBottom
		case "center":
			if a&(AlignLeft|AlignRight) == 0 {
				a |= AlignHCenter
			}
			if a&(AlignTop|AlignBottom) == 0 {
				a |= AlignVCenter
			}
		default:
			return 0, errors.New(errors.ErrCodeInvalidInput, "unknown alignment %q", s)
		}
	}
	return a, nil
}

// FracRect is a rectangle in fractions of the inset's inner rect.
type FracRect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// DefaultFracRect is the rect assigned to elements added border-aligned.
var DefaultFracRect = FracRect{0.6, 0.6, 0.4, 0.4}
