package plot

import (
	"fmt"
	"image"

	"github.com/matzehuels/tickplot/pkg/axis"
	"github.com/matzehuels/tickplot/pkg/layer"
	"github.com/matzehuels/tickplot/pkg/layout"
	"github.com/matzehuels/tickplot/pkg/numrange"
)

// Rect is a JSON-friendly rectangle.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

func rectOf(r image.Rectangle) Rect {
	return Rect{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

// Snapshot is the resolved geometry of a plot after UpdateLayout.
type Snapshot struct {
	Width       int           `json:"width"`
	Height      int           `json:"height"`
	MinimumSize layout.Size   `json:"minimum_size"`
	Elements    []ElementInfo `json:"elements"`
	Axes        []AxisInfo    `json:"axes"`
	Layers      []LayerInfo   `json:"layers"`
	Series      []SeriesInfo  `json:"series,omitempty"`
}

// ElementInfo describes one layout element. Path addresses it in the
// layout tree: grid cells as [row,col], other children by index.
type ElementInfo struct {
	Path    string         `json:"path"`
	Kind    string         `json:"kind"`
	Depth   int            `json:"depth"`
	Outer   Rect           `json:"outer"`
	Inner   Rect           `json:"inner"`
	Margins layout.Margins `json:"margins"`
	Visible bool           `json:"visible"`
}

// AxisInfo describes one axis and its visible ticks.
type AxisInfo struct {
	Panel    int            `json:"panel"`
	Type     string         `json:"type"`
	Visible  bool           `json:"visible"`
	Label    string         `json:"label,omitempty"`
	Scale    string         `json:"scale"`
	Reversed bool           `json:"reversed,omitempty"`
	Range    numrange.Range `json:"range"`
	Offset   int            `json:"offset"`
	Margin   int            `json:"margin"`
	Ticks    []float64      `json:"ticks"`
	Labels   []string       `json:"labels"`
	SubTicks []float64      `json:"sub_ticks,omitempty"`
}

// LayerInfo lists the members of a layer in draw order.
type LayerInfo struct {
	Name    string   `json:"name"`
	Index   int      `json:"index"`
	Members []string `json:"members"`
}

// SeriesInfo summarizes a plottable.
type SeriesInfo struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
	Layer  string `json:"layer"`
}

// Snapshot resolves the layout for the current viewport and returns its
// geometry.
func (p *Plot) Snapshot() Snapshot {
	p.UpdateLayout()
	vp := p.stack.Viewport()
	snap := Snapshot{
		Width:       vp.Dx(),
		Height:      vp.Dy(),
		MinimumSize: p.layout.MinimumSizeHint(),
	}
	Walk(p.layout, func(el layout.Element, path string, depth int) {
		eb := el.Layout()
		snap.Elements = append(snap.Elements, ElementInfo{
			Path:    path,
			Kind:    Kind(el),
			Depth:   depth,
			Outer:   rectOf(eb.OuterRect()),
			Inner:   rectOf(eb.Rect()),
			Margins: eb.Margins(),
			Visible: eb.RealVisibility(),
		})
	})
	for i, r := range p.AxisRects() {
		for _, a := range r.AllAxes() {
			ticks, labels := a.VisibleTicks()
			snap.Axes = append(snap.Axes, AxisInfo{
				Panel:    i,
				Type:     a.Type().String(),
				Visible:  a.Visible(),
				Label:    a.Label(),
				Scale:    a.ScaleType().String(),
				Reversed: a.RangeReversed(),
				Range:    a.Range(),
				Offset:   a.Offset(),
				Margin:   a.CalculateMargin(),
				Ticks:    ticks,
				Labels:   labels,
				SubTicks: a.SubTickVector(),
			})
		}
	}
	for _, l := range p.stack.Layers() {
		info := LayerInfo{Name: l.Name(), Index: l.Index(), Members: []string{}}
		for _, c := range l.Children() {
			info.Members = append(info.Members, Describe(c))
		}
		snap.Layers = append(snap.Layers, info)
	}
	for _, s := range p.series {
		info := SeriesInfo{Name: s.name, Points: s.Len()}
		if l := s.Layer(); l != nil {
			info.Layer = l.Name()
		}
		snap.Series = append(snap.Series, info)
	}
	return snap
}

// Walk visits el and its descendants depth-first, parents before children.
func Walk(el layout.Element, fn func(el layout.Element, path string, depth int)) {
	walk(el, "layout", 0, fn)
}

func walk(el layout.Element, path string, depth int, fn func(layout.Element, string, int)) {
	fn(el, path, depth)
	switch c := el.(type) {
	case *layout.Grid:
		cols := c.ColumnCount()
		for i := range c.ElementCount() {
			if child := c.ElementAt(i); child != nil {
				walk(child, fmt.Sprintf("%s[%d,%d]", path, i/cols, i%cols), depth+1, fn)
			}
		}
	default:
		for i, child := range el.Elements(false) {
			walk(child, fmt.Sprintf("%s/%d", path, i), depth+1, fn)
		}
	}
}

// Kind names the concrete type of a layout element.
func Kind(el layout.Element) string {
	switch el.(type) {
	case *layout.Grid:
		return "grid"
	case *layout.Inset:
		return "inset"
	case *layout.Spacer:
		return "spacer"
	case *axis.Rect:
		return "axis-rect"
	case *Text:
		return "text"
	}
	return fmt.Sprintf("%T", el)
}

// Describe returns a short label for a layerable.
func Describe(l layer.Layerable) string {
	switch v := l.(type) {
	case *axis.Axis:
		return "axis:" + v.Type().String()
	case *axis.Grid:
		return "grid-lines"
	case *Series:
		return "series:" + v.Name()
	case *Text:
		return fmt.Sprintf("text:%q", v.Text())
	case layout.Element:
		return Kind(v)
	}
	return fmt.Sprintf("%T", l)
}
