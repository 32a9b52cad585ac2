package axis

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/tickplot/pkg/errors"
	"github.com/matzehuels/tickplot/pkg/layer"
	"github.com/matzehuels/tickplot/pkg/layout"
	"github.com/matzehuels/tickplot/pkg/paint"
)

func TestCalculateMargin(t *testing.T) {
	tests := []struct {
		name  string
		typ   Type
		setup func(*Axis)
		want  int
	}{
		{"bottom before ticks", Bottom, func(a *Axis) {}, 8},
		{"bottom", Bottom, func(a *Axis) { a.SetupTickVectors() }, 21},
		{"bottom with label", Bottom, func(a *Axis) { a.SetLabel("x"); a.SetupTickVectors() }, 37},
		{"left", Left, func(a *Axis) { _ = a.SetRangeBounds(0, 6); a.SetupTickVectors() }, 17},
		{"left outward ticks", Left, func(a *Axis) {
			_ = a.SetRangeBounds(0, 6)
			a.SetTickLength(5, 4)
			a.SetupTickVectors()
		}, 21},
		{"left rotated labels", Left, func(a *Axis) {
			_ = a.SetRangeBounds(0, 6)
			a.SetTickLabelRotation(90)
			a.SetupTickVectors()
		}, 23},
		{"no tick labels", Left, func(a *Axis) { a.SetShowTickLabels(false); a.SetupTickVectors() }, 5},
		{"hidden", Bottom, func(a *Axis) { a.SetupTickVectors(); a.SetVisible(false) }, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAxis(t, tt.typ)
			tt.setup(a)
			if got := a.CalculateMargin(); got != tt.want {
				t.Errorf("CalculateMargin() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCalculateMarginCacheInvalidation(t *testing.T) {
	a := newTestAxis(t, Left)
	_ = a.SetRangeBounds(0, 6)
	a.SetupTickVectors()
	if got := a.CalculateMargin(); got != 17 {
		t.Fatalf("CalculateMargin() = %d, want 17", got)
	}
	a.SetLabel("y")
	if got := a.CalculateMargin(); got != 40 {
		t.Errorf("CalculateMargin() after SetLabel = %d, want 40", got)
	}
	a.SetPadding(0)
	if got := a.CalculateMargin(); got != 35 {
		t.Errorf("CalculateMargin() after SetPadding = %d, want 35", got)
	}
	_ = a.SetRangeBounds(0, 5)
	a.SetupTickVectors()
	if got := a.CalculateMargin(); got != 49 {
		t.Errorf("CalculateMargin() after range change = %d, want 49", got)
	}
}

func TestStackedAxesOffset(t *testing.T) {
	tests := []struct {
		name       string
		hideFirst  bool
		wantOffset int
		wantMargin int
	}{
		{"both visible", false, 22, 53},
		{"first hidden", true, 0, 31},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRect(nil, nil, true)
			inner, _ := r.Axis(Left, 0)
			_ = inner.SetRangeBounds(0, 6)
			inner.SetVisible(!tt.hideFirst)
			outer := r.AddAxis(Left)
			r.SetupTickVectors()

			if got := r.CalculateAutoMargin(layout.SideLeft); got != tt.wantMargin {
				t.Errorf("CalculateAutoMargin(left) = %d, want %d", got, tt.wantMargin)
			}
			if got := outer.Offset(); got != tt.wantOffset {
				t.Errorf("Offset() = %d, want %d", got, tt.wantOffset)
			}
			if got := r.AxisCount(Left); got != 2 {
				t.Errorf("AxisCount(left) = %d, want 2", got)
			}
		})
	}
}

func TestRectUpdate(t *testing.T) {
	s := layer.NewStack()
	r := NewRect(s, nil, true)
	r.SetOuterRect(image.Rect(0, 0, 400, 300))
	r.SetupTickVectors()
	r.Update()

	want := layout.Margins{Left: 31, Top: 15, Right: 15, Bottom: 21}
	if diff := cmp.Diff(want, r.Margins()); diff != "" {
		t.Errorf("Margins() mismatch (-want +got):\n%s", diff)
	}
	if got, want := r.Rect(), image.Rect(31, 15, 385, 279); got != want {
		t.Errorf("Rect() = %v, want %v", got, want)
	}
	if got := r.Inset().OuterRect(); got != r.Rect() {
		t.Errorf("Inset().OuterRect() = %v, want %v", got, r.Rect())
	}
	if got := r.MinimumSize(); got != (layout.Size{W: 50, H: 50}) {
		t.Errorf("MinimumSize() = %v, want 50x50", got)
	}
}

func TestRectLayers(t *testing.T) {
	tests := []struct {
		name     string
		detached bool
	}{
		{"created on stack", false},
		{"initialized later", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := layer.NewStack()
			var r *Rect
			if tt.detached {
				r = NewRect(nil, nil, true)
				if err := r.InitializeParentPlot(s); err != nil {
					t.Fatal(err)
				}
			} else {
				r = NewRect(s, nil, true)
			}
			axes, grid, main := s.Layer(layer.Axes), s.Layer(layer.Grid), s.Layer(layer.Main)
			if got := axes.Len(); got != 4 {
				t.Errorf("axes layer children = %d, want 4", got)
			}
			if got := grid.Len(); got != 4 {
				t.Errorf("grid layer children = %d, want 4", got)
			}
			if got := main.Len(); got != 2 {
				t.Errorf("main layer children = %d, want rect and inset", got)
			}
			if r.Inset().Stack() != s {
				t.Error("inset did not receive the stack")
			}

			layout.Dispose(r)
			if axes.Len() != 0 || grid.Len() != 0 || main.Len() != 0 {
				t.Errorf("after Dispose: axes=%d grid=%d main=%d, want all empty", axes.Len(), grid.Len(), main.Len())
			}
		})
	}
}

func TestRemoveAxis(t *testing.T) {
	r := NewRect(layer.NewStack(), nil, true)
	y2, _ := r.Axis(Right, 0)
	if err := r.RemoveAxis(y2); err != nil {
		t.Fatal(err)
	}
	if got := r.AxisCount(Right); got != 0 {
		t.Errorf("AxisCount(right) = %d, want 0", got)
	}
	if y2.Layer() != nil || y2.Grid().Layer() != nil {
		t.Error("removed axis is still on a layer")
	}
	if err := r.RemoveAxis(y2); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("RemoveAxis() again error = %v, want NOT_FOUND", err)
	}
	if _, err := r.Axis(Right, 0); !errors.Is(err, errors.ErrCodeInvalidIndex) {
		t.Errorf("Axis(right, 0) error = %v, want INVALID_INDEX", err)
	}
	if got := len(r.AllAxes()); got != 3 {
		t.Errorf("len(AllAxes()) = %d, want 3", got)
	}
}

func TestDrawThroughStack(t *testing.T) {
	s := layer.NewStack()
	s.SetViewport(image.Rect(0, 0, 400, 300))
	r := NewRect(s, nil, true)
	r.SetBackground(paint.Brush{Color: color.RGBA{R: 250, G: 250, B: 250, A: 255}})
	x, _ := r.Axis(Bottom, 0)
	x.SetLabel("time")
	_ = x.SetRangeBounds(-3, 3)
	top, _ := r.Axis(Top, 0)
	top.SetLabel("hidden")

	r.SetOuterRect(s.Viewport())
	r.SetupTickVectors()
	r.Update()

	svg := paint.NewSVG(400, 300, "", 12)
	s.Draw(svg)
	out := string(svg.Bytes())

	for _, want := range []string{
		">time</text>",
		">-1</text>",
		`fill="#fafafa"`,
		`stroke="#c8c8c8" stroke-width="1" stroke-dasharray="1,2"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(out, ">hidden</text>") {
		t.Error("hidden axis was drawn")
	}
	if strings.Index(out, `stroke="#c8c8c8"`) > strings.Index(out, ">time</text>") {
		t.Error("grid lines drawn after axes")
	}
}
