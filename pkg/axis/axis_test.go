package axis

import (
	"image"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/tickplot/pkg/errors"
	"github.com/matzehuels/tickplot/pkg/layout"
	"github.com/matzehuels/tickplot/pkg/numrange"
	"github.com/matzehuels/tickplot/pkg/observability"
)

type diagLog struct{ codes []errors.Code }

func (d *diagLog) OnDiagnostic(_ string, _ observability.Severity, err error) {
	d.codes = append(d.codes, errors.GetCode(err))
}

func TestAxisDefaults(t *testing.T) {
	tests := []struct {
		typ                            Type
		orientation                    Orientation
		side                           layout.Side
		tickLabelPadding, labelPadding int
	}{
		{Left, Vertical, layout.SideLeft, 5, 10},
		{Right, Vertical, layout.SideRight, 7, 12},
		{Top, Horizontal, layout.SideTop, 3, 6},
		{Bottom, Horizontal, layout.SideBottom, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			a := newTestAxis(t, tt.typ)
			if a.Orientation() != tt.orientation {
				t.Errorf("Orientation() = %v, want %v", a.Orientation(), tt.orientation)
			}
			if a.Type().Side() != tt.side || TypeForSide(tt.side) != tt.typ {
				t.Errorf("Side() = %v, want %v", a.Type().Side(), tt.side)
			}
			if a.TickLabelPadding() != tt.tickLabelPadding || a.LabelPadding() != tt.labelPadding {
				t.Errorf("paddings = %d/%d, want %d/%d", a.TickLabelPadding(), a.LabelPadding(), tt.tickLabelPadding, tt.labelPadding)
			}
			if got := a.Range(); got != numrange.New(0, 5) {
				t.Errorf("Range() = %v, want [0, 5]", got)
			}
			if a.Padding() != 5 || a.ScaleType() != Linear || a.ScaleLogBase() != 10 {
				t.Errorf("padding/scale = %d/%v/%g", a.Padding(), a.ScaleType(), a.ScaleLogBase())
			}
			if in, out := a.TickLength(); in != 5 || out != 0 {
				t.Errorf("TickLength() = %d, %d, want 5, 0", in, out)
			}
			if in, out := a.SubTickLength(); in != 2 || out != 0 {
				t.Errorf("SubTickLength() = %d, %d, want 2, 0", in, out)
			}
		})
	}
}

func TestSetRange(t *testing.T) {
	tests := []struct {
		name   string
		scale  ScaleType
		lo, hi float64
		want   numrange.Range
		code   errors.Code
	}{
		{"plain", Linear, -3, 7, numrange.New(-3, 7), ""},
		{"swapped", Linear, 7, -3, numrange.New(-3, 7), ""},
		{"nan", Linear, math.NaN(), 1, numrange.New(0, 5), errors.ErrCodeInvalidRange},
		{"too large", Linear, 0, 1e300, numrange.New(0, 5), errors.ErrCodeInvalidRange},
		{"empty", Linear, 2, 2, numrange.New(0, 5), errors.ErrCodeInvalidRange},
		{"log positive", Logarithmic, 1, 1000, numrange.New(1, 1000), ""},
		{"log spans zero", Logarithmic, -1, 10, numrange.New(0.001, 10), ""},
		{"log negative side wins", Logarithmic, -100, 1, numrange.New(-100, -0.001), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer observability.Reset()
			d := &diagLog{}
			observability.SetDiagnosticHooks(d)

			a := newTestAxis(t, Bottom)
			if tt.scale == Logarithmic {
				a.SetScaleType(Logarithmic)
			}
			err := a.SetRangeBounds(tt.lo, tt.hi)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("SetRangeBounds(%g, %g) code = %q, want %q", tt.lo, tt.hi, got, tt.code)
			}
			if got := a.Range(); !cmp.Equal(got, tt.want, approx) {
				t.Errorf("Range() = %v, want %v", got, tt.want)
			}
			if tt.code != "" && len(d.codes) != 1 {
				t.Errorf("diagnostics = %v, want one report", d.codes)
			}
		})
	}
}

func TestRangeChangedListener(t *testing.T) {
	a := newTestAxis(t, Bottom)
	var got [][2]numrange.Range
	a.OnRangeChanged(func(newRange, oldRange numrange.Range) {
		got = append(got, [2]numrange.Range{newRange, oldRange})
	})

	_ = a.SetRangeBounds(0, 5)
	_ = a.SetRangeBounds(1, 2)
	_ = a.SetRangeBounds(math.Inf(1), 2)
	_ = a.SetRangeLower(-1)
	_ = a.SetRangeUpper(4)

	want := [][2]numrange.Range{
		{numrange.New(1, 2), numrange.New(0, 5)},
		{numrange.New(-1, 2), numrange.New(1, 2)},
		{numrange.New(-1, 4), numrange.New(-1, 2)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("range notifications mismatch (-want +got):\n%s", diff)
	}
}

func TestSetRangeLowerAboveUpper(t *testing.T) {
	a := newTestAxis(t, Bottom)
	if err := a.SetRangeLower(9); err != nil {
		t.Fatal(err)
	}
	if got := a.Range(); got != numrange.New(5, 9) {
		t.Errorf("Range() = %v, want [5, 9]", got)
	}
}

func TestMoveAndScaleRange(t *testing.T) {
	tests := []struct {
		name  string
		scale ScaleType
		start numrange.Range
		op    func(*Axis) error
		want  numrange.Range
		code  errors.Code
	}{
		{"move linear", Linear, numrange.New(0, 5), func(a *Axis) error { return a.MoveRange(1) }, numrange.New(1, 6), ""},
		{"move log", Logarithmic, numrange.New(0.1, 5), func(a *Axis) error { return a.MoveRange(10) }, numrange.New(1, 50), ""},
		{"zoom out", Linear, numrange.New(0, 5), func(a *Axis) error { return a.ScaleRange(2, 0) }, numrange.New(0, 10), ""},
		{"zoom in", Linear, numrange.New(0, 5), func(a *Axis) error { return a.ScaleRange(0.5, 2.5) }, numrange.New(1.25, 3.75), ""},
		{"zoom log", Logarithmic, numrange.New(1, 100), func(a *Axis) error { return a.ScaleRange(2, 10) }, numrange.New(0.1, 1000), ""},
		{"zoom log wrong sign", Logarithmic, numrange.New(1, 100), func(a *Axis) error { return a.ScaleRange(2, -1) }, numrange.New(1, 100), errors.ErrCodeInvalidRange},
		{"zoom to nothing", Linear, numrange.New(0, 5), func(a *Axis) error { return a.ScaleRange(0, 1) }, numrange.New(0, 5), errors.ErrCodeInvalidRange},
		{"at center", Linear, numrange.New(0, 5), func(a *Axis) error { return a.SetRangeAt(10, 4, AlignCenter) }, numrange.New(8, 12), ""},
		{"at upper", Linear, numrange.New(0, 5), func(a *Axis) error { return a.SetRangeAt(10, 4, AlignUpper) }, numrange.New(6, 10), ""},
		{"at lower", Linear, numrange.New(0, 5), func(a *Axis) error { return a.SetRangeAt(10, 4, AlignLower) }, numrange.New(10, 14), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAxis(t, Bottom)
			a.SetScaleType(tt.scale)
			if err := a.SetRange(tt.start); err != nil {
				t.Fatal(err)
			}
			err := tt.op(a)
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q", got, tt.code)
			}
			if got := a.Range(); !cmp.Equal(got, tt.want, approx) {
				t.Errorf("Range() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetScaleRatio(t *testing.T) {
	r := newPlacedRect(t, image.Rect(0, 0, 400, 200))
	x, _ := r.Axis(Bottom, 0)
	y, _ := r.Axis(Left, 0)
	_ = x.SetRangeBounds(0, 10)
	_ = y.SetRangeBounds(0, 2)

	if err := y.SetScaleRatio(x, 1); err != nil {
		t.Fatal(err)
	}
	if got := y.Range(); !cmp.Equal(got, numrange.New(-1.5, 3.5), approx) {
		t.Errorf("Range() = %v, want [-1.5, 3.5]", got)
	}

	empty := newPlacedRect(t, image.Rectangle{})
	ex, _ := empty.Axis(Bottom, 0)
	if err := y.SetScaleRatio(ex, 1); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("SetScaleRatio(empty) error = %v, want INVALID_INPUT", err)
	}
}

func TestSetScaleLogBase(t *testing.T) {
	a := newTestAxis(t, Bottom)
	for _, base := range []float64{1, 0.5, -2, math.NaN(), math.Inf(1)} {
		if err := a.SetScaleLogBase(base); err == nil {
			t.Errorf("SetScaleLogBase(%g) error = nil", base)
		}
	}
	if err := a.SetScaleLogBase(2); err != nil {
		t.Fatal(err)
	}
	a.SetScaleType(Logarithmic)
	if err := a.SetRangeBounds(1, 16); err != nil {
		t.Fatal(err)
	}
	a.SetupTickVectors()
	if diff := cmp.Diff([]float64{1, 2, 4, 8, 16}, a.TickVector(), approx); diff != "" {
		t.Errorf("TickVector() mismatch (-want +got):\n%s", diff)
	}
}

func TestTickLabelRotationClamped(t *testing.T) {
	a := newTestAxis(t, Bottom)
	a.SetTickLabelRotation(135)
	if got := a.TickLabelRotation(); got != 90 {
		t.Errorf("TickLabelRotation() = %g, want 90", got)
	}
	a.SetTickLabelRotation(-400)
	if got := a.TickLabelRotation(); got != -90 {
		t.Errorf("TickLabelRotation() = %g, want -90", got)
	}
}
