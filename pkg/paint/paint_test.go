package paint

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/matzehuels/tickplot/pkg/observability"
)

type countingDiagnostics struct {
	count int
}

func (c *countingDiagnostics) OnDiagnostic(string, observability.Severity, error) { c.count++ }

func TestModeHas(t *testing.T) {
	m := ModeVectorized | ModeNonCosmetic
	if !m.Has(ModeVectorized) || !m.Has(ModeNonCosmetic) {
		t.Errorf("Has() = false for set flag in %b", m)
	}
	if m.Has(ModeNoCaching) {
		t.Errorf("Has(ModeNoCaching) = true, want false")
	}
	if !ModeDefault.Has(ModeDefault) {
		t.Errorf("ModeDefault.Has(ModeDefault) = false, want true")
	}
}

func TestPainterNonCosmeticPen(t *testing.T) {
	p := NewPainter(10, 10, nil, ModeNonCosmetic)
	p.SetPen(SolidPen(color.Black, 0))
	if got := p.Pen().Width; got != 1 {
		t.Errorf("Pen().Width = %v, want 1", got)
	}

	p.SetMode(ModeNonCosmetic, false)
	p.SetPen(SolidPen(color.Black, 0))
	if got := p.Pen().Width; got != 0 {
		t.Errorf("Pen().Width = %v, want 0 (cosmetic)", got)
	}
	p.MakeNonCosmetic()
	if got := p.Pen().Width; got != 1 {
		t.Errorf("after MakeNonCosmetic Pen().Width = %v, want 1", got)
	}
}

func TestPainterSaveRestoresState(t *testing.T) {
	p := NewPainter(10, 10, nil, ModeDefault)
	red := SolidPen(color.RGBA{R: 255, A: 255}, 2)
	p.SetPen(red)

	p.Save()
	p.SetAntialiasing(true)
	p.SetPen(NoPen)
	if !p.Antialiasing() {
		t.Fatalf("Antialiasing() = false after enabling")
	}
	p.Restore()

	if p.Antialiasing() {
		t.Errorf("Antialiasing() = true after Restore, want false")
	}
	if p.Pen().Width != 2 || p.Pen().IsNone() {
		t.Errorf("Pen() = %+v after Restore, want %+v", p.Pen(), red)
	}
}

func TestPainterUnbalancedRestore(t *testing.T) {
	defer observability.Reset()
	diag := &countingDiagnostics{}
	observability.SetDiagnosticHooks(diag)

	p := NewPainter(10, 10, nil, ModeDefault)
	p.Restore()
	if diag.count != 1 {
		t.Errorf("diagnostics = %d, want 1", diag.count)
	}
}

func TestPainterClipRect(t *testing.T) {
	p := NewPainter(10, 10, nil, ModeDefault)
	p.SetPen(NoPen)
	p.SetBrush(Brush{Color: color.RGBA{R: 255, A: 255}})

	p.Save()
	p.SetClipRect(image.Rect(0, 0, 5, 5))
	p.DrawRect(0, 0, 10, 10)
	p.Restore()

	img := p.Image()
	if _, _, _, a := img.At(2, 2).RGBA(); a == 0 {
		t.Errorf("pixel inside clip is transparent, want filled")
	}
	if _, _, _, a := img.At(8, 8).RGBA(); a != 0 {
		t.Errorf("pixel outside clip alpha = %d, want 0", a)
	}
}

func TestSVGClipGroupsBalanced(t *testing.T) {
	s := NewSVG(100, 50, "", 0)
	s.Save()
	s.SetClipRect(image.Rect(0, 0, 10, 10))
	s.SetPen(SolidPen(color.Black, 1))
	s.DrawLine(0, 0, 10, 10)
	s.Save()
	s.SetClipRect(image.Rect(2, 2, 4, 4))
	s.Restore()
	s.Restore()

	out := string(s.Bytes())
	if open, closed := strings.Count(out, "<g "), strings.Count(out, "</g>"); open != 2 || closed != 2 {
		t.Errorf("groups open=%d closed=%d, want 2/2", open, closed)
	}
	if !strings.HasSuffix(out, "</svg>\n") {
		t.Errorf("document not closed: %q", out[len(out)-20:])
	}
}

func TestSVGShapes(t *testing.T) {
	s := NewSVG(100, 50, "serif", 10)
	s.SetPen(SolidPen(color.Black, 0))
	s.SetAntialiasing(false)
	s.DrawLine(1, 2, 3, 4.5)
	s.SetAntialiasing(true)
	s.SetBrush(Brush{Color: color.RGBA{B: 255, A: 255}})
	s.DrawRect(0, 0, 10, 5)
	s.DrawText("a<b", 5, 5, 0.5, 1, -90)
	out := string(s.Bytes())

	for _, want := range []string{
		`<line x1="1" y1="2" x2="3" y2="4.5" stroke="#000000" stroke-width="1" shape-rendering="crispEdges"/>`,
		`fill="#0000ff"`,
		`a&lt;b</text>`,
		`text-anchor="middle" dominant-baseline="alphabetic"`,
		`transform="rotate(-90 5 5)"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestFaceMetrics(t *testing.T) {
	m := DefaultMetrics()
	if w, h := m.TextSize(""); w != 0 || h != 0 {
		t.Errorf("TextSize(\"\") = %d, %d, want 0, 0", w, h)
	}
	if w, h := m.TextSize("abc"); w != 21 || h != 13 {
		t.Errorf("TextSize(\"abc\") = %d, %d, want 21, 13", w, h)
	}
}

func TestRotatedBounds(t *testing.T) {
	tests := []struct {
		w, h         int
		deg          float64
		wantW, wantH int
	}{
		{10, 4, 0, 10, 4},
		{10, 4, 90, 4, 10},
		{10, 4, -90, 4, 10},
		{10, 4, 45, 10, 10},
	}
	for _, tt := range tests {
		gw, gh := RotatedBounds(tt.w, tt.h, tt.deg)
		if gw != tt.wantW || gh != tt.wantH {
			t.Errorf("RotatedBounds(%d, %d, %v) = %d, %d, want %d, %d", tt.w, tt.h, tt.deg, gw, gh, tt.wantW, tt.wantH)
		}
	}
}
