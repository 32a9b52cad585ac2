package layer

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/tickplot/pkg/errors"
	"github.com/matzehuels/tickplot/pkg/observability"
	"github.com/matzehuels/tickplot/pkg/paint"
)

// item is a minimal layerable that records when it is drawn.
type item struct {
	Base
	id     string
	drawn  *[]string
	inited *Stack
}

func newItem(t *testing.T, s *Stack, layerName, id string, drawn *[]string) *item {
	t.Helper()
	it := &item{id: id, drawn: drawn}
	if err := it.Init(it, s, layerName); err != nil {
		t.Fatalf("Init(%q) error = %v", layerName, err)
	}
	return it
}

func (it *item) Draw(paint.Surface) {
	if it.drawn != nil {
		*it.drawn = append(*it.drawn, it.id)
	}
}

func (it *item) ApplyDefaultAntialiasingHint(s paint.Surface) {
	it.ApplyAntialiasingHint(s, it.Antialiased(), AAItems)
}

func (it *item) ClipRect() image.Rectangle { return image.Rect(0, 0, 100, 100) }

func (it *item) ParentPlotInitialized(s *Stack) { it.inited = s }

func ids(l *Layer) []string {
	var out []string
	for _, c := range l.Children() {
		out = append(out, c.(*item).id)
	}
	return out
}

func layerNames(s *Stack) []string {
	var out []string
	for _, l := range s.Layers() {
		out = append(out, l.Name())
	}
	return out
}

type diagLog struct{ codes []errors.Code }

func (d *diagLog) OnDiagnostic(_ string, _ observability.Severity, err error) {
	d.codes = append(d.codes, errors.GetCode(err))
}

func TestNewStackDefaults(t *testing.T) {
	s := NewStack()
	if diff := cmp.Diff(DefaultLayers, layerNames(s)); diff != "" {
		t.Errorf("Layers() mismatch (-want +got):\n%s", diff)
	}
	if got := s.CurrentLayer().Name(); got != Main {
		t.Errorf("CurrentLayer() = %q, want %q", got, Main)
	}
	for i, l := range s.Layers() {
		if l.Index() != i {
			t.Errorf("layer %q Index() = %d, want %d", l.Name(), l.Index(), i)
		}
	}
}

func TestAddChildDuplicateIsReported(t *testing.T) {
	defer observability.Reset()
	d := &diagLog{}
	observability.SetDiagnosticHooks(d)

	s := NewStack()
	it := newItem(t, s, Main, "a", nil)
	err := s.Layer(Main).addChild(it, false)
	if !errors.Is(err, errors.ErrCodeDuplicate) {
		t.Fatalf("addChild() duplicate error = %v, want DUPLICATE", err)
	}
	if got := s.Layer(Main).Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
	if err := s.Layer(Grid).removeChild(it); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("removeChild() non-member error = %v, want NOT_FOUND", err)
	}
	if diff := cmp.Diff([]errors.Code{errors.ErrCodeDuplicate, errors.ErrCodeNotFound}, d.codes); diff != "" {
		t.Errorf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestSetLayer(t *testing.T) {
	s := NewStack()
	a := newItem(t, s, "", "a", nil)
	b := newItem(t, s, Main, "b", nil)

	if a.Layer() != s.Layer(Main) {
		t.Fatalf("default layer = %v, want main", a.Layer().Name())
	}
	if err := a.SetLayer(Axes); err != nil {
		t.Fatalf("SetLayer() error = %v", err)
	}
	if diff := cmp.Diff([]string{"b"}, ids(s.Layer(Main))); diff != "" {
		t.Errorf("main children mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a"}, ids(s.Layer(Axes))); diff != "" {
		t.Errorf("axes children mismatch (-want +got):\n%s", diff)
	}

	if err := b.SetLayer("missing"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("SetLayer(missing) error = %v, want NOT_FOUND", err)
	}
	if b.Layer() != s.Layer(Main) {
		t.Errorf("failed SetLayer changed layer to %v", b.Layer())
	}

	other := NewStack()
	if err := b.MoveToLayer(other.Layer(Main), false); !errors.Is(err, errors.ErrCodeForeignOwner) {
		t.Errorf("MoveToLayer(foreign) error = %v, want FOREIGN_OWNER", err)
	}
	if b.Layer() != s.Layer(Main) || s.Layer(Main).Len() != 1 {
		t.Errorf("failed MoveToLayer mutated state")
	}

	if err := b.MoveToLayer(s.Layer(Axes), true); err != nil {
		t.Fatalf("MoveToLayer(prepend) error = %v", err)
	}
	if diff := cmp.Diff([]string{"b", "a"}, ids(s.Layer(Axes))); diff != "" {
		t.Errorf("prepend order mismatch (-want +got):\n%s", diff)
	}
}

func TestDetachedLayerable(t *testing.T) {
	it := newItem(t, nil, "", "x", nil)
	if err := it.SetLayer(Main); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("SetLayer() without stack error = %v, want INVALID_INPUT", err)
	}

	s := NewStack()
	if err := it.InitializeParentPlot(s); err != nil {
		t.Fatalf("InitializeParentPlot() error = %v", err)
	}
	if it.inited != s {
		t.Errorf("ParentPlotInitialized not called")
	}
	if err := it.InitializeParentPlot(NewStack()); !errors.Is(err, errors.ErrCodeAlreadyInitialized) {
		t.Errorf("second InitializeParentPlot() error = %v, want ALREADY_INITIALIZED", err)
	}
	if it.Stack() != s {
		t.Errorf("Stack() changed after rejected re-initialization")
	}
}

func TestRealVisibility(t *testing.T) {
	s := NewStack()
	root := newItem(t, s, Main, "root", nil)
	mid := newItem(t, s, Main, "mid", nil)
	leaf := newItem(t, s, Main, "leaf", nil)
	mid.SetParentLayerable(root)
	leaf.SetParentLayerable(mid)

	tests := []struct {
		name              string
		root, mid, leafOn bool
		want              bool
	}{
		{"all visible", true, true, true, true},
		{"root hidden", false, true, true, false},
		{"mid hidden", true, false, true, false},
		{"leaf hidden", true, true, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root.SetVisible(tt.root)
			mid.SetVisible(tt.mid)
			leaf.SetVisible(tt.leafOn)
			if got := leaf.RealVisibility(); got != tt.want {
				t.Errorf("RealVisibility() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAddLayer(t *testing.T) {
	s := NewStack()
	if _, err := s.AddLayer("overlay", s.Layer(Main), Above); err != nil {
		t.Fatalf("AddLayer(above) error = %v", err)
	}
	if _, err := s.AddLayer("under", s.Layer(Background), Below); err != nil {
		t.Fatalf("AddLayer(below) error = %v", err)
	}
	if _, err := s.AddLayer("top", nil, Above); err != nil {
		t.Fatalf("AddLayer(nil) error = %v", err)
	}
	want := []string{"under", Background, Grid, Main, "overlay", Axes, Legend, "top"}
	if diff := cmp.Diff(want, layerNames(s)); diff != "" {
		t.Errorf("Layers() mismatch (-want +got):\n%s", diff)
	}
	if got := s.Layer("overlay").Index(); got != 4 {
		t.Errorf("Index() = %d, want 4", got)
	}

	if _, err := s.AddLayer(Main, nil, Above); !errors.Is(err, errors.ErrCodeDuplicate) {
		t.Errorf("AddLayer(duplicate) error = %v, want DUPLICATE", err)
	}
	if _, err := s.AddLayer("x", NewStack().Layer(Main), Above); !errors.Is(err, errors.ErrCodeForeignOwner) {
		t.Errorf("AddLayer(foreign other) error = %v, want FOREIGN_OWNER", err)
	}
	if _, err := s.AddLayer("bad name", nil, Above); !errors.Is(err, errors.ErrCodeInvalidName) {
		t.Errorf("AddLayer(bad name) error = %v, want INVALID_NAME", err)
	}
}

func TestRemoveLayer(t *testing.T) {
	t.Run("children move below", func(t *testing.T) {
		s := NewStack()
		newItem(t, s, Grid, "g", nil)
		newItem(t, s, Main, "m1", nil)
		newItem(t, s, Main, "m2", nil)
		if err := s.RemoveLayer(s.Layer(Main)); err != nil {
			t.Fatalf("RemoveLayer() error = %v", err)
		}
		if diff := cmp.Diff([]string{"g", "m1", "m2"}, ids(s.Layer(Grid))); diff != "" {
			t.Errorf("grid children mismatch (-want +got):\n%s", diff)
		}
		if got := s.CurrentLayer().Name(); got != Grid {
			t.Errorf("CurrentLayer() = %q, want %q", got, Grid)
		}
	})

	t.Run("lowest prepends above", func(t *testing.T) {
		s := NewStack()
		newItem(t, s, Grid, "g", nil)
		newItem(t, s, Background, "b1", nil)
		newItem(t, s, Background, "b2", nil)
		if err := s.RemoveLayer(s.Layer(Background)); err != nil {
			t.Fatalf("RemoveLayer() error = %v", err)
		}
		if diff := cmp.Diff([]string{"b1", "b2", "g"}, ids(s.Layer(Grid))); diff != "" {
			t.Errorf("grid children mismatch (-want +got):\n%s", diff)
		}
		if got := s.Layer(Grid).Index(); got != 0 {
			t.Errorf("Index() = %d, want 0", got)
		}
	})

	t.Run("last layer stays", func(t *testing.T) {
		s := NewStack()
		for _, name := range []string{Background, Grid, Main, Axes} {
			if err := s.RemoveLayer(s.Layer(name)); err != nil {
				t.Fatalf("RemoveLayer(%q) error = %v", name, err)
			}
		}
		if err := s.RemoveLayer(s.Layer(Legend)); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("RemoveLayer(last) error = %v, want INVALID_INPUT", err)
		}
		if s.LayerCount() != 1 {
			t.Errorf("LayerCount() = %d, want 1", s.LayerCount())
		}
	})
}

func TestMoveLayer(t *testing.T) {
	tests := []struct {
		name        string
		layer, dest string
		mode        InsertMode
		want        []string
	}{
		{"up above", Background, Main, Above, []string{Grid, Main, Background, Axes, Legend}},
		{"up below", Background, Main, Below, []string{Grid, Background, Main, Axes, Legend}},
		{"down below", Legend, Grid, Below, []string{Background, Legend, Grid, Main, Axes}},
		{"above top", Grid, Legend, Above, []string{Background, Main, Axes, Legend, Grid}},
		{"self", Main, Main, Above, DefaultLayers},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStack()
			if err := s.MoveLayer(s.Layer(tt.layer), s.Layer(tt.dest), tt.mode); err != nil {
				t.Fatalf("MoveLayer() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, layerNames(s)); diff != "" {
				t.Errorf("Layers() mismatch (-want +got):\n%s", diff)
			}
			for i, l := range s.Layers() {
				if l.Index() != i {
					t.Errorf("layer %q Index() = %d, want %d", l.Name(), l.Index(), i)
				}
			}
		})
	}
}

func TestDrawOrder(t *testing.T) {
	s := NewStack()
	var drawn []string
	newItem(t, s, Axes, "axis", &drawn)
	newItem(t, s, Main, "series1", &drawn)
	hidden := newItem(t, s, Main, "hidden", &drawn)
	newItem(t, s, Main, "series2", &drawn)
	newItem(t, s, Grid, "grid", &drawn)
	hidden.SetVisible(false)

	s.Draw(paint.NewSVG(100, 100, "", 0))

	if diff := cmp.Diff([]string{"grid", "series1", "series2", "axis"}, drawn); diff != "" {
		t.Errorf("draw order mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyAntialiasingHint(t *testing.T) {
	s := NewStack()
	it := newItem(t, s, Main, "a", nil)
	surface := paint.NewSVG(10, 10, "", 0)

	it.ApplyAntialiasingHint(surface, false, AAItems)
	if surface.Antialiasing() {
		t.Errorf("local false: Antialiasing() = true")
	}

	s.SetAntialiasedElement(AAItems, true)
	it.ApplyAntialiasingHint(surface, false, AAItems)
	if !surface.Antialiasing() {
		t.Errorf("forced on: Antialiasing() = false")
	}

	s.SetNotAntialiasedElements(AAItems)
	if s.AntialiasedElements().Has(AAItems) {
		t.Errorf("forcing off did not clear the forced-on flag")
	}
	it.ApplyAntialiasingHint(surface, true, AAItems)
	if surface.Antialiasing() {
		t.Errorf("forced off: Antialiasing() = true")
	}
	if AAAll.Has(AANone) {
		t.Errorf("AAAll.Has(AANone) = true, want false")
	}
}

func TestDetach(t *testing.T) {
	s := NewStack()
	it := newItem(t, s, Main, "a", nil)
	it.Detach()
	if it.Layer() != nil || s.Layer(Main).Len() != 0 {
		t.Errorf("Detach() left layer=%v len=%d", it.Layer(), s.Layer(Main).Len())
	}
}
