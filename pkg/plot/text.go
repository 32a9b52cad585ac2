package plot

import (
	"image/color"

	"github.com/matzehuels/tickplot/pkg/layer"
	"github.com/matzehuels/tickplot/pkg/layout"
	"github.com/matzehuels/tickplot/pkg/paint"
)

// Text is a layout element showing a single line of text centered in its
// rect. Titles and notes are Text elements.
type Text struct {
	layout.ElementBase

	text    string
	color   color.Color
	metrics paint.Metrics
	stretch bool
}

// NewText returns a detached text element measured with m.
func NewText(m paint.Metrics, s string) *Text {
	t := &Text{text: s, color: color.Black, metrics: m}
	if t.metrics == nil {
		t.metrics = paint.DefaultMetrics()
	}
	t.InitElement(t, nil, layer.Axes)
	return t
}

// Text returns the shown text.
func (t *Text) Text() string { return t.text }

// SetText replaces the text; the layout is told its minimum size changed.
func (t *Text) SetText(s string) {
	if t.text == s {
		return
	}
	t.text = s
	if parent := t.ParentLayout(); parent != nil {
		parent.SizeConstraintsChanged()
	}
}

// SetColor sets the text color.
func (t *Text) SetColor(c color.Color) { t.color = c }

// MinimumSizeHint is the text extent plus margins.
func (t *Text) MinimumSizeHint() layout.Size {
	w, h := t.metrics.TextSize(t.text)
	m := t.Margins()
	return layout.Size{W: w + m.Left + m.Right, H: h + m.Top + m.Bottom}
}

// MaximumSizeHint fixes the height of a stretching element; otherwise the
// text is not grown past its minimum.
func (t *Text) MaximumSizeHint() layout.Size {
	s := t.MinimumSizeHint()
	if t.stretch {
		s.W = layout.MaxSize
	}
	return s
}

// Draw paints the text centered in the inner rect.
func (t *Text) Draw(s paint.Surface) {
	r := t.Rect()
	s.SetPen(paint.SolidPen(t.color, 0))
	s.DrawText(t.text, float64(r.Min.X+r.Max.X)/2, float64(r.Min.Y+r.Max.Y)/2, 0.5, 0.5, 0)
}

// SetTitle shows s in a full-width row above the existing layout. The
// title element is created on first use.
func (p *Plot) SetTitle(s string) *Text {
	if p.title != nil {
		p.title.SetText(s)
		return p.title
	}
	t := NewText(p.metrics, s)
	t.stretch = true
	t.SetMargins(layout.Margins{Left: 5, Top: 5, Right: 5})
	p.layout.InsertRow(0)
	_ = p.layout.AddElement(0, 0, t)
	p.title = t
	return t
}

// Title returns the title element, or nil.
func (p *Plot) Title() *Text { return p.title }
