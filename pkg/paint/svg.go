package paint

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image"
	"strings"

	"github.com/matzehuels/tickplot/pkg/errors"
	"github.com/matzehuels/tickplot/pkg/observability"
)

// SVG is a vector Surface that writes SVG markup into a buffer. It always
// runs in ModeVectorized, so no pixel-alignment fixes are applied.
type SVG struct {
	buf        bytes.Buffer
	width      int
	height     int
	fontFamily string
	fontSize   float64
	pen        Pen
	brush      Brush
	aa         bool
	groups     int
	clipSeq    int
	saved      []svgState
}

type svgState struct {
	pen    Pen
	brush  Brush
	aa     bool
	groups int
}

// NewSVG starts a width x height SVG document.
func NewSVG(width, height int, fontFamily string, fontSize float64) *SVG {
	if fontFamily == "" {
		fontFamily = "sans-serif"
	}
	if fontSize <= 0 {
		fontSize = 12
	}
	s := &SVG{
		width:      width,
		height:     height,
		fontFamily: fontFamily,
		fontSize:   fontSize,
		pen:        SolidPen(nil, 0),
		aa:         true,
	}
	fmt.Fprintf(&s.buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		width, height, width, height)
	return s
}

// Modes always reports ModeVectorized.
func (s *SVG) Modes() Mode { return ModeVectorized }

// Background fills the whole document.
func (s *SVG) Background(fill string) {
	fmt.Fprintf(&s.buf, `<rect width="100%%" height="100%%" fill="%s"/>`+"\n", fill)
}

// Style embeds a CSS style sheet, e.g. @font-face rules.
func (s *SVG) Style(css string) {
	if css == "" {
		return
	}
	s.buf.WriteString("<style>")
	_ = xml.EscapeText(&s.buf, []byte(css))
	s.buf.WriteString("</style>\n")
}

func (s *SVG) SetPen(p Pen)     { s.pen = p }
func (s *SVG) Pen() Pen         { return s.pen }
func (s *SVG) SetBrush(b Brush) { s.brush = b }

func (s *SVG) DrawLine(x1, y1, x2, y2 float64) {
	if s.pen.IsNone() {
		return
	}
	fmt.Fprintf(&s.buf, `<line x1="%s" y1="%s" x2="%s" y2="%s"%s/>`+"\n",
		num(x1), num(y1), num(x2), num(y2), s.strokeAttrs())
}

func (s *SVG) DrawRect(x, y, w, h float64) {
	fmt.Fprintf(&s.buf, `<rect x="%s" y="%s" width="%s" height="%s"%s%s/>`+"\n",
		num(x), num(y), num(w), num(h), s.fillAttrs(), s.strokeAttrs())
}

func (s *SVG) DrawEllipse(cx, cy, rx, ry float64) {
	fmt.Fprintf(&s.buf, `<ellipse cx="%s" cy="%s" rx="%s" ry="%s"%s%s/>`+"\n",
		num(cx), num(cy), num(rx), num(ry), s.fillAttrs(), s.strokeAttrs())
}

func (s *SVG) DrawPolyline(pts []Point) {
	if len(pts) < 2 || s.pen.IsNone() {
		return
	}
	fmt.Fprintf(&s.buf, `<polyline points="%s" fill="none"%s/>`+"\n", points(pts), s.strokeAttrs())
}

func (s *SVG) DrawPolygon(pts []Point) {
	if len(pts) < 3 {
		return
	}
	fmt.Fprintf(&s.buf, `<polygon points="%s"%s%s/>`+"\n", points(pts), s.fillAttrs(), s.strokeAttrs())
}

func (s *SVG) DrawText(text string, x, y, ax, ay, rotation float64) {
	if text == "" || s.pen.IsNone() {
		return
	}
	fill, opacity := hexColor(s.pen.Color)
	var b strings.Builder
	fmt.Fprintf(&b, `<text x="%s" y="%s" font-family="%s" font-size="%s" fill="%s"`,
		num(x), num(y), s.fontFamily, num(s.fontSize), fill)
	if opacity < 1 {
		fmt.Fprintf(&b, ` fill-opacity="%s"`, num(opacity))
	}
	fmt.Fprintf(&b, ` text-anchor="%s" dominant-baseline="%s"`, textAnchor(ax), baseline(ay))
	if rotation != 0 {
		fmt.Fprintf(&b, ` transform="rotate(%s %s %s)"`, num(rotation), num(x), num(y))
	}
	b.WriteString(">")
	_ = xml.EscapeText(&b, []byte(text))
	b.WriteString("</text>\n")
	s.buf.WriteString(b.String())
}

// SetClipRect opens a clipped group that the next Restore closes.
func (s *SVG) SetClipRect(r image.Rectangle) {
	s.clipSeq++
	fmt.Fprintf(&s.buf, `<clipPath id="clip%d"><rect x="%d" y="%d" width="%d" height="%d"/></clipPath>`+"\n",
		s.clipSeq, r.Min.X, r.Min.Y, r.Dx(), r.Dy())
	fmt.Fprintf(&s.buf, `<g clip-path="url(#clip%d)">`+"\n", s.clipSeq)
	s.groups++
}

func (s *SVG) Save() {
	s.saved = append(s.saved, svgState{pen: s.pen, brush: s.brush, aa: s.aa, groups: s.groups})
}

func (s *SVG) Restore() {
	if len(s.saved) == 0 {
		observability.Report("paint", errors.New(errors.ErrCodeInvalidInput, "unbalanced save/restore"))
		return
	}
	st := s.saved[len(s.saved)-1]
	s.saved = s.saved[:len(s.saved)-1]
	for ; s.groups > st.groups; s.groups-- {
		s.buf.WriteString("</g>\n")
	}
	s.pen, s.brush, s.aa = st.pen, st.brush, st.aa
}

func (s *SVG) SetAntialiasing(enabled bool) { s.aa = enabled }
func (s *SVG) Antialiasing() bool           { return s.aa }

// Bytes closes any open groups and returns the finished document. The SVG
// must not be drawn on afterwards.
func (s *SVG) Bytes() []byte {
	for ; s.groups > 0; s.groups-- {
		s.buf.WriteString("</g>\n")
	}
	s.saved = nil
	s.buf.WriteString("</svg>\n")
	return s.buf.Bytes()
}

func (s *SVG) strokeAttrs() string {
	if s.pen.IsNone() {
		return ` stroke="none"`
	}
	c, opacity := hexColor(s.pen.Color)
	w := s.pen.Width
	if w == 0 {
		w = 1
	}
	var b strings.Builder
	fmt.Fprintf(&b, ` stroke="%s" stroke-width="%s"`, c, num(w))
	if opacity < 1 {
		fmt.Fprintf(&b, ` stroke-opacity="%s"`, num(opacity))
	}
	if len(s.pen.Dash) > 0 {
		parts := make([]string, len(s.pen.Dash))
		for i, d := range s.pen.Dash {
			parts[i] = num(d)
		}
		fmt.Fprintf(&b, ` stroke-dasharray="%s"`, strings.Join(parts, ","))
	}
	if !s.aa {
		b.WriteString(` shape-rendering="crispEdges"`)
	}
	return b.String()
}

func (s *SVG) fillAttrs() string {
	c, opacity := hexColor(s.brush.Color)
	if opacity < 1 && c != "none" {
		return fmt.Sprintf(` fill="%s" fill-opacity="%s"`, c, num(opacity))
	}
	return fmt.Sprintf(` fill="%s"`, c)
}

func textAnchor(ax float64) string {
	switch {
	case ax < 0.25:
		return "start"
	case ax > 0.75:
		return "end"
	default:
		return "middle"
	}
}

func baseline(ay float64) string {
	switch {
	case ay < 0.25:
		return "hanging"
	case ay > 0.75:
		return "alphabetic"
	default:
		return "central"
	}
}

func points(pts []Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = num(p.X) + "," + num(p.Y)
	}
	return strings.Join(parts, " ")
}

func num(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

var _ Surface = (*SVG)(nil)
