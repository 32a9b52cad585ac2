// Package fonts provides the fonts charts are measured and rasterized with.
//
// The Go font family is compiled into the binary (via golang.org/x/image),
// so layout results do not depend on what is installed on the host. Raster
// output draws with the same faces that measured the layout, and SVG output
// can embed the regular face as a data URI so viewers render the text with
// matching metrics.
package fonts

import (
	"encoding/base64"
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/tickplot/pkg/errors"
)

// Style selects one of the embedded faces.
type Style int

const (
	Regular Style = iota
	Bold
	Mono
)

// String returns the style name used in chart files.
func (s Style) String() string {
	switch s {
	case Bold:
		return "bold"
	case Mono:
		return "mono"
	}
	return "regular"
}

// ParseStyle maps a chart file style name to a Style. The empty string is
// Regular.
func ParseStyle(s string) (Style, error) {
	switch s {
	case "", "regular":
		return Regular, nil
	case "bold":
		return Bold, nil
	case "mono":
		return Mono, nil
	}
	return Regular, errors.New(errors.ErrCodeInvalidInput, "unknown font style %q", s)
}

// FontFamily is the CSS font-family name of the embedded regular face.
const FontFamily = "Go"

// FallbackFontFamily is the font-family list written to SVG output.
const FallbackFontFamily = `'Go', 'DejaVu Sans', Helvetica, Arial, sans-serif`

// DefaultSize is the point size used when a chart sets none.
const DefaultSize = 12

// TTF returns the raw TrueType data for style.
func TTF(style Style) []byte {
	switch style {
	case Bold:
		return gobold.TTF
	case Mono:
		return gomono.TTF
	}
	return goregular.TTF
}

var (
	parsedMu sync.Mutex
	parsed   = map[Style]*truetype.Font{}
)

func load(style Style) (*truetype.Font, error) {
	parsedMu.Lock()
	defer parsedMu.Unlock()
	if f, ok := parsed[style]; ok {
		return f, nil
	}
	f, err := truetype.Parse(TTF(style))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse %s font", style)
	}
	parsed[style] = f
	return f, nil
}

// Face returns a face for style at size points and 72 DPI, so one point is
// one pixel. Faces are not safe for concurrent use; callers rendering in
// parallel should request one face each.
func Face(style Style, size float64) (font.Face, error) {
	if size <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "font size must be positive, got %g", size)
	}
	f, err := load(style)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// Cache for the base64-encoded regular face (computed once on first access).
var (
	ttfBase64     string
	ttfBase64Once sync.Once
)

// RegularTTFBase64 returns the regular face as a base64 string.
func RegularTTFBase64() string {
	ttfBase64Once.Do(func() {
		ttfBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return ttfBase64
}

// FontFaceCSS returns an @font-face rule embedding the regular face under
// FontFamily.
func FontFaceCSS() string {
	return fmt.Sprintf("@font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }",
		FontFamily, RegularTTFBase64())
}
