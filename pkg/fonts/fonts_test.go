package fonts

import (
	"encoding/base64"
	"strings"
	"testing"

	"golang.org/x/image/font"

	"github.com/matzehuels/tickplot/pkg/errors"
)

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in      string
		want    Style
		wantErr bool
	}{
		{"", Regular, false},
		{"regular", Regular, false},
		{"bold", Bold, false},
		{"mono", Mono, false},
		{"italic", Regular, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStyle(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStyle(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseStyle(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if err == nil && got.String() != tt.in && tt.in != "" {
				t.Errorf("String() = %q, want %q", got.String(), tt.in)
			}
		})
	}
}

func TestFace(t *testing.T) {
	for _, style := range []Style{Regular, Bold, Mono} {
		t.Run(style.String(), func(t *testing.T) {
			f, err := Face(style, 12)
			if err != nil {
				t.Fatalf("Face() error = %v", err)
			}
			defer f.Close()
			if w := font.MeasureString(f, "0123").Ceil(); w <= 0 {
				t.Errorf("MeasureString() = %d, want > 0", w)
			}
			if h := f.Metrics().Height.Ceil(); h < 12 {
				t.Errorf("line height = %d, want >= 12", h)
			}
		})
	}
}

func TestFaceMonoIsFixedWidth(t *testing.T) {
	f, err := Face(Mono, 10)
	if err != nil {
		t.Fatal(err)
	}
	if a, b := font.MeasureString(f, "iiii"), font.MeasureString(f, "WWWW"); a != b {
		t.Errorf("mono widths differ: %v vs %v", a, b)
	}
}

func TestFaceInvalidSize(t *testing.T) {
	if _, err := Face(Regular, 0); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Face(0) error = %v, want INVALID_INPUT", err)
	}
}

func TestFontFaceCSS(t *testing.T) {
	css := FontFaceCSS()
	if !strings.Contains(css, "font-family: 'Go'") {
		t.Errorf("FontFaceCSS() = %.60q, missing family", css)
	}
	raw, err := base64.StdEncoding.DecodeString(RegularTTFBase64())
	if err != nil {
		t.Fatalf("RegularTTFBase64() not valid base64: %v", err)
	}
	if len(raw) != len(TTF(Regular)) {
		t.Errorf("decoded length = %d, want %d", len(raw), len(TTF(Regular)))
	}
}
