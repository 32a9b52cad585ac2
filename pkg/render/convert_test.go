package render

import (
	"bytes"
	"context"
	"testing"

	"github.com/matzehuels/tickplot/pkg/errors"
)

const sample = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10" fill="#000"/></svg>`

func TestToPNGRejectsScale(t *testing.T) {
	_, err := ToPNG(context.Background(), []byte(sample), 0)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("ToPNG(scale=0) error = %v, want INVALID_INPUT", err)
	}
}

func TestConvertWithoutTool(t *testing.T) {
	if Available() {
		t.Skip("rsvg-convert installed")
	}
	_, err := ToPDF(context.Background(), []byte(sample))
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Fatalf("ToPDF() error = %v, want UNSUPPORTED", err)
	}
}

func TestConvert(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	ctx := context.Background()

	pdf, err := ToPDF(ctx, []byte(sample))
	if err != nil {
		t.Fatalf("ToPDF() error = %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("ToPDF() output does not start with %%PDF")
	}

	png, err := ToPNG(ctx, []byte(sample), 2)
	if err != nil {
		t.Fatalf("ToPNG() error = %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("ToPNG() output is not a PNG")
	}
}
