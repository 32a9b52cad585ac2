package pipeline

import (
	"encoding/json"

	"github.com/matzehuels/tickplot/pkg/chartspec"
	"github.com/matzehuels/tickplot/pkg/errors"
	"github.com/matzehuels/tickplot/pkg/fonts"
	"github.com/matzehuels/tickplot/pkg/paint"
	"github.com/matzehuels/tickplot/pkg/plot"
)

// =============================================================================
// Plot Construction
// =============================================================================

// BuildPlot builds a fresh plot for c, measured and rasterized with its own
// font face. Neither plots nor faces are safe for concurrent use, so every
// render gets its own.
func BuildPlot(c *chartspec.Chart, embedFonts bool) (*plot.Plot, error) {
	style, err := fonts.ParseStyle(c.Font)
	if err != nil {
		return nil, err
	}
	face, err := fonts.Face(style, c.FontSize)
	if err != nil {
		return nil, err
	}
	opts := []plot.Option{plot.WithFace(face)}
	if embedFonts && style == fonts.Regular {
		opts = append(opts, plot.WithSVGStyle(fonts.FontFaceCSS()))
	}
	return c.Build(paint.NewFaceMetrics(face), opts...)
}

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout builds the plot and resolves its geometry.
func GenerateLayout(c *chartspec.Chart) (plot.Snapshot, error) {
	p, err := BuildPlot(c, false)
	if err != nil {
		return plot.Snapshot{}, err
	}
	return p.Snapshot(), nil
}

// MarshalSnapshot serializes a snapshot as indented JSON.
func MarshalSnapshot(s plot.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "marshal layout")
	}
	return append(data, '\n'), nil
}

// UnmarshalSnapshot parses snapshot JSON.
func UnmarshalSnapshot(data []byte) (plot.Snapshot, error) {
	var s plot.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return plot.Snapshot{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	return s, nil
}
