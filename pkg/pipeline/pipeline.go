// Package pipeline provides the chart rendering pipeline for tickplot.
//
// This package implements the complete load → layout → render pipeline that
// is shared by the CLI and the HTTP server, so both produce identical
// output for the same chart.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Decode and validate the chart TOML
//  2. Layout: Build the plot, resolve margins, ticks and element rects, and
//     capture the result as a JSON snapshot
//  3. Render: Draw the plot into each requested format (SVG, PNG, PDF, JSON)
//
// Layouts and artifacts are cached by content hash. Formats are rendered
// concurrently, each on its own plot instance.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Chart:   data,
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tickplot/pkg/cache"
	"github.com/matzehuels/tickplot/pkg/chartspec"
	"github.com/matzehuels/tickplot/pkg/errors"
	"github.com/matzehuels/tickplot/pkg/plot"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultScale is the raster scale factor for PNG output.
	DefaultScale = 1.0

	// MaxScale bounds the raster scale factor.
	MaxScale = 8.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ContentTypes maps formats to MIME types.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the rendering pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Chart []byte `json:"chart"`

	// Layout options. Zero values keep the chart's own settings.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
	EmbedFonts bool     `json:"embed_fonts,omitempty"`

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Chart is the validated chart.
	Chart *chartspec.Chart

	// ChartHash is the content hash of the chart source.
	ChartHash string

	// Snapshot is the resolved layout.
	Snapshot plot.Snapshot

	// LayoutHash is the content hash of the snapshot JSON.
	LayoutHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PanelCount  int
	SeriesCount int
	LoadTime    time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Chart) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "chart is required")
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "width and height must be non-negative")
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 || o.Scale > MaxScale || math.IsNaN(o.Scale) {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be in (0, %g], got %g", MaxScale, o.Scale)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts(c *chartspec.Chart) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:    c.Width,
		Height:   c.Height,
		FontSize: c.FontSize,
		Font:     c.Font,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatPNG:
		opts.Scale = o.Scale
	case FormatSVG, FormatPDF:
		opts.EmbedFonts = o.EmbedFonts
	}
	return opts
}

// String summarizes the options for logs.
func (o *Options) String() string {
	return fmt.Sprintf("chart=%dB size=%dx%d formats=%v scale=%g", len(o.Chart), o.Width, o.Height, o.Formats, o.Scale)
}
