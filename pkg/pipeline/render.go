package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/tickplot/pkg/chartspec"
	"github.com/matzehuels/tickplot/pkg/errors"
	"github.com/matzehuels/tickplot/pkg/render"
)

// Render generates output artifacts in the requested formats. Formats are
// rendered concurrently; the first failure cancels the rest. layoutData is
// returned as the JSON artifact.
func Render(ctx context.Context, c *chartspec.Chart, layoutData []byte, opts Options) (map[string][]byte, error) {
	g, ctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		g.Go(func() error {
			data, err := RenderFormat(ctx, c, layoutData, format, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

// RenderFormat renders a single format on a fresh plot.
func RenderFormat(ctx context.Context, c *chartspec.Chart, layoutData []byte, format string, opts Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if format == FormatJSON && layoutData != nil {
		return layoutData, nil
	}

	p, err := BuildPlot(c, opts.EmbedFonts)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatJSON:
		return MarshalSnapshot(p.Snapshot())
	case FormatSVG:
		return p.RenderSVG(), nil
	case FormatPDF:
		return render.ToPDF(ctx, p.RenderSVG())
	case FormatPNG:
		if opts.Scale != 1 {
			if render.Available() {
				return render.ToPNG(ctx, p.RenderSVG(), opts.Scale)
			}
			if opts.Logger != nil {
				opts.Logger.Warn("rsvg-convert not found, rendering PNG at 1x", "scale", opts.Scale)
			}
		}
		var buf bytes.Buffer
		if err := p.RenderPNG(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
}
