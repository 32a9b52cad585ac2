// Package pkg provides the core libraries for tickplot.
//
// # Overview
//
// tickplot lays out and renders two-dimensional charts: panels arranged in a
// grid, each with up to four axes, automatic margins that line up across
// panels, nice tick steps and a named stack of drawing layers. The pkg
// directory is organized into three areas:
//
//  1. Charting core - [numrange], [layer], [paint], [layout], [axis], [plot]
//  2. Chart files and orchestration - [chartspec], [pipeline], [render], [fonts]
//  3. Infrastructure - [cache], [errors], [observability], [buildinfo]
//
// # Architecture
//
// The typical data flow:
//
//	chart.toml
//	     ↓
//	[chartspec] package (decode + validate)
//	     ↓
//	[plot] package (axis rects, axes, series, notes)
//	     ↓
//	[layout] package (margins, grid sections, insets)
//	     ↓
//	[paint] package (SVG or raster surface, drawn layer by layer)
//	     ↓
//	SVG/PNG/PDF/JSON output
//
// # Quick Start
//
// Build a plot directly:
//
//	p := plot.New(800, 600, plot.WithFontFamily(fonts.FallbackFontFamily, 12))
//	s, _ := p.AddSeries("load", p.XAxis(), p.YAxis())
//	_ = s.SetData([]float64{0, 1, 2}, []float64{0.2, 0.7, 0.4})
//	p.RescaleAxes()
//	svg := p.RenderSVG()
//
// Or run a chart file through the cached pipeline:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Chart:   data,
//	    Formats: []string{"svg", "png"},
//	})
//
// [numrange]: github.com/matzehuels/tickplot/pkg/numrange
// [layer]: github.com/matzehuels/tickplot/pkg/layer
// [paint]: github.com/matzehuels/tickplot/pkg/paint
// [layout]: github.com/matzehuels/tickplot/pkg/layout
// [axis]: github.com/matzehuels/tickplot/pkg/axis
// [plot]: github.com/matzehuels/tickplot/pkg/plot
// [chartspec]: github.com/matzehuels/tickplot/pkg/chartspec
// [pipeline]: github.com/matzehuels/tickplot/pkg/pipeline
// [render]: github.com/matzehuels/tickplot/pkg/render
// [fonts]: github.com/matzehuels/tickplot/pkg/fonts
// [cache]: github.com/matzehuels/tickplot/pkg/cache
// [errors]: github.com/matzehuels/tickplot/pkg/errors
// [observability]: github.com/matzehuels/tickplot/pkg/observability
// [buildinfo]: github.com/matzehuels/tickplot/pkg/buildinfo
package pkg
