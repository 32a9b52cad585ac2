// Package render converts rendered SVG charts into other output formats.
//
// Plots draw SVG and PNG natively (see the plot package). PDF output and
// PNG output at scale factors other than 1 go through the external
// rsvg-convert tool from librsvg:
//
//	svg := p.RenderSVG()
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// Use [Available] to check for the tool before relying on it.
package render
