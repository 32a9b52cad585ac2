package plot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/tickplot/pkg/layout"
)

// ToDOT describes the layout tree and the layer stack as a Graphviz digraph.
// Layout elements are boxes connected parent to child; each layer is a
// cluster listing its members in draw order. Call after UpdateLayout to get
// resolved rects in the labels.
func (p *Plot) ToDOT() string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	parents := map[int]string{}
	Walk(p.layout, func(el layout.Element, path string, depth int) {
		r := el.Layout().Rect()
		label := fmt.Sprintf("%s\n%s\n%dx%d+%d+%d", Kind(el), path, r.Dx(), r.Dy(), r.Min.X, r.Min.Y)
		fmt.Fprintf(&buf, "  %q [label=%q];\n", path, label)
		if depth > 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", parents[depth-1], path)
		}
		parents[depth] = path
	})

	for _, l := range p.stack.Layers() {
		fmt.Fprintf(&buf, "\n  subgraph \"cluster_%s\" {\n", l.Name())
		fmt.Fprintf(&buf, "    label=%q;\n", fmt.Sprintf("layer %d: %s", l.Index(), l.Name()))
		buf.WriteString("    style=dashed;\n")
		prev := ""
		for i, c := range l.Children() {
			id := fmt.Sprintf("%s#%d", l.Name(), i)
			fmt.Fprintf(&buf, "    %q [label=%q, shape=note, fillcolor=lightgrey];\n", id, Describe(c))
			if prev != "" {
				fmt.Fprintf(&buf, "    %q -> %q [style=invis];\n", prev, id)
			}
			prev = id
		}
		if prev == "" {
			fmt.Fprintf(&buf, "    %q [label=\"(empty)\", shape=plaintext];\n", l.Name()+"#empty")
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderTreeSVG renders a DOT graph to SVG using Graphviz.
func RenderTreeSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz pt-sized root element with one
// whose size matches its viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
