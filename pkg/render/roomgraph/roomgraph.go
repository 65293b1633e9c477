// Package roomgraph renders the room connectivity of a generated level as a
// Graphviz node-link diagram. Rooms become nodes and the corridors carved
// between consecutive rooms become edges.
package roomgraph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/levelforge/levelforge/pkg/gen"
)

// Options configures room graph rendering.
type Options struct {
	// Detailed includes room size and elevation in node labels.
	// When false, only the room index is shown.
	Detailed bool
}

// ToDOT converts a level's room layout to Graphviz DOT format.
// The resulting DOT string can be rendered with [RenderSVG].
func ToDOT(level *gen.Level, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph rooms {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.1\"];\n")
	buf.WriteString("\n")

	for i, r := range level.Rooms {
		cx, cy := r.Center()
		label := fmtLabel(i, r, opts.Detailed)
		// Flip y so the diagram matches the grid's top-left origin.
		fmt.Fprintf(&buf, "  r%d [label=%q, pos=\"%d,%d!\"];\n", i, label, cx, level.Height-cy)
	}

	buf.WriteString("\n")
	for i := 0; i+1 < len(level.Rooms); i++ {
		fmt.Fprintf(&buf, "  r%d -- r%d;\n", i, i+1)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(i int, r gen.Room, detailed bool) string {
	if !detailed {
		return fmt.Sprintf("R%d", i)
	}

	parts := []string{fmt.Sprintf("%dx%d", r.W, r.H)}
	if r.Elevation != nil {
		parts = append(parts, fmt.Sprintf("elev: %d", *r.Elevation))
	}
	return fmt.Sprintf("R%d\n%s", i, strings.Join(parts, "\n"))
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
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

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
