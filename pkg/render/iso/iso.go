// Package iso renders marble levels as isometric SVG embedded in a
// standalone HTML document, showing elevation, walls, and tile types in 3D
// perspective.
package iso

import (
	"bytes"
	"fmt"

	"github.com/levelforge/levelforge/pkg/gen"
	"github.com/levelforge/levelforge/pkg/tiles"
)

// Tile dimensions for the isometric projection, in pixels.
const (
	tileWidth       = 32.0
	tileHeight      = 16.0
	elevationHeight = 12.0
	wallHeight      = 20.0
)

// toIsometric projects 3D tile coordinates to 2D screen coordinates.
func toIsometric(x, y, z float64) (float64, float64) {
	isoX := (x - y) * tileWidth / 2
	isoY := (x+y)*tileHeight/4 - z*elevationHeight
	return isoX, isoY
}

// tileColor is the base palette, one color per tile type.
var tileColor = map[tiles.TileType]string{
	tiles.Empty:         "#2b2b2b",
	tiles.Straight:      "#5a9fd4",
	tiles.Curve90:       "#5aa4d4",
	tiles.TJunction:     "#4c8fc7",
	tiles.YJunction:     "#4c8fc7",
	tiles.CrossJunction: "#4080b8",
	tiles.Slope:         "#e8a847",
	tiles.OpenPlatform:  "#a6a6a6",
	tiles.Obstacle:      "#8b4513",
	tiles.Merge:         "#6b7fc7",
	tiles.OneWayGate:    "#c74c8f",
	tiles.LoopDeLoop:    "#c7478f",
	tiles.HalfPipe:      "#8f47c7",
	tiles.LaunchPad:     "#ff4444",
	tiles.Bridge:        "#7fc76b",
	tiles.Tunnel:        "#4c6bc7",
}

// parseHex splits "#rrggbb" into components, defaulting to mid-gray on
// malformed input.
func parseHex(hex string) (r, g, b float64) {
	var ri, gi, bi int
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &ri, &gi, &bi); err != nil {
		return 128, 128, 128
	}
	return float64(ri), float64(gi), float64(bi)
}

func formatHex(r, g, b float64) string {
	clamp := func(v float64) int {
		if v > 255 {
			return 255
		}
		if v < 0 {
			return 0
		}
		return int(v)
	}
	return fmt.Sprintf("#%02x%02x%02x", clamp(r), clamp(g), clamp(b))
}

// brighten adjusts a color for elevation: +10% brightness per level, so
// higher tiles read as lighter.
func brighten(hex string, elevation int) string {
	r, g, b := parseHex(hex)
	factor := 1 + float64(elevation)*0.1
	return formatHex(r*factor, g*factor, b*factor)
}

// darken scales a color toward black (factor 1.0 keeps the original).
func darken(hex string, factor float64) string {
	r, g, b := parseHex(hex)
	return formatHex(r*factor, g*factor, b*factor)
}

// renderTile emits the SVG polygons for one tile: the top surface and, for
// walled tiles, the two visible side faces.
func renderTile(buf *bytes.Buffer, t tiles.MarbleTile, x, y int) {
	if t.Type == tiles.Empty {
		return
	}

	fx, fy, fz := float64(x), float64(y), float64(t.Elevation)
	color := brighten(tileColor[t.Type], t.Elevation)

	x0, y0 := toIsometric(fx, fy, fz)
	x1, y1 := toIsometric(fx+1, fy, fz)
	x2, y2 := toIsometric(fx+1, fy+1, fz)
	x3, y3 := toIsometric(fx, fy+1, fz)

	fmt.Fprintf(buf,
		"  <polygon points=\"%g,%g %g,%g %g,%g %g,%g\" fill=%q stroke=\"#333\" stroke-width=\"1\"/>\n",
		x0, y0, x1, y1, x2, y2, x3, y3, color)

	if t.HasWalls {
		base := fz - wallHeight/elevationHeight

		// South wall (front-left face)
		bx3, by3 := toIsometric(fx, fy+1, base)
		bx2, by2 := toIsometric(fx+1, fy+1, base)
		fmt.Fprintf(buf,
			"  <polygon points=\"%g,%g %g,%g %g,%g %g,%g\" fill=%q stroke=\"#222\" stroke-width=\"0.5\" opacity=\"0.9\"/>\n",
			x3, y3, x2, y2, bx2, by2, bx3, by3, darken(color, 0.7))

		// East wall (front-right face)
		bx1, by1 := toIsometric(fx+1, fy, base)
		fmt.Fprintf(buf,
			"  <polygon points=\"%g,%g %g,%g %g,%g %g,%g\" fill=%q stroke=\"#222\" stroke-width=\"0.5\" opacity=\"0.8\"/>\n",
			x1, y1, x2, y2, bx2, by2, bx1, by1, darken(color, 0.6))
	}

	if t.Type == tiles.Slope {
		cx, cy := toIsometric(fx+0.5, fy+0.5, fz)
		fmt.Fprintf(buf,
			"  <text x=\"%g\" y=\"%g\" font-size=\"16\" fill=\"#fff\" text-anchor=\"middle\" dominant-baseline=\"middle\">⛰</text>\n",
			cx, cy)
	}
}

// RenderHTML produces a standalone HTML document with the isometric SVG view
// of the level's marble tiles. Levels without marble tiles get a placeholder
// message instead of an SVG.
func RenderHTML(level *gen.Level) []byte {
	var buf bytes.Buffer

	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	buf.WriteString("  <meta charset=\"UTF-8\">\n")
	buf.WriteString("  <title>Marble Level - Isometric View</title>\n")
	buf.WriteString("  <style>\n")
	buf.WriteString("    body { margin: 0; padding: 20px; background: #1a1a1a; font-family: Arial, sans-serif; }\n")
	buf.WriteString("    .container { max-width: 1400px; margin: 0 auto; }\n")
	buf.WriteString("    h1 { color: #fff; text-align: center; }\n")
	buf.WriteString("    .info { color: #aaa; text-align: center; margin: 10px 0; }\n")
	buf.WriteString("    svg { background: #0d0d0d; display: block; margin: 20px auto; border: 2px solid #333; }\n")
	buf.WriteString("    .legend { color: #fff; background: #2a2a2a; padding: 15px; border-radius: 5px; margin-top: 20px; }\n")
	buf.WriteString("    .legend-item { display: inline-block; margin: 5px 15px; }\n")
	buf.WriteString("    .legend-color { display: inline-block; width: 20px; height: 20px; margin-right: 5px; vertical-align: middle; border: 1px solid #555; }\n")
	buf.WriteString("  </style>\n</head>\n<body>\n")
	buf.WriteString("  <div class=\"container\">\n")
	buf.WriteString("    <h1>Marble Level Generator - Isometric View</h1>\n")
	fmt.Fprintf(&buf, "    <div class=\"info\">Seed: %d | Size: %d×%d | Rooms: %d</div>\n",
		level.Seed, level.Width, level.Height, len(level.Rooms))

	if level.MarbleTiles != nil {
		renderSVG(&buf, level.MarbleTiles)
	} else {
		buf.WriteString("    <p style=\"color: #fff; text-align: center;\">No marble tile data available. Use --mode marble to generate.</p>\n")
	}

	renderLegend(&buf)

	buf.WriteString("  </div>\n</body>\n</html>")
	return buf.Bytes()
}

func renderSVG(buf *bytes.Buffer, grid [][]tiles.MarbleTile) {
	height := len(grid)
	width := 0
	if height > 0 {
		width = len(grid[0])
	}

	svgWidth := (float64(width)+float64(height))*tileWidth/2 + 200
	svgHeight := (float64(width)+float64(height))*tileHeight/4 + 400
	offsetX := svgWidth / 2
	offsetY := 150.0

	fmt.Fprintf(buf, "    <svg width=\"%g\" height=\"%g\" viewBox=\"0 0 %g %g\">\n",
		svgWidth, svgHeight, svgWidth, svgHeight)
	fmt.Fprintf(buf, "      <g transform=\"translate(%g, %g)\">\n", offsetX, offsetY)

	// Painter's order: back-to-front along x+y diagonals so nearer tiles
	// cover farther ones.
	for sum := 0; sum < width+height; sum++ {
		for y := 0; y < height; y++ {
			x := sum - y
			if x >= 0 && x < width {
				renderTile(buf, grid[y][x], x, y)
			}
		}
	}

	buf.WriteString("      </g>\n    </svg>\n")
}

func renderLegend(buf *bytes.Buffer) {
	entries := []struct {
		t     tiles.TileType
		label string
	}{
		{tiles.Straight, "Straight Path"},
		{tiles.Curve90, "Curve"},
		{tiles.TJunction, "Junction"},
		{tiles.Slope, "Slope ⛰"},
		{tiles.OpenPlatform, "Open Platform"},
	}

	buf.WriteString("    <div class=\"legend\">\n")
	buf.WriteString("      <strong>Legend:</strong><br>\n")
	for _, e := range entries {
		fmt.Fprintf(buf,
			"      <div class=\"legend-item\"><span class=\"legend-color\" style=\"background: %s\"></span>%s</div>\n",
			tileColor[e.t], e.label)
	}
	buf.WriteString("      <div style=\"margin-top: 10px;\"><em>Note: Lighter shades indicate higher elevation</em></div>\n")
	buf.WriteString("    </div>\n")
}
