// Package wfc implements a Wave Function Collapse maze solver over a fixed
// box-drawing tileset.
//
// Every cell starts with a bitmask domain of all possible tiles. The solver
// repeatedly collapses the cell with the smallest domain to one random
// candidate and propagates edge-compatibility constraints breadth-first until
// the grid is fully resolved. A contradiction (empty domain) abandons the
// attempt; after a bounded number of independent restarts the solver falls
// back to a blank grid rather than failing.
package wfc

import (
	"math/bits"
	"math/rand/v2"
)

// Tile is one entry of the tileset: a display symbol plus a connection
// predicate per side (north, east, south, west).
type Tile struct {
	Symbol rune
	Edges  [4]bool
}

// Tileset is the fixed 12-entry box-drawing tileset. Edge order is
// north, east, south, west.
var Tileset = []Tile{
	{' ', [4]bool{false, false, false, false}},
	{'─', [4]bool{false, true, false, true}},
	{'│', [4]bool{true, false, true, false}},
	{'┌', [4]bool{false, true, true, false}},
	{'┐', [4]bool{false, false, true, true}},
	{'└', [4]bool{true, true, false, false}},
	{'┘', [4]bool{true, false, false, true}},
	{'├', [4]bool{true, true, true, false}},
	{'┤', [4]bool{true, false, true, true}},
	{'┬', [4]bool{false, true, true, true}},
	{'┴', [4]bool{true, true, false, true}},
	{'┼', [4]bool{true, true, true, true}},
}

// maxRestarts bounds the number of independent solve attempts before the
// blank fallback is returned.
const maxRestarts = 10

// neighbor offsets in edge order: north, east, south, west.
var dirs = [4]struct{ dx, dy int }{
	{0, -1},
	{1, 0},
	{0, 1},
	{-1, 0},
}

func opposite(d int) int { return (d + 2) % 4 }

// compat[i][d] is the bitmask of tiles that may sit in direction d of tile i:
// exactly those whose facing edge matches tile i's edge on that side.
var compat = buildCompat()

func buildCompat() [][4]uint32 {
	c := make([][4]uint32, len(Tileset))
	for i, t := range Tileset {
		for d := 0; d < 4; d++ {
			var mask uint32
			for j, o := range Tileset {
				if o.Edges[opposite(d)] == t.Edges[d] {
					mask |= 1 << j
				}
			}
			c[i][d] = mask
		}
	}
	return c
}

// Solve generates a width×height maze. All randomness comes from rng, so the
// result is a pure function of the generator state. If every restart hits a
// contradiction the returned grid is all blank tiles, a degraded but
// well-formed result.
func Solve(width, height int, rng *rand.Rand) []string {
	for attempt := 0; attempt < maxRestarts; attempt++ {
		if rows, ok := solveOnce(width, height, rng); ok {
			return rows
		}
	}
	return blankRows(width, height)
}

func solveOnce(width, height int, rng *rand.Rand) ([]string, bool) {
	full := uint32(1<<len(Tileset)) - 1
	domains := make([]uint32, width*height)
	for i := range domains {
		domains[i] = full
	}

	// Border cells may not resolve to a tile with an edge pointing off-grid.
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var dom uint32 = full
			for d := 0; d < 4; d++ {
				nx, ny := x+dirs[d].dx, y+dirs[d].dy
				if nx >= 0 && nx < width && ny >= 0 && ny < height {
					continue
				}
				var open uint32
				for j, t := range Tileset {
					if !t.Edges[d] {
						open |= 1 << j
					}
				}
				dom &= open
			}
			domains[y*width+x] = dom
		}
	}

	// Settle the border constraints before the first collapse.
	queue := make([]int, 0, width*height)
	for i := range domains {
		queue = append(queue, i)
	}
	if !propagate(domains, width, height, queue) {
		return nil, false
	}

	for {
		idx := pickCell(domains)
		if idx < 0 {
			break
		}

		choice := pickCandidate(domains[idx], rng)
		domains[idx] = 1 << choice

		if !propagate(domains, width, height, []int{idx}) {
			return nil, false
		}
	}

	for _, dom := range domains {
		if dom == 0 {
			return nil, false
		}
	}
	return renderRows(domains, width, height), true
}

// pickCell returns the index of the unresolved cell with the fewest remaining
// candidates, ties broken by scan order, or -1 if every cell is resolved.
func pickCell(domains []uint32) int {
	best, bestCount := -1, 0
	for i, dom := range domains {
		n := bits.OnesCount32(dom)
		if n <= 1 {
			continue
		}
		if best < 0 || n < bestCount {
			best, bestCount = i, n
		}
	}
	return best
}

// pickCandidate chooses one random set bit from the domain.
func pickCandidate(dom uint32, rng *rand.Rand) int {
	candidates := make([]int, 0, bits.OnesCount32(dom))
	for j := 0; j < len(Tileset); j++ {
		if dom&(1<<j) != 0 {
			candidates = append(candidates, j)
		}
	}
	return candidates[rng.IntN(len(candidates))]
}

// propagate narrows neighbor domains breadth-first starting from the queued
// cells. Each neighbor keeps only tiles compatible with at least one
// remaining candidate of the source cell; any shrink re-enqueues the
// neighbor. Returns false on contradiction.
func propagate(domains []uint32, width, height int, queue []int) bool {
	for len(queue) > 0 {
		idx := queue[0]
		queue = queue[1:]

		x, y := idx%width, idx/width
		for d := 0; d < 4; d++ {
			nx, ny := x+dirs[d].dx, y+dirs[d].dy
			if nx < 0 || nx >= width || ny < 0 || ny >= height {
				continue
			}
			nIdx := ny*width + nx

			var allowed uint32
			for j := 0; j < len(Tileset); j++ {
				if domains[idx]&(1<<j) != 0 {
					allowed |= compat[j][d]
				}
			}

			next := domains[nIdx] & allowed
			if next == domains[nIdx] {
				continue
			}
			if next == 0 {
				return false
			}
			domains[nIdx] = next
			queue = append(queue, nIdx)
		}
	}
	return true
}

func renderRows(domains []uint32, width, height int) []string {
	rows := make([]string, height)
	for y := 0; y < height; y++ {
		line := make([]rune, width)
		for x := 0; x < width; x++ {
			line[x] = Tileset[bits.TrailingZeros32(domains[y*width+x])].Symbol
		}
		rows[y] = string(line)
	}
	return rows
}

func blankRows(width, height int) []string {
	line := make([]rune, width)
	for i := range line {
		line[i] = ' '
	}
	rows := make([]string, height)
	for y := range rows {
		rows[y] = string(line)
	}
	return rows
}

// TileFor returns the tileset entry for a symbol, for consumers that need to
// check edge predicates of a rendered grid.
func TileFor(symbol rune) (Tile, bool) {
	for _, t := range Tileset {
		if t.Symbol == symbol {
			return t, true
		}
	}
	return Tile{}, false
}
