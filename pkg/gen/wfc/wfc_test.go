package wfc

import (
	"math/rand/v2"
	"strings"
	"testing"
)

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func TestSolveShape(t *testing.T) {
	rows := Solve(20, 8, newRNG(1))

	if len(rows) != 8 {
		t.Fatalf("rows = %d", len(rows))
	}
	for i, row := range rows {
		if n := len([]rune(row)); n != 20 {
			t.Errorf("row %d has %d cells", i, n)
		}
	}
}

func TestSolveDeterministic(t *testing.T) {
	a := Solve(25, 10, newRNG(42))
	b := Solve(25, 10, newRNG(42))

	if strings.Join(a, "\n") != strings.Join(b, "\n") {
		t.Error("same seed should produce the same maze")
	}
}

func TestSolveUsesTilesetSymbols(t *testing.T) {
	valid := make(map[rune]bool, len(Tileset))
	for _, tile := range Tileset {
		valid[tile.Symbol] = true
	}

	for _, row := range Solve(30, 12, newRNG(7)) {
		for _, r := range row {
			if !valid[r] {
				t.Fatalf("unknown symbol %q in output", r)
			}
		}
	}
}

// TestSolveEdgesMatch checks the core invariant: adjacent tiles agree on
// whether their shared edge is a connection, and no connection points off
// the grid.
func TestSolveEdgesMatch(t *testing.T) {
	for _, seed := range []uint64{3, 99, 2024} {
		rows := Solve(24, 10, newRNG(seed))

		grid := make([][]Tile, len(rows))
		for y, row := range rows {
			for _, r := range row {
				tile, ok := TileFor(r)
				if !ok {
					t.Fatalf("seed %d: unknown symbol %q", seed, r)
				}
				grid[y] = append(grid[y], tile)
			}
		}

		height := len(grid)
		width := len(grid[0])
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				tile := grid[y][x]
				for d, off := range dirs {
					nx, ny := x+off.dx, y+off.dy
					if nx < 0 || ny < 0 || nx >= width || ny >= height {
						if tile.Edges[d] {
							t.Fatalf("seed %d: tile %q at (%d,%d) connects off-grid", seed, tile.Symbol, x, y)
						}
						continue
					}
					neighbor := grid[ny][nx]
					if tile.Edges[d] != neighbor.Edges[opposite(d)] {
						t.Fatalf("seed %d: edge mismatch between %q (%d,%d) and %q (%d,%d)",
							seed, tile.Symbol, x, y, neighbor.Symbol, nx, ny)
					}
				}
			}
		}
	}
}

func TestBlankRowsFallbackShape(t *testing.T) {
	rows := blankRows(5, 3)
	if len(rows) != 3 {
		t.Fatalf("rows = %d", len(rows))
	}
	for _, row := range rows {
		if row != "     " {
			t.Errorf("fallback row = %q", row)
		}
	}
}

func TestTileFor(t *testing.T) {
	tile, ok := TileFor('┼')
	if !ok {
		t.Fatal("cross tile should exist")
	}
	for d := 0; d < 4; d++ {
		if !tile.Edges[d] {
			t.Errorf("cross tile should connect on side %d", d)
		}
	}

	if _, ok := TileFor('x'); ok {
		t.Error("unknown symbol should not resolve")
	}
}

func TestCompatSymmetry(t *testing.T) {
	// If tile j may sit in direction d of tile i, then tile i may sit in the
	// opposite direction of tile j.
	for i := range Tileset {
		for d := 0; d < 4; d++ {
			for j := range Tileset {
				forward := compat[i][d]&(1<<j) != 0
				backward := compat[j][opposite(d)]&(1<<i) != 0
				if forward != backward {
					t.Fatalf("compat asymmetric: %d->%d dir %d", i, j, d)
				}
			}
		}
	}
}
