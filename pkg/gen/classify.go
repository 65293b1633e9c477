package gen

import "github.com/levelforge/levelforge/pkg/tiles"

// minMergeRun is the shortest dominant downstream run that turns a cross
// junction into a merge tile.
const minMergeRun = 3

// classifyTiles converts the carved grid into a typed marble tile grid.
//
// The first pass derives a base tile for every floor cell from its passable
// 4-neighbors. A second pass layers heuristic substitutions (Y-junctions,
// merges, one-way gates, loops, half-pipes, launch pads) onto the base
// classification, and a final pass inserts slopes wherever a one-level
// elevation step remains.
func classifyTiles(g *Grid, m *elevationMap, elevation bool) [][]tiles.MarbleTile {
	out := make([][]tiles.MarbleTile, g.Height)
	for y := 0; y < g.Height; y++ {
		out[y] = make([]tiles.MarbleTile, g.Width)
		for x := 0; x < g.Width; x++ {
			out[y][x] = baseTile(g, m, x, y)
		}
	}

	applyAdvancedTiles(g, m, out, elevation)
	if elevation {
		applySlopes(g, m, out)
	}
	return out
}

// baseTile classifies a single cell from its neighbor connectivity.
func baseTile(g *Grid, m *elevationMap, x, y int) tiles.MarbleTile {
	if !g.IsFloor(x, y) {
		return tiles.NewEmpty()
	}

	var mask uint8
	count := 0
	for d := 0; d < 4; d++ {
		if g.IsFloor(x+cardinal[d].dx, y+cardinal[d].dy) {
			mask |= 1 << d
			count++
		}
	}

	elev := 0
	if m != nil {
		elev = m.at(x, y)
	}

	var t tiles.TileType
	rotation := 0
	switch count {
	case 0, 1:
		t = tiles.OpenPlatform
	case 2:
		t, rotation = twoWayTile(mask)
	case 3:
		t = tiles.TJunction
		rotation = missingDirection(mask)
	default:
		t = tiles.CrossJunction
	}

	return tiles.NewWith(t, elev, rotation, t.HasDefaultWalls())
}

// twoWayTile resolves a cell with exactly two passable neighbors into a
// straight (opposite pair) or a curve, with the rotation matching the pair.
func twoWayTile(mask uint8) (tiles.TileType, int) {
	const (
		n = 1 << 0
		e = 1 << 1
		s = 1 << 2
		w = 1 << 3
	)
	switch mask {
	case n | s:
		return tiles.Straight, 0
	case e | w:
		return tiles.Straight, 1
	case n | e:
		return tiles.Curve90, 0
	case e | s:
		return tiles.Curve90, 1
	case s | w:
		return tiles.Curve90, 2
	default: // w | n
		return tiles.Curve90, 3
	}
}

// missingDirection returns the index of the one direction absent from mask.
func missingDirection(mask uint8) int {
	for d := 0; d < 4; d++ {
		if mask&(1<<d) == 0 {
			return d
		}
	}
	return 0
}

// applyAdvancedTiles layers the heuristic substitutions over the base grid,
// in a fixed order. Each rule replaces only its named base type, so tiles
// already promoted by an earlier rule are left alone.
func applyAdvancedTiles(g *Grid, m *elevationMap, out [][]tiles.MarbleTile, elevation bool) {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			switch out[y][x].Type {
			case tiles.TJunction:
				if hasSmoothMergeDiagonal(g, x, y, out[y][x].Rotation) {
					out[y][x].Type = tiles.YJunction
				}
			case tiles.CrossJunction:
				if dir, ok := dominantOutput(g, x, y); ok {
					out[y][x].Type = tiles.Merge
					out[y][x].Rotation = dir
				}
			}
		}
	}

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			t := &out[y][x]
			switch t.Type {
			case tiles.Straight:
				switch {
				case isNarrowPassage(g, x, y, t.Rotation):
					t.Type = tiles.OneWayGate
					t.HasWalls = true
				case elevation && hasElevationJump(g, m, x, y, 2):
					t.Type = tiles.LoopDeLoop
				case isDeadStart(g, x, y, t.Rotation):
					t.Type = tiles.LaunchPad
					t.HasWalls = false
				}
			case tiles.Curve90:
				if elevation && hasExactElevationStep(g, m, x, y, 1) {
					t.Type = tiles.HalfPipe
					t.HasWalls = false
				}
			}
		}
	}
}

// hasSmoothMergeDiagonal reports whether a T-junction has a floor tile on one
// of the diagonals between its two side arms, suggesting traffic cuts the
// corner and a smooth Y merge fits better. rotation is the index of the
// junction's missing direction.
func hasSmoothMergeDiagonal(g *Grid, x, y, rotation int) bool {
	// Diagonals between adjacent arm pairs. With the missing direction at
	// index r, the arms are r+1, r+2, r+3 (mod 4); the candidate diagonals
	// sit between r+1/r+2 and r+2/r+3.
	for _, step := range []int{1, 2} {
		a := cardinal[(rotation+step)%4]
		b := cardinal[(rotation+step+1)%4]
		if g.IsFloor(x+a.dx+b.dx, y+a.dy+b.dy) {
			return true
		}
	}
	return false
}

// dominantOutput reports whether a cross junction has one clearly dominant
// outgoing direction: its downstream run must be at least minMergeRun tiles
// and strictly longer than every other direction's run, with at least three
// directions flowing at all.
func dominantOutput(g *Grid, x, y int) (int, bool) {
	var runs [4]int
	nonzero := 0
	for d := 0; d < 4; d++ {
		runs[d] = downstreamRun(g, x, y, d)
		if runs[d] > 0 {
			nonzero++
		}
	}
	if nonzero < 3 {
		return 0, false
	}

	best := 0
	for d := 1; d < 4; d++ {
		if runs[d] > runs[best] {
			best = d
		}
	}
	if runs[best] < minMergeRun {
		return 0, false
	}
	for d := 0; d < 4; d++ {
		if d != best && runs[d] == runs[best] {
			return 0, false
		}
	}
	return best, true
}

// downstreamRun counts consecutive corridor tiles (floor with exactly two
// passable neighbors) in one direction, stopping at the next junction, dead
// end, or wall.
func downstreamRun(g *Grid, x, y, dir int) int {
	run := 0
	cx, cy := x, y
	for {
		cx += cardinal[dir].dx
		cy += cardinal[dir].dy
		if !g.IsFloor(cx, cy) {
			return run
		}
		if g.passableNeighbors(cx, cy) != 2 {
			return run
		}
		run++
	}
}

// isNarrowPassage reports whether a straight tile sits in a strict one-tile
// pinch: both lateral sides and all four diagonals are wall, while the tiles
// ahead and behind are open.
func isNarrowPassage(g *Grid, x, y, rotation int) bool {
	ahead := cardinal[rotation%4]
	behind := cardinal[(rotation+2)%4]
	left := cardinal[(rotation+3)%4]
	right := cardinal[(rotation+1)%4]

	if !g.IsFloor(x+ahead.dx, y+ahead.dy) || !g.IsFloor(x+behind.dx, y+behind.dy) {
		return false
	}
	if g.IsFloor(x+left.dx, y+left.dy) || g.IsFloor(x+right.dx, y+right.dy) {
		return false
	}
	for _, dy := range []int{-1, 1} {
		for _, dx := range []int{-1, 1} {
			if g.IsFloor(x+dx, y+dy) {
				return false
			}
		}
	}
	return true
}

// isDeadStart reports whether a straight tile has open floor ahead but none
// behind, marking the start of a run.
func isDeadStart(g *Grid, x, y, rotation int) bool {
	ahead := cardinal[rotation%4]
	behind := cardinal[(rotation+2)%4]
	return g.IsFloor(x+ahead.dx, y+ahead.dy) && !g.IsFloor(x+behind.dx, y+behind.dy)
}

// hasElevationJump reports whether any floor neighbor differs in elevation by
// at least minDiff levels.
func hasElevationJump(g *Grid, m *elevationMap, x, y, minDiff int) bool {
	if m == nil {
		return false
	}
	here := m.at(x, y)
	for _, d := range cardinal {
		nx, ny := x+d.dx, y+d.dy
		if !g.IsFloor(nx, ny) {
			continue
		}
		diff := m.at(nx, ny) - here
		if diff >= minDiff || diff <= -minDiff {
			return true
		}
	}
	return false
}

// hasExactElevationStep reports whether any floor neighbor differs in
// elevation by exactly step levels.
func hasExactElevationStep(g *Grid, m *elevationMap, x, y, step int) bool {
	if m == nil {
		return false
	}
	here := m.at(x, y)
	for _, d := range cardinal {
		nx, ny := x+d.dx, y+d.dy
		if !g.IsFloor(nx, ny) {
			continue
		}
		diff := m.at(nx, ny) - here
		if diff == step || diff == -step {
			return true
		}
	}
	return false
}

// applySlopes converts remaining straight, open-platform, and cross tiles
// into slopes wherever a neighbor sits exactly one level away. Rotation
// records the axis of the step: 0 for vertical, 1 for horizontal.
func applySlopes(g *Grid, m *elevationMap, out [][]tiles.MarbleTile) {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			t := &out[y][x]
			switch t.Type {
			case tiles.Straight, tiles.OpenPlatform, tiles.CrossJunction:
			default:
				continue
			}
			here := m.at(x, y)
			for d := 0; d < 4; d++ {
				nx, ny := x+cardinal[d].dx, y+cardinal[d].dy
				if !g.IsFloor(nx, ny) {
					continue
				}
				diff := m.at(nx, ny) - here
				if diff != 1 && diff != -1 {
					continue
				}
				t.Type = tiles.Slope
				t.HasWalls = true
				if d == 1 || d == 3 { // east or west
					t.Rotation = 1
				} else {
					t.Rotation = 0
				}
				break
			}
		}
	}
}
