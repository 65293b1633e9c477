package gen

import "math/rand/v2"

// maxSmoothingPasses caps the elevation smoother. The nudge rule can
// oscillate, so the cap is hit with residual jumps still present even on
// ordinary layouts, which is accepted rather than looping forever.
const maxSmoothingPasses = 50

// elevationMap holds per-tile elevation plus the BFS distance from the
// nearest room, which the smoother uses to decide which side of a jump moves.
type elevationMap struct {
	width, height int
	elev          []int
	dist          []int
	known         []bool

	// converged records whether smoothing settled before hitting its pass
	// cap. When false, neighboring tiles may still differ by more than one
	// level.
	converged bool
}

func (m *elevationMap) idx(x, y int) int { return y*m.width + x }

// at returns the elevation at (x, y), zero for unknown or out-of-range cells.
func (m *elevationMap) at(x, y int) int {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return 0
	}
	return m.elev[m.idx(x, y)]
}

// knownAt reports whether (x, y) holds a diffused elevation value.
func (m *elevationMap) knownAt(x, y int) bool {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return false
	}
	return m.known[m.idx(x, y)]
}

// assignRoomElevations samples an elevation for every room, uniform in
// [-maxElevation, maxElevation].
func assignRoomElevations(rng *rand.Rand, rooms []Room, maxElevation int) {
	if maxElevation < 0 {
		maxElevation = 0
	}
	for i := range rooms {
		e := rng.IntN(2*maxElevation+1) - maxElevation
		rooms[i].Elevation = &e
	}
}

// diffuseElevation assigns every floor tile an elevation: room tiles take
// their room's value, and corridor tiles take the value of the nearest room
// by tile distance via multi-source BFS (ties by first write). It then runs
// bounded smoothing so neighboring tiles rarely differ by more than one level.
func diffuseElevation(g *Grid, rooms []Room) *elevationMap {
	m := &elevationMap{
		width:  g.Width,
		height: g.Height,
		elev:   make([]int, g.Width*g.Height),
		dist:   make([]int, g.Width*g.Height),
		known:  make([]bool, g.Width*g.Height),
	}

	// Seed the frontier with every room floor tile.
	type cell struct{ x, y int }
	var queue []cell
	for _, r := range rooms {
		e := 0
		if r.Elevation != nil {
			e = *r.Elevation
		}
		for y := r.Y; y < r.Y+r.H; y++ {
			for x := r.X; x < r.X+r.W; x++ {
				if !g.IsFloor(x, y) || m.known[m.idx(x, y)] {
					continue
				}
				i := m.idx(x, y)
				m.elev[i] = e
				m.dist[i] = 0
				m.known[i] = true
				queue = append(queue, cell{x, y})
			}
		}
	}

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		i := m.idx(c.x, c.y)
		for _, d := range cardinal {
			nx, ny := c.x+d.dx, c.y+d.dy
			if !g.IsFloor(nx, ny) || m.knownAt(nx, ny) {
				continue
			}
			ni := m.idx(nx, ny)
			m.elev[ni] = m.elev[i]
			m.dist[ni] = m.dist[i] + 1
			m.known[ni] = true
			queue = append(queue, cell{nx, ny})
		}
	}

	m.converged = smoothElevation(g, m)
	return m
}

// smoothElevation scans the grid up to maxSmoothingPasses times. A tile whose
// neighbor differs by more than one level, and whose own room distance is at
// least the neighbor's, is nudged one step toward that neighbor. Stops early
// once a full pass makes no change, and reports whether that happened before
// the cap.
func smoothElevation(g *Grid, m *elevationMap) bool {
	for pass := 0; pass < maxSmoothingPasses; pass++ {
		changed := false
		for y := 0; y < m.height; y++ {
			for x := 0; x < m.width; x++ {
				if !g.IsFloor(x, y) {
					continue
				}
				i := m.idx(x, y)
				for _, d := range cardinal {
					nx, ny := x+d.dx, y+d.dy
					if !g.IsFloor(nx, ny) {
						continue
					}
					ni := m.idx(nx, ny)
					diff := m.elev[ni] - m.elev[i]
					if diff > 1 && m.dist[i] >= m.dist[ni] {
						m.elev[i]++
						changed = true
					} else if diff < -1 && m.dist[i] >= m.dist[ni] {
						m.elev[i]--
						changed = true
					}
				}
			}
		}
		if !changed {
			return true
		}
	}
	return false
}
