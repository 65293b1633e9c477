package gen

import (
	"math/rand/v2"

	"github.com/levelforge/levelforge/pkg/tiles"
)

const (
	// minObstacleRoomArea is the smallest room, in tiles, that receives
	// obstacles at all.
	minObstacleRoomArea = 30

	// obstaclePlacementAttempts bounds the random probes per obstacle before
	// it is silently skipped.
	obstaclePlacementAttempts = 20
)

// placeObstacles scatters impassable obstacles into large rooms. Every room
// with area ≥ minObstacleRoomArea gets max(1, ⌊area × density × 0.1⌋)
// obstacles; each obstacle probes up to obstaclePlacementAttempts random
// interior positions and claims the first passable, non-obstacle tile,
// keeping the tile's elevation. Failing all probes skips that obstacle.
func placeObstacles(rng *rand.Rand, rooms []Room, out [][]tiles.MarbleTile, density float64) {
	for _, r := range rooms {
		area := r.Area()
		if area < minObstacleRoomArea {
			continue
		}

		count := int(float64(area) * density * 0.1)
		if count < 1 {
			count = 1
		}

		for i := 0; i < count; i++ {
			for attempt := 0; attempt < obstaclePlacementAttempts; attempt++ {
				x := r.X + 1 + rng.IntN(maxInt(r.W-2, 1))
				y := r.Y + 1 + rng.IntN(maxInt(r.H-2, 1))

				t := out[y][x]
				if !t.Type.Passable() {
					continue
				}
				out[y][x] = tiles.NewWith(tiles.Obstacle, t.Elevation, 0, false)
				break
			}
		}
	}
}
