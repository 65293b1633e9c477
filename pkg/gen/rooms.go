package gen

import "math/rand/v2"

// placeRooms rejection-samples up to count non-overlapping rooms into the
// grid. Each candidate is expanded by a one-tile margin for the overlap test,
// and accepted rooms are carved immediately so later candidates see current
// geometry. The attempt budget is max(10×count, 100); running out of attempts
// simply yields fewer rooms.
func placeRooms(g *Grid, rng *rand.Rand, count, minRoom, maxRoom int) []Room {
	var rooms []Room

	attempts := 10 * count
	if attempts < 100 {
		attempts = 100
	}

	for i := 0; i < attempts; i++ {
		if len(rooms) >= count {
			break
		}

		w := minRoom + rng.IntN(maxRoom-minRoom+1)
		h := minRoom + rng.IntN(maxRoom-minRoom+1)

		// Leave room for a wall border plus the placement margin.
		if w >= g.Width-4 || h >= g.Height-4 {
			continue
		}

		x := 1 + rng.IntN(g.Width-w-2)
		y := 1 + rng.IntN(g.Height-h-2)

		candidate := Room{X: x, Y: y, W: w, H: h}

		overlaps := false
		for _, r := range rooms {
			if r.intersectsWithMargin(candidate, 1) {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}

		carveRoom(g, candidate)
		rooms = append(rooms, candidate)
	}

	return rooms
}

// carveRoom fills the room rectangle with floor.
func carveRoom(g *Grid, r Room) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			g.SetFloor(x, y)
		}
	}
}
