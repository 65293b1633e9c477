package gen

import "math/rand/v2"

// connectClassic joins each room to its predecessor with a one-tile-wide
// L-shaped tunnel between the two room centers. A fair coin decides whether
// the horizontal or the vertical leg is carved first.
func connectClassic(g *Grid, rng *rand.Rand, rooms []Room) {
	for i := 1; i < len(rooms); i++ {
		x1, y1 := rooms[i-1].Center()
		x2, y2 := rooms[i].Center()
		if rng.IntN(2) == 0 {
			carveHorizontal(g, x1, x2, y1)
			carveVertical(g, y1, y2, x2)
		} else {
			carveVertical(g, y1, y2, x1)
			carveHorizontal(g, x1, x2, y2)
		}
	}
}

// connectMarble joins rooms with wide channels and rounds each L-turn with a
// quarter-annulus disk so marbles can take the corner.
func connectMarble(g *Grid, rng *rand.Rand, rooms []Room, channelWidth, cornerRadius int) {
	if channelWidth < 1 {
		channelWidth = 1
	}
	if cornerRadius < 0 {
		cornerRadius = 0
	}
	for i := 1; i < len(rooms); i++ {
		x1, y1 := rooms[i-1].Center()
		x2, y2 := rooms[i].Center()
		if rng.IntN(2) == 0 {
			carveWideHorizontal(g, x1, x2, y1, channelWidth)
			carveQuarterDisk(g, x2, y1, maxInt(cornerRadius, channelWidth/2), channelWidth, quadDown)
			carveWideVertical(g, y1, y2, x2, channelWidth)
		} else {
			carveWideVertical(g, y1, y2, x1, channelWidth)
			carveQuarterDisk(g, x1, y2, maxInt(cornerRadius, channelWidth/2), channelWidth, quadRight)
			carveWideHorizontal(g, x1, x2, y2, channelWidth)
		}
	}
}

// carveHorizontal carves floor along row y from x1 to x2 inclusive.
func carveHorizontal(g *Grid, x1, x2, y int) {
	start, end := minMax(x1, x2)
	for x := start; x <= end; x++ {
		g.SetFloor(x, y)
	}
}

// carveVertical carves floor along column x from y1 to y2 inclusive.
func carveVertical(g *Grid, y1, y2, x int) {
	start, end := minMax(y1, y2)
	for y := start; y <= end; y++ {
		g.SetFloor(x, y)
	}
}

// carveWideHorizontal carves a horizontal channel of the given width centered
// on row y.
func carveWideHorizontal(g *Grid, x1, x2, y, width int) {
	start, end := minMax(x1, x2)
	half := width / 2
	for x := start; x <= end; x++ {
		for dy := -half; dy <= half; dy++ {
			g.SetFloor(x, y+dy)
		}
	}
}

// carveWideVertical carves a vertical channel of the given width centered on
// column x.
func carveWideVertical(g *Grid, y1, y2, x, width int) {
	start, end := minMax(y1, y2)
	half := width / 2
	for y := start; y <= end; y++ {
		for dx := -half; dx <= half; dx++ {
			g.SetFloor(x+dx, y)
		}
	}
}

// quadrant selects which quarter of the annulus to fill.
type quadrant int

const (
	quadUp quadrant = iota
	quadDown
	quadLeft
	quadRight
)

// carveQuarterDisk fills a quarter annulus centered at (cx, cy) to round an
// L-turn. The band spans radius±width/2; cells where
// inner² ≤ dx²+dy² ≤ outer² become floor. This approximates a rounded corner
// without a native arc primitive.
func carveQuarterDisk(g *Grid, cx, cy, radius, width int, quad quadrant) {
	if radius <= 0 {
		return
	}
	inner := radius - width/2
	if inner < 0 {
		inner = 0
	}
	outer := radius + width/2

	var xMin, xMax, yMin, yMax int
	switch quad {
	case quadDown:
		xMin, xMax, yMin, yMax = -outer, outer, 0, outer
	case quadUp:
		xMin, xMax, yMin, yMax = -outer, outer, -outer, 0
	case quadRight:
		xMin, xMax, yMin, yMax = 0, outer, -outer, outer
	case quadLeft:
		xMin, xMax, yMin, yMax = -outer, 0, -outer, outer
	}

	for dy := yMin; dy <= yMax; dy++ {
		for dx := xMin; dx <= xMax; dx++ {
			d2 := dx*dx + dy*dy
			if d2 <= outer*outer && d2 >= inner*inner {
				g.SetFloor(cx+dx, cy+dy)
			}
		}
	}
}

func minMax(a, b int) (int, int) {
	if a <= b {
		return a, b
	}
	return b, a
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
