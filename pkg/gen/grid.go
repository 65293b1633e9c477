package gen

// Tile symbols for the base grid.
const (
	// TileWall marks an impassable cell.
	TileWall = byte('#')
	// TileFloor marks a passable cell.
	TileFloor = byte('.')
)

// Grid is a row-major 2D buffer of wall/floor cells. It is the substrate
// every carving operation mutates; classification and diffusion read it.
type Grid struct {
	Width  int
	Height int
	cells  []byte
}

// NewGrid returns a grid of the given size filled with wall.
func NewGrid(width, height int) *Grid {
	g := &Grid{
		Width:  width,
		Height: height,
		cells:  make([]byte, width*height),
	}
	for i := range g.cells {
		g.cells[i] = TileWall
	}
	return g
}

// InBounds reports whether (x, y) lies on the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// IsFloor reports whether (x, y) is a floor cell. Out-of-bounds cells count
// as wall.
func (g *Grid) IsFloor(x, y int) bool {
	return g.InBounds(x, y) && g.cells[y*g.Width+x] == TileFloor
}

// SetFloor carves (x, y) to floor. Out-of-bounds writes are ignored, so
// carving helpers never need their own bounds checks.
func (g *Grid) SetFloor(x, y int) {
	if g.InBounds(x, y) {
		g.cells[y*g.Width+x] = TileFloor
	}
}

// Rows renders the grid as one string per row.
func (g *Grid) Rows() []string {
	rows := make([]string, g.Height)
	for y := 0; y < g.Height; y++ {
		rows[y] = string(g.cells[y*g.Width : (y+1)*g.Width])
	}
	return rows
}

// passableNeighbors counts the floor cells among the 4-neighbors of (x, y).
func (g *Grid) passableNeighbors(x, y int) int {
	n := 0
	for _, d := range cardinal {
		if g.IsFloor(x+d.dx, y+d.dy) {
			n++
		}
	}
	return n
}

// cardinal lists the 4-neighbor offsets indexed by tiles.Direction order:
// north, east, south, west.
var cardinal = [4]struct{ dx, dy int }{
	{0, -1},
	{1, 0},
	{0, 1},
	{-1, 0},
}
