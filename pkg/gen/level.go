package gen

import "github.com/levelforge/levelforge/pkg/tiles"

// Room is an axis-aligned rectangular room on the tile grid.
type Room struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
	W int `json:"w" yaml:"w"`
	H int `json:"h" yaml:"h"`

	// Elevation is the room's height level. Set only in marble mode with
	// elevation enabled.
	Elevation *int `json:"elevation,omitempty" yaml:"elevation,omitempty"`
}

// Center returns the integer center of the room (floor division).
func (r Room) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Area returns the number of tiles the room covers.
func (r Room) Area() int {
	return r.W * r.H
}

// Intersects reports whether this room overlaps another.
func (r Room) Intersects(other Room) bool {
	return !(r.X+r.W <= other.X || other.X+other.W <= r.X ||
		r.Y+r.H <= other.Y || other.Y+other.H <= r.Y)
}

// expand grows the room by margin tiles on every side.
func (r Room) expand(margin int) Room {
	return Room{
		X: r.X - margin,
		Y: r.Y - margin,
		W: r.W + 2*margin,
		H: r.H + 2*margin,
	}
}

// intersectsWithMargin reports whether r, expanded by margin tiles, overlaps other.
func (r Room) intersectsWithMargin(other Room, margin int) bool {
	return r.expand(margin).Intersects(other)
}

// Level is a fully generated level. It is owned by the caller once returned
// and is never mutated afterwards.
type Level struct {
	// Width and Height are the level dimensions in tiles.
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`

	// Seed is the RNG seed the level was generated from. Regenerating with
	// the same seed and parameters reproduces the level exactly.
	Seed uint64 `json:"seed" yaml:"seed"`

	// Rooms lists the placed rooms, sorted by center x. Empty in WFC mode.
	Rooms []Room `json:"rooms" yaml:"rooms"`

	// Tiles is the grid as rows of single-character symbols. Classic and
	// marble levels use '#' for wall and '.' for floor; WFC levels use
	// box-drawing characters.
	Tiles []string `json:"tiles" yaml:"tiles"`

	// MarbleTiles is the richly typed tile grid, present only in marble mode.
	MarbleTiles [][]tiles.MarbleTile `json:"marble_tiles,omitempty" yaml:"marble_tiles,omitempty"`
}

// FloorCount returns the number of passable tiles in the base grid.
func (l *Level) FloorCount() int {
	n := 0
	for _, row := range l.Tiles {
		for _, c := range row {
			if c == rune(TileFloor) {
				n++
			}
		}
	}
	return n
}
