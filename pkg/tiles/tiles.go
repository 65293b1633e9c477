// Package tiles defines the typed tile vocabulary for marble levels.
//
// A marble level is a grid of [MarbleTile] values. Each tile carries a
// [TileType] (straight, curve, junction, slope, ...), an elevation level, a
// rotation in 90° steps, and a wall flag. Tile types have fixed connection
// templates that rotate with the tile, which is what the generator and the
// renderers use to reason about how tracks join up.
package tiles

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// TileType identifies the shape and role of a single marble tile.
type TileType int

// Tile types for marble level generation.
const (
	// Empty is unused space (wall or void).
	Empty TileType = iota
	// Straight is a straight path segment.
	Straight
	// Curve90 is a 90-degree curved turn.
	Curve90
	// TJunction is a three-way junction.
	TJunction
	// YJunction is a three-way junction with smooth merge angles.
	YJunction
	// CrossJunction is a four-way junction.
	CrossJunction
	// Slope connects two elevations differing by one level.
	Slope
	// OpenPlatform is an open area with no walls.
	OpenPlatform
	// Obstacle is a static impassable feature (pillar, bumper).
	Obstacle
	// Merge funnels multiple inputs into one output.
	Merge
	// OneWayGate allows flow in a single direction.
	OneWayGate
	// LoopDeLoop is a vertical loop section.
	LoopDeLoop
	// HalfPipe is a half-pipe section.
	HalfPipe
	// LaunchPad is a catapult start tile.
	LaunchPad
	// Bridge carries a path over another.
	Bridge
	// Tunnel carries a path under another.
	Tunnel
)

var tileTypeNames = map[TileType]string{
	Empty:         "empty",
	Straight:      "straight",
	Curve90:       "curve90",
	TJunction:     "t_junction",
	YJunction:     "y_junction",
	CrossJunction: "cross_junction",
	Slope:         "slope",
	OpenPlatform:  "open_platform",
	Obstacle:      "obstacle",
	Merge:         "merge",
	OneWayGate:    "one_way_gate",
	LoopDeLoop:    "loop_de_loop",
	HalfPipe:      "half_pipe",
	LaunchPad:     "launch_pad",
	Bridge:        "bridge",
	Tunnel:        "tunnel",
}

// String returns the snake_case name used in JSON and YAML output.
func (t TileType) String() string {
	if s, ok := tileTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler so tile types serialize as
// readable names rather than integers.
func (t TileType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, accepting the names
// produced by MarshalText.
func (t *TileType) UnmarshalText(text []byte) error {
	name := string(text)
	for tt, s := range tileTypeNames {
		if s == name {
			*t = tt
			return nil
		}
	}
	return fmt.Errorf("unknown tile type %q", name)
}

// MarshalYAML emits the tile type name rather than its numeric value, since
// YAML encoding does not go through encoding.TextMarshaler.
func (t TileType) MarshalYAML() (any, error) {
	return t.String(), nil
}

// UnmarshalYAML mirrors UnmarshalText for YAML decoding.
func (t *TileType) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err != nil {
		return err
	}
	return t.UnmarshalText([]byte(name))
}

// Passable reports whether a marble can occupy this tile.
func (t TileType) Passable() bool {
	return t != Empty && t != Obstacle
}

// HasDefaultWalls reports whether tiles of this type are walled by default.
func (t TileType) HasDefaultWalls() bool {
	switch t {
	case Straight, Curve90, TJunction, YJunction, CrossJunction, Slope, Merge, LoopDeLoop:
		return true
	}
	return false
}

// ASCII returns the single-character preview symbol for this tile type.
// Walled passable tiles render as '.', open ones as '·'.
func (t TileType) ASCII(hasWalls bool) rune {
	switch {
	case t == Empty:
		return '#'
	case t == Obstacle:
		return 'O'
	case hasWalls:
		return '.'
	default:
		return '·'
	}
}

// Direction is a cardinal connection direction on the tile grid.
type Direction int

// Cardinal directions, clockwise from north.
const (
	North Direction = iota
	East
	South
	West
)

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	}
	return "unknown"
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// Rotate turns the direction clockwise by the given number of 90° steps.
func (d Direction) Rotate(steps int) Direction {
	return Direction((int(d) + steps) % 4)
}

// connection templates before rotation, one entry per TileType
var baseConnections = map[TileType][]Direction{
	Straight:      {North, South},
	Curve90:       {North, East},
	TJunction:     {North, East, South},
	YJunction:     {North, East, South},
	CrossJunction: {North, East, South, West},
	Slope:         {North, South},
	OpenPlatform:  {North, East, South, West},
	Merge:         {North, East, West},
	OneWayGate:    {North, South},
	LoopDeLoop:    {North, South},
	HalfPipe:      {North, South},
	LaunchPad:     {North},
	Bridge:        {North, South},
	Tunnel:        {North, South},
}

// MarbleTile is one cell of a marble level.
type MarbleTile struct {
	// Type is the tile shape.
	Type TileType `json:"tile_type" yaml:"tile_type"`
	// Elevation is the height level (0 = ground, may be negative).
	Elevation int `json:"elevation" yaml:"elevation"`
	// Rotation is the clockwise rotation in 90° steps, always in [0,3].
	Rotation int `json:"rotation" yaml:"rotation"`
	// HasWalls reports whether the tile has side walls.
	HasWalls bool `json:"has_walls" yaml:"has_walls"`
	// Metadata carries optional engine-specific data.
	Metadata string `json:"metadata" yaml:"metadata,omitempty"`
}

// NewEmpty returns an empty (wall) tile.
func NewEmpty() MarbleTile {
	return MarbleTile{Type: Empty}
}

// New returns a ground-level tile of the given type with its default walls.
func New(t TileType) MarbleTile {
	return MarbleTile{Type: t, HasWalls: t.HasDefaultWalls()}
}

// NewWith returns a fully specified tile. Rotation is normalized mod 4.
func NewWith(t TileType, elevation, rotation int, hasWalls bool) MarbleTile {
	return MarbleTile{
		Type:      t,
		Elevation: elevation,
		Rotation:  ((rotation % 4) + 4) % 4,
		HasWalls:  hasWalls,
	}
}

// Connections returns the directions this tile connects in, after applying
// its rotation to the type's base template.
func (m MarbleTile) Connections() []Direction {
	base := baseConnections[m.Type]
	out := make([]Direction, len(base))
	for i, d := range base {
		out[i] = d.Rotate(m.Rotation)
	}
	return out
}

// Connects reports whether the tile connects in the given direction.
func (m MarbleTile) Connects(d Direction) bool {
	for _, c := range m.Connections() {
		if c == d {
			return true
		}
	}
	return false
}

// CompatibleWith reports whether this tile can sit next to other in the given
// direction: both facing edges must connect, and elevations must match.
// Slopes are the exception and tolerate a difference of one level.
func (m MarbleTile) CompatibleWith(other MarbleTile, d Direction) bool {
	if !m.Connects(d) {
		return false
	}
	if !other.Connects(d.Opposite()) {
		return false
	}
	if m.Type == Slope || other.Type == Slope {
		diff := m.Elevation - other.Elevation
		return diff >= -1 && diff <= 1
	}
	return m.Elevation == other.Elevation
}

// ASCII returns the preview symbol for this tile.
func (m MarbleTile) ASCII() rune {
	return m.Type.ASCII(m.HasWalls)
}
