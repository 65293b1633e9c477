package gen

import (
	"math/rand/v2"
	"sort"
	"strings"
	"testing"

	"github.com/levelforge/levelforge/pkg/tiles"
)

func seeded(seed uint64) *uint64 { return &seed }

func params(mode Mode, seed uint64) Params {
	p := DefaultParams()
	p.Mode = mode
	p.Seed = seeded(seed)
	return p
}

func TestGenerateDeterministic(t *testing.T) {
	for _, mode := range []Mode{ModeClassic, ModeMarble, ModeWFC} {
		t.Run(string(mode), func(t *testing.T) {
			a := Generate(params(mode, 123))
			b := Generate(params(mode, 123))

			if len(a.Tiles) != len(b.Tiles) {
				t.Fatalf("row count differs: %d vs %d", len(a.Tiles), len(b.Tiles))
			}
			for i := range a.Tiles {
				if a.Tiles[i] != b.Tiles[i] {
					t.Fatalf("row %d differs:\n%s\n%s", i, a.Tiles[i], b.Tiles[i])
				}
			}
			if len(a.Rooms) != len(b.Rooms) {
				t.Errorf("room count differs: %d vs %d", len(a.Rooms), len(b.Rooms))
			}
		})
	}
}

func TestGenerateSeedsDiffer(t *testing.T) {
	a := Generate(params(ModeClassic, 123))
	b := Generate(params(ModeClassic, 999))

	if strings.Join(a.Tiles, "\n") == strings.Join(b.Tiles, "\n") {
		t.Error("different seeds should produce different levels")
	}
}

func TestGenerateRecordsDerivedSeed(t *testing.T) {
	p := DefaultParams()
	p.Mode = ModeClassic

	level := Generate(p)

	// Re-running with the recorded seed reproduces the level.
	p.Seed = &level.Seed
	again := Generate(p)
	if strings.Join(level.Tiles, "\n") != strings.Join(again.Tiles, "\n") {
		t.Error("recorded seed should reproduce the level")
	}
}

func TestGenerateClampsParameters(t *testing.T) {
	p := Params{
		Width:   1,
		Height:  -5,
		Rooms:   3,
		MinRoom: 0,
		MaxRoom: 0,
		Mode:    Mode("bogus"),
		Seed:    seeded(7),
	}

	level := Generate(p)

	if level.Width != MinMapDim || level.Height != MinMapDim {
		t.Errorf("dimensions should clamp to %d, got %dx%d", MinMapDim, level.Width, level.Height)
	}
	if len(level.Tiles) != MinMapDim {
		t.Errorf("tile rows = %d", len(level.Tiles))
	}
	for i, row := range level.Tiles {
		if len(row) != MinMapDim {
			t.Errorf("row %d length = %d", i, len(row))
		}
	}
}

func TestGenerateZeroRooms(t *testing.T) {
	p := params(ModeClassic, 42)
	p.Rooms = 0

	level := Generate(p)
	if len(level.Rooms) != 0 {
		t.Errorf("expected no rooms, got %d", len(level.Rooms))
	}
	if level.FloorCount() != 0 {
		t.Error("a level without rooms should be solid wall")
	}
}

func TestClassicBorderIsWall(t *testing.T) {
	level := Generate(params(ModeClassic, 2024))

	top, bottom := level.Tiles[0], level.Tiles[level.Height-1]
	if strings.ContainsRune(top, '.') || strings.ContainsRune(bottom, '.') {
		t.Error("top and bottom borders should be solid wall")
	}
	for _, row := range level.Tiles {
		if row[0] == '.' || row[len(row)-1] == '.' {
			t.Error("left and right borders should be solid wall")
		}
	}
}

// reachableFloorTiles flood-fills from the first floor tile through cardinal
// moves and returns the number of reached tiles.
func reachableFloorTiles(level *Level) int {
	var sx, sy int
	found := false
	for y, row := range level.Tiles {
		for x := range row {
			if row[x] == '.' {
				sx, sy = x, y
				found = true
				break
			}
		}
		if found {
			break
		}
	}
	if !found {
		return 0
	}

	visited := make(map[[2]int]bool)
	queue := [][2]int{{sx, sy}}
	visited[[2]int{sx, sy}] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range [][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}} {
			nx, ny := cur[0]+d[0], cur[1]+d[1]
			if nx < 0 || ny < 0 || nx >= level.Width || ny >= level.Height {
				continue
			}
			key := [2]int{nx, ny}
			if visited[key] || level.Tiles[ny][nx] != '.' {
				continue
			}
			visited[key] = true
			queue = append(queue, key)
		}
	}
	return len(visited)
}

// TestClassicConnectivity checks every floor tile of a classic level is
// reachable from every other.
func TestClassicConnectivity(t *testing.T) {
	for _, seed := range []uint64{123, 999, 2024} {
		level := Generate(params(ModeClassic, seed))

		total := level.FloorCount()
		if total == 0 {
			t.Fatalf("seed %d: no floor tiles", seed)
		}
		if reached := reachableFloorTiles(level); reached != total {
			t.Errorf("seed %d: reached %d of %d floor tiles", seed, reached, total)
		}
	}
}

// TestMarbleConnectivity checks wide channels connect every floor tile at the
// default channel width. A width-1 channel can strand corner-rounding tiles,
// so that configuration is exempt.
func TestMarbleConnectivity(t *testing.T) {
	for _, seed := range []uint64{1, 123, 999, 2024, 31337} {
		level := Generate(params(ModeMarble, seed))

		total := level.FloorCount()
		if total == 0 {
			t.Fatalf("seed %d: no floor tiles", seed)
		}
		if reached := reachableFloorTiles(level); reached != total {
			t.Errorf("seed %d: reached %d of %d floor tiles", seed, reached, total)
		}
	}
}

func TestRoomsWithinBounds(t *testing.T) {
	p := params(ModeClassic, 55)
	p.Rooms = 20

	level := Generate(p)
	for _, r := range level.Rooms {
		if r.X < 1 || r.Y < 1 || r.X+r.W > level.Width-1 || r.Y+r.H > level.Height-1 {
			t.Errorf("room %+v leaves the interior of a %dx%d map", r, level.Width, level.Height)
		}
		if r.W < p.MinRoom || r.H < p.MinRoom || r.W > p.MaxRoom || r.H > p.MaxRoom {
			t.Errorf("room %+v violates size bounds [%d,%d]", r, p.MinRoom, p.MaxRoom)
		}
	}
}

func TestRoomsDoNotOverlap(t *testing.T) {
	p := params(ModeClassic, 77)
	p.Rooms = 15

	level := Generate(p)
	for i := range level.Rooms {
		for j := i + 1; j < len(level.Rooms); j++ {
			if level.Rooms[i].Intersects(level.Rooms[j]) {
				t.Errorf("rooms %d and %d overlap: %+v %+v", i, j, level.Rooms[i], level.Rooms[j])
			}
		}
	}
}

func TestMarbleRoomsSortedByCenterX(t *testing.T) {
	level := Generate(params(ModeMarble, 31))

	prev := -1
	for _, r := range level.Rooms {
		cx, _ := r.Center()
		if cx < prev {
			t.Fatalf("rooms not sorted by center x: %d after %d", cx, prev)
		}
		prev = cx
	}
}

func TestMarbleTileGrid(t *testing.T) {
	p := params(ModeMarble, 404)
	p.EnableElevation = true

	level := Generate(p)

	if level.MarbleTiles == nil {
		t.Fatal("marble mode should produce a marble tile grid")
	}
	if len(level.MarbleTiles) != level.Height {
		t.Fatalf("marble grid height = %d", len(level.MarbleTiles))
	}

	for y, row := range level.MarbleTiles {
		if len(row) != level.Width {
			t.Fatalf("marble row %d width = %d", y, len(row))
		}
		for x, tile := range row {
			if tile.Rotation < 0 || tile.Rotation > 3 {
				t.Errorf("tile (%d,%d) rotation %d out of range", x, y, tile.Rotation)
			}
			if tile.Elevation < -p.MaxElevation || tile.Elevation > p.MaxElevation {
				t.Errorf("tile (%d,%d) elevation %d exceeds bound %d", x, y, tile.Elevation, p.MaxElevation)
			}
			// Typed tiles sit exactly on carved floor.
			isFloor := level.Tiles[y][x] == '.'
			if isFloor && tile.Type == tiles.Empty {
				t.Errorf("floor tile (%d,%d) classified as empty", x, y)
			}
			if !isFloor && tile.Type != tiles.Empty {
				t.Errorf("wall tile (%d,%d) classified as %s", x, y, tile.Type)
			}
		}
	}
}

func TestMarbleElevationAssignsRooms(t *testing.T) {
	p := params(ModeMarble, 909)
	p.EnableElevation = true

	level := Generate(p)
	for i, r := range level.Rooms {
		if r.Elevation == nil {
			t.Errorf("room %d has no elevation", i)
			continue
		}
		if *r.Elevation < -p.MaxElevation || *r.Elevation > p.MaxElevation {
			t.Errorf("room %d elevation %d out of range", i, *r.Elevation)
		}
	}
}

// marbleElevations runs the marble carving pipeline for one seed and returns
// the carved grid with its diffused elevation map.
func marbleElevations(seed uint64) (*Grid, *elevationMap) {
	p := params(ModeMarble, seed)
	p.EnableElevation = true
	p = p.sanitized()

	rng := rand.New(rand.NewPCG(seed, seed))
	grid := NewGrid(p.Width, p.Height)
	rooms := placeRooms(grid, rng, p.Rooms, p.MinRoom, p.MaxRoom)
	assignRoomElevations(rng, rooms, p.MaxElevation)
	sort.SliceStable(rooms, func(i, j int) bool {
		xi, _ := rooms[i].Center()
		xj, _ := rooms[j].Center()
		return xi < xj
	})
	connectMarble(grid, rng, rooms, p.ChannelWidth, p.CornerRadius)
	return grid, diffuseElevation(grid, rooms)
}

// TestElevationSmoothingBounds pins the smoothing contract: when the smoother
// settles before its pass cap, adjacent floor tiles differ by at most one
// level; when it hits the cap, residual jumps stay within the trivial bound
// of twice the elevation range.
func TestElevationSmoothingBounds(t *testing.T) {
	maxElevation := DefaultParams().MaxElevation

	for _, seed := range []uint64{1, 123, 999, 2024, 31337} {
		grid, m := marbleElevations(seed)

		limit := 1
		if !m.converged {
			limit = 2 * maxElevation
		}

		for y := 0; y < grid.Height; y++ {
			for x := 0; x < grid.Width; x++ {
				if !grid.IsFloor(x, y) {
					continue
				}
				for _, d := range [][2]int{{1, 0}, {0, 1}} {
					nx, ny := x+d[0], y+d[1]
					if !grid.IsFloor(nx, ny) {
						continue
					}
					diff := m.at(nx, ny) - m.at(x, y)
					if diff < 0 {
						diff = -diff
					}
					if diff > limit {
						t.Errorf("seed %d: jump %d between (%d,%d) and (%d,%d), limit %d (converged=%v)",
							seed, diff, x, y, nx, ny, limit, m.converged)
					}
				}
			}
		}
	}
}

// TestElevationSmoothingCorridor lays a straight corridor between two rooms
// three levels apart: the smoother settles into a gradient where no adjacent
// pair differs by more than one.
func TestElevationSmoothingCorridor(t *testing.T) {
	grid := NewGrid(20, 9)

	low, high := 0, 3
	rooms := []Room{
		{X: 1, Y: 3, W: 4, H: 4, Elevation: &low},
		{X: 13, Y: 3, W: 4, H: 4, Elevation: &high},
	}
	for _, r := range rooms {
		for y := r.Y; y < r.Y+r.H; y++ {
			for x := r.X; x < r.X+r.W; x++ {
				grid.SetFloor(x, y)
			}
		}
	}
	for x := 5; x < 13; x++ {
		grid.SetFloor(x, 5)
	}

	m := diffuseElevation(grid, rooms)
	if !m.converged {
		t.Fatal("expected smoothing to settle before the pass cap")
	}

	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			if !grid.IsFloor(x, y) {
				continue
			}
			for _, d := range [][2]int{{1, 0}, {0, 1}} {
				nx, ny := x+d[0], y+d[1]
				if !grid.IsFloor(nx, ny) {
					continue
				}
				diff := m.at(nx, ny) - m.at(x, y)
				if diff < -1 || diff > 1 {
					t.Errorf("jump %d between (%d,%d) and (%d,%d)", diff, x, y, nx, ny)
				}
			}
		}
	}
}

func TestMarbleElevationDisabledByDefault(t *testing.T) {
	level := Generate(params(ModeMarble, 11))
	for y, row := range level.MarbleTiles {
		for x, tile := range row {
			if tile.Elevation != 0 {
				t.Fatalf("tile (%d,%d) has elevation %d with elevation disabled", x, y, tile.Elevation)
			}
			if tile.Type == tiles.Slope {
				t.Fatalf("slope at (%d,%d) with elevation disabled", x, y)
			}
		}
	}
}

func TestMarbleObstacles(t *testing.T) {
	p := params(ModeMarble, 600)
	p.EnableObstacles = true
	p.ObstacleDensity = 1.0
	p.MinRoom = 6
	p.MaxRoom = 9

	level := Generate(p)

	count := 0
	for y, row := range level.MarbleTiles {
		for x, tile := range row {
			if tile.Type != tiles.Obstacle {
				continue
			}
			count++
			// Obstacles only replace carved interior, never walls.
			if level.Tiles[y][x] != '.' {
				t.Errorf("obstacle at (%d,%d) sits on a wall", x, y)
			}
		}
	}
	if count == 0 {
		t.Error("expected at least one obstacle at full density")
	}
}

func TestWFCLevelShape(t *testing.T) {
	p := params(ModeWFC, 321)
	p.Width = 30
	p.Height = 12

	level := Generate(p)

	if len(level.Rooms) != 0 {
		t.Error("maze levels have no rooms")
	}
	if len(level.Tiles) != 12 {
		t.Fatalf("rows = %d", len(level.Tiles))
	}
	for i, row := range level.Tiles {
		if len([]rune(row)) != 30 {
			t.Errorf("row %d has %d cells", i, len([]rune(row)))
		}
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		input string
		want  Mode
		ok    bool
	}{
		{"classic", ModeClassic, true},
		{"dungeon", ModeClassic, true},
		{"marble", ModeMarble, true},
		{"marbles", ModeMarble, true},
		{"wfc", ModeWFC, true},
		{"wave", ModeWFC, true},
		{"maze", ModeWFC, true},
		{"spiral", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseMode(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseMode(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRoomCenter(t *testing.T) {
	r := Room{X: 2, Y: 3, W: 5, H: 4}
	cx, cy := r.Center()
	if cx != 4 || cy != 5 {
		t.Errorf("Center() = (%d,%d), want (4,5)", cx, cy)
	}
}

func TestRoomIntersects(t *testing.T) {
	a := Room{X: 0, Y: 0, W: 4, H: 4}
	tests := []struct {
		b    Room
		want bool
	}{
		{Room{X: 2, Y: 2, W: 4, H: 4}, true},
		{Room{X: 4, Y: 0, W: 3, H: 3}, false}, // touching edge
		{Room{X: 10, Y: 10, W: 2, H: 2}, false},
	}
	for _, tt := range tests {
		if got := a.Intersects(tt.b); got != tt.want {
			t.Errorf("Intersects(%+v) = %v, want %v", tt.b, got, tt.want)
		}
	}
}
