package ascii

import (
	"strings"
	"testing"

	"github.com/levelforge/levelforge/pkg/gen"
	"github.com/levelforge/levelforge/pkg/tiles"
)

func TestRenderJoinsRows(t *testing.T) {
	level := &gen.Level{Tiles: []string{"###", "#.#", "###"}}
	got := Render(level)
	want := "###\n#.#\n###"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderMarbleFallsBack(t *testing.T) {
	level := &gen.Level{Tiles: []string{"##", "##"}}
	if got := RenderMarble(level); got != "##\n##" {
		t.Errorf("RenderMarble without tile data = %q", got)
	}
}

func TestRenderMarbleGlyphs(t *testing.T) {
	level := &gen.Level{
		Tiles: []string{"##", "##"},
		MarbleTiles: [][]tiles.MarbleTile{
			{tiles.NewEmpty(), tiles.New(tiles.Straight)},
			{tiles.New(tiles.OpenPlatform), tiles.New(tiles.Obstacle)},
		},
	}
	got := RenderMarble(level)
	want := "#.\n·O"
	if got != want {
		t.Errorf("RenderMarble = %q, want %q", got, want)
	}
	if strings.Count(got, "\n") != 1 {
		t.Errorf("expected a single row separator in %q", got)
	}
}

func TestRenderMarbleGenerated(t *testing.T) {
	seed := uint64(7)
	p := gen.DefaultParams()
	p.Mode = gen.ModeMarble
	p.Width, p.Height = 40, 20
	p.Seed = &seed

	level := gen.Generate(p)
	out := RenderMarble(level)

	rows := strings.Split(out, "\n")
	if len(rows) != level.Height {
		t.Fatalf("got %d rows, want %d", len(rows), level.Height)
	}
	for i, row := range rows {
		if n := len([]rune(row)); n != level.Width {
			t.Errorf("row %d has %d runes, want %d", i, n, level.Width)
		}
	}
}
