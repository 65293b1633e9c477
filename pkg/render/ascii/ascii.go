// Package ascii renders levels as plain-text previews.
package ascii

import (
	"strings"

	"github.com/levelforge/levelforge/pkg/gen"
)

// Render returns the level's base tile grid as a newline-joined string.
func Render(level *gen.Level) string {
	return strings.Join(level.Tiles, "\n")
}

// RenderMarble returns the typed marble view when the level carries marble
// tiles, falling back to the base grid otherwise. Walled tiles render as '.',
// open tiles as '·', obstacles as 'O'.
func RenderMarble(level *gen.Level) string {
	if level.MarbleTiles == nil {
		return Render(level)
	}

	var b strings.Builder
	for y, row := range level.MarbleTiles {
		if y > 0 {
			b.WriteByte('\n')
		}
		for _, t := range row {
			b.WriteRune(t.ASCII())
		}
	}
	return b.String()
}
