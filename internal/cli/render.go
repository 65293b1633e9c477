package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/levelforge/levelforge/pkg/errors"
	"github.com/levelforge/levelforge/pkg/gen"
	"github.com/levelforge/levelforge/pkg/render/ascii"
	"github.com/levelforge/levelforge/pkg/render/iso"
	"github.com/levelforge/levelforge/pkg/render/roomgraph"
	"github.com/levelforge/levelforge/pkg/render/sink"
	"github.com/levelforge/levelforge/pkg/store"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file path (or base path for multiple formats)
	formats  []string // output formats: ascii, json, yaml, html, svg
	detailed bool     // include room size and elevation in the room graph
	marble   bool     // use the marble tile view for ASCII output
}

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{"ascii": true, "json": true, "yaml": true, "html": true, "svg": true}

// renderCommand creates the render command for re-rendering saved or
// exported levels. The argument is either a stored level ID or a path to a
// level JSON/YAML file.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [level-id|file]",
		Short: "Render a saved or exported level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): ascii (default), json, yaml, html, svg (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include room size and elevation in the room graph")
	cmd.Flags().BoolVar(&opts.marble, "marble-view", false, "use the marble tile view for ASCII output")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["ascii"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{"ascii"}
	}
	return strings.Split(s, ",")
}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be 'ascii', 'json', 'yaml', 'html', or 'svg')", f)
		}
	}
	return nil
}

// runRender loads the level and renders it to every requested format.
func (c *CLI) runRender(cmd *cobra.Command, source string, opts *renderOpts) error {
	level, err := c.loadLevel(cmd, source)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded level", "size", fmt.Sprintf("%dx%d", level.Width, level.Height), "rooms", len(level.Rooms))

	for _, format := range opts.formats {
		if err := c.renderFormat(level, format, source, opts); err != nil {
			return fmt.Errorf("%s: %w", format, err)
		}
	}
	return nil
}

// loadLevel resolves the argument as a file path first, then as a stored
// level ID.
func (c *CLI) loadLevel(cmd *cobra.Command, source string) (*gen.Level, error) {
	if _, err := os.Stat(source); err == nil {
		f, err := os.Open(source)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		switch filepath.Ext(source) {
		case ".yaml", ".yml":
			return sink.ReadYAML(f)
		default:
			return sink.ReadJSON(f)
		}
	}

	if err := errors.ValidateLevelID(source); err != nil {
		return nil, err
	}

	st, err := newStore()
	if err != nil {
		return nil, err
	}
	defer st.Close(cmd.Context())

	rec, err := st.Get(cmd.Context(), source)
	if err == store.ErrNotFound {
		return nil, errors.New(errors.ErrCodeLevelNotFound, "no file or stored level named %s", source)
	}
	if err != nil {
		return nil, err
	}
	return rec.Level, nil
}

// renderFormat renders one format and writes it to the derived output path,
// or to stdout for ASCII with no explicit output.
func (c *CLI) renderFormat(level *gen.Level, format, source string, opts *renderOpts) error {
	var data []byte
	var err error

	switch format {
	case "ascii":
		out := ascii.Render(level)
		if opts.marble && level.MarbleTiles != nil {
			out = ascii.RenderMarble(level)
		}
		if opts.output == "" {
			fmt.Println(out)
			return nil
		}
		data = []byte(out + "\n")
	case "json":
		data, err = sink.RenderJSON(level)
	case "yaml":
		data, err = sink.RenderYAML(level)
	case "html":
		data = iso.RenderHTML(level)
	case "svg":
		dot := roomgraph.ToDOT(level, roomgraph.Options{Detailed: opts.detailed})
		data, err = roomgraph.RenderSVG(dot)
	}
	if err != nil {
		return err
	}

	path := outputPath(opts.output, source, format, len(opts.formats) > 1)
	if err := writeFile(path, data); err != nil {
		return err
	}
	printFile(path)
	return nil
}

// outputPath derives the file path for one format. With multiple formats the
// output flag acts as a base path and each format gets its own extension.
func outputPath(output, source, format string, multi bool) string {
	ext := format
	if format == "ascii" {
		ext = "txt"
	}

	if output == "" {
		base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
		return base + "." + ext
	}
	if !multi {
		return output
	}
	return strings.TrimSuffix(output, filepath.Ext(output)) + "." + ext
}
