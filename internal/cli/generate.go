package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/levelforge/levelforge/pkg/cache"
	"github.com/levelforge/levelforge/pkg/errors"
	"github.com/levelforge/levelforge/pkg/gen"
	"github.com/levelforge/levelforge/pkg/render/ascii"
	"github.com/levelforge/levelforge/pkg/render/iso"
	"github.com/levelforge/levelforge/pkg/render/roomgraph"
	"github.com/levelforge/levelforge/pkg/render/sink"
	"github.com/levelforge/levelforge/pkg/store"
)

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	width           int    // map width in tiles
	height          int    // map height in tiles
	rooms           int    // target room count
	minRoom         int    // minimum room side length
	maxRoom         int    // maximum room side length
	seed            uint64 // RNG seed (random when unset)
	mode            string // generation mode: classic, marble, wfc
	channelWidth    int    // marble channel width
	cornerRadius    int    // marble corner rounding radius
	elevation       bool   // enable elevation (marble)
	maxElevation    int    // elevation bound
	obstacles       bool   // enable obstacles (marble)
	obstacleDensity float64

	jsonPath  string // write level JSON to this path
	yamlPath  string // write level YAML to this path
	htmlPath  string // write isometric HTML view to this path
	graphPath string // write room graph SVG to this path
	printJSON bool   // print JSON to stdout
	noASCII   bool   // suppress ASCII preview
	save      bool   // persist the level in the local store
	name      string // record name for --save
	noCache   bool   // bypass the level cache
	config    string // config file path override
}

// generateCommand creates the generate command, the main entry point for
// producing levels.
func (c *CLI) generateCommand() *cobra.Command {
	var opts generateOpts

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a level",
		Long: `Generate a 2D tile level and write it to one or more outputs.

Modes:
  classic  room-and-corridor dungeon with thin L-shaped tunnels
  marble   wide rounded channels with optional elevation and obstacles
  wfc      fully connected maze solved via wave function collapse`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, &opts)
		},
	}

	cmd.Flags().IntVarP(&opts.width, "width", "w", gen.DefaultWidth, "map width in tiles")
	cmd.Flags().IntVarP(&opts.height, "height", "H", gen.DefaultHeight, "map height in tiles")
	cmd.Flags().IntVarP(&opts.rooms, "rooms", "r", gen.DefaultRooms, "target number of rooms")
	cmd.Flags().IntVarP(&opts.minRoom, "min-room", "m", gen.DefaultMinRoom, "minimum room side length")
	cmd.Flags().IntVarP(&opts.maxRoom, "max-room", "M", gen.DefaultMaxRoom, "maximum room side length")
	cmd.Flags().Uint64VarP(&opts.seed, "seed", "s", 0, "RNG seed (random when omitted)")
	cmd.Flags().StringVar(&opts.mode, "mode", string(gen.ModeClassic), "generation mode: classic, marble, wfc")
	cmd.Flags().IntVar(&opts.channelWidth, "channel-width", gen.DefaultChannelWidth, "marble channel width in tiles")
	cmd.Flags().IntVar(&opts.cornerRadius, "corner-radius", gen.DefaultCornerRadius, "marble corner rounding radius")
	cmd.Flags().BoolVar(&opts.elevation, "elevation", false, "enable per-room elevation and slopes (marble)")
	cmd.Flags().IntVar(&opts.maxElevation, "max-elevation", gen.DefaultMaxElevation, "elevation bound")
	cmd.Flags().BoolVar(&opts.obstacles, "obstacles", false, "scatter obstacles into large rooms (marble)")
	cmd.Flags().Float64Var(&opts.obstacleDensity, "obstacle-density", gen.DefaultObstacleDensity, "obstacle density in [0,1]")

	cmd.Flags().StringVarP(&opts.jsonPath, "json-path", "o", "", "write level JSON to file")
	cmd.Flags().StringVar(&opts.yamlPath, "yaml-path", "", "write level YAML to file")
	cmd.Flags().StringVar(&opts.htmlPath, "html-path", "", "write isometric HTML view to file")
	cmd.Flags().StringVar(&opts.graphPath, "graph-path", "", "write room graph SVG to file")
	cmd.Flags().BoolVar(&opts.printJSON, "print-json", false, "print level JSON to stdout")
	cmd.Flags().BoolVar(&opts.noASCII, "no-ascii", false, "suppress the ASCII preview")
	cmd.Flags().BoolVar(&opts.save, "save", false, "persist the level in the local store")
	cmd.Flags().StringVar(&opts.name, "name", "", "record name for --save")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the level cache")
	cmd.Flags().StringVar(&opts.config, "config", "", "config file (default ~/.config/levelforge/config.toml)")

	return cmd
}

// buildParams merges built-in defaults, the config file, and explicit flags,
// in that order of precedence.
func (c *CLI) buildParams(cmd *cobra.Command, opts *generateOpts) (gen.Params, error) {
	params := gen.DefaultParams()

	path := opts.config
	if path == "" {
		p, err := configPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		cfg, err := loadConfig(path)
		if err != nil {
			return params, err
		}
		if err := cfg.Generate.apply(&params); err != nil {
			return params, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		params.Width = opts.width
	}
	if flags.Changed("height") {
		params.Height = opts.height
	}
	if flags.Changed("rooms") {
		params.Rooms = opts.rooms
	}
	if flags.Changed("min-room") {
		params.MinRoom = opts.minRoom
	}
	if flags.Changed("max-room") {
		params.MaxRoom = opts.maxRoom
	}
	if flags.Changed("seed") {
		seed := opts.seed
		params.Seed = &seed
	}
	if flags.Changed("mode") {
		mode, ok := gen.ParseMode(opts.mode)
		if !ok {
			return params, errors.New(errors.ErrCodeInvalidMode, "invalid mode: %s (must be 'classic', 'marble', or 'wfc')", opts.mode)
		}
		params.Mode = mode
	}
	if flags.Changed("channel-width") {
		params.ChannelWidth = opts.channelWidth
	}
	if flags.Changed("corner-radius") {
		params.CornerRadius = opts.cornerRadius
	}
	if flags.Changed("elevation") {
		params.EnableElevation = opts.elevation
	}
	if flags.Changed("max-elevation") {
		params.MaxElevation = opts.maxElevation
	}
	if flags.Changed("obstacles") {
		params.EnableObstacles = opts.obstacles
	}
	if flags.Changed("obstacle-density") {
		params.ObstacleDensity = opts.obstacleDensity
	}

	params.Logger = c.Logger
	return params, nil
}

func (c *CLI) runGenerate(cmd *cobra.Command, opts *generateOpts) error {
	ctx := cmd.Context()

	params, err := c.buildParams(cmd, opts)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)

	// Seeded runs are reproducible, so their results can come from the cache.
	level, cached, err := c.generateCached(cmd, params, opts.noCache)
	if err != nil {
		return err
	}

	prog.done(fmt.Sprintf("Generated %dx%d %s level", level.Width, level.Height, params.Mode))
	printStats(len(level.Rooms), level.FloorCount(), cached)

	if !opts.noASCII {
		fmt.Println(ascii.Render(level))
	}

	if opts.printJSON {
		data, err := sink.RenderJSON(level)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	}

	if err := c.writeOutputs(level, opts); err != nil {
		return err
	}

	if opts.save {
		st, err := newStore()
		if err != nil {
			return err
		}
		defer st.Close(ctx)

		rec := store.NewRecord(opts.name, string(params.Mode), level)
		if err := st.Put(ctx, rec); err != nil {
			return errors.Wrap(errors.ErrCodeStore, err, "failed to save level")
		}
		printSuccess("Saved level %s", rec.ID)
		printNextStep("Render it later with", fmt.Sprintf("levelforge render %s", rec.ID))
	}

	if params.Seed == nil {
		printDetail("Seed: %d (pass --seed %d to reproduce)", level.Seed, level.Seed)
	}
	return nil
}

// generateCached runs generation through the level cache when a seed is
// given. Unseeded runs are random and always computed fresh.
func (c *CLI) generateCached(cmd *cobra.Command, params gen.Params, noCache bool) (*gen.Level, bool, error) {
	ctx := cmd.Context()

	if params.Seed == nil {
		return gen.Generate(params), false, nil
	}

	lc, err := newCache(noCache)
	if err != nil {
		return nil, false, err
	}
	defer lc.Close()

	keyer := cache.NewDefaultKeyer()
	key := keyer.LevelKey(string(params.Mode), cache.LevelKeyOpts{
		Seed:            *params.Seed,
		Width:           params.Width,
		Height:          params.Height,
		Rooms:           params.Rooms,
		MinRoom:         params.MinRoom,
		MaxRoom:         params.MaxRoom,
		ChannelWidth:    params.ChannelWidth,
		CornerRadius:    params.CornerRadius,
		Elevation:       params.EnableElevation,
		MaxElevation:    params.MaxElevation,
		Obstacles:       params.EnableObstacles,
		ObstacleDensity: params.ObstacleDensity,
	})

	if data, hit, err := lc.Get(ctx, key); err == nil && hit {
		level, err := sink.ReadJSON(bytes.NewReader(data))
		if err == nil {
			return level, true, nil
		}
		c.Logger.Debug("discarding corrupt cache entry", "key", key, "err", err)
	}

	level := gen.Generate(params)

	if data, err := sink.RenderJSON(level); err == nil {
		if err := lc.Set(ctx, key, data, 30*24*time.Hour); err != nil {
			c.Logger.Debug("cache write failed", "err", err)
		}
	}
	return level, false, nil
}

// writeOutputs writes the requested file outputs.
func (c *CLI) writeOutputs(level *gen.Level, opts *generateOpts) error {
	if opts.jsonPath != "" {
		data, err := sink.RenderJSON(level)
		if err != nil {
			return err
		}
		if err := writeFile(opts.jsonPath, data); err != nil {
			return err
		}
		printFile(opts.jsonPath)
	}

	if opts.yamlPath != "" {
		data, err := sink.RenderYAML(level)
		if err != nil {
			return err
		}
		if err := writeFile(opts.yamlPath, data); err != nil {
			return err
		}
		printFile(opts.yamlPath)
	}

	if opts.htmlPath != "" {
		if err := writeFile(opts.htmlPath, iso.RenderHTML(level)); err != nil {
			return err
		}
		printFile(opts.htmlPath)
	}

	if opts.graphPath != "" {
		dot := roomgraph.ToDOT(level, roomgraph.Options{Detailed: true})
		svg, err := roomgraph.RenderSVG(dot)
		if err != nil {
			return errors.Wrap(errors.ErrCodeRender, err, "failed to render room graph")
		}
		if err := writeFile(opts.graphPath, svg); err != nil {
			return err
		}
		printFile(opts.graphPath)
	}

	return nil
}

// writeFile validates the path and writes data, creating parent directories.
func writeFile(path string, data []byte) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}
