package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/levelforge/levelforge/pkg/gen"
)

// Config holds user defaults loaded from ~/.config/levelforge/config.toml.
// Every field is optional; absent fields keep the built-in defaults. Command
// line flags override config values.
type Config struct {
	Generate GenerateConfig `toml:"generate"`
	Serve    ServeConfig    `toml:"serve"`
}

// GenerateConfig mirrors the generate command's parameters.
type GenerateConfig struct {
	Width           *int     `toml:"width"`
	Height          *int     `toml:"height"`
	Rooms           *int     `toml:"rooms"`
	MinRoom         *int     `toml:"min_room"`
	MaxRoom         *int     `toml:"max_room"`
	Mode            *string  `toml:"mode"`
	ChannelWidth    *int     `toml:"channel_width"`
	CornerRadius    *int     `toml:"corner_radius"`
	Elevation       *bool    `toml:"elevation"`
	MaxElevation    *int     `toml:"max_elevation"`
	Obstacles       *bool    `toml:"obstacles"`
	ObstacleDensity *float64 `toml:"obstacle_density"`
}

// ServeConfig mirrors the serve command's parameters.
type ServeConfig struct {
	Addr     *string `toml:"addr"`
	RedisURL *string `toml:"redis_url"`
	MongoURI *string `toml:"mongo_uri"`
}

// loadConfig reads the config file at path. A missing file is not an error
// and yields an empty config; a malformed file is reported.
func loadConfig(path string) (Config, error) {
	var cfg Config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// apply overlays config values onto params. Only fields set in the config
// file change anything.
func (c GenerateConfig) apply(p *gen.Params) error {
	if c.Width != nil {
		p.Width = *c.Width
	}
	if c.Height != nil {
		p.Height = *c.Height
	}
	if c.Rooms != nil {
		p.Rooms = *c.Rooms
	}
	if c.MinRoom != nil {
		p.MinRoom = *c.MinRoom
	}
	if c.MaxRoom != nil {
		p.MaxRoom = *c.MaxRoom
	}
	if c.Mode != nil {
		mode, ok := gen.ParseMode(*c.Mode)
		if !ok {
			return fmt.Errorf("invalid mode in config: %s", *c.Mode)
		}
		p.Mode = mode
	}
	if c.ChannelWidth != nil {
		p.ChannelWidth = *c.ChannelWidth
	}
	if c.CornerRadius != nil {
		p.CornerRadius = *c.CornerRadius
	}
	if c.Elevation != nil {
		p.EnableElevation = *c.Elevation
	}
	if c.MaxElevation != nil {
		p.MaxElevation = *c.MaxElevation
	}
	if c.Obstacles != nil {
		p.EnableObstacles = *c.Obstacles
	}
	if c.ObstacleDensity != nil {
		p.ObstacleDensity = *c.ObstacleDensity
	}
	return nil
}
