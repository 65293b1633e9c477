package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/levelforge/levelforge/internal/api"
	"github.com/levelforge/levelforge/pkg/cache"
	"github.com/levelforge/levelforge/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr     string // listen address
	redisURL string // Redis URL for the artifact cache
	mongoURI string // MongoDB URI for level storage
	cacheTTL time.Duration
	config   string // config file path override
}

// serveCommand creates the serve command, exposing generation over HTTP.
// Without --mongo-uri levels are held in memory; without --redis-url rendered
// artifacts are not cached.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the level generation HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&opts.redisURL, "redis-url", "", "Redis URL for the artifact cache (e.g. redis://localhost:6379)")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "MongoDB URI for level storage (e.g. mongodb://localhost:27017)")
	cmd.Flags().DurationVar(&opts.cacheTTL, "cache-ttl", time.Hour, "TTL for cached rendered artifacts")
	cmd.Flags().StringVar(&opts.config, "config", "", "config file (default ~/.config/levelforge/config.toml)")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts *serveOpts) error {
	ctx := cmd.Context()

	if err := c.applyServeConfig(cmd, opts); err != nil {
		return err
	}

	var st store.Store
	if opts.mongoURI != "" {
		mongoStore, err := store.NewMongoStore(ctx, store.MongoConfig{URI: opts.mongoURI})
		if err != nil {
			return err
		}
		st = mongoStore
		c.Logger.Info("using mongodb level store")
	} else {
		st = store.NewMemoryStore()
		c.Logger.Warn("no --mongo-uri given, levels are held in memory only")
	}
	defer st.Close(ctx)

	var artifactCache cache.Cache
	if opts.redisURL != "" {
		redisCache, err := cache.NewRedisCache(ctx, opts.redisURL)
		if err != nil {
			return err
		}
		artifactCache = redisCache
		c.Logger.Info("using redis artifact cache")
	} else {
		artifactCache = cache.NewNullCache()
	}
	defer artifactCache.Close()

	server := api.New(api.Config{
		Addr:     opts.addr,
		Store:    st,
		Cache:    artifactCache,
		CacheTTL: opts.cacheTTL,
		Logger:   c.Logger,
	})
	return server.ListenAndServe(ctx)
}

// applyServeConfig overlays config file values under explicit flags.
func (c *CLI) applyServeConfig(cmd *cobra.Command, opts *serveOpts) error {
	path := opts.config
	if path == "" {
		p, err := configPath()
		if err != nil {
			return nil
		}
		path = p
	}

	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if cfg.Serve.Addr != nil && !flags.Changed("addr") {
		opts.addr = *cfg.Serve.Addr
	}
	if cfg.Serve.RedisURL != nil && !flags.Changed("redis-url") {
		opts.redisURL = *cfg.Serve.RedisURL
	}
	if cfg.Serve.MongoURI != nil && !flags.Changed("mongo-uri") {
		opts.mongoURI = *cfg.Serve.MongoURI
	}
	return nil
}
