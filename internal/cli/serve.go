package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tickplot/internal/server"
	"github.com/matzehuels/tickplot/pkg/buildinfo"
	"github.com/matzehuels/tickplot/pkg/cache"
	"github.com/matzehuels/tickplot/pkg/pipeline"
)

// serveCommand creates the serve command, which runs the HTTP render service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr        string
		redisAddr   string
		redisPrefix string
		noCache     bool
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render service",
		Long: `Run the HTTP render service.

POST a chart TOML to /render?format=svg|png|pdf|json to render it. The
service shares the local file cache unless --redis is given, in which case
layouts and artifacts are cached in Redis so several instances can share them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), server.Config{Addr: addr, RenderTimeout: timeout}, redisAddr, redisPrefix, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address for a shared cache (host:port)")
	cmd.Flags().StringVar(&redisPrefix, "redis-prefix", appName+":", "key prefix in Redis")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().DurationVar(&timeout, "timeout", server.DefaultRenderTimeout, "per-request render timeout")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg server.Config, redisAddr, redisPrefix string, noCache bool) error {
	var (
		store cache.Cache
		err   error
	)
	switch {
	case redisAddr != "" && !noCache:
		store, err = newRedisCache(ctx, redisAddr, redisPrefix)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		c.Logger.Info("using redis cache", "addr", redisAddr)
	default:
		store, err = newCache(noCache)
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
	}

	// Instances of different releases may share one Redis; layouts are
	// only reusable within a version.
	keyer := cache.NewScopedKeyer(nil, buildinfo.Get().Version+":")
	runner := pipeline.NewRunner(store, keyer, c.Logger)
	defer runner.Close()

	cfg.Runner = runner
	cfg.Logger = c.Logger
	printInfo("Serving on %s", StyleValue.Render(cfg.Addr))
	return server.New(cfg).ListenAndServe(ctx)
}
