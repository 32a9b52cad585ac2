// Package cli implements the tickplot command-line interface.
//
// Commands read a chart TOML file, run it through the shared render
// pipeline and write the results:
//   - render: Generate SVG, PNG, PDF or JSON output
//   - layout: Resolve the layout and write the snapshot JSON
//   - ticks: Print every axis' range, tick positions and labels
//   - tree: Draw the layout tree and layer stack with Graphviz
//   - inspect: Browse the resolved layout interactively
//   - serve: Run the HTTP render service
//   - cache: Manage the local render cache
//
// All commands support --verbose (-v) for debug-level logging through
// charmbracelet/log. Layouts and artifacts are cached under
// ~/.cache/tickplot unless --no-cache is given.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tickplot/pkg/buildinfo"
	"github.com/matzehuels/tickplot/pkg/cache"
	"github.com/matzehuels/tickplot/pkg/observability"
	"github.com/matzehuels/tickplot/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "tickplot"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger. Core diagnostics
// are routed to the logger at debug level.
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{Logger: newLogger(w, level)}
	observability.SetDiagnosticHooks(diagnosticLogger{c})
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "tickplot renders charts described in TOML",
		Long:         `tickplot lays out multi-panel charts with automatic margins, nice tick steps and layered drawing, and renders them to SVG, PNG, PDF or a JSON layout snapshot.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.ticksCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// newRedisCache connects to a shared Redis cache for the server.
func newRedisCache(ctx context.Context, addr, prefix string) (cache.Cache, error) {
	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
		Addr:     addr,
		Password: os.Getenv("TICKPLOT_REDIS_PASSWORD"),
		Prefix:   prefix,
	})
	if err != nil {
		return nil, err
	}
	return rc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/tickplot/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// readChart reads a chart file, or stdin when path is "-".
func readChart(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
