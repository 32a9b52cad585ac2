package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tickplot/pkg/cache"
	"github.com/matzehuels/tickplot/pkg/chartspec"
	"github.com/matzehuels/tickplot/pkg/observability"
	"github.com/matzehuels/tickplot/pkg/plot"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)
	hooks := observability.Pipeline()

	result := &Result{
		Artifacts: make(map[string][]byte),
		ChartHash: cache.Hash(opts.Chart),
	}

	// Stage 1: Load
	loadStart := time.Now()
	hooks.OnLoadStart(ctx, result.ChartHash)
	c, err := Load(opts)
	result.Stats.LoadTime = time.Since(loadStart)
	if err != nil {
		hooks.OnLoadComplete(ctx, result.ChartHash, 0, result.Stats.LoadTime, err)
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Chart = c
	result.Stats.PanelCount = len(c.Panels)
	for _, p := range c.Panels {
		result.Stats.SeriesCount += len(p.Series)
	}
	hooks.OnLoadComplete(ctx, result.ChartHash, result.Stats.PanelCount, result.Stats.LoadTime, nil)

	r.Logger.Info("loaded chart",
		"panels", result.Stats.PanelCount,
		"series", result.Stats.SeriesCount,
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	hooks.OnLayoutStart(ctx, result.Stats.PanelCount)
	snap, layoutData, layoutHit, err := r.layout(ctx, c, result.ChartHash, opts)
	result.Stats.LayoutTime = time.Since(layoutStart)
	hooks.OnLayoutComplete(ctx, result.Stats.LayoutTime, err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Snapshot = snap
	result.LayoutHash = cache.Hash(layoutData)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"elements", len(snap.Elements),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.render(ctx, c, layoutData, result.LayoutHash, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo loads the chart and resolves its layout with caching.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, opts Options) (plot.Snapshot, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return plot.Snapshot{}, false, err
	}
	r.applyLogger(&opts)

	c, err := Load(opts)
	if err != nil {
		return plot.Snapshot{}, false, err
	}
	snap, _, hit, err := r.layout(ctx, c, cache.Hash(opts.Chart), opts)
	return snap, hit, err
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, opts Options) (plot.Snapshot, error) {
	snap, _, err := r.LayoutWithCacheInfo(ctx, opts)
	return snap, err
}

func (r *Runner) layout(ctx context.Context, c *chartspec.Chart, chartHash string, opts Options) (plot.Snapshot, []byte, bool, error) {
	cacheKey := r.Keyer.LayoutKey(chartHash, opts.LayoutKeyOpts(c))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if snap, err := UnmarshalSnapshot(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return snap, data, true, nil
			}
			// Corrupt entries fall through to recompute.
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	snap, err := GenerateLayout(c)
	if err != nil {
		return plot.Snapshot{}, nil, false, err
	}
	data, err := MarshalSnapshot(snap)
	if err != nil {
		return plot.Snapshot{}, nil, false, err
	}
	r.store(ctx, cacheKey, "layout", data, cache.TTLLayout, opts.Logger)
	return snap, data, false, nil
}

// RenderWithCacheInfo runs the full pipeline and returns only the artifacts
// together with whether all of them came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, opts Options) (map[string][]byte, bool, error) {
	res, err := r.Execute(ctx, opts)
	if err != nil {
		return nil, false, err
	}
	return res.Artifacts, res.CacheInfo.RenderHit, nil
}

// render serves cached formats and renders only the missing ones.
func (r *Runner) render(ctx context.Context, c *chartspec.Chart, layoutData []byte, layoutHash string, opts Options) (map[string][]byte, bool, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string

	for _, format := range opts.Formats {
		if _, dup := artifacts[format]; dup {
			continue
		}
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	sub := opts
	sub.Formats = missing
	rendered, err := Render(ctx, c, layoutData, sub)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, key, "artifact", data, cache.TTLArtifact, opts.Logger)
		artifacts[format] = data
	}
	return artifacts, false, nil
}

// store writes to the cache. Cache failures are logged, never returned.
func (r *Runner) store(ctx context.Context, key, keyType string, data []byte, ttl time.Duration, logger *log.Logger) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
