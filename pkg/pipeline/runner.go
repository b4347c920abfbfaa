package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/wlrsim/pkg/cache"
	"github.com/matzehuels/wlrsim/pkg/figure"
	"github.com/matzehuels/wlrsim/pkg/model"
	"github.com/matzehuels/wlrsim/pkg/observability"
	"github.com/matzehuels/wlrsim/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer means [cache.DefaultKeyer], a nil
// cache disables caching and a nil logger means the default logger.
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
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs generate → fit → draw with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (result *Result, err error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	renderID := uuid.NewString()
	logger := opts.Logger.With("render_id", renderID[:8])
	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnRenderStart(ctx, renderID, opts.Formats)
	defer func() {
		hooks.OnRenderComplete(ctx, renderID, opts.Formats, time.Since(start), err)
	}()

	result = &Result{RenderID: renderID}

	// Stage 1: Generate
	genStart := time.Now()
	pop := model.Generate(opts.Params, opts.Seed)
	result.Populations = pop
	result.Stats.Points = pop.Len()
	result.Stats.Clamped = len(pop.Clamped)
	result.Stats.GenerateTime = time.Since(genStart)
	hooks.OnStageComplete(ctx, renderID, observability.StageGenerate, result.Stats.GenerateTime, nil)

	if len(pop.Clamped) > 0 {
		logger.Warn("width back-solve left its domain; radicand clamped to zero",
			"points", len(pop.Clamped), "params", opts.Params)
	}
	logger.Debug("generated populations",
		"params", opts.Params,
		"seed", opts.Seed,
		"points", pop.Len(),
		"duration", result.Stats.GenerateTime)

	// Stage 2: Fit
	fitStart := time.Now()
	normal, modified, err := Fit(pop)
	result.Stats.FitTime = time.Since(fitStart)
	hooks.OnStageComplete(ctx, renderID, observability.StageFit, result.Stats.FitTime, err)
	if err != nil {
		return nil, err
	}
	result.Normal, result.Modified = normal, modified
	result.Figure = figure.Build(pop, normal, modified, opts.Params)

	if !result.Figure.Annotations.HasIntersection {
		logger.Warn("trend lines are parallel; omitting angle arc",
			"slope", normal.Slope)
	}
	logger.Debug("fitted trend lines",
		"normal", normal,
		"modified", modified,
		"duration", result.Stats.FitTime)

	// Stage 3: Draw
	drawStart := time.Now()
	artifacts, info, err := r.DrawWithCacheInfo(ctx, result.Figure, opts)
	result.Stats.DrawTime = time.Since(drawStart)
	hooks.OnStageComplete(ctx, renderID, observability.StageDraw, result.Stats.DrawTime, err)
	if err != nil {
		return nil, fmt.Errorf("draw: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo = info

	logger.Info("rendered chart",
		"formats", opts.Formats,
		"omega", result.Figure.Annotations.Omega,
		"gap", result.Figure.Annotations.Gap,
		"cached", info.RenderHit,
		"duration", time.Since(start))
	return result, nil
}

// DrawWithCacheInfo renders fig in every requested format, serving formats
// from the cache where possible. Cache failures are logged and ignored.
func (r *Runner) DrawWithCacheInfo(ctx context.Context, fig figure.Figure, opts Options) (map[string][]byte, CacheInfo, error) {
	var info CacheInfo
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, info, err
	}
	hooks := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(opts.ArtifactKeyOpts(format))

		if !opts.Refresh {
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil {
				hooks.OnCacheError(ctx, "get", err)
				opts.Logger.Debug("cache read failed", "format", format, "err", err)
			}
			if err == nil && hit {
				hooks.OnCacheHit(ctx, format)
				artifacts[format] = data
				info.Hits = append(info.Hits, format)
				continue
			}
			hooks.OnCacheMiss(ctx, format)
		}

		data, err := render.Render(fig, format, opts.RenderOptions()...)
		if err != nil {
			return nil, info, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data

		if err := r.Cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
			hooks.OnCacheError(ctx, "set", err)
			opts.Logger.Debug("cache write failed", "format", format, "err", err)
		} else {
			hooks.OnCacheSet(ctx, format, len(data))
		}
	}

	info.RenderHit = len(info.Hits) == len(opts.Formats)
	return artifacts, info, nil
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
