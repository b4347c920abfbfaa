// Package pipeline runs the generate → fit → draw pipeline behind every
// wlrsim entry point.
//
// The CLI `render` command, the terminal explorer and the HTTP server all go
// through the same [Runner], so a chart looks identical however it was
// requested and artifacts are shared through one cache.
//
// # Stages
//
//  1. Generate: sample both populations from the parameters and seed
//  2. Fit: least-squares trend line for each population
//  3. Draw: assemble the figure and render it in every requested format
//
// Generate and Fit always run; they are cheap and their results feed the
// annotation readouts. Draw consults the artifact cache per format.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Params:  model.Params{H: 10, Alpha: 0.5, Hypertrophia: true},
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run the analysis without rendering:
//
//	analysis, err := pipeline.Analyze(params, seed)
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wlrsim/pkg/cache"
	"github.com/matzehuels/wlrsim/pkg/errors"
	"github.com/matzehuels/wlrsim/pkg/figure"
	"github.com/matzehuels/wlrsim/pkg/model"
	"github.com/matzehuels/wlrsim/pkg/regress"
	"github.com/matzehuels/wlrsim/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, TUI and Server
// =============================================================================

const (
	// DefaultWidth is the default figure width in inches.
	DefaultWidth = render.DefaultWidth

	// DefaultHeight is the default figure height in inches.
	DefaultHeight = render.DefaultHeight

	// DefaultDPI is the default PNG resolution.
	DefaultDPI = render.DefaultDPI

	// DefaultSeed reproduces the reference figures.
	DefaultSeed = model.DefaultSeed

	// MaxDimension bounds the figure size in inches.
	MaxDimension = 100.0

	// MaxDPI bounds the PNG resolution.
	MaxDPI = 600
)

// Format constants for output formats.
const (
	FormatSVG  = render.FormatSVG
	FormatPNG  = render.FormatPNG
	FormatPDF  = render.FormatPDF
	FormatText = render.FormatText
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
type Options struct {
	Params model.Params `json:"params"`
	Seed   uint64       `json:"seed"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Width   float64  `json:"width,omitempty"`  // inches
	Height  float64  `json:"height,omitempty"` // inches
	DPI     int      `json:"dpi,omitempty"`

	// Terminal preview options (txt format only)
	TextWidth  int  `json:"text_width,omitempty"`
	TextHeight int  `json:"text_height,omitempty"`
	Color      bool `json:"color,omitempty"`

	// Refresh skips cache reads; fresh artifacts are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RenderID identifies this run in log lines.
	RenderID string

	Populations model.Populations
	Normal      regress.Fit
	Modified    regress.Fit
	Figure      figure.Figure

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Points       int
	Clamped      int
	GenerateTime time.Duration
	FitTime      time.Duration
	DrawTime     time.Duration
}

// CacheInfo tracks cache hits per format.
type CacheInfo struct {
	Hits      []string // formats served from cache
	RenderHit bool     // whether every artifact came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !render.ValidFormat(format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, txt)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the parameters and render options and
// applies defaults. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.Params.Validate(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender checks formats and figure dimensions.
func (o *Options) ValidateForRender() error {
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := errors.ValidateRange("width", o.Width, 1, MaxDimension); err != nil {
		return err
	}
	if err := errors.ValidateRange("height", o.Height, 1, MaxDimension); err != nil {
		return err
	}
	if o.DPI < 1 || o.DPI > MaxDPI {
		return errors.New(errors.ErrCodeInvalidParams, "dpi out of range: %d (must be within [1, %d])", o.DPI, MaxDPI)
	}
	return nil
}

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Params: o.Params,
		Seed:   o.Seed,
		Format: format,
		Width:  o.Width,
		Height: o.Height,
	}
	switch format {
	case FormatPNG:
		k.DPI = o.DPI
	case FormatText:
		// Text output depends on the terminal size instead of the figure size.
		k.Width, k.Height = float64(o.TextWidth), float64(o.TextHeight)
		k.Color = o.Color
	}
	return k
}

// RenderOptions returns the renderer options for these settings.
func (o *Options) RenderOptions() []render.Option {
	opts := []render.Option{
		render.WithSize(o.Width, o.Height),
		render.WithDPI(o.DPI),
		render.WithTextSize(o.TextWidth, o.TextHeight),
	}
	if o.Color {
		opts = append(opts, render.WithColor())
	}
	return opts
}

// String summarizes the options for log lines.
func (o *Options) String() string {
	return fmt.Sprintf("%s seed=%d formats=%v", o.Params, o.Seed, o.Formats)
}
