package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/wlrsim/internal/config"
	"github.com/matzehuels/wlrsim/pkg/errors"
	"github.com/matzehuels/wlrsim/pkg/figure"
	"github.com/matzehuels/wlrsim/pkg/model"
	"github.com/matzehuels/wlrsim/pkg/pipeline"
	"github.com/matzehuels/wlrsim/pkg/render"
)

// renderFlags holds the command-line flags for the render command. Flags
// the user did not set fall back to the config file.
type renderFlags struct {
	output  string
	formats string
	params  model.Params
	seed    uint64
	width   float64
	height  float64
	dpi     int
	noCache bool
	refresh bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the WLR comparison chart",
		Long: `Render the WLR comparison chart.

The normal population is compared with a population modified by hypertrophia
(H, with a fraction α attributed to length) and vasoconstriction (VC). The
chart shows both trend lines, the angle ω between them and the gap H between
their intercepts.

Formats: svg (default), png, pdf and txt. Text output goes to stdout unless
--output is given. Results are cached; --refresh re-renders and updates the
cache.`,
		Example: `  wlrsim render --hypertrophia --h 10 --alpha 0.5 -o chart.svg
  wlrsim render --vasoconstriction --vc 20 -f svg,png -o out/chart
  wlrsim render --hypertrophia --h 5 -f txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.renderOptions(cmd.Flags(), &flags)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), opts, &flags)
		},
	}

	defaults := model.DefaultParams()
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output format(s): svg (default), png, pdf, txt (comma-separated)")
	cmd.Flags().Float64Var(&flags.params.H, "h", defaults.H, fmt.Sprintf("hypertrophia H in um [%g, %g]", model.SliderH.Min, model.SliderH.Max))
	cmd.Flags().Float64Var(&flags.params.Alpha, "alpha", defaults.Alpha, fmt.Sprintf("internal hypertrophia component α [%g, %g]", model.SliderAlpha.Min, model.SliderAlpha.Max))
	cmd.Flags().Float64Var(&flags.params.VC, "vc", defaults.VC, fmt.Sprintf("vasoconstriction VC in %% [%g, %g]", model.SliderVC.Min, model.SliderVC.Max))
	cmd.Flags().BoolVar(&flags.params.Hypertrophia, "hypertrophia", false, "label the modified population as hypertrophia")
	cmd.Flags().BoolVar(&flags.params.Vasoconstriction, "vasoconstriction", false, "label the modified population as vasoconstriction")
	cmd.Flags().Uint64Var(&flags.seed, "seed", pipeline.DefaultSeed, "noise seed")
	cmd.Flags().Float64Var(&flags.width, "width", pipeline.DefaultWidth, "figure width in inches")
	cmd.Flags().Float64Var(&flags.height, "height", pipeline.DefaultHeight, "figure height in inches")
	cmd.Flags().IntVar(&flags.dpi, "dpi", pipeline.DefaultDPI, "PNG resolution")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "ignore cached artifacts")

	return cmd
}

// renderOptions merges the config with the flags the user set explicitly.
func (c *CLI) renderOptions(fs *pflag.FlagSet, flags *renderFlags) (pipeline.Options, error) {
	opts := c.config().PipelineOptions()

	set := map[string]func(){
		"h":                func() { opts.Params.H = flags.params.H },
		"alpha":            func() { opts.Params.Alpha = flags.params.Alpha },
		"vc":               func() { opts.Params.VC = flags.params.VC },
		"hypertrophia":     func() { opts.Params.Hypertrophia = flags.params.Hypertrophia },
		"vasoconstriction": func() { opts.Params.Vasoconstriction = flags.params.Vasoconstriction },
		"seed":             func() { opts.Seed = flags.seed },
		"width":            func() { opts.Width = flags.width },
		"height":           func() { opts.Height = flags.height },
		"dpi":              func() { opts.DPI = flags.dpi },
		"format":           func() { opts.Formats = config.SplitList(flags.formats) },
	}
	fs.Visit(func(f *pflag.Flag) {
		if apply, ok := set[f.Name]; ok {
			apply()
		}
	})
	opts.Refresh = flags.refresh

	if err := opts.Params.Validate(); err != nil {
		return opts, err
	}
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return opts, err
	}
	if flags.output != "" {
		if err := errors.ValidateOutputPath(flags.output); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// runRender executes the pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, stdout io.Writer, opts pipeline.Options, flags *renderFlags) error {
	logger := loggerFromContext(ctx)
	opts.Logger = logger

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	spin := newSpinnerWithContext(ctx, "Rendering chart...")
	spin.Start()
	result, err := runner.Execute(ctx, opts)
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done("Rendered chart", "formats", strings.Join(opts.Formats, ","), "render_id", result.RenderID[:8])

	toStdout := flags.output == "" && len(opts.Formats) == 1 && opts.Formats[0] == pipeline.FormatText
	if toStdout {
		_, err := io.WriteString(stdout, string(result.Artifacts[pipeline.FormatText]))
		return err
	}

	var paths []string
	for _, format := range opts.Formats {
		path := outputPath(flags.output, format, len(opts.Formats))
		if err := writeArtifact(path, result.Artifacts[format]); err != nil {
			return err
		}
		logger.Debug("wrote artifact", "format", format, "path", path, "bytes", len(result.Artifacts[format]))
		paths = append(paths, path)
	}

	printSuccess("Rendered %s", StyleHighlight.Render(opts.Params.String()))
	for _, p := range paths {
		printFile(p)
	}
	printAnnotations(result.Figure)
	printStats(result.Stats.Points, result.Stats.Clamped, result.Stats.GenerateTime+result.Stats.FitTime+result.Stats.DrawTime, result.CacheInfo.RenderHit)
	if result.Stats.Clamped > 0 {
		printWarning("%d modified points had a negative radicand (clamped to zero)", result.Stats.Clamped)
	}
	printNextStep("Explore interactively", "wlrsim explore")
	return nil
}

// printAnnotations prints the ω and H readouts and both fits.
func printAnnotations(fig figure.Figure) {
	ann := fig.Annotations
	if ann.HasIntersection {
		printKeyValue("angle", figure.OmegaText(ann.Omega))
	} else {
		printKeyValue("angle", StyleWarning.Render("undefined (parallel trend lines)"))
	}
	printKeyValue("gap", figure.GapText(ann.Gap))
	printKeyValue("normal", fig.Normal.String())
	printKeyValue("modified", fig.Modified.String())
}

// outputPath derives the file for one format. A single format writes to
// output as given; several formats share output as a base path. Without
// --output files are named after the application.
func outputPath(output, format string, count int) string {
	if output == "" {
		return appName + "." + format
	}
	if count == 1 {
		return output
	}
	// Strip a known format extension from the base path.
	ext := filepath.Ext(output)
	if slices.Contains(render.Formats, strings.TrimPrefix(ext, ".")) {
		output = strings.TrimSuffix(output, ext)
	}
	return output + "." + format
}

// writeArtifact writes data to path, creating parent directories.
func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
