package render

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/floats"

	"github.com/matzehuels/wlrsim/pkg/figure"
)

// text draws the normal and modified trend lines over the x frame as an
// ASCII chart, followed by the ω and H readouts.
func (r renderer) text(fig figure.Figure) string {
	xs := floats.Span(make([]float64, r.cols), fig.XMin, fig.XMax)
	series := [][]float64{fig.Normal.Eval(xs), fig.Modified.Eval(xs)}

	legends := []string{figure.NormalLabel, "Modified"}
	if label, ok := figure.LegendLabel(fig.Params.Hypertrophia, fig.Params.Vasoconstriction); ok {
		legends[1] = label
	}

	opts := []asciigraph.Option{
		asciigraph.Height(r.rows),
		asciigraph.Width(r.cols),
		asciigraph.LowerBound(fig.YMin),
		asciigraph.UpperBound(fig.YMax),
		asciigraph.Precision(1),
		asciigraph.Caption(fmt.Sprintf("%s, %s in [%g, %g]", fig.Title, fig.XLabel, fig.XMin, fig.XMax)),
	}
	// asciigraph legends always carry escape codes, so plain output
	// gets a hand-written legend instead.
	if r.color {
		opts = append(opts,
			asciigraph.SeriesColors(asciigraph.Green, asciigraph.Red),
			asciigraph.SeriesLegends(legends...),
		)
	}

	var b strings.Builder
	b.WriteString(asciigraph.PlotMany(series, opts...))
	b.WriteString("\n\n")
	if !r.color {
		fmt.Fprintf(&b, "lower line at L=0: %s   upper line at L=0: %s\n", lowerUpper(fig, legends)...)
	}
	b.WriteString(Readout(fig))
	b.WriteString("\n")
	return b.String()
}

// Readout summarizes the annotations on one line.
func Readout(fig figure.Figure) string {
	ann := fig.Annotations
	omega := "ω undefined (parallel trend lines)"
	if ann.HasIntersection {
		omega = figure.OmegaText(ann.Omega)
	}
	return fmt.Sprintf("%s   %s   normal: %s   modified: %s",
		omega, figure.GapText(ann.Gap), fig.Normal, fig.Modified)
}

// lowerUpper orders the two legend names by intercept, since plain output
// cannot tell the series apart by color.
func lowerUpper(fig figure.Figure, legends []string) []any {
	if fig.Modified.Intercept < fig.Normal.Intercept {
		return []any{legends[1], legends[0]}
	}
	return []any{legends[0], legends[1]}
}
