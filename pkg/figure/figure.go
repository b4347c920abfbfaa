// Package figure assembles the combined W versus L chart as a
// format-independent description.
//
// A [Figure] lists everything to draw in data coordinates: trend segments,
// scatter sets with their legend labels, the angle arc, the intercept arrow
// and text labels. Renderers in pkg/render turn it into SVG, PNG, PDF or a
// terminal preview.
package figure

import (
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/floats"

	"github.com/matzehuels/wlrsim/pkg/geometry"
	"github.com/matzehuels/wlrsim/pkg/model"
	"github.com/matzehuels/wlrsim/pkg/regress"
)

// Chart frame.
const (
	Title  = "W versus L (Combined Plot)"
	XLabel = "L (um)"
	YLabel = "W (um)"

	XMin, XMax = 0.0, 100.0
	YMin, YMax = 0.0, 60.0

	// ScatterMinL is the smallest normal-population length shown as a point.
	ScatterMinL = 20.0

	// TrendSamples is the number of points per trend segment.
	TrendSamples = 100

	NormalLabel = "Normal"
)

// Trend segment extents. The dashed part has no scatter points under it.
const (
	DashedFrom, DashedTo = 0.0, 20.0
	SolidFrom, SolidTo   = 20.0, 100.0
)

// Colors used by the chart.
var (
	Green = color.RGBA{R: 0x00, G: 0x80, B: 0x00, A: 0xff}
	Red   = color.RGBA{R: 0xff, G: 0x00, B: 0x00, A: 0xff}
	Black = color.RGBA{A: 0xff}
)

// Series is a sampled polyline.
type Series struct {
	Points []geometry.Point
	Color  color.RGBA
	Dashed bool
}

// ScatterSet is a group of points sharing a color and legend label.
type ScatterSet struct {
	Label  string
	Points []geometry.Point
	Color  color.RGBA
}

// Text is a label anchored at its lower-left corner in data coordinates.
type Text struct {
	Text string
	At   geometry.Point
}

// Arrow is a double-headed arrow between two points.
type Arrow struct {
	From, To geometry.Point
}

// Figure is the complete chart description.
type Figure struct {
	Title          string
	XLabel, YLabel string
	XMin, XMax     float64
	YMin, YMax     float64

	Trends   []Series
	Scatters []ScatterSet

	// Arc is nil when the trend lines do not intersect.
	Arc   *geometry.Arc
	Arrow Arrow
	Texts []Text

	Params      model.Params
	Normal      regress.Fit
	Modified    regress.Fit
	Annotations geometry.Annotations
}

// Build assembles the chart for one render. The fits must come from the full
// populations; only the scatter is restricted to L1 >= [ScatterMinL].
func Build(pop model.Populations, normal, modified regress.Fit, p model.Params) Figure {
	ann := geometry.Annotate(normal, modified)
	fig := Figure{
		Title:       Title,
		XLabel:      XLabel,
		YLabel:      YLabel,
		XMin:        XMin,
		XMax:        XMax,
		YMin:        YMin,
		YMax:        YMax,
		Params:      p,
		Normal:      normal,
		Modified:    modified,
		Annotations: ann,
	}

	fig.Trends = append(fig.Trends, trend(normal, Green)...)
	fig.Trends = append(fig.Trends, trend(modified, Red)...)

	mask := FilterMask(pop.L1, ScatterMinL)
	fig.Scatters = append(fig.Scatters, ScatterSet{
		Label:  NormalLabel,
		Points: pick(pop.L1, pop.W1, mask),
		Color:  Green,
	})
	if label, ok := LegendLabel(p.Hypertrophia, p.Vasoconstriction); ok {
		// Filtered by the normal population's lengths.
		fig.Scatters = append(fig.Scatters, ScatterSet{
			Label:  label,
			Points: pick(pop.L2, pop.W2, mask),
			Color:  Red,
		})
	}

	if ann.HasIntersection {
		arc := ann.Arc
		fig.Arc = &arc
		fig.Texts = append(fig.Texts, Text{
			Text: OmegaText(ann.Omega),
			At:   geometry.Point{X: 20, Y: 20},
		})
	}

	fig.Arrow = Arrow{
		From: geometry.Point{X: 0, Y: ann.ModifiedIntercept},
		To:   geometry.Point{X: 0, Y: ann.NormalIntercept},
	}
	fig.Texts = append(fig.Texts, Text{
		Text: GapText(ann.Gap),
		At:   geometry.Point{X: 2, Y: ann.GapMidpoint()},
	})
	return fig
}

// LegendLabel returns the legend label of the modified population for the
// given flags. It reports false when neither flag is set, in which case the
// modified scatter is not drawn.
func LegendLabel(hypertrophia, vasoconstriction bool) (string, bool) {
	switch {
	case hypertrophia && vasoconstriction:
		return "Hypertrophia + Vasoconstriction", true
	case hypertrophia:
		return "Hypertrophia", true
	case vasoconstriction:
		return "Vasoconstriction", true
	}
	return "", false
}

// FilterMask reports, per index, whether l[i] >= min.
func FilterMask(l []float64, min float64) []bool {
	mask := make([]bool, len(l))
	for i, v := range l {
		mask[i] = v >= min
	}
	return mask
}

// OmegaText formats the angle label.
func OmegaText(deg float64) string { return fmt.Sprintf("ω = %.2f°", deg) }

// GapText formats the intercept gap label.
func GapText(gap float64) string { return fmt.Sprintf("H = %.2f um", gap) }

// Legend returns the scatter labels in drawing order.
func (f Figure) Legend() []string {
	labels := make([]string, len(f.Scatters))
	for i, s := range f.Scatters {
		labels[i] = s.Label
	}
	return labels
}

func trend(fit regress.Fit, c color.RGBA) []Series {
	return []Series{
		{Points: sample(fit, DashedFrom, DashedTo), Color: c, Dashed: true},
		{Points: sample(fit, SolidFrom, SolidTo), Color: c},
	}
}

func sample(fit regress.Fit, from, to float64) []geometry.Point {
	xs := floats.Span(make([]float64, TrendSamples), from, to)
	pts := make([]geometry.Point, len(xs))
	for i, x := range xs {
		pts[i] = geometry.Point{X: x, Y: fit.At(x)}
	}
	return pts
}

func pick(xs, ys []float64, mask []bool) []geometry.Point {
	var pts []geometry.Point
	for i, keep := range mask {
		if keep {
			pts = append(pts, geometry.Point{X: xs[i], Y: ys[i]})
		}
	}
	return pts
}
