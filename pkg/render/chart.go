package render

import (
	"bytes"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/matzehuels/wlrsim/pkg/errors"
	"github.com/matzehuels/wlrsim/pkg/figure"
	"github.com/matzehuels/wlrsim/pkg/geometry"
)

// Line widths and sizes, in points.
var (
	trendWidth      = vg.Points(1.5)
	annotationWidth = vg.Points(2)
	scatterRadius   = vg.Points(3)
	labelFontSize   = vg.Points(12)
	dashes          = []vg.Length{vg.Points(6), vg.Points(4)}
)

func (r renderer) vector(fig figure.Figure, format string) ([]byte, error) {
	p, err := Chart(fig)
	if err != nil {
		return nil, err
	}
	wt, err := p.WriterTo(r.width, r.height, format)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "draw %s", format)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode %s", format)
	}
	return buf.Bytes(), nil
}

func (r renderer) raster(fig figure.Figure) ([]byte, error) {
	p, err := Chart(fig)
	if err != nil {
		return nil, err
	}
	c := vgimg.NewWith(
		vgimg.UseWH(r.width, r.height),
		vgimg.UseDPI(r.dpi),
		vgimg.UseBackgroundColor(color.White),
	)
	p.Draw(draw.New(c))

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

// Chart builds the gonum plot for fig. The axis ranges are fixed to the
// figure frame; anything outside is clipped.
func Chart(fig figure.Figure) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fig.Title
	p.X.Label.Text = fig.XLabel
	p.Y.Label.Text = fig.YLabel
	p.Legend.Top = true

	for _, s := range fig.Trends {
		l, err := plotter.NewLine(xys(s.Points))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "trend line")
		}
		l.LineStyle = draw.LineStyle{Color: s.Color, Width: trendWidth}
		if s.Dashed {
			l.LineStyle.Dashes = dashes
		}
		p.Add(l)
	}

	for _, set := range fig.Scatters {
		if len(set.Points) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(xys(set.Points))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "scatter %q", set.Label)
		}
		sc.GlyphStyle = draw.GlyphStyle{Color: set.Color, Radius: scatterRadius, Shape: draw.CircleGlyph{}}
		p.Add(sc)
		p.Legend.Add(set.Label, sc)
	}

	if fig.Arc != nil {
		p.Add(&ArcPlotter{Arc: *fig.Arc, LineStyle: annotationStyle()})
	}
	p.Add(&ArrowPlotter{From: fig.Arrow.From, To: fig.Arrow.To, LineStyle: annotationStyle()})

	if len(fig.Texts) > 0 {
		labels, err := textLabels(fig.Texts)
		if err != nil {
			return nil, err
		}
		p.Add(labels)
	}

	p.X.Min, p.X.Max = fig.XMin, fig.XMax
	p.Y.Min, p.Y.Max = fig.YMin, fig.YMax
	return p, nil
}

func textLabels(texts []figure.Text) (*plotter.Labels, error) {
	data := plotter.XYLabels{
		XYs:    make(plotter.XYs, len(texts)),
		Labels: make([]string, len(texts)),
	}
	for i, t := range texts {
		data.XYs[i] = plotter.XY{X: t.At.X, Y: t.At.Y}
		data.Labels[i] = t.Text
	}
	labels, err := plotter.NewLabels(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "text labels")
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Font = font.From(plotter.DefaultFont, labelFontSize)
		labels.TextStyle[i].Color = figure.Black
	}
	return labels, nil
}

func annotationStyle() draw.LineStyle {
	return draw.LineStyle{Color: figure.Black, Width: annotationWidth}
}

func xys(pts []geometry.Point) plotter.XYs {
	out := make(plotter.XYs, len(pts))
	for i, p := range pts {
		out[i] = plotter.XY{X: p.X, Y: p.Y}
	}
	return out
}
