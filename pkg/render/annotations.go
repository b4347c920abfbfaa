package render

import (
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/matzehuels/wlrsim/pkg/geometry"
)

// arcSegments is the number of chords used to approximate an arc.
const arcSegments = 64

// arrowHead is the length of an arrowhead along the shaft.
var arrowHead = vg.Points(8)

// ArcPlotter draws a circular arc given in data coordinates. With unequal
// axis scales the arc appears elliptical, like any data-space circle.
type ArcPlotter struct {
	Arc geometry.Arc
	draw.LineStyle
}

// Plot implements plot.Plotter.
func (a *ArcPlotter) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	pts := a.Arc.Points(arcSegments + 1)
	line := make([]vg.Point, len(pts))
	for i, p := range pts {
		line[i] = vg.Point{X: trX(p.X), Y: trY(p.Y)}
	}
	c.StrokeLines(a.LineStyle, c.ClipLinesXY(line)...)
}

// ArrowPlotter draws a straight arrow with heads at both ends.
type ArrowPlotter struct {
	From, To geometry.Point
	draw.LineStyle
}

// Plot implements plot.Plotter.
func (a *ArrowPlotter) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	from := vg.Point{X: trX(a.From.X), Y: trY(a.From.Y)}
	to := vg.Point{X: trX(a.To.X), Y: trY(a.To.Y)}

	dx, dy := float64(to.X-from.X), float64(to.Y-from.Y)
	n := math.Hypot(dx, dy)
	if n == 0 {
		return
	}
	ux, uy := dx/n, dy/n

	// Shorten the shaft so the stroke does not poke through the heads.
	inset := math.Min(float64(arrowHead), n/2)
	shaft := []vg.Point{
		{X: from.X + vg.Length(ux*inset), Y: from.Y + vg.Length(uy*inset)},
		{X: to.X - vg.Length(ux*inset), Y: to.Y - vg.Length(uy*inset)},
	}
	c.StrokeLines(a.LineStyle, c.ClipLinesXY(shaft)...)

	for _, head := range [][]vg.Point{
		arrowHeadAt(to, ux, uy, inset),
		arrowHeadAt(from, -ux, -uy, inset),
	} {
		if clipped := c.ClipPolygonXY(head); len(clipped) > 0 {
			c.FillPolygon(a.Color, clipped)
		}
	}
}

// arrowHeadAt returns a triangle with its tip at tip, pointing along (ux, uy).
func arrowHeadAt(tip vg.Point, ux, uy, length float64) []vg.Point {
	half := length / 3
	bx, by := float64(tip.X)-ux*length, float64(tip.Y)-uy*length
	return []vg.Point{
		tip,
		{X: vg.Length(bx - uy*half), Y: vg.Length(by + ux*half)},
		{X: vg.Length(bx + uy*half), Y: vg.Length(by - ux*half)},
	}
}
