// Package geometry derives the chart annotations from two trend lines: their
// intersection, the angle between them, the arc marking that angle and the
// gap between their intercepts.
package geometry

import (
	"math"

	"github.com/matzehuels/wlrsim/pkg/regress"
)

// ArcRadius is the radius of the angle arc in data units.
const ArcRadius = 20.0

// Point is a position in data coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Intersect returns the point where lines a and b cross. It reports false
// when the lines are parallel or the crossing is not finite.
func Intersect(a, b regress.Fit) (Point, bool) {
	if a.Slope == b.Slope {
		return Point{}, false
	}
	x := (b.Intercept - a.Intercept) / (a.Slope - b.Slope)
	y := a.At(x)
	if !isFinite(x) || !isFinite(y) {
		return Point{}, false
	}
	return Point{X: x, Y: y}, true
}

// Angle returns |atan(m1) − atan(m2)| in degrees.
func Angle(m1, m2 float64) float64 {
	return math.Abs(degrees(math.Atan(m1) - math.Atan(m2)))
}

// Arc is a circular arc in data coordinates. Start and End are in degrees,
// counterclockwise from the positive x axis, with Start <= End.
type Arc struct {
	Center Point   `json:"center"`
	Radius float64 `json:"radius"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
}

// NewArc builds the arc between two lines of slopes m1 and m2 crossing at
// center. It always sweeps the smaller angle between the two directions.
func NewArc(center Point, m1, m2, radius float64) Arc {
	a1, a2 := degrees(math.Atan(m1)), degrees(math.Atan(m2))
	return Arc{
		Center: center,
		Radius: radius,
		Start:  math.Min(a1, a2),
		End:    math.Max(a1, a2),
	}
}

// Sweep returns the arc's angular extent in degrees.
func (a Arc) Sweep() float64 { return a.End - a.Start }

// Points samples n points along the arc, endpoints included.
func (a Arc) Points(n int) []Point {
	if n < 2 {
		n = 2
	}
	pts := make([]Point, n)
	step := (a.End - a.Start) / float64(n-1)
	for i := range pts {
		t := radians(a.Start + float64(i)*step)
		pts[i] = Point{
			X: a.Center.X + a.Radius*math.Cos(t),
			Y: a.Center.Y + a.Radius*math.Sin(t),
		}
	}
	return pts
}

// InterceptGap returns |a.Intercept − b.Intercept|.
func InterceptGap(a, b regress.Fit) float64 {
	return math.Abs(a.Intercept - b.Intercept)
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
