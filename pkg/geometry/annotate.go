package geometry

import "github.com/matzehuels/wlrsim/pkg/regress"

// Annotations is the derived geometry of one render.
type Annotations struct {
	// Intersection is valid only when HasIntersection is true. Parallel
	// trend lines have no intersection, and then no arc or ω is drawn.
	Intersection    Point `json:"intersection"`
	HasIntersection bool  `json:"has_intersection"`
	Arc             Arc   `json:"arc"`

	// Omega is the angle between the trend lines in degrees. It is defined
	// even without an intersection (zero for parallel lines).
	Omega float64 `json:"omega"`

	// Gap is the distance between the two intercepts at L=0, spanned by the
	// double-headed arrow from NormalIntercept to ModifiedIntercept.
	Gap               float64 `json:"gap"`
	NormalIntercept   float64 `json:"normal_intercept"`
	ModifiedIntercept float64 `json:"modified_intercept"`
}

// Annotate computes every annotation for the normal and modified fits.
func Annotate(normal, modified regress.Fit) Annotations {
	a := Annotations{
		Omega:             Angle(normal.Slope, modified.Slope),
		Gap:               InterceptGap(normal, modified),
		NormalIntercept:   normal.Intercept,
		ModifiedIntercept: modified.Intercept,
	}
	if p, ok := Intersect(normal, modified); ok {
		a.Intersection = p
		a.HasIntersection = true
		a.Arc = NewArc(p, normal.Slope, modified.Slope, ArcRadius)
	}
	return a
}

// GapMidpoint returns the y coordinate halfway between the two intercepts.
func (a Annotations) GapMidpoint() float64 {
	return (a.NormalIntercept + a.ModifiedIntercept) / 2
}
