// Package regress fits straight lines to sample populations.
//
// Fits use ordinary least squares over every supplied point; callers decide
// which points to pass. The goodness-of-fit figures are informational and do
// not feed the chart geometry.
package regress

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/wlrsim/pkg/errors"
)

// Fit is a line y = Slope·x + Intercept with its fit statistics.
type Fit struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`

	// R is the Pearson correlation between x and y.
	R float64 `json:"r"`
	// StdErr is the standard error of the slope estimate. Zero for n=2.
	StdErr float64 `json:"std_err"`
	// N is the number of points the fit used.
	N int `json:"n"`
}

// At evaluates the fitted line at x.
func (f Fit) At(x float64) float64 {
	return f.Slope*x + f.Intercept
}

// Eval evaluates the fitted line at every x, writing into a new slice.
func (f Fit) Eval(xs []float64) []float64 {
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = f.At(x)
	}
	return ys
}

// String renders the fit as an equation.
func (f Fit) String() string {
	return fmt.Sprintf("y = %.4f·x %+.4f (r=%.3f, n=%d)", f.Slope, f.Intercept, f.R, f.N)
}

// Linear fits y = m·x + c by ordinary least squares.
//
// It fails with DEGENERATE_FIT when fewer than two points are given or every
// x is identical, and with INVALID_INPUT when the slices differ in length or
// hold non-finite values.
func Linear(x, y []float64) (Fit, error) {
	if len(x) != len(y) {
		return Fit{}, errors.New(errors.ErrCodeInvalidInput, "x and y differ in length: %d != %d", len(x), len(y))
	}
	if len(x) < 2 {
		return Fit{}, errors.New(errors.ErrCodeDegenerateFit, "need at least 2 points, got %d", len(x))
	}
	if !finite(x) || !finite(y) {
		return Fit{}, errors.New(errors.ErrCodeInvalidInput, "samples contain NaN or Inf")
	}
	if floats.Min(x) == floats.Max(x) {
		return Fit{}, errors.New(errors.ErrCodeDegenerateFit, "all x values equal %g", x[0])
	}

	c, m := stat.LinearRegression(x, y, nil, false)
	fit := Fit{Slope: m, Intercept: c, N: len(x)}

	if r, err := stats.Pearson(x, y); err == nil {
		fit.R = r
	}
	if n := len(x); n > 2 {
		mx := stat.Mean(x, nil)
		var ssr, sxx float64
		for i := range x {
			d := y[i] - fit.At(x[i])
			ssr += d * d
			sxx += (x[i] - mx) * (x[i] - mx)
		}
		fit.StdErr = math.Sqrt(ssr / float64(n-2) / sxx)
	}
	return fit, nil
}

func finite(s []float64) bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
