package regress

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/wlrsim/pkg/errors"
	"github.com/matzehuels/wlrsim/pkg/model"
)

func TestLinearExact(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	y := []float64{5, 5.3, 5.6, 5.9, 6.2}

	fit, err := Linear(x, y)
	require.NoError(t, err)

	assert.InDelta(t, 0.3, fit.Slope, 1e-12)
	assert.InDelta(t, 5.0, fit.Intercept, 1e-12)
	assert.InDelta(t, 1.0, fit.R, 1e-12)
	assert.InDelta(t, 0.0, fit.StdErr, 1e-9)
	assert.Equal(t, 5, fit.N)
}

func TestLinearTwoPoints(t *testing.T) {
	fit, err := Linear([]float64{0, 10}, []float64{10, 0})
	require.NoError(t, err)

	assert.InDelta(t, -1.0, fit.Slope, 1e-12)
	assert.InDelta(t, 10.0, fit.Intercept, 1e-12)
	assert.InDelta(t, -1.0, fit.R, 1e-12)
	assert.Zero(t, fit.StdErr)
}

func TestLinearConstantY(t *testing.T) {
	fit, err := Linear([]float64{1, 2, 3}, []float64{4, 4, 4})
	require.NoError(t, err)

	assert.InDelta(t, 0.0, fit.Slope, 1e-12)
	assert.InDelta(t, 4.0, fit.Intercept, 1e-12)
	// Correlation is undefined for constant y and reported as zero.
	assert.Zero(t, fit.R)
}

func TestLinearErrors(t *testing.T) {
	tests := []struct {
		name string
		x, y []float64
		code errors.Code
	}{
		{"length mismatch", []float64{1, 2}, []float64{1}, errors.ErrCodeInvalidInput},
		{"empty", nil, nil, errors.ErrCodeDegenerateFit},
		{"single point", []float64{1}, []float64{1}, errors.ErrCodeDegenerateFit},
		{"constant x", []float64{2, 2, 2}, []float64{1, 2, 3}, errors.ErrCodeDegenerateFit},
		{"NaN", []float64{1, math.NaN()}, []float64{1, 2}, errors.ErrCodeInvalidInput},
		{"Inf", []float64{1, 2}, []float64{math.Inf(1), 2}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Linear(tt.x, tt.y)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestLinearRecoversModel(t *testing.T) {
	pop := model.Generate(model.DefaultParams(), model.DefaultSeed)

	fit, err := Linear(pop.L1, pop.W1)
	require.NoError(t, err)

	// Noise on both axes biases the slope slightly; the relation still
	// dominates over the [0, 200] range.
	assert.InDelta(t, model.WLR, fit.Slope, 0.03)
	assert.InDelta(t, model.Wmin, fit.Intercept, 2.5)
	assert.Greater(t, fit.R, 0.97)
	assert.Greater(t, fit.StdErr, 0.0)
}

func TestFitEval(t *testing.T) {
	f := Fit{Slope: 2, Intercept: 1}
	assert.Equal(t, 7.0, f.At(3))
	assert.Equal(t, []float64{1, 3, 5}, f.Eval([]float64{0, 1, 2}))
	assert.Equal(t, "y = 2.0000·x +1.0000 (r=0.000, n=0)", f.String())
}
