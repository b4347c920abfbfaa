package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveControls(t *testing.T) {
	tests := []struct {
		hyp, vaso bool
		want      Controls
	}{
		{false, false, Controls{}},
		{true, false, Controls{H: true, Alpha: true}},
		{false, true, Controls{VC: true}},
		{true, true, Controls{H: true, Alpha: true, VC: true}},
	}

	for _, tt := range tests {
		got := DeriveControls(tt.hyp, tt.vaso)
		assert.Equal(t, tt.want, got, "hyp=%t vaso=%t", tt.hyp, tt.vaso)
		assert.Equal(t, got, Params{Hypertrophia: tt.hyp, Vasoconstriction: tt.vaso}.Controls())
	}
}

func TestControlsEnabled(t *testing.T) {
	c := DeriveControls(true, false)
	assert.True(t, c.Enabled("h"))
	assert.True(t, c.Enabled("alpha"))
	assert.False(t, c.Enabled("vc"))
	assert.False(t, c.Enabled("unknown"))
}

func TestSliderSnap(t *testing.T) {
	tests := []struct {
		name   string
		slider Slider
		in     float64
		want   float64
	}{
		{"H on grid", SliderH, 7.5, 7.5},
		{"H rounds", SliderH, 7.3, 7.5},
		{"H clamps high", SliderH, 25, 20},
		{"H clamps low", SliderH, -3, 0},
		{"alpha float noise", SliderAlpha, 0.05 * 3, 0.15},
		{"alpha rounds", SliderAlpha, 0.33, 0.35},
		{"VC integer", SliderVC, 41.4, 41},
		{"NaN falls back to default", SliderVC, math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.slider.Snap(tt.in))
		})
	}
}

func TestSliderMove(t *testing.T) {
	assert.Equal(t, 0.5, SliderH.Move(0, 1))
	assert.Equal(t, 0.0, SliderH.Move(0, -1))
	assert.Equal(t, 20.0, SliderH.Move(19.5, 3))
	assert.Equal(t, 0.1, SliderAlpha.Move(0.05, 1))
	assert.Equal(t, 90.0, SliderVC.Move(100, -10))
}

func TestParamsWithAndValue(t *testing.T) {
	p := DefaultParams().With("h", 3.2).With("alpha", 0.52).With("vc", 12.6)
	assert.Equal(t, 3.0, p.H)
	assert.Equal(t, 0.5, p.Alpha)
	assert.Equal(t, 13.0, p.VC)

	assert.Equal(t, 3.0, p.Value("h"))
	assert.Equal(t, 0.5, p.Value("alpha"))
	assert.Equal(t, 13.0, p.Value("vc"))
	assert.True(t, math.IsNaN(p.Value("nope")))

	// Unknown names leave the params untouched.
	assert.Equal(t, p, p.With("nope", 5))
}

func TestSlidersOrder(t *testing.T) {
	names := make([]string, len(Sliders))
	for i, s := range Sliders {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"h", "alpha", "vc"}, names)
}
