package model

import "math"

// Slider describes a continuous control: its closed range, step and default.
type Slider struct {
	Name    string
	Label   string
	Min     float64
	Max     float64
	Step    float64
	Default float64
}

// Slider definitions for the three model parameters.
var (
	SliderH     = Slider{Name: "h", Label: "Hypertrophia (H)", Min: 0, Max: 20, Step: 0.5, Default: 0}
	SliderAlpha = Slider{Name: "alpha", Label: "Internal hypertrophia component Alpha (α)", Min: 0, Max: 1, Step: 0.05, Default: 0}
	SliderVC    = Slider{Name: "vc", Label: "Vasoconstriction (VC)", Min: 0, Max: 100, Step: 1, Default: 0}
)

// Sliders lists the sliders in display order.
var Sliders = []Slider{SliderH, SliderAlpha, SliderVC}

// Snap clamps v to the slider range and rounds it to the nearest step.
func (s Slider) Snap(v float64) float64 {
	if math.IsNaN(v) {
		return s.Default
	}
	v = math.Max(s.Min, math.Min(s.Max, v))
	if s.Step <= 0 {
		return v
	}
	steps := math.Round((v - s.Min) / s.Step)
	// Drop float noise such as 0.15000000000000002.
	snapped := math.Round((s.Min+steps*s.Step)*1e9) / 1e9
	return math.Max(s.Min, math.Min(s.Max, snapped))
}

// Move returns the value n steps away from v, snapped to the grid.
func (s Slider) Move(v float64, n int) float64 {
	return s.Snap(v + float64(n)*s.Step)
}

// DefaultParams returns every slider at its default and both checkboxes off.
func DefaultParams() Params {
	return Params{H: SliderH.Default, Alpha: SliderAlpha.Default, VC: SliderVC.Default}
}

// Controls is the enabled state of each slider.
type Controls struct {
	H     bool `json:"h"`
	Alpha bool `json:"alpha"`
	VC    bool `json:"vc"`
}

// DeriveControls computes slider availability from the checkbox flags:
// hypertrophia gates H and α, vasoconstriction gates VC. A disabled slider
// keeps its value and still feeds the model.
func DeriveControls(hypertrophia, vasoconstriction bool) Controls {
	return Controls{
		H:     hypertrophia,
		Alpha: hypertrophia,
		VC:    vasoconstriction,
	}
}

// Enabled reports whether the named slider is enabled.
func (c Controls) Enabled(name string) bool {
	switch name {
	case SliderH.Name:
		return c.H
	case SliderAlpha.Name:
		return c.Alpha
	case SliderVC.Name:
		return c.VC
	}
	return false
}

// Controls returns the slider availability implied by p's flags.
func (p Params) Controls() Controls {
	return DeriveControls(p.Hypertrophia, p.Vasoconstriction)
}

// Value returns the current value of the named slider.
func (p Params) Value(name string) float64 {
	switch name {
	case SliderH.Name:
		return p.H
	case SliderAlpha.Name:
		return p.Alpha
	case SliderVC.Name:
		return p.VC
	}
	return math.NaN()
}

// With returns a copy of p with the named slider set to v (snapped).
func (p Params) With(name string, v float64) Params {
	switch name {
	case SliderH.Name:
		p.H = SliderH.Snap(v)
	case SliderAlpha.Name:
		p.Alpha = SliderAlpha.Snap(v)
	case SliderVC.Name:
		p.VC = SliderVC.Snap(v)
	}
	return p
}
