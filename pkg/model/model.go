package model

import (
	"fmt"

	"github.com/matzehuels/wlrsim/pkg/errors"
)

// Geometric constants of the normal population.
const (
	// WLR is the width-to-length ratio of the baseline linear relation.
	WLR = 0.3

	// Wmin is the width at zero length.
	Wmin = 5.0
)

// Sampling and noise constants.
const (
	// Samples is the number of points per population.
	Samples = 100

	// LMax is the upper end of the noiseless length grid [0, LMax].
	LMax = 200.0

	// NoiseSigma is the standard deviation of the additive Gaussian noise.
	NoiseSigma = 2.0

	// DefaultSeed reproduces the reference figures.
	DefaultSeed = uint64(0)
)

// Params is the immutable input of one render: the three slider values and
// the two checkbox flags.
type Params struct {
	// H is the hypertrophia magnitude in um.
	H float64 `json:"h" toml:"h"`
	// Alpha is the fraction of hypertrophia attributed to length change.
	Alpha float64 `json:"alpha" toml:"alpha"`
	// VC is the vasoconstriction percentage applied to length.
	VC float64 `json:"vc" toml:"vc"`

	// Hypertrophia and Vasoconstriction are the checkbox states. They select
	// the legend label and slider availability only.
	Hypertrophia     bool `json:"hypertrophia" toml:"hypertrophia"`
	Vasoconstriction bool `json:"vasoconstriction" toml:"vasoconstriction"`
}

// Validate checks the slider values against their domains.
func (p Params) Validate() error {
	if err := errors.ValidateRange("H", p.H, SliderH.Min, SliderH.Max); err != nil {
		return err
	}
	if err := errors.ValidateRange("alpha", p.Alpha, SliderAlpha.Min, SliderAlpha.Max); err != nil {
		return err
	}
	return errors.ValidateRange("VC", p.VC, SliderVC.Min, SliderVC.Max)
}

// String renders the parameters compactly for log lines and status bars.
func (p Params) String() string {
	return fmt.Sprintf("H=%.2f α=%.2f VC=%.0f%% hyp=%t vaso=%t",
		p.H, p.Alpha, p.VC, p.Hypertrophia, p.Vasoconstriction)
}

// Populations holds the generated samples. All slices have length [Samples].
type Populations struct {
	L1, W1 []float64 // normal population
	L2, W2 []float64 // modified population

	// WCSA is the noisy area proxy of the normal population.
	WCSA []float64

	// Clamped lists the indices where the width back-solve radicand was
	// negative and clamped to zero.
	Clamped []int
}

// Len returns the number of points per population.
func (p Populations) Len() int { return len(p.L1) }
