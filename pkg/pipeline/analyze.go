package pipeline

import (
	"fmt"

	"github.com/matzehuels/wlrsim/pkg/figure"
	"github.com/matzehuels/wlrsim/pkg/model"
	"github.com/matzehuels/wlrsim/pkg/regress"
	"github.com/matzehuels/wlrsim/pkg/render"
)

// Analysis is everything computed before drawing.
type Analysis struct {
	Populations model.Populations
	Normal      regress.Fit
	Modified    regress.Fit
	Figure      figure.Figure
}

// Fit computes the trend line of each full population.
func Fit(pop model.Populations) (normal, modified regress.Fit, err error) {
	normal, err = regress.Linear(pop.L1, pop.W1)
	if err != nil {
		return normal, modified, fmt.Errorf("fit normal population: %w", err)
	}
	modified, err = regress.Linear(pop.L2, pop.W2)
	if err != nil {
		return normal, modified, fmt.Errorf("fit modified population: %w", err)
	}
	return normal, modified, nil
}

// Analyze runs generate and fit and assembles the figure. Params are not
// validated here.
func Analyze(p model.Params, seed uint64) (*Analysis, error) {
	pop := model.Generate(p, seed)
	normal, modified, err := Fit(pop)
	if err != nil {
		return nil, err
	}
	return &Analysis{
		Populations: pop,
		Normal:      normal,
		Modified:    modified,
		Figure:      figure.Build(pop, normal, modified, p),
	}, nil
}

// Draw renders fig in every requested format without caching.
func Draw(fig figure.Figure, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := render.Render(fig, format, opts.RenderOptions()...)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
