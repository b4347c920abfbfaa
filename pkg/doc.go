// Package pkg holds the wlrsim libraries.
//
// wlrsim compares a normal population of vessel wall measurements with one
// modified by hypertrophia and vasoconstriction. Each package owns one step:
//
//  1. [model] samples both populations from the parameters and a seed
//  2. [regress] fits a least-squares trend line to each population
//  3. [geometry] intersects the lines and measures the angle ω and gap H
//  4. [figure] assembles a format-independent chart description
//  5. [render] draws the figure as SVG, PNG, PDF or a terminal preview
//
// [pipeline] runs these steps behind every entry point, with [cache] storing
// rendered artifacts and [observability] reporting progress.
//
// # Quick Start
//
//	params := model.Params{H: 10, Alpha: 0.5, Hypertrophia: true}
//	pop := model.Generate(params, model.DefaultSeed)
//	normal, _ := regress.Linear(pop.L1, pop.W1)
//	modified, _ := regress.Linear(pop.L2, pop.W2)
//	fig := figure.Build(pop, normal, modified, params)
//	svg, _ := render.Render(fig, render.FormatSVG)
package pkg
