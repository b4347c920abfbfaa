// Package render draws a [figure.Figure] into an output format.
//
// # Formats
//
//   - svg: scalable vector graphics (gonum/plot vgsvg canvas)
//   - png: raster image at a configurable DPI (vgimg canvas)
//   - pdf: print-ready vector output (vgpdf canvas)
//   - txt: terminal preview of the two trend lines (asciigraph)
//
// All formats are produced in-process; no external converter is required.
//
// # Usage
//
//	fig := figure.Build(pop, normal, modified, params)
//	svg, err := render.Render(fig, render.FormatSVG)
//	png, err := render.Render(fig, render.FormatPNG, render.WithDPI(150))
//	txt, err := render.Render(fig, render.FormatText, render.WithTextSize(72, 16))
//
// # Options
//
//   - [WithSize]: figure size in inches (default 10×6)
//   - [WithDPI]: raster resolution for PNG (default 96)
//   - [WithTextSize]: terminal preview columns and rows
//   - [WithColor]: ANSI colors in the terminal preview
//
// The angle arc and the double-headed intercept arrow are drawn by custom
// plotters ([ArcPlotter], [ArrowPlotter]) that implement [plot.Plotter].
//
// [figure.Figure]: github.com/matzehuels/wlrsim/pkg/figure.Figure
// [plot.Plotter]: gonum.org/v1/plot.Plotter
package render
