package render

import (
	"slices"
	"strings"

	"gonum.org/v1/plot/vg"

	"github.com/matzehuels/wlrsim/pkg/errors"
	"github.com/matzehuels/wlrsim/pkg/figure"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatText = "txt"
)

// Formats lists every supported format.
var Formats = []string{FormatSVG, FormatPNG, FormatPDF, FormatText}

// Default figure dimensions.
const (
	DefaultWidth  = 10.0 // inches
	DefaultHeight = 6.0  // inches
	DefaultDPI    = 96

	DefaultTextWidth  = 80
	DefaultTextHeight = 20
)

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	width, height vg.Length
	dpi           int
	cols, rows    int
	color         bool
}

// WithSize sets the figure size in inches. Non-positive values keep the default.
func WithSize(w, h float64) Option {
	return func(r *renderer) {
		if w > 0 {
			r.width = vg.Length(w) * vg.Inch
		}
		if h > 0 {
			r.height = vg.Length(h) * vg.Inch
		}
	}
}

// WithDPI sets the PNG resolution.
func WithDPI(dpi int) Option {
	return func(r *renderer) {
		if dpi > 0 {
			r.dpi = dpi
		}
	}
}

// WithTextSize sets the terminal preview size in columns and rows.
func WithTextSize(cols, rows int) Option {
	return func(r *renderer) {
		if cols > 0 {
			r.cols = cols
		}
		if rows > 0 {
			r.rows = rows
		}
	}
}

// WithColor enables ANSI colors in the terminal preview.
func WithColor() Option { return func(r *renderer) { r.color = true } }

func newRenderer(opts ...Option) renderer {
	r := renderer{
		width:  DefaultWidth * vg.Inch,
		height: DefaultHeight * vg.Inch,
		dpi:    DefaultDPI,
		cols:   DefaultTextWidth,
		rows:   DefaultTextHeight,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Render draws fig in the given format.
func Render(fig figure.Figure, format string, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	switch format {
	case FormatSVG, FormatPDF:
		return r.vector(fig, format)
	case FormatPNG:
		return r.raster(fig)
	case FormatText:
		return []byte(r.text(fig)), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(Formats, ", "))
}

// ValidFormat reports whether format is supported.
func ValidFormat(format string) bool {
	return slices.Contains(Formats, format)
}

// ContentType returns the MIME type for a format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatText:
		return "text/plain; charset=utf-8"
	}
	return "application/octet-stream"
}
