package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates the logger shared by every command.
// Timestamps use "HH:MM:SS.ms" (e.g. "14:32:01.45") so consecutive pipeline
// stages stay distinguishable within one render.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// discardLogger returns a logger that drops everything. The explorer uses it
// for preview renders, which would otherwise scribble over the alt screen.
func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// resolveLevel settles the effective level: --verbose always wins over the
// configured log_level.
func resolveLevel(configured log.Level, verbose bool) log.Level {
	if verbose {
		return LogDebug
	}
	return configured
}

// progress times one command-level operation.
// It is meant for a single goroutine; concurrent calls to done race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress starts timing now.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with the elapsed time as a "duration" field,
// rounded to the millisecond, followed by any extra key/value pairs.
//
//	INFO Rendered chart duration=12ms formats=svg,png render_id=3f2a9c1d
func (p *progress) done(msg string, keyvals ...any) {
	fields := append([]any{"duration", time.Since(p.start).Round(time.Millisecond)}, keyvals...)
	p.logger.Info(msg, fields...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx. The root command does this in its pre-run so
// every subcommand sees the configured level.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when a command runs without the root pre-run (tests).
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
