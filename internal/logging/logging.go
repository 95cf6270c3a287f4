// Package logging configures the zerolog logger shared by the timesheet
// command and carries it through a context.Context.
//
//	log := logging.New(logging.Config{Level: "debug"}, os.Stderr)
//	ctx := logging.WithLogger(context.Background(), &log)
//	logging.FromContext(ctx).Info().Str("file", name).Msg("parsing workbook")
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Config selects the level and the output format of a logger.
type Config struct {
	// Level is one of trace, debug, info, warn, error or off.
	Level string
	// Format is console, json or auto. Auto picks console on terminals.
	Format string
	// NoColor disables colors in console output.
	NoColor bool
}

// Nop discards everything.
var Nop = zerolog.Nop()

type contextKey struct{}

// New returns a logger writing to w.
func New(cfg Config, w io.Writer) zerolog.Logger {
	level := ParseLevel(cfg.Level)
	if console(cfg.Format, w) {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.Kitchen,
			NoColor:    cfg.NoColor || os.Getenv("NO_COLOR") != "",
		}
	}
	logger := zerolog.New(w).Level(level).With().Timestamp().Logger()
	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger
}

// ParseLevel maps a level name to a zerolog level. Unknown names mean info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zerolog.InfoLevel
	case "warning":
		return zerolog.WarnLevel
	case "off", "none", "disabled":
		return zerolog.Disabled
	}
	if l, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil {
		return l
	}
	return zerolog.InfoLevel
}

// ValidLevel reports whether ParseLevel knows level.
func ValidLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "off", "none", "disabled":
		return true
	}
	return false
}

func console(format string, w io.Writer) bool {
	switch strings.ToLower(format) {
	case "console", "pretty":
		return true
	case "json":
		return false
	}
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = &Nop
	}
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger carried by ctx, or Nop.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(contextKey{}).(*zerolog.Logger); ok {
			return logger
		}
	}
	return &Nop
}
