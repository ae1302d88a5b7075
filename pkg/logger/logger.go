// Package logger builds the process-wide slog logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const FormatText = "text"

// Options for New. Format is json unless set to FormatText, and Output
// defaults to stdout.
type Options struct {
	Service   string
	Version   string
	Env       string
	Level     string
	Format    string
	AddSource bool
	Output    io.Writer
}

// New tags every record with the service identity and installs the logger
// as the slog default. Debug level always records the call site.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	level := parseLevel(opts.Level)
	hopts := &slog.HandlerOptions{
		Level:     level,
		AddSource: opts.AddSource || level == slog.LevelDebug,
	}

	var h slog.Handler
	if strings.EqualFold(opts.Format, FormatText) {
		h = slog.NewTextHandler(out, hopts)
	} else {
		h = slog.NewJSONHandler(out, hopts)
	}

	attrs := []any{"service", opts.Service, "env", opts.Env}
	if opts.Version != "" {
		attrs = append(attrs, "version", opts.Version)
	}
	l := slog.New(h).With(attrs...)

	slog.SetDefault(l)
	return l
}

// Discard drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func parseLevel(lvl string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
