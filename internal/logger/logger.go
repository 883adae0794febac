// Package logger builds the process-wide slog logger from configuration.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"alcyxob/fit-platform/internal/config"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// New returns a logger writing to stdout. Production defaults to JSON output,
// every other environment to text.
func New(cfg config.Config) *slog.Logger {
	return newLogger(os.Stdout, cfg.Env, cfg.Log.Level, cfg.Log.Format)
}

func newLogger(w io.Writer, env, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	if format == "" {
		format = FormatText
		if strings.EqualFold(env, config.EnvProduction) {
			format = FormatJSON
		}
	}

	var handler slog.Handler
	if strings.EqualFold(format, FormatJSON) {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler).With(slog.String("env", env))
}

// ParseLevel maps debug, info, warn and error to slog levels. Unknown values mean info.
func ParseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
