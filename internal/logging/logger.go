// Package logging builds the zerolog loggers handed to every pipeline
// component. There is no package-global logger; callers construct one in
// main and inject it.
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level: trace, debug, info, warn, error, disabled.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	Format string `koanf:"format"`
}

// DefaultConfig returns the default logging configuration.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "console",
	}
}

// New builds a logger writing to w. A nil writer means os.Stderr.
func New(cfg Config, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	output := w
	if strings.ToLower(cfg.Format) != "json" {
		output = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: "15:04:05",
		}
	}

	zerolog.TimeFieldFormat = time.RFC3339

	return zerolog.New(output).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
}

// Nop returns a logger that discards everything. Useful for tests.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// WithRun tags every line of one course-build invocation with a short run id.
func WithRun(log zerolog.Logger) (zerolog.Logger, string) {
	id := uuid.New().String()[:8]
	return log.With().Str("run_id", id).Logger(), id
}

// FromContext returns the run logger attached to ctx with
// zerolog's Logger.WithContext, tagged with component. Without one it
// returns fallback unchanged.
func FromContext(ctx context.Context, fallback zerolog.Logger, component string) zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if l == nil || l.GetLevel() == zerolog.Disabled {
		return fallback
	}
	return l.With().Str("component", component).Logger()
}

// ParseLevel converts a level name to a zerolog.Level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
