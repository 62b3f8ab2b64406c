// Package logger wraps zerolog.Logger with the constructors the structval
// command uses.
//
// Logger embeds zerolog.Logger so the full zerolog API (Debug, Info, Warn,
// Error, ...) is available directly.
package logger

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

// New builds a logger writing to w at the given level. Format "json" emits one
// JSON object per entry; "text" (or empty) uses zerolog's console writer
// without colours.
func New(w io.Writer, level, format string) (*Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var out io.Writer
	switch strings.ToLower(format) {
	case "json":
		out = w
	case "", "text":
		out = zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: "15:04:05"}
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	l := zerolog.New(out).Level(lvl).With().
		Str("role", "structval").
		Timestamp().
		Logger()
	return &Logger{l}, nil
}

// ParseLevel parses a zerolog level name. An empty name means warn.
func ParseLevel(level string) (zerolog.Level, error) {
	if level == "" {
		return zerolog.WarnLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// Nop returns a Logger that discards all output.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// Child returns a logger inheriting the receiver's fields with component set.
func (l *Logger) Child(component string) *Logger {
	return &Logger{l.With().Str("component", component).Logger()}
}
