package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New returns a service logger writing JSON lines to w, or to stderr when w
// is nil. Unknown levels fall back to info.
func New(service, level string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}

// Console is New with human readable output for local runs.
func Console(service, level string) zerolog.Logger {
	return New(service, level, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
}
