// Package logging builds the zerolog loggers shared by the CLI and the server.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to w at the given level.
// Unknown levels fall back to info.
func New(w io.Writer, level string) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
	}).Level(lvl).With().Timestamp().Logger()
}

// NewDefault returns a stderr logger; verbose enables debug output.
func NewDefault(verbose bool) zerolog.Logger {
	if verbose {
		return New(os.Stderr, "debug")
	}
	return New(os.Stderr, "info")
}

// Nop returns a logger that discards everything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
