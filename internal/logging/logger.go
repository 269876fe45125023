// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the structured logger shared by the CLI and the
// HTTP server.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Log output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// New returns a logger writing to stderr. Stdout is left to command output.
func New(format, level string) (zerolog.Logger, error) {
	return NewWriter(os.Stderr, format, level)
}

// NewWriter returns a logger writing to w in the given format ("console"
// or "json") at the given level.
func NewWriter(w io.Writer, format, level string) (zerolog.Logger, error) {
	parsedLevel, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("parse log.level=%q: %w", level, err)
	}

	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatJSON:
	case FormatConsole, "":
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
			NoColor:    !isTerminal(w),
		}
	default:
		return zerolog.Logger{}, fmt.Errorf("unknown log.format %q (want %s or %s)", format, FormatConsole, FormatJSON)
	}

	return zerolog.New(w).
		Level(parsedLevel).
		With().
		Timestamp().
		Str("service", "rle").
		Logger(), nil
}

// isTerminal reports whether w is a terminal that can render color.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
