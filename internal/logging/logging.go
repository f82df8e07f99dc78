// Package logging builds the slog logger used by assetfetch. Logs go to
// stderr through the clog console handler so they never mix with the
// archive listing printed on stdout.
package logging

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mattn/go-isatty"
)

// ErrInvalidLevel is returned for log levels other than debug, info, warn, error.
var ErrInvalidLevel = errors.New("invalid log level")

// ParseLevel converts a case-insensitive level name to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, goerr.Wrap(ErrInvalidLevel, "unknown log level", goerr.V("level", level))
	}
}

// New returns a logger writing to w at the given level. Colour is enabled
// only when w is a terminal.
func New(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	handler := clog.New(
		clog.WithWriter(w),
		clog.WithLevel(lvl),
		clog.WithColor(isTerminal(w)),
	)
	return slog.New(handler), nil
}

// Discard returns a logger that drops everything, for callers that do not
// configure one.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
