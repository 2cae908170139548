// Package logging builds the process slog.Logger: a plain text handler for
// services and journals, or a colored tint handler for terminals.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/lmittmann/tint"
)

// Format selects the handler.
type Format string

const (
	// FormatText writes logfmt-style lines (default).
	FormatText Format = "text"
	// FormatTerminal writes colored lines without timestamps.
	FormatTerminal Format = "terminal"
)

// Options configures New.
type Options struct {
	Level  string
	Format Format
	// Writer defaults to os.Stderr.
	Writer io.Writer
	// NoColor disables tint colors in terminal format.
	NoColor bool
}

// ParseLevel maps debug, info, warn or error (any case) to a slog level.
// An empty string selects info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// ParseFormat maps text or terminal to a Format. An empty string selects text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatTerminal:
		return FormatTerminal, nil
	default:
		return FormatText, fmt.Errorf("unknown log format %q", s)
	}
}

// New returns a logger for opts.
func New(opts Options) (*slog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	switch opts.Format {
	case "", FormatText:
		return slog.New(newTextHandler(w, level)), nil
	case FormatTerminal:
		return slog.New(newTerminalHandler(w, level, opts.NoColor)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}
}

func newTextHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				lvl, _ := a.Value.Any().(slog.Level)
				return slog.String(a.Key, strings.ToLower(lvl.String()))
			}
			return a
		},
	})
}

func newTerminalHandler(w io.Writer, level slog.Level, noColor bool) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		NoColor:   noColor || runtime.GOOS == "windows",
		AddSource: level <= slog.LevelDebug,
		Level:     level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})
}
