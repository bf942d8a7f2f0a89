package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options controls how New builds the process logger.
type Options struct {
	Level     string // debug, info, warn, error
	Format    string // json or text
	File      string // empty means stderr
	MaxSizeMB int
	MaxFiles  int
}

// New builds a SlogLogger according to opts. The returned io.Closer releases
// the rotating file, if any; it is a no-op for stderr.
func New(opts Options) (*SlogLogger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	var (
		w      io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	if opts.File != "" {
		rw, err := NewRotatingWriter(RotationConfig{
			File:      opts.File,
			MaxSizeMB: opts.MaxSizeMB,
			MaxFiles:  opts.MaxFiles,
		})
		if err != nil {
			return nil, nil, err
		}
		w, closer = rw, rw
	}

	return NewSlogLogger(slog.New(newHandler(w, opts.Format, level))), closer, nil
}

// Discard returns a logger that drops every record. Handy in tests.
func Discard() *SlogLogger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// ParseLevel maps a textual level to slog.Level. Empty means info.
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
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

func newHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	ho := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "text") {
		return slog.NewTextHandler(w, ho)
	}
	return slog.NewJSONHandler(w, ho)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
