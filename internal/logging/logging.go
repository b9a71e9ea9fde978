// Package logging builds the process logger: a slog text handler writing to
// stderr, or to a rotating file when one is configured.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultLevel keeps a normal run quiet apart from the final diagnostic.
const DefaultLevel = slog.LevelWarn

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return DefaultLevel, fmt.Errorf("unknown log level %q", s)
}

// Options configures New.
type Options struct {
	Level slog.Level
	// File, when set, receives the log instead of Stderr.
	File   string
	Stderr io.Writer
}

// New returns a logger tagged with a fresh run id and a Closer for the sink.
func New(opts Options) (*slog.Logger, io.Closer) {
	var (
		sink   io.Writer = opts.Stderr
		closer io.Closer = nopCloser{}
	)
	if opts.File != "" {
		fileLogger := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    5,
			MaxAge:     7,
			MaxBackups: 3,
			Compress:   true,
		}
		sink, closer = fileLogger, fileLogger
	}
	if sink == nil {
		return slog.New(slog.DiscardHandler), closer
	}

	handler := slog.NewTextHandler(sink, &slog.HandlerOptions{
		Level: opts.Level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.String("time", a.Value.Time().Format("15:04:05.000"))
			}
			return a
		},
	})
	return slog.New(handler).With("run_id", uuid.NewString()), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
