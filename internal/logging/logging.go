// Package logging builds the slog loggers used by the mapsquery tool.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects where log lines go and how verbose they are.
type Options struct {
	// Level is one of debug, info, warn or error. Empty means info.
	Level string
	// File enables size-rotated file output instead of Stderr.
	File string
	// MaxSizeMB is the rotation threshold, 10 when zero.
	MaxSizeMB  int
	MaxBackups int
	AddSource  bool
}

// ParseLevel maps a level name onto a slog.Level.
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
	}
	return 0, fmt.Errorf("logging: unknown level %q", s)
}

// New returns a logger configured by opts and a closer for its output. The
// closer is a no-op for Stderr.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	var (
		w      io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("logging: failed to create log directory: %w", err)
		}
		maxSize := opts.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 10
		}
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxSize,
			MaxBackups: opts.MaxBackups,
		}
		w, closer = lj, lj
	}
	return slog.New(NewLineHandler(w, level, opts.AddSource)), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
