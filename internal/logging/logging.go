package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Init sets the default slog logger to a text handler on w. The classified
// document owns stdout, so w is normally stderr.
func Init(w io.Writer, level slog.Level) {
	opts := &slog.HandlerOptions{Level: level}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, opts)))
}

// ParseLevel converts "debug", "info", "warn" or "error" to a slog.Level.
// An empty string is LevelWarn.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("unknown log level %q", s)
	}
}
