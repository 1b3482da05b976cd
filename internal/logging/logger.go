// Package logging provides the structured logger shared by the evaluator,
// session, and REPL.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger with additional context.
type Logger struct {
	*slog.Logger
}

// New creates a logger whose level is controlled by ECLAIR_LOG_LEVEL
// (debug/info/warn/error, default info). Outside debug level, timestamps are
// stripped and source file paths are shortened for cleaner REPL output.
func New() *Logger {
	level := slog.LevelInfo
	switch strings.ToLower(os.Getenv("ECLAIR_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && level != slog.LevelDebug {
				return slog.Attr{}
			}
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					source.File = shortPath(source.File)
				}
			}
			return a
		},
	}

	return &Logger{slog.New(slog.NewTextHandler(os.Stderr, opts))}
}

// shortPath trims a source file path down to the part after the module root.
func shortPath(file string) string {
	if idx := strings.Index(file, "eclair/"); idx != -1 {
		return file[idx+len("eclair/"):]
	}
	parts := strings.Split(file, "/")
	if len(parts) > 0 {
		return parts[len(parts)-1]
	}
	return file
}
