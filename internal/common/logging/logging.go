package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// ============================================================
// Structured Logging
// ============================================================

// Setup настраивает slog как логгер по умолчанию. Стандартный log.Printf
// после этого пишет через тот же handler.
func Setup(service, level, file string) *slog.Logger {
	var w io.Writer = os.Stderr
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "log dir: %v\n", err)
		} else {
			w = &lumberjack.Logger{
				Filename:   file,
				MaxSize:    32, // MB
				MaxBackups: 3,
				MaxAge:     14,
				Compress:   true,
			}
		}
	}

	logger := New(w, level).With(slog.String("service", service))
	slog.SetDefault(logger)
	return logger
}

// New создаёт JSON логгер с указанным уровнем.
func New(w io.Writer, level string) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return slog.New(h)
}

func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
