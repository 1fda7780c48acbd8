// Package logging configures the application's slog loggers: a structured
// default logger on stderr, optionally mirrored to a rotating log file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	defaultLogger *slog.Logger
	defaultLevel  = new(slog.LevelVar)
	initOnce      sync.Once
)

// Init initializes the default structured logger. Safe to call more than
// once; only the first call takes effect.
func Init(debug bool) {
	initOnce.Do(func() {
		if debug {
			defaultLevel.Set(slog.LevelDebug)
		} else {
			defaultLevel.Set(slog.LevelInfo)
		}

		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: defaultLevel,
		})
		defaultLogger = slog.New(handler)
		slog.SetDefault(defaultLogger)
	})
}

// SetLevel adjusts the minimum level of the default logger at runtime.
func SetLevel(level slog.Level) {
	defaultLevel.Set(level)
}

// ForService returns the default logger with a service attribute attached.
func ForService(serviceName string) *slog.Logger {
	if defaultLogger == nil {
		Init(false)
	}
	return defaultLogger.With("service", serviceName)
}

// newRotatingWriter creates the rotating file writer. lumberjack does not
// create directories, so the log directory is created here if needed.
func newRotatingWriter(filePath string) (*lumberjack.Logger, error) {
	logDir := filepath.Dir(filePath)
	if logDir != "." {
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", logDir, err)
		}
	}

	return &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}, nil
}

// EnableFileOutput routes the default logger to a rotating file in addition
// to stderr. Loggers handed out by ForService after this call write to both
// destinations. The returned close function releases the file writer.
func EnableFileOutput(filePath string) (func() error, error) {
	Init(false)

	logWriter, err := newRotatingWriter(filePath)
	if err != nil {
		return nil, err
	}

	handler := slog.NewTextHandler(io.MultiWriter(os.Stderr, logWriter), &slog.HandlerOptions{
		Level: defaultLevel,
	})
	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)

	return logWriter.Close, nil
}
