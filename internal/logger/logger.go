// Package logger provides the process-wide logger for recipeforge.
// It wraps a zap SugaredLogger behind printf-style package functions so
// call sites stay terse. Output goes to stderr by default and optionally
// to a log file, keeping stdout clean for command output.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.RWMutex
	sugar *zap.SugaredLogger
)

// Init configures the package logger.
// level is one of debug, info, warn, error (default info).
// file, when non-empty, receives a copy of all log output.
func Init(level, file string) error {
	mu.Lock()
	defer mu.Unlock()

	lvl, err := parseLevel(level)
	if err != nil {
		return err
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.Lock(os.Stderr),
			lvl,
		),
	}

	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(file, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.Lock(f),
			lvl,
		))
	}

	sugar = zap.New(zapcore.NewTee(cores...)).Sugar()
	return nil
}

func parseLevel(level string) (zapcore.Level, error) {
	switch level {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

func logger() *zap.SugaredLogger {
	mu.RLock()
	s := sugar
	mu.RUnlock()
	if s != nil {
		return s
	}

	// Not initialized yet - fall back to an info-level stderr logger.
	mu.Lock()
	defer mu.Unlock()
	if sugar == nil {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		core := zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.Lock(os.Stderr),
			zapcore.InfoLevel,
		)
		sugar = zap.New(core).Sugar()
	}
	return sugar
}

// Debug logs a debug-level message with printf formatting.
func Debug(format string, args ...any) {
	logger().Debugf(format, args...)
}

// Info logs an info-level message with printf formatting.
func Info(format string, args ...any) {
	logger().Infof(format, args...)
}

// Warn logs a warning with printf formatting.
func Warn(format string, args ...any) {
	logger().Warnf(format, args...)
}

// Error logs an error with printf formatting.
func Error(format string, args ...any) {
	logger().Errorf(format, args...)
}

// Sync flushes any buffered log output. Safe to call at process exit.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	if sugar != nil {
		_ = sugar.Sync()
	}
}
