// Package logging builds the zap logger used by turnavg.
// Logs always go to stderr so stdout stays clean for status bar output.
package logging

import (
	"fmt"
	"io"
	"os"

	"turnavg/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category names a subsystem; each one gets a named child logger.
type Category string

const (
	CategoryBoot   Category = "boot"   // Config loading, command setup
	CategoryStore  Category = "store"  // State file reads and writes
	CategoryPrompt Category = "prompt" // Value collection
	CategoryWatch  Category = "watch"  // File watching in --watch mode
)

// ParseLevel maps a config level string to a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	switch level {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info", "":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// New builds a logger writing to stderr. verbose forces debug level.
func New(cfg config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	return NewWithWriter(cfg, verbose, os.Stderr)
}

// NewWithWriter builds a logger writing to w.
func NewWithWriter(cfg config.LoggingConfig, verbose bool, w io.Writer) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch cfg.Format {
	case "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	case "console", "":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), zap.NewAtomicLevelAt(level))
	return zap.New(core), nil
}

// For returns the named child logger for a category. A nil base yields a no-op logger.
func For(base *zap.Logger, category Category) *zap.Logger {
	if base == nil {
		return zap.NewNop()
	}
	return base.Named(string(category))
}
