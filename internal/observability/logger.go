// Package observability builds the loggers, HTTP middleware and metrics shared
// by the command line tool and the API server.
package observability

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iwvelando/home-affordability/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a zap logger from the logging section. A non-empty
// levelOverride (the -log-level flag) replaces the configured level.
//
// Both formats start from the production config, so warnings carry no stack
// traces; "console" switches the encoder to colored, human-readable lines.
func NewLogger(lc config.LoggingConfig, levelOverride string) (*zap.Logger, error) {
	level := firstNonEmpty(levelOverride, lc.Level, "info")
	zapLevel, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	switch format := firstNonEmpty(lc.Format, "json"); format {
	case "json":
	case "console":
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.Sampling = nil
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	if lc.OutputFile != "" {
		if err := ensureWritable(lc.OutputFile); err != nil {
			return nil, err
		}
		cfg.OutputPaths = []string{lc.OutputFile}
		cfg.ErrorOutputPaths = []string{lc.OutputFile}
		if lc.Format == "console" {
			// No color escapes in files.
			cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		}
	}

	return cfg.Build()
}

// ensureWritable creates the log file and its directory.
func ensureWritable(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory for %s: %w", path, err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	return file.Close()
}

// ParseLevel accepts debug, info, warn (or warning) and error, in any case.
func ParseLevel(level string) (zapcore.Level, error) {
	switch normalized := strings.ToLower(strings.TrimSpace(level)); normalized {
	case "warning":
		return zapcore.WarnLevel, nil
	case "debug", "info", "warn", "error":
		return zapcore.ParseLevel(normalized)
	}
	return zapcore.InfoLevel, fmt.Errorf("invalid log level: %s", level)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
