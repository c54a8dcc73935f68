// Package logging builds the application logger. Output always goes to a
// file: the interactive wizard owns the terminal, so log lines must never
// land on it.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/M00N7682/pptpro/internal/config"
)

// New builds a zap logger per the logging config. verbose forces debug
// level regardless of the configured level.
func New(cfg *config.Config, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Logging.Format == "text" {
		zc = zap.NewDevelopmentConfig()
	}

	level := zapcore.InfoLevel
	if cfg.Logging.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Logging.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
		}
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logFile := cfg.Logging.File
	if logFile == "" {
		logFile = filepath.Join(cfg.State.Dir, "pptpro.log")
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	zc.OutputPaths = []string{logFile}
	zc.ErrorOutputPaths = []string{logFile}

	return zc.Build()
}
