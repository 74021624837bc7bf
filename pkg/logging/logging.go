// Package logging provides the shared zap logger for agenda.
//
// A single base logger is built on first use. Its level comes from
// AGENDA_LOG_LEVEL (debug, info, warn, error; default warn) and its output
// from AGENDA_LOG_FILE (default stderr). Set AGENDA_LOG_FORMAT=console for a
// human-readable encoder; JSON is used otherwise.
//
//	log := logging.New("store")
//	log.Warn("decode failed", zap.String("key", key), zap.Error(err))
//
// Keep the TUI in mind: anything written to stderr lands on top of the
// alternate screen, so point AGENDA_LOG_FILE somewhere when debugging `agenda ui`.
package logging

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	initLogger sync.Once
	baseLogger *zap.Logger
)

// New returns a logger tagged with component. An empty component returns
// the base logger.
func New(component string) *zap.Logger {
	initLogger.Do(func() {
		baseLogger = build(os.Getenv("AGENDA_LOG_LEVEL"), os.Getenv("AGENDA_LOG_FILE"), os.Getenv("AGENDA_LOG_FORMAT"))
	})
	if component == "" {
		return baseLogger
	}
	return baseLogger.With(zap.String("component", component))
}

func build(level, path, format string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if strings.EqualFold(strings.TrimSpace(format), "console") {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(parseLevel(level))
	cfg.Sampling = nil
	out := "stderr"
	if p := strings.TrimSpace(path); p != "" {
		out = p
	}
	cfg.OutputPaths = []string{out}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		// Unwritable AGENDA_LOG_FILE: log to stderr instead.
		cfg.OutputPaths = []string{"stderr"}
		if logger, err = cfg.Build(); err != nil {
			return zap.NewNop()
		}
		logger.Warn("log file unavailable", zap.String("path", path), zap.Error(err))
	}
	return logger
}

// parseLevel maps a level name onto a zap level. Unknown values mean warn.
func parseLevel(value string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}
