package logger

import (
	"fmt"

	"interview-coach/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	log   = zap.NewNop()
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// Initialize replaces the global logger. Production writes sampled JSON,
// anything else writes colored console lines.
func Initialize(cfg config.LoggerConfig) error {
	lvl, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	level.SetLevel(lvl)

	var zc zap.Config
	if cfg.Env == "production" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = level
	zc.OutputPaths = []string{"stdout"}
	zc.EncoderConfig.TimeKey = "timestamp"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder

	built, err := zc.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	log = built
	zap.ReplaceGlobals(log)
	return nil
}

// Get returns the global logger. Before Initialize it discards everything.
func Get() *zap.Logger {
	return log
}

// SetLevel changes the level of the running logger.
func SetLevel(l zapcore.Level) {
	level.SetLevel(l)
}

func Sync() error {
	return log.Sync()
}
