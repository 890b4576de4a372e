// Package observability builds the structured zap logger shared by every component.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/arena/internal/config"
)

// NewLogger creates a structured logger from the given logging configuration.
// Output goes to stderr so stdout stays free for the encounter transcript.
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
// Postcondition: Returns a configured zap.Logger or a non-nil error.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	zapCfg, err := baseConfig(cfg.Format)
	if err != nil {
		return nil, err
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger.Named("arena"), nil
}

func baseConfig(format string) (zap.Config, error) {
	switch format {
	case "json":
		c := zap.NewProductionConfig()
		// Every turn event is logged; sampling would drop repeated ticks.
		c.Sampling = nil
		return c, nil
	case "console":
		c := zap.NewDevelopmentConfig()
		c.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return c, nil
	default:
		return zap.Config{}, fmt.Errorf("unknown log format %q", format)
	}
}
