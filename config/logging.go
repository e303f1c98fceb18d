package config

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the zap logger for env, applies level and installs it as
// the global logger.
func NewLogger(env, level string) (*zap.Logger, error) {
	logger, err := setLogger(env)
	if err != nil {
		return nil, err
	}
	if level != "" {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(level)); err == nil && logger.Core().Enabled(lvl-1) {
			logger = logger.WithOptions(zap.IncreaseLevel(lvl))
		}
	}
	_ = zap.ReplaceGlobals(logger)
	return logger, nil
}

func setLogger(env string) (*zap.Logger, error) {
	switch env {
	case "production":
		return zap.NewProduction()
	case "development":
		return zap.NewDevelopment()
	default:
		return zap.NewExample(), nil
	}
}
