package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process-wide zap logger. The environment selects the
// base config; LOG_LEVEL overrides the configured level when set.
func NewLogger(environment, level string) (*zap.Logger, error) {
	var config zap.Config

	if environment == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if override := os.Getenv("LOG_LEVEL"); override != "" {
		level = override
	}
	if level != "" {
		var parsed zapcore.Level
		if err := parsed.UnmarshalText([]byte(level)); err == nil {
			config.Level.SetLevel(parsed)
		}
	}

	return config.Build()
}
