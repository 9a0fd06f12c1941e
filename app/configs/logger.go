package configs

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func NewLogger(env ENV) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(env.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var cfg zap.Config
	if env.IsProduction() {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	if env.LogEncoding == "console" || env.LogEncoding == "json" {
		cfg.Encoding = env.LogEncoding
	}
	if cfg.Encoding == "json" {
		cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	}

	return cfg.Build()
}
