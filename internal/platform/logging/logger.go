package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultLevel = "info"

type Options struct {
	Service string
	Env     string
	Level   string
}

// New builds a JSON zap logger tagged with service and env.
func New(opts Options) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(opts.Level)))); err != nil || opts.Level == "" {
		_ = level.UnmarshalText([]byte(defaultLevel))
	}

	encoderCfg := zapcore.EncoderConfig{
		MessageKey:    "message",
		TimeKey:       "timestamp",
		LevelKey:      "severity",
		NameKey:       "logger",
		CallerKey:     "caller",
		StacktraceKey: "stacktrace",
		EncodeTime:    zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel:   zapcore.CapitalLevelEncoder,
		EncodeCaller:  zapcore.ShortCallerEncoder,
	}

	cfg := zap.Config{
		Level:             level,
		Encoding:          "json",
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
		DisableStacktrace: true,
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}

	return logger.With(
		zap.String("service", opts.Service),
		zap.String("env", opts.Env),
	), nil
}
