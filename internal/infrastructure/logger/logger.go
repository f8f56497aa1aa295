// Package logger builds the zap loggers used across the ledger service.
package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger configuration
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	Output     string // stdout, stderr, or a file path
	TimeFormat string // Go layout; empty means ISO8601
}

// DefaultConfig is console output at info level
func DefaultConfig() Config {
	return Config{Level: "info", Format: "console", Output: "stdout"}
}

// New creates a zap logger. Extra cores, such as the OTLP log bridge, receive
// every entry the primary core accepts.
func New(cfg Config, extra ...zapcore.Core) (*zap.Logger, error) {
	out, err := openOutput(cfg.Output)
	if err != nil {
		return nil, err
	}

	level := ParseLevel(cfg.Level)
	cores := []zapcore.Core{zapcore.NewCore(newEncoder(cfg.Format, cfg.TimeFormat), out, level)}
	for _, c := range extra {
		if c != nil {
			cores = append(cores, c)
		}
	}

	return zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	), nil
}

// ParseLevel converts a level name, defaulting to info
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func newEncoder(format, timeFormat string) zapcore.Encoder {
	ec := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if timeFormat != "" {
		ec.EncodeTime = zapcore.TimeEncoderOfLayout(timeFormat)
	}
	if format == "console" {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(ec)
	}
	return zapcore.NewJSONEncoder(ec)
}

func openOutput(output string) (zapcore.WriteSyncer, error) {
	switch strings.ToLower(output) {
	case "", "stdout":
		return zapcore.Lock(os.Stdout), nil
	case "stderr":
		return zapcore.Lock(os.Stderr), nil
	}
	f, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log output %s: %w", output, err)
	}
	return zapcore.AddSync(f), nil
}
