package logging

import (
	"time"

	"go.uber.org/zap/zapcore"
)

// Field name constants for structured log output.
const (
	TimestampKey  = "timestamp"
	LevelKey      = "level"
	SourceKey     = "source"
	CallerKey     = "caller"
	MessageKey    = "message"
	StacktraceKey = "stacktrace"
)

// NewEncoderConfig returns the JSON encoder configuration used for file
// output. Timestamps are ISO 8601 with millisecond precision.
func NewEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        TimestampKey,
		LevelKey:       LevelKey,
		NameKey:        SourceKey,
		CallerKey:      CallerKey,
		MessageKey:     MessageKey,
		StacktraceKey:  StacktraceKey,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// NewConsoleEncoderConfig returns the console encoder configuration used for
// terminal output. Levels are colored and timestamps are short.
func NewConsoleEncoderConfig() zapcore.EncoderConfig {
	cfg := NewEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeTime = shortTimeEncoder
	return cfg
}

// shortTimeEncoder renders only the time of day, keeping console lines
// compact.
func shortTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05.000"))
}
