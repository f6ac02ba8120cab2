package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls logger construction.
type Config struct {
	// Development switches the console to debug level and enables
	// development mode (DPanic panics).
	Development bool

	// FilePath is the log file location. Empty disables file output.
	FilePath string

	// FileWriter overrides the default rotation settings when non-nil.
	FileWriter *FileWriterConfig
}

// New builds the process logger. Console output goes to stdout; file output
// rotates via lumberjack. Every entry passes through sensitive data
// redaction before encoding.
func New(cfg Config) (*zap.Logger, error) {
	consoleLevel := zapcore.InfoLevel
	if cfg.Development {
		consoleLevel = zapcore.DebugLevel
	}

	var core zapcore.Core
	if cfg.FilePath != "" {
		fwCfg := DefaultFileWriterConfig(cfg.FilePath)
		if cfg.FileWriter != nil {
			fwCfg = *cfg.FileWriter
			fwCfg.Path = cfg.FilePath
		}
		fileWriter, err := NewFileWriter(fwCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file writer: %w", err)
		}
		core = NewMultiCore(fileWriter, consoleLevel, zapcore.DebugLevel)
	} else {
		core = zapcore.NewCore(
			zapcore.NewConsoleEncoder(NewConsoleEncoderConfig()),
			zapcore.Lock(os.Stdout),
			consoleLevel,
		)
	}

	opts := []zap.Option{zap.AddCaller()}
	if cfg.Development {
		opts = append(opts, zap.Development())
	}

	return zap.New(newRedactingCore(core), opts...), nil
}

// redactingCore wraps another core and redacts sensitive data from messages
// and string fields before they reach the encoder.
type redactingCore struct {
	zapcore.Core
}

func newRedactingCore(inner zapcore.Core) zapcore.Core {
	return &redactingCore{Core: inner}
}

func (c *redactingCore) With(fields []zapcore.Field) zapcore.Core {
	return &redactingCore{Core: c.Core.With(redactFields(fields))}
}

func (c *redactingCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *redactingCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	entry.Message = RedactSensitiveData(entry.Message)
	return c.Core.Write(entry, redactFields(fields))
}

// redactFields returns a copy of fields with string values redacted. Only
// string fields carry free-form text; other types pass through unchanged.
func redactFields(fields []zapcore.Field) []zapcore.Field {
	redacted := make([]zapcore.Field, len(fields))
	for i, field := range fields {
		if field.Type == zapcore.StringType {
			field.String = RedactField(field.Key, field.String)
		}
		redacted[i] = field
	}
	return redacted
}
