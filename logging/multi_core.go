package logging

import (
	"io"
	"os"

	"go.uber.org/zap/zapcore"
)

// NewMultiCore builds a core that tees log entries to the console and to a
// rotating file. Console output uses the colored console encoder at
// consoleLevel; file output uses the JSON encoder at fileLevel.
func NewMultiCore(fileWriter io.Writer, consoleLevel, fileLevel zapcore.Level) zapcore.Core {
	return NewMultiCoreWithWriters(os.Stdout, fileWriter, consoleLevel, fileLevel)
}

// NewMultiCoreWithWriters is NewMultiCore with an explicit console writer,
// for tests.
func NewMultiCoreWithWriters(consoleWriter, fileWriter io.Writer, consoleLevel, fileLevel zapcore.Level) zapcore.Core {
	consoleEncoder := zapcore.NewConsoleEncoder(NewConsoleEncoderConfig())
	fileEncoder := zapcore.NewJSONEncoder(NewEncoderConfig())

	consoleCore := zapcore.NewCore(
		consoleEncoder,
		zapcore.AddSync(consoleWriter),
		consoleLevel,
	)
	fileCore := zapcore.NewCore(
		fileEncoder,
		zapcore.AddSync(fileWriter),
		fileLevel,
	)

	return zapcore.NewTee(consoleCore, fileCore)
}
