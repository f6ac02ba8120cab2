package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newBufferLogger(t *testing.T, consoleLevel zapcore.Level) (*zap.Logger, *bytes.Buffer) {
	t.Helper()
	var fileBuf bytes.Buffer
	core := NewMultiCoreWithWriters(&bytes.Buffer{}, &fileBuf, consoleLevel, zapcore.DebugLevel)
	return zap.New(newRedactingCore(core)), &fileBuf
}

func TestLoggerRedactsMessage(t *testing.T) {
	logger, buf := newBufferLogger(t, zapcore.InfoLevel)

	logger.Info("loaded api_key=sk12345678abcdefgh for provider")
	if err := logger.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "sk12345678abcdefgh") {
		t.Errorf("log output leaked secret: %s", out)
	}
	if !strings.Contains(out, RedactedPlaceholder) {
		t.Errorf("log output missing placeholder: %s", out)
	}
}

func TestLoggerRedactsSensitiveFields(t *testing.T) {
	logger, buf := newBufferLogger(t, zapcore.InfoLevel)

	logger.Info("provider configured",
		zap.String("GEMINI_API_KEY", "AIzaSomethingVerySecret"),
		zap.String("provider", "gemini"),
	)
	if err := logger.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("file output is not JSON: %v", err)
	}
	if got := entry["GEMINI_API_KEY"]; got != RedactedPlaceholder {
		t.Errorf("GEMINI_API_KEY = %v, want placeholder", got)
	}
	if got := entry["provider"]; got != "gemini" {
		t.Errorf("provider = %v, want gemini", got)
	}
	if got := entry[MessageKey]; got != "provider configured" {
		t.Errorf("message = %v", got)
	}
}

func TestLoggerWithPreservesRedaction(t *testing.T) {
	logger, buf := newBufferLogger(t, zapcore.InfoLevel)

	child := logger.With(zap.String("FAL_KEY", "super-secret-fal-key-value"))
	child.Info("child logger entry")
	if err := child.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "super-secret-fal-key-value") {
		t.Errorf("With fields leaked secret: %s", out)
	}
	if !strings.Contains(out, RedactedPlaceholder) {
		t.Errorf("With fields missing placeholder: %s", out)
	}
}

func TestMultiCoreLevels(t *testing.T) {
	var consoleBuf, fileBuf bytes.Buffer
	core := NewMultiCoreWithWriters(&consoleBuf, &fileBuf, zapcore.InfoLevel, zapcore.DebugLevel)
	logger := zap.New(core)

	logger.Debug("debug detail")
	logger.Info("info line")
	_ = logger.Sync()

	if strings.Contains(consoleBuf.String(), "debug detail") {
		t.Error("console received debug entry below its level")
	}
	if !strings.Contains(fileBuf.String(), "debug detail") {
		t.Error("file missing debug entry")
	}
	if !strings.Contains(consoleBuf.String(), "info line") {
		t.Error("console missing info entry")
	}
}

func TestNewWithoutFile(t *testing.T) {
	logger, err := New(Config{Development: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("console only logger works")
}

func TestNewWithFile(t *testing.T) {
	path := t.TempDir() + "/app.log"
	logger, err := New(Config{FilePath: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("file logger works")
	_ = logger.Sync()
}
