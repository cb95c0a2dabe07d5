package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureAll(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	SetWriterForAll(buf)
	SetColor(false)
	t.Cleanup(func() {
		SetWriterForAll(os.Stderr)
		SetVerbose(false)
	})
	return buf
}

func TestDebugHiddenUnlessVerbose(t *testing.T) {
	buf := captureAll(t)

	Debug("hidden %d", 1)
	assert.Empty(t, buf.String())

	SetVerbose(true)
	assert.True(t, IsVerbose())
	Debug("shown %d", 2)
	assert.Contains(t, buf.String(), "DEBUG shown 2")
}

func TestLevelsAreLabelled(t *testing.T) {
	buf := captureAll(t)

	Info("info message")
	Warn("warn message")
	Error("%s is not found", "missing.h")

	out := buf.String()
	assert.Contains(t, out, "INFO  info message")
	assert.Contains(t, out, "WARN  warn message")
	assert.Contains(t, out, "ERROR missing.h is not found")
}

func TestAddWriterFansOut(t *testing.T) {
	buf := captureAll(t)
	extra := &bytes.Buffer{}
	AddWriter(WARN, extra)

	Warn("twice")
	Info("once")

	assert.Contains(t, buf.String(), "twice")
	assert.Contains(t, extra.String(), "twice")
	assert.NotContains(t, extra.String(), "once")
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "ERROR", ERROR.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}
