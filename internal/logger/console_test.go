package logger

import (
	"bytes"
	"strings"
	"testing"
)

// TestConsoleLoggerLevelFiltering verifies messages below the configured
// level are suppressed.
func TestConsoleLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "warn")

	cl.LogDebug("debug message")
	cl.LogInfo("info message")
	cl.LogWarn("warn message")
	cl.LogError("error message")

	output := buf.String()
	if strings.Contains(output, "debug message") {
		t.Error("debug message should be filtered at warn level")
	}
	if strings.Contains(output, "info message") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(output, "warn message") {
		t.Error("warn message missing from output")
	}
	if !strings.Contains(output, "error message") {
		t.Error("error message missing from output")
	}
}

// TestConsoleLoggerFormat verifies the timestamp and level prefix.
func TestConsoleLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "info")

	cl.LogInfo("hello")

	output := buf.String()
	if !strings.Contains(output, "[INFO] hello") {
		t.Errorf("output = %q, want level prefix and message", output)
	}
	if !strings.HasPrefix(output, "[") {
		t.Errorf("output = %q, want leading timestamp bracket", output)
	}
}

// TestConsoleLoggerInvalidLevelDefaultsToInfo verifies fallback behavior.
func TestConsoleLoggerInvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "bogus")

	cl.LogDebug("should be hidden")
	cl.LogInfo("should be shown")

	output := buf.String()
	if strings.Contains(output, "should be hidden") {
		t.Error("debug message should be filtered at default info level")
	}
	if !strings.Contains(output, "should be shown") {
		t.Error("info message missing from output")
	}
}

// TestConsoleLoggerNilWriter verifies a nil writer is safe.
func TestConsoleLoggerNilWriter(t *testing.T) {
	cl := NewConsoleLogger(nil, "trace")
	cl.LogError("dropped") // Must not panic.
}

// TestNoOpLogger verifies the no-op logger satisfies the interface.
func TestNoOpLogger(t *testing.T) {
	var l Logger = NewNoOpLogger()
	l.LogTrace("a")
	l.LogDebug("b")
	l.LogInfo("c")
	l.LogWarn("d")
	l.LogError("e")
}
