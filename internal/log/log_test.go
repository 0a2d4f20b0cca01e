// ABOUTME: Tests for debug logging package
// ABOUTME: Validates level filtering and output redirection

package log

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"
)

// captureOutput redirects log output for the duration of the test.
// Tests using it mutate package state and must not run in parallel.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	prev := SetOutput(&buf)
	savedLevel := GetLevel()
	t.Cleanup(func() {
		SetOutput(prev)
		SetLevel(savedLevel)
	})
	return &buf
}

func TestSetLevel(t *testing.T) {
	savedLevel := GetLevel()
	defer SetLevel(savedLevel)

	SetLevel(LevelDebug)
	if GetLevel() != LevelDebug {
		t.Errorf("expected LevelDebug, got %v", GetLevel())
	}

	SetLevel(LevelError)
	if GetLevel() != LevelError {
		t.Errorf("expected LevelError, got %v", GetLevel())
	}
}

func TestDebugSuppressedAtInfoLevel(t *testing.T) {
	buf := captureOutput(t)
	SetLevel(slog.LevelInfo)

	Debug("this should be suppressed: %s", "test")

	if buf.Len() != 0 {
		t.Errorf("output = %q, want empty", buf.String())
	}
}

func TestDebugEmittedAtDebugLevel(t *testing.T) {
	buf := captureOutput(t)
	SetLevel(LevelDebug)

	Debug("key %s", "Ctrl+Q")

	if got := buf.String(); got != "[DEBUG] key Ctrl+Q\n" {
		t.Errorf("output = %q", got)
	}
}

func TestErrorAlwaysEmitted(t *testing.T) {
	buf := captureOutput(t)
	SetLevel(LevelError + 4)

	Warn("hidden")
	Error("tcsetattr: %s", "boom")

	if got := buf.String(); got != "[ERROR] tcsetattr: boom\n" {
		t.Errorf("output = %q", got)
	}
}

func TestAllLevels(t *testing.T) {
	buf := captureOutput(t)
	SetLevel(LevelDebug)

	Debug("debug: %d", 1)
	Info("info: %d", 2)
	Warn("warn: %d", 3)
	Error("error: %d", 4)

	for _, want := range []string{"[DEBUG] debug: 1", "[INFO] info: 2", "[WARN] warn: 3", "[ERROR] error: 4"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestSetOutputReturnsPrevious(t *testing.T) {
	var a bytes.Buffer
	prev := SetOutput(&a)
	defer SetOutput(prev)

	if got := SetOutput(os.Stderr); got != &a {
		t.Error("SetOutput should return the previously installed writer")
	}
}
