package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestLoggerLevelsAndCaller(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(discard{})

	if err := SetLevel("info"); err != nil {
		t.Fatalf("SetLevel: %v", err)
	}

	Debug("hidden %d", 1)
	Info("shown %d", 2)
	Error(errors.New("boom"), "failed %s", "import")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug entry logged at info level: %q", out)
	}
	if !strings.Contains(out, "logger_test.go:") || !strings.Contains(out, "shown 2") {
		t.Errorf("expected caller prefix and message, got %q", out)
	}
	if !strings.Contains(out, "error=boom") {
		t.Errorf("expected error field, got %q", out)
	}
}

func TestSetLevelInvalid(t *testing.T) {
	if err := SetLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
