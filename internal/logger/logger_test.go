package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Debug("debug message")
	Info("info message")
	Warn("warning message")
	Error("error message")
}

func TestInitLevelAndOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Config{Level: "info", Output: &buf}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	Debug("hidden")
	Info("shown", "hour", 14)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message written at info level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "hour=14") {
		t.Errorf("info message missing from output: %q", out)
	}
}

func TestInitInvalidLevel(t *testing.T) {
	if err := Init(Config{Level: "loud", Output: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestWith(t *testing.T) {
	Logger = nil
	// Must not panic before Init.
	With("component", "beastmode").Info("dropped")

	var buf bytes.Buffer
	if err := Init(Config{Level: "debug", Output: &buf}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	With("component", "beastmode").Debug("armed")
	if !strings.Contains(buf.String(), "component=beastmode") {
		t.Errorf("component key missing: %q", buf.String())
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	Debug("debug message")
	Info("info message")
	Warn("warning message")
	Error("error message")
}
