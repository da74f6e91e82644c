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

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Warn("rest alert failed", "item", "abc")
	data, err := os.ReadFile(filepath.Join(logDir, "liftlit.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "rest alert failed") {
		t.Errorf("log file missing warning, got %q", data)
	}

	Debug("hidden below warn")
	data, _ = os.ReadFile(filepath.Join(logDir, "liftlit.log"))
	if strings.Contains(string(data), "hidden below warn") {
		t.Error("debug message written at warn level")
	}
}

func TestInitDebugModeTeesToStderr(t *testing.T) {
	var stderr bytes.Buffer
	logDir := filepath.Join(t.TempDir(), "custom-logs")

	err := Init(Config{Debug: true, ConfigDir: t.TempDir(), LogDir: logDir, Stderr: &stderr})
	if err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}

	Debug("checkpoint saved", "item", "xyz")
	if !strings.Contains(stderr.String(), "checkpoint saved") {
		t.Errorf("stderr = %q, want debug record", stderr.String())
	}
	if _, err := os.Stat(filepath.Join(logDir, "liftlit.log")); err != nil {
		t.Errorf("log file not created in LogDir: %v", err)
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
	if With("k", "v") != nil {
		t.Error("With() before Init should be nil")
	}
}

func TestInitWithUnwritableDirectory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Init(Config{ConfigDir: blocker}); err == nil {
		t.Error("Init() should fail when the log dir cannot be created")
	}
}
