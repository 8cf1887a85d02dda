package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_Production(t *testing.T) {
	logger, err := New(Options{})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	if logger == nil {
		t.Fatal("New returned nil logger")
	}
}

func TestNew_WithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "narrator.log")

	logger, err := New(Options{Development: true, File: path})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	logger.Info("file sink check")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "file sink check") {
		t.Errorf("Expected log file to contain message, got %q", string(data))
	}
}
