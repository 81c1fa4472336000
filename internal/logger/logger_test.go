package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestBuildJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.json")

	log, err := build(true, false, path)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	log.Debug("hidden")
	log.Info("jobs fetched", zap.Duration("took", 1500*time.Millisecond))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected debug entry to be filtered, got %d lines", len(lines))
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if entry["msg"] != "jobs fetched" || entry["level"] != "info" || entry["took"] != "1.5s" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if _, ok := entry["caller"]; ok {
		t.Fatalf("expected no caller outside debug mode")
	}
}

func TestBuildDebugConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")

	log, err := build(false, true, path)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	log.Debug("visible")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "debug") || !strings.Contains(string(data), "visible") {
		t.Fatalf("expected debug entry, got %q", data)
	}
}
