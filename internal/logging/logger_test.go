package logging_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"marginalia/internal/logging"
)

func TestNewJSONFormatRenamesCoreKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diag.log")
	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "json",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("run started", logging.String("source", "helmet"))

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(raw, &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, raw)
	}
	if entry["msg"] != "run started" {
		t.Fatalf("unexpected msg: %v", entry["msg"])
	}
	if entry["level"] != "info" {
		t.Fatalf("expected lowercase level, got %v", entry["level"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatal("expected ts key")
	}
	if entry["source"] != "helmet" {
		t.Fatalf("unexpected source attr: %v", entry["source"])
	}
}

func TestConsoleFormatFoldsComponentIntoPrefix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diag.log")
	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "console",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.WithComponent(logger, "importer").Info("row skipped", logging.String("reason", "unresolved"))

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := strings.TrimSpace(string(raw))
	if !strings.Contains(line, "INFO importer: row skipped") {
		t.Fatalf("expected component prefix in %q", line)
	}
	if !strings.Contains(line, "reason=unresolved") {
		t.Fatalf("expected attr rendering in %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should not render as attr: %q", line)
	}
}

func TestConsoleFormatQuotesValuesWithSpaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diag.log")
	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "console",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("comment", logging.String("text", "a fine book"))

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(raw), `text="a fine book"`) {
		t.Fatalf("expected quoted attr value in %q", raw)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewNopDiscardsOutput(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("should not panic", logging.Error(nil))
}
