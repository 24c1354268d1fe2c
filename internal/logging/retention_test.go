package logging_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"marginalia/internal/logging"
)

func writeAged(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	stamp := time.Now().Add(-age)
	if err := os.Chtimes(path, stamp, stamp); err != nil {
		t.Fatalf("chtimes %s: %v", name, err)
	}
	return path
}

func TestCleanupOldLogsPrunesBeyondRetention(t *testing.T) {
	dir := t.TempDir()
	old1 := writeAged(t, dir, "import-a.log", 90*24*time.Hour)
	old2 := writeAged(t, dir, "import-b.log", 80*24*time.Hour)
	fresh := writeAged(t, dir, "import-c.log", 24*time.Hour)
	other := writeAged(t, dir, "notes.txt", 90*24*time.Hour)

	logging.CleanupOldLogs(logging.NewNop(), 30, 0, logging.RetentionTarget{Dir: dir, Pattern: "import-*.log"})

	for _, path := range []string{old1, old2} {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("expected %s pruned", path)
		}
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatalf("expected fresh log kept: %v", err)
	}
	if _, err := os.Stat(other); err != nil {
		t.Fatalf("expected non-matching file kept: %v", err)
	}
}

func TestCleanupOldLogsKeepsMinimumFiles(t *testing.T) {
	dir := t.TempDir()
	oldest := writeAged(t, dir, "import-a.log", 90*24*time.Hour)
	newer := writeAged(t, dir, "import-b.log", 70*24*time.Hour)
	newest := writeAged(t, dir, "import-c.log", 60*24*time.Hour)

	logging.CleanupOldLogs(logging.NewNop(), 30, 2, logging.RetentionTarget{Dir: dir, Pattern: "import-*.log"})

	if _, err := os.Stat(oldest); !os.IsNotExist(err) {
		t.Fatal("expected oldest log pruned")
	}
	for _, path := range []string{newer, newest} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s kept by min-files floor: %v", path, err)
		}
	}
}

func TestCleanupOldLogsDisabledByZeroRetention(t *testing.T) {
	dir := t.TempDir()
	old := writeAged(t, dir, "import-a.log", 400*24*time.Hour)

	logging.CleanupOldLogs(logging.NewNop(), 0, 0, logging.RetentionTarget{Dir: dir, Pattern: "import-*.log"})

	if _, err := os.Stat(old); err != nil {
		t.Fatalf("expected file untouched when retention disabled: %v", err)
	}
}

func TestCleanupOldLogsHonorsExclusions(t *testing.T) {
	dir := t.TempDir()
	excluded := writeAged(t, dir, "import-live.log", 400*24*time.Hour)

	logging.CleanupOldLogs(logging.NewNop(), 30, 0, logging.RetentionTarget{
		Dir:     dir,
		Pattern: "import-*.log",
		Exclude: []string{excluded},
	})

	if _, err := os.Stat(excluded); err != nil {
		t.Fatalf("expected excluded file kept: %v", err)
	}
}
