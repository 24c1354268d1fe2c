package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"marginalia/internal/services"
	"marginalia/internal/store"
)

func TestCLIImportAndRuns(t *testing.T) {
	env := setupCLITestEnv(t)
	env.solrDocs["helmet.123"] = map[string]any{"id": "helmet.123", "title": "Seitsemän veljestä"}

	input := writeInputFile(t, env.baseDir, "export.csv",
		"123,2024-01-15 10:30:00,\"Erinomainen romaani\",80\n"+
			"999,2024-01-16 11:00:00,\"Kadonnut tunniste\",60\n")
	logPath := filepath.Join(env.cfg.Paths.LogDir, "helmet.log")

	if _, _, err := runCLI(t, []string{
		"import", input,
		"--source", "helmet",
		"--log", logPath,
		"--default-date", "2024-05-01",
	}, env.configPath); err != nil {
		t.Fatalf("import: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read run log: %v", err)
	}
	content := string(data)
	requireContains(t, content, "Importing annotations from")
	requireContains(t, content, "Completed: 2 rows processed, 1 comments and 1 ratings imported (0 duplicates, 1 unresolved, 0 skipped)")

	st := openStore(t, env)
	ctx := context.Background()
	runs, err := st.RecentRuns(ctx, 0)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	run := runs[0]
	if run.Status != store.RunStatusCompleted {
		t.Fatalf("expected completed run, got %s", run.Status)
	}
	if run.Comments != 1 || run.Ratings != 1 || run.Unresolved != 1 {
		t.Fatalf("unexpected counters: %#v", run)
	}
	if run.LogFile != logPath {
		t.Fatalf("expected log file %s, got %s", logPath, run.LogFile)
	}

	out, _, err := runCLI(t, []string{"runs"}, env.configPath)
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	requireContains(t, out, "Completed")
	requireContains(t, out, "helmet")

	out, _, err = runCLI(t, []string{"runs", "tail", run.ID[:8]}, env.configPath)
	if err != nil {
		t.Fatalf("runs tail: %v", err)
	}
	requireContains(t, out, "Completed: 2 rows processed")
}

func TestCLIImportDefaultLogPath(t *testing.T) {
	env := setupCLITestEnv(t)
	env.solrDocs["helmet.5"] = map[string]any{"id": "helmet.5", "title": "Tuntematon sotilas"}

	input := writeInputFile(t, env.baseDir, "rows.csv", "5,2024-02-01,\"Hieno teos\",90\n")

	if _, _, err := runCLI(t, []string{"import", input, "--source", "helmet"}, env.configPath); err != nil {
		t.Fatalf("import: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(env.cfg.Paths.LogDir, "import-*.log"))
	if err != nil {
		t.Fatalf("glob run logs: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one derived run log, got %v", matches)
	}

	st := openStore(t, env)
	runs, err := st.RecentRuns(context.Background(), 1)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].LogFile != matches[0] {
		t.Fatalf("ledger log file %s does not match %s", runs[0].LogFile, matches[0])
	}
}

func TestCLIImportFailsOnMalformedRow(t *testing.T) {
	env := setupCLITestEnv(t)
	env.solrDocs["helmet.1"] = map[string]any{"id": "helmet.1", "title": "Häräntappoase"}

	input := writeInputFile(t, env.baseDir, "broken.csv",
		"1,2024-01-01,\"Hyvä alku\",10\nrikkinäinen\n")

	_, _, err := runCLI(t, []string{
		"import", input,
		"--source", "helmet",
		"--log", filepath.Join(env.cfg.Paths.LogDir, "broken.log"),
	}, env.configPath)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	st := openStore(t, env)
	runs, err := st.RecentRuns(context.Background(), 0)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Status != store.RunStatusFailed {
		t.Fatalf("expected failed run, got %s", runs[0].Status)
	}
	if runs[0].FailureKind != "validation" {
		t.Fatalf("expected validation failure kind, got %q", runs[0].FailureKind)
	}
}

func TestCLIImportRequiresSource(t *testing.T) {
	env := setupCLITestEnv(t)
	input := writeInputFile(t, env.baseDir, "rows.csv", "1,,,\n")

	_, _, err := runCLI(t, []string{"import", input}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "source") {
		t.Fatalf("expected missing source error, got %v", err)
	}
}

func TestCLIRunsEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"runs"}, env.configPath)
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	requireContains(t, out, "No import runs recorded")
}

func TestCLIRunsTailUnknownRun(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"runs", "tail", "deadbeef"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestCLIDBCheck(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"db", "check"}, env.configPath)
	if err != nil {
		t.Fatalf("db check: %v", err)
	}
	requireContains(t, out, "wal")
	requireContains(t, out, "import_runs")
	requireContains(t, out, "Integrity")
}

func TestCLITestNotifyUnconfigured(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"test-notify"}, env.configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "not configured")
}

func TestCLITestNotifySendsToTopic(t *testing.T) {
	env := setupCLITestEnv(t)

	titles := make(chan string, 1)
	ntfy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case titles <- r.Header.Get("Title"):
		default:
		}
	}))
	t.Cleanup(ntfy.Close)

	appendConfig(t, env.configPath, "\n[notifications]\nntfy_topic = \""+ntfy.URL+"\"\n")

	out, _, err := runCLI(t, []string{"test-notify"}, env.configPath)
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "Test notification sent")

	select {
	case title := <-titles:
		requireContains(t, title, "Test")
	default:
		t.Fatal("expected a notification request")
	}
}

func TestCLIVersion(t *testing.T) {
	out, _, err := runCLI(t, []string{"version"}, "")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	requireContains(t, out, "marginalia 0.1.0")
}
