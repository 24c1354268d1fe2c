package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"marginalia/internal/config"
)

const userAgent = "marginalia/0.1.0"

// RunSummary carries the counters reported when an import run finishes.
type RunSummary struct {
	Source     string
	InputFile  string
	Processed  int64
	Comments   int64
	Ratings    int64
	Duplicates int64
	Unresolved int64
	Skipped    int64
	Duration   time.Duration
}

// Service defines the notification surface exposed to import runs.
type Service interface {
	NotifyRunStarted(ctx context.Context, source, inputFile string) error
	NotifyRunCompleted(ctx context.Context, summary RunSummary) error
	NotifyRunFailed(ctx context.Context, source string, err error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint:   topic,
		client:     client,
		completion: cfg.Notifications.Completion,
		errors:     cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint   string
	client     *http.Client
	completion bool
	errors     bool
}

func (n *ntfyService) NotifyRunStarted(ctx context.Context, source, inputFile string) error {
	if !n.completion {
		return nil
	}
	source = strings.TrimSpace(source)
	data := payload{
		title:   "Marginalia - Import Started",
		message: fmt.Sprintf("Importing %s annotations from %s", source, filepath.Base(inputFile)),
		tags:    []string{"marginalia", "import", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRunCompleted(ctx context.Context, summary RunSummary) error {
	if !n.completion {
		return nil
	}
	duration := summary.Duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	durationText := duration.String()
	if duration == 0 {
		durationText = "0s"
	}

	message := fmt.Sprintf(
		"Import of %s complete: %d rows in %s. Added %d comments and %d ratings (%d duplicates, %d unresolved, %d skipped).",
		strings.TrimSpace(summary.Source),
		summary.Processed,
		durationText,
		summary.Comments,
		summary.Ratings,
		summary.Duplicates,
		summary.Unresolved,
		summary.Skipped,
	)
	data := payload{
		title:   "Marginalia - Import Complete",
		message: message,
		tags:    []string{"marginalia", "import", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRunFailed(ctx context.Context, source string, err error) error {
	if !n.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Import")
	if source = strings.TrimSpace(source); source != "" {
		builder.WriteString(" of ")
		builder.WriteString(source)
	}
	builder.WriteString(" failed: ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown error")
	}

	data := payload{
		title:    "Marginalia - Import Failed",
		message:  builder.String(),
		tags:     []string{"marginalia", "import", "failed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Marginalia - Test",
		message:  "Notification system test",
		tags:     []string{"marginalia", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyRunStarted(context.Context, string, string) error { return nil }
func (noopService) NotifyRunCompleted(context.Context, RunSummary) error   { return nil }
func (noopService) NotifyRunFailed(context.Context, string, error) error   { return nil }
func (noopService) TestNotification(context.Context) error                 { return nil }
