package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"stashsweep/internal/config"
	"stashsweep/internal/report"
)

const userAgent = "stashsweep/0.1.0"

// Service defines the notification surface exposed to the run command.
type Service interface {
	NotifySweepCompleted(ctx context.Context, stats *report.Stats, dryRun bool) error
	NotifySweepFailed(ctx context.Context, runErr error) error
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
		endpoint: topic,
		client:   client,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifySweepCompleted(ctx context.Context, stats *report.Stats, dryRun bool) error {
	if stats == nil {
		return nil
	}

	var message string
	title := "Stashsweep - Sweep Complete"
	switch {
	case dryRun:
		title = "Stashsweep - Dry Run Complete"
		message = fmt.Sprintf("Found %d WebP screenshots across %d scenes (nothing changed)",
			stats.WebPScreenshotsFound, stats.TotalScenes)
	case len(stats.Errors) > 0:
		title = "Stashsweep - Sweep Complete (with errors)"
		message = fmt.Sprintf("✅ Replaced %d of %d WebP screenshots across %d scenes, %d failed",
			stats.SuccessfullyReplaced, stats.WebPScreenshotsFound, stats.TotalScenes, len(stats.Errors))
	default:
		message = fmt.Sprintf("✅ Replaced %d WebP screenshots across %d scenes",
			stats.SuccessfullyReplaced, stats.TotalScenes)
	}

	data := payload{
		title:   title,
		message: message,
		tags:    []string{"stashsweep", "sweep", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifySweepFailed(ctx context.Context, runErr error) error {
	var builder strings.Builder
	builder.WriteString("❌ Sweep failed: ")
	if runErr != nil {
		builder.WriteString(strings.TrimSpace(runErr.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Stashsweep - Error",
		message:  builder.String(),
		tags:     []string{"stashsweep", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Stashsweep - Test",
		message:  "🧪 Notification system test",
		tags:     []string{"stashsweep", "test"},
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

func (noopService) NotifySweepCompleted(context.Context, *report.Stats, bool) error { return nil }
func (noopService) NotifySweepFailed(context.Context, error) error                  { return nil }
func (noopService) TestNotification(context.Context) error                          { return nil }
