package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"marketcron/internal/config"
	"marketcron/internal/pipeline"
)

const userAgent = "marketcron/0.1.0"

// Service publishes runner lifecycle events. It satisfies pipeline.Notifier.
type Service interface {
	pipeline.Notifier
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

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
		settings: cfg.Notifications,
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
	settings config.Notifications
}

func (n *ntfyService) RunStarted(ctx context.Context, runID string, stages int) error {
	if !n.settings.RunStart {
		return nil
	}
	data := payload{
		title:   "marketcron - Run Started",
		message: fmt.Sprintf("Daily pipeline started (%d stages, run %s)", stages, shortID(runID)),
		tags:    []string{"marketcron", "run", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) RunCompleted(ctx context.Context, summary pipeline.RunSummary) error {
	if !n.settings.RunComplete {
		return nil
	}

	duration := summary.FinishedAt.Sub(summary.StartedAt).Round(time.Second)
	if duration < 0 {
		duration = 0
	}

	var data payload
	if soft := summary.SoftFailures(); soft > 0 {
		data = payload{
			title:   "marketcron - Run Complete (notifier skipped)",
			message: fmt.Sprintf("Daily pipeline complete in %s, %d stage(s) soft-failed", duration, soft),
			tags:    []string{"marketcron", "run", "completed"},
		}
	} else {
		data = payload{
			title:    "marketcron - Run Complete",
			message:  fmt.Sprintf("Daily pipeline complete in %s", duration),
			tags:     []string{"marketcron", "run", "completed"},
			priority: "low",
		}
	}
	return n.send(ctx, data)
}

func (n *ntfyService) PreflightFailed(ctx context.Context, detail string) error {
	if !n.settings.Errors {
		return nil
	}
	data := payload{
		title:    "marketcron - Run Aborted",
		message:  fmt.Sprintf("Pre-flight failed, no stage was run: %s", strings.TrimSpace(detail)),
		tags:     []string{"marketcron", "error"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:   "marketcron - Test",
		message: "Test notification from marketcron",
		tags:    []string{"marketcron", "test"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notification rejected: %s", resp.Status)
	}
	return nil
}

func shortID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}

type noopService struct{}

func (noopService) RunStarted(context.Context, string, int) error { return nil }

func (noopService) RunCompleted(context.Context, pipeline.RunSummary) error { return nil }

func (noopService) PreflightFailed(context.Context, string) error { return nil }

func (noopService) TestNotification(context.Context) error { return nil }
