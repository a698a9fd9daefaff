package notifications_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"marketcron/internal/config"
	"marketcron/internal/notifications"
	"marketcron/internal/pipeline"
)

type recorded struct {
	title    string
	priority string
	body     string
}

func newTestService(t *testing.T, mutate func(*config.Config)) (notifications.Service, *[]recorded) {
	t.Helper()

	var mu sync.Mutex
	var requests []recorded
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		requests = append(requests, recorded{
			title:    r.Header.Get("Title"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		})
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	cfg.Notifications.RunStart = true
	if mutate != nil {
		mutate(&cfg)
	}
	return notifications.NewService(&cfg), &requests
}

func TestNoopWithoutTopic(t *testing.T) {
	cfg := config.Default()
	svc := notifications.NewService(&cfg)
	if err := svc.RunStarted(context.Background(), "run", 6); err != nil {
		t.Fatalf("noop should never fail: %v", err)
	}
	if err := svc.TestNotification(context.Background()); err != nil {
		t.Fatalf("noop should never fail: %v", err)
	}
}

func TestRunStartedPublishes(t *testing.T) {
	svc, requests := newTestService(t, nil)
	if err := svc.RunStarted(context.Background(), "0123456789", 6); err != nil {
		t.Fatalf("run started: %v", err)
	}
	if len(*requests) != 1 {
		t.Fatalf("expected one request, got %d", len(*requests))
	}
	got := (*requests)[0]
	if got.title != "marketcron - Run Started" {
		t.Fatalf("unexpected title %q", got.title)
	}
}

func TestRunCompletedMentionsSoftFailures(t *testing.T) {
	svc, requests := newTestService(t, nil)
	started := time.Date(2026, 8, 19, 8, 0, 0, 0, time.UTC)
	summary := pipeline.RunSummary{
		ID:         "run-1",
		StartedAt:  started,
		FinishedAt: started.Add(90 * time.Second),
		Results: []pipeline.StageResult{
			{Stage: pipeline.Stage{Name: "Notifier"}, Status: pipeline.StageSoftFailed},
		},
	}
	if err := svc.RunCompleted(context.Background(), summary); err != nil {
		t.Fatalf("run completed: %v", err)
	}
	got := (*requests)[0]
	if got.title != "marketcron - Run Complete (notifier skipped)" {
		t.Fatalf("unexpected title %q", got.title)
	}
}

func TestPreflightFailedHighPriority(t *testing.T) {
	svc, requests := newTestService(t, nil)
	if err := svc.PreflightFailed(context.Background(), "interpreter missing"); err != nil {
		t.Fatalf("preflight failed: %v", err)
	}
	got := (*requests)[0]
	if got.priority != "high" {
		t.Fatalf("expected high priority, got %q", got.priority)
	}
}

func TestDisabledEventsAreSuppressed(t *testing.T) {
	svc, requests := newTestService(t, func(c *config.Config) {
		c.Notifications.RunStart = false
		c.Notifications.RunComplete = false
		c.Notifications.Errors = false
	})
	ctx := context.Background()
	_ = svc.RunStarted(ctx, "run", 6)
	_ = svc.RunCompleted(ctx, pipeline.RunSummary{ID: "run"})
	_ = svc.PreflightFailed(ctx, "oops")
	if len(*requests) != 0 {
		t.Fatalf("expected no requests, got %d", len(*requests))
	}
}

func TestServerErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg)
	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for rejected notification")
	}
}
