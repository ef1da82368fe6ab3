package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"themesync/internal/config"
	"themesync/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifySyncStarted(context.Background(), 10); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

type captured struct {
	title    string
	message  string
	tags     string
	priority string
}

func newCapturingService(t *testing.T) (notifications.Service, *captured) {
	t.Helper()
	got := &captured{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got.title = r.Header.Get("Title")
		got.message = string(body)
		got.tags = r.Header.Get("Tags")
		got.priority = r.Header.Get("Priority")
	}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	return notifications.NewService(&cfg), got
}

func TestNotifySyncCompleted(t *testing.T) {
	svc, got := newCapturingService(t)

	err := svc.NotifySyncCompleted(context.Background(), 12, 3, 0, 90*time.Second)
	if err != nil {
		t.Fatalf("NotifySyncCompleted: %v", err)
	}
	if got.title != "Themesync - Sync Complete" {
		t.Errorf("title = %q", got.title)
	}
	if got.message != "Sync complete: 12 downloaded, 3 skipped in 1m30s" {
		t.Errorf("message = %q", got.message)
	}
	if got.tags != "themesync,sync,completed" {
		t.Errorf("tags = %q", got.tags)
	}
}

func TestNotifySyncCompletedWithFailures(t *testing.T) {
	svc, got := newCapturingService(t)

	if err := svc.NotifySyncCompleted(context.Background(), 1, 0, 2, time.Second); err != nil {
		t.Fatalf("NotifySyncCompleted: %v", err)
	}
	if got.title != "Themesync - Sync Complete (with errors)" {
		t.Errorf("title = %q", got.title)
	}
	if got.message != "Sync complete: 1 downloaded, 0 skipped, 2 failed in 1s" {
		t.Errorf("message = %q", got.message)
	}
}

func TestNotifyRateLimitedPriority(t *testing.T) {
	svc, got := newCapturingService(t)

	resumeAt := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := svc.NotifyRateLimited(context.Background(), resumeAt); err != nil {
		t.Fatalf("NotifyRateLimited: %v", err)
	}
	if got.priority != "high" {
		t.Errorf("priority = %q, want high", got.priority)
	}
	if got.title != "Themesync - Rate Limited" {
		t.Errorf("title = %q", got.title)
	}
}

func TestNotifyError(t *testing.T) {
	svc, got := newCapturingService(t)

	if err := svc.NotifyError(context.Background(), errors.New("boom"), "drive download"); err != nil {
		t.Fatalf("NotifyError: %v", err)
	}
	if got.message != "Error with drive download: boom" {
		t.Errorf("message = %q", got.message)
	}
	if got.priority != "high" {
		t.Errorf("priority = %q, want high", got.priority)
	}
}

func TestServerErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic rejected", http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg)
	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error from non-2xx response")
	}
}
