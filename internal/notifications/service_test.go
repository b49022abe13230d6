package notifications

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"scrutiny/internal/config"
)

func newNtfyConfig(endpoint string) *config.Config {
	cfg := config.Default()
	cfg.Alerts.NtfyTopic = endpoint
	return &cfg
}

func TestNoopWithoutTopic(t *testing.T) {
	cfg := config.Default()
	cfg.Alerts.NtfyTopic = ""
	svc := NewService(&cfg)
	if _, ok := svc.(noopService); !ok {
		t.Fatalf("expected noop service, got %T", svc)
	}
	if err := svc.NotifyCriticalScore(context.Background(), "f", 10, "s"); err != nil {
		t.Fatalf("noop should never error: %v", err)
	}
}

func TestNotifyCriticalScoreSendsUrgent(t *testing.T) {
	var gotTitle, gotPriority, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTitle = r.Header.Get("Title")
		gotPriority = r.Header.Get("Priority")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
	}))
	defer server.Close()

	svc := NewService(newNtfyConfig(server.URL))
	if err := svc.NotifyCriticalScore(context.Background(), "call.wav", 12, "agent was abusive"); err != nil {
		t.Fatalf("NotifyCriticalScore: %v", err)
	}
	if gotTitle != "Scrutiny - Critical Score" {
		t.Errorf("title = %q", gotTitle)
	}
	if gotPriority != "urgent" {
		t.Errorf("priority = %q", gotPriority)
	}
	if !strings.Contains(gotBody, "12/100") || !strings.Contains(gotBody, "call.wav") {
		t.Errorf("body = %q", gotBody)
	}
}

func TestNotifyFlaggedWithoutScore(t *testing.T) {
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
	}))
	defer server.Close()

	svc := NewService(newNtfyConfig(server.URL))
	if err := svc.NotifyFlagged(context.Background(), "chat.txt", nil, 2); err != nil {
		t.Fatalf("NotifyFlagged: %v", err)
	}
	if !strings.Contains(gotBody, "no score") || !strings.Contains(gotBody, "2 violations") {
		t.Errorf("body = %q", gotBody)
	}
}

func TestSendSurfacesHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	svc := NewService(newNtfyConfig(server.URL))
	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error on 403")
	}
}
