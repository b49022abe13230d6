package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"scrutiny/internal/config"
)

const userAgent = "Scrutiny-Go/0.1.0"

// Service defines the alerting surface exposed to the pipeline.
type Service interface {
	NotifyCriticalScore(ctx context.Context, sourceFile string, score float64, summary string) error
	NotifyFlagged(ctx context.Context, sourceFile string, score *float64, violations int) error
	NotifyAuditFailed(ctx context.Context, sourceFile string, err error) error
	TestNotification(ctx context.Context) error
}

// NewService builds an alert service backed by ntfy when configured. When no
// ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Alerts.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Alerts.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
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

func (n *ntfyService) NotifyCriticalScore(ctx context.Context, sourceFile string, score float64, summary string) error {
	sourceFile = strings.TrimSpace(sourceFile)
	message := fmt.Sprintf("Critical compliance score %.0f/100 for %s", score, sourceFile)
	if summary = strings.TrimSpace(summary); summary != "" {
		message = fmt.Sprintf("%s\n%s", message, summary)
	}
	data := payload{
		title:    "Scrutiny - Critical Score",
		message:  message,
		tags:     []string{"scrutiny", "audit", "critical"},
		priority: "urgent",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyFlagged(ctx context.Context, sourceFile string, score *float64, violations int) error {
	sourceFile = strings.TrimSpace(sourceFile)
	scoreText := "no score"
	if score != nil {
		scoreText = fmt.Sprintf("%.0f/100", *score)
	}
	data := payload{
		title:    "Scrutiny - Audit Flagged",
		message:  fmt.Sprintf("Flagged %s (%s, %d violations)", sourceFile, scoreText, violations),
		tags:     []string{"scrutiny", "audit", "flagged"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyAuditFailed(ctx context.Context, sourceFile string, err error) error {
	var builder strings.Builder
	builder.WriteString("Audit failed")
	if sourceFile = strings.TrimSpace(sourceFile); sourceFile != "" {
		builder.WriteString(" for ")
		builder.WriteString(sourceFile)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}
	data := payload{
		title:    "Scrutiny - Error",
		message:  builder.String(),
		tags:     []string{"scrutiny", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Scrutiny - Test",
		message:  "Notification system test",
		tags:     []string{"scrutiny", "test"},
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

func (noopService) NotifyCriticalScore(context.Context, string, float64, string) error { return nil }
func (noopService) NotifyFlagged(context.Context, string, *float64, int) error         { return nil }
func (noopService) NotifyAuditFailed(context.Context, string, error) error             { return nil }
func (noopService) TestNotification(context.Context) error                             { return nil }
