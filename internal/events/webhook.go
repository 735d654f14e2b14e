package events

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// WebhookPublisher POSTs each roster event as JSON to an external endpoint.
type WebhookPublisher struct {
	httpClient  *http.Client
	endpoint    string
	bearerToken string
}

// NewWebhookPublisher constructs a WebhookPublisher. An empty token sends no Authorization header.
func NewWebhookPublisher(endpoint, token string, timeout time.Duration) *WebhookPublisher {
	return &WebhookPublisher{
		httpClient:  &http.Client{Timeout: timeout},
		endpoint:    strings.TrimRight(endpoint, "/"),
		bearerToken: token,
	}
}

// Publish delivers one event. Receivers can deduplicate retries on X-Event-ID.
func (w *WebhookPublisher) Publish(ctx context.Context, event RosterChanged) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode roster event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Event-Type", event.EventType)
	req.Header.Set("X-Event-ID", event.EventID)
	if w.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+w.bearerToken)
	}

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("deliver roster event %s: %w", event.EventID, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return &WebhookError{Status: resp.StatusCode}
	}
	return nil
}

// WebhookError is returned when the receiver answers with a 4xx or 5xx status.
type WebhookError struct {
	Status int
}

func (e *WebhookError) Error() string {
	return fmt.Sprintf("roster webhook answered %d %s", e.Status, http.StatusText(e.Status))
}
