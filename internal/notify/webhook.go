package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// WebhookConfig holds a webhook endpoint.
type WebhookConfig struct {
	URL     string
	Headers map[string]string
	Timeout time.Duration
	Enabled bool
}

// Webhook posts notices as JSON to an HTTP endpoint.
type Webhook struct {
	id      string
	url     string
	headers map[string]string
	enabled bool
	client  *http.Client
}

// NewWebhook creates a webhook notifier.
func NewWebhook(id string, cfg WebhookConfig) *Webhook {
	if id == "" {
		id = "webhook"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Webhook{
		id:      id,
		url:     cfg.URL,
		headers: cfg.Headers,
		enabled: cfg.Enabled && cfg.URL != "",
		client:  &http.Client{Timeout: timeout},
	}
}

func (w *Webhook) ID() string      { return w.id }
func (w *Webhook) Name() string    { return "Webhook" }
func (w *Webhook) IsEnabled() bool { return w.enabled }

func (w *Webhook) Notify(ctx context.Context, n Notice) error {
	if !w.enabled {
		return nil
	}
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("encode notice: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "themeswitch")
	if n.ID != "" {
		req.Header.Set("Idempotency-Key", n.ID)
	}
	for k, v := range w.headers {
		req.Header.Set(k, v)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode >= 400:
		return fmt.Errorf("webhook %s: %s", w.id, resp.Status)
	}
	return nil
}
