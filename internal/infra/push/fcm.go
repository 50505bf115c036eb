package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"herald/internal/common"
	"herald/internal/domain/notification"
)

var _ notification.PushProvider = (*Provider)(nil)

const defaultFCMEndpoint = "https://fcm.googleapis.com/fcm/send"

// Config holds the Firebase Cloud Messaging settings.
type Config struct {
	ServerKey string
}

// Provider sends push notifications through FCM. Each call multicasts to
// every device token of one recipient; the send succeeds when at least one
// token was accepted. Without a server key the provider is permanently
// disabled.
type Provider struct {
	serverKey  string
	endpoint   string
	enabled    bool
	httpClient *http.Client
	renderer   notification.TemplateRenderer
}

// New creates a push provider. A missing server key is logged once here.
func New(cfg Config, renderer notification.TemplateRenderer) *Provider {
	p := &Provider{
		serverKey:  cfg.ServerKey,
		endpoint:   defaultFCMEndpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		renderer:   renderer,
	}

	p.enabled = cfg.ServerKey != ""
	if !p.enabled {
		slog.Warn("fcm server key not configured, push provider disabled")
	}

	return p
}

// Enabled reports whether the FCM transport was configured at construction.
func (p *Provider) Enabled() bool {
	return p.enabled
}

// Send multicasts one notification to the given device tokens. data is an
// optional payload of key-value pairs delivered alongside the notification.
func (p *Provider) Send(ctx context.Context, deviceTokens []string, title, body string, data map[string]string) error {
	if !p.enabled {
		return common.NewProviderError("push", "transport not configured")
	}
	if len(deviceTokens) == 0 {
		return common.NewProviderError("push", "no device tokens")
	}

	if data == nil {
		data = map[string]string{}
	}

	payload := map[string]any{
		"registration_ids": deviceTokens,
		"notification": map[string]string{
			"title": title,
			"body":  body,
		},
		"data": data,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+p.serverKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("fcm API error: status %d", resp.StatusCode)
	}

	var result struct {
		Success int `json:"success"`
		Failure int `json:"failure"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return fmt.Errorf("parsing fcm response: %w", err)
	}

	// Multicast succeeds when any token got through.
	if result.Success == 0 {
		return fmt.Errorf("fcm: all %d tokens rejected", result.Failure)
	}

	return nil
}

// SendTemplate renders the push_title and push_body slots for the template
// and multicasts them.
func (p *Provider) SendTemplate(ctx context.Context, deviceTokens []string, templateName string, vars notification.Variables) error {
	title, err := p.renderer.Render(templateName, notification.SlotPushTitle, vars)
	if err != nil {
		return err
	}
	body, err := p.renderer.Render(templateName, notification.SlotPushBody, vars)
	if err != nil {
		return err
	}
	return p.Send(ctx, deviceTokens, title, body, nil)
}
