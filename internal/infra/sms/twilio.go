package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"herald/internal/common"
	"herald/internal/domain/notification"
)

var _ notification.SMSProvider = (*Provider)(nil)

const defaultTwilioBaseURL = "https://api.twilio.com"

// deliverable is the set of Twilio message statuses treated as success.
// Anything else reported on create is a failed delivery.
var deliverable = map[string]bool{
	"queued":  true,
	"sending": true,
	"sent":    true,
}

// Config holds the Twilio transport settings.
type Config struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// Provider sends SMS through the Twilio Messages API. When credentials are
// absent the provider is permanently disabled for the process lifetime and
// every send fails without a network call.
type Provider struct {
	accountSID string
	authToken  string
	fromNumber string
	baseURL    string
	enabled    bool
	httpClient *http.Client
	renderer   notification.TemplateRenderer
}

// New creates an SMS provider. Missing credentials are logged once here,
// not on every call.
func New(cfg Config, renderer notification.TemplateRenderer) *Provider {
	p := &Provider{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		fromNumber: cfg.FromNumber,
		baseURL:    defaultTwilioBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		renderer:   renderer,
	}

	p.enabled = cfg.AccountSID != "" && cfg.AuthToken != "" && cfg.FromNumber != ""
	if !p.enabled {
		slog.Warn("twilio credentials not configured, sms provider disabled")
	}

	return p
}

// Enabled reports whether the Twilio transport was configured at construction.
func (p *Provider) Enabled() bool {
	return p.enabled
}

// Send delivers one SMS to the given phone number.
func (p *Provider) Send(ctx context.Context, toPhone, body string) error {
	if !p.enabled {
		return common.NewProviderError("sms", "transport not configured")
	}

	form := url.Values{}
	form.Set("To", toPhone)
	form.Set("From", p.fromNumber)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", p.baseURL, p.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(p.accountSID, p.authToken)

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
		var errResp struct {
			Message string `json:"message"`
			Code    int    `json:"code"`
		}
		_ = json.Unmarshal(respBody, &errResp)

		msg := errResp.Message
		if msg == "" {
			msg = fmt.Sprintf("twilio API error: status %d", resp.StatusCode)
		}
		return fmt.Errorf("twilio: %s", msg)
	}

	var created struct {
		SID          string `json:"sid"`
		Status       string `json:"status"`
		ErrorMessage string `json:"error_message"`
	}
	if err := json.Unmarshal(respBody, &created); err != nil {
		return fmt.Errorf("parsing twilio response: %w", err)
	}

	if !deliverable[created.Status] {
		detail := created.ErrorMessage
		if detail == "" {
			detail = fmt.Sprintf("message status %q", created.Status)
		}
		return fmt.Errorf("twilio: %s", detail)
	}

	return nil
}

// SendTemplate renders the sms_body slot for the template and delivers it.
func (p *Provider) SendTemplate(ctx context.Context, toPhone, templateName string, vars notification.Variables) error {
	body, err := p.renderer.Render(templateName, notification.SlotSMSBody, vars)
	if err != nil {
		return err
	}
	return p.Send(ctx, toPhone, body)
}
