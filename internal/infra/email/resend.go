package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultResendBaseURL = "https://api.resend.com"

// resendClient delivers email through the Resend transactional API.
type resendClient struct {
	apiKey      string
	fromAddress string
	fromName    string
	baseURL     string
	httpClient  *http.Client
}

func newResendClient(apiKey, fromAddress, fromName string) *resendClient {
	return &resendClient{
		apiKey:      apiKey,
		fromAddress: fromAddress,
		fromName:    fromName,
		baseURL:     defaultResendBaseURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// send posts one email to the Resend API.
func (c *resendClient) send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	from := c.fromAddress
	if c.fromName != "" {
		from = fmt.Sprintf("%s <%s>", c.fromName, c.fromAddress)
	}

	payload := map[string]any{
		"from":    from,
		"to":      []string{to},
		"subject": subject,
		"html":    htmlBody,
	}

	// Include plain-text version if available
	if textBody != "" {
		payload["text"] = textBody
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Message    string `json:"message"`
			StatusCode int    `json:"statusCode"`
		}
		_ = json.Unmarshal(respBody, &errResp)

		msg := errResp.Message
		if msg == "" {
			msg = fmt.Sprintf("resend API error: status %d", resp.StatusCode)
		}
		return fmt.Errorf("resend: %s", msg)
	}

	return nil
}
