// Package email delivers outgoing mail through a pluggable Sender.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultResendEndpoint is the Resend transactional email API.
	DefaultResendEndpoint = "https://api.resend.com/emails"

	defaultSender = "Rocket Pool <onboarding@resend.dev>"
)

// Sender sends a single HTML message.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// LogSender prints emails to the log instead of sending them.
type LogSender struct {
	senderAddress string
	logger        *slog.Logger
}

// NewLogSender returns a development sender.
func NewLogSender(sender string, logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{senderAddress: sender, logger: logger.With("component", "email.log")}
}

// Send logs the email content.
func (s *LogSender) Send(_ context.Context, to, subject, htmlBody string) error {
	s.logger.Info("Email sent (logged)",
		"from", s.senderAddress,
		"to", to,
		"subject", subject,
		"body", htmlBody,
	)
	return nil
}

// ResendSender sends emails using the Resend API.
type ResendSender struct {
	apiKey        string
	senderAddress string
	endpoint      string
	client        *http.Client
	logger        *slog.Logger
}

// ResendOption customises a ResendSender.
type ResendOption func(*ResendSender)

// WithEndpoint overrides the API URL.
func WithEndpoint(url string) ResendOption {
	return func(s *ResendSender) { s.endpoint = url }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) ResendOption {
	return func(s *ResendSender) { s.client = c }
}

// NewResendSender builds a ResendSender.
func NewResendSender(apiKey, sender string, opts ...ResendOption) *ResendSender {
	s := &ResendSender{
		apiKey:        apiKey,
		senderAddress: sender,
		endpoint:      DefaultResendEndpoint,
		client:        &http.Client{Timeout: 15 * time.Second},
		logger:        slog.Default().With("component", "email.resend"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type resendPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type resendError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Send dispatches an email using the Resend API.
func (s *ResendSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	sender := s.senderAddress
	if sender == "" {
		sender = defaultSender
	}

	body, err := json.Marshal(resendPayload{
		From:    sender,
		To:      to,
		Subject: subject,
		HTML:    htmlBody,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal resend payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create resend request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to resend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr resendError
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("resend API returned an error: status %d: %s", resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("resend API returned an error: status %d", resp.StatusCode)
	}

	s.logger.Info("Successfully sent email via Resend", "to", to, "subject", subject)
	return nil
}
