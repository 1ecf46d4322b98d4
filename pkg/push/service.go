// Package push delivers JSON notifications to HTTP webhooks
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// RequestTimeout for webhook requests
const RequestTimeout = 10 * time.Second

// maxErrorBody caps how much of a failed response is kept for the error
const maxErrorBody = 512

var ErrEndpointRequired = errors.New("webhook endpoint is required")

// Service posts JSON payloads to webhook endpoints
type Service struct {
	client *http.Client
	logger *slog.Logger
}

// NewService creates a new webhook service
func NewService(logger *slog.Logger) *Service {
	return &Service{
		client: &http.Client{
			Timeout: RequestTimeout,
		},
		logger: logger,
	}
}

// WithHTTPClient replaces the default client
func (s *Service) WithHTTPClient(client *http.Client) *Service {
	s.client = client
	return s
}

// Send posts payload as JSON to endpoint. Any non-2xx status is an error.
func (s *Service) Send(ctx context.Context, endpoint string, payload any) error {
	if endpoint == "" {
		return ErrEndpointRequired
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		s.logger.Error("webhook rejected", "status", resp.StatusCode, "body", string(msg))
		return fmt.Errorf("webhook failed with status: %d", resp.StatusCode)
	}

	s.logger.Debug("webhook sent", "endpoint", endpoint, "status", resp.StatusCode)
	return nil
}
