package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultPushoverURL is the Pushover message endpoint.
const DefaultPushoverURL = "https://api.pushover.net/1/messages.json"

// PushoverConfig holds Pushover credentials.
type PushoverConfig struct {
	AppToken string
	UserKey  string
	Endpoint string
	Timeout  time.Duration
}

// PushoverSender sends push notifications through Pushover.
type PushoverSender struct {
	config     PushoverConfig
	httpClient *http.Client
	logger     *slog.Logger
}

// NewPushoverSender creates a new Pushover sender.
func NewPushoverSender(config PushoverConfig) *PushoverSender {
	if config.Endpoint == "" {
		config.Endpoint = DefaultPushoverURL
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}

	return &PushoverSender{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: slog.Default(),
	}
}

// Enabled reports whether both Pushover keys are configured.
func (s *PushoverSender) Enabled() bool {
	return s.config.AppToken != "" && s.config.UserKey != ""
}

// Send posts message to Pushover. Without keys the message is skipped.
func (s *PushoverSender) Send(ctx context.Context, message string, _ map[string]any) error {
	if !s.Enabled() {
		s.logger.Info("pushover keys are empty, ignoring")
		return nil
	}

	form := url.Values{
		"token":   {s.config.AppToken},
		"user":    {s.config.UserKey},
		"message": {message},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create pushover request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("pushover request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("pushover returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	s.logger.Info("user notified", "channel", "pushover")
	return nil
}

// Name returns the sender name.
func (s *PushoverSender) Name() string {
	return "pushover"
}
