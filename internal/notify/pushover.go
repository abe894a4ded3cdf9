// Package notify holds the outbound side channels: Pushover pings when a
// question lands that the assistant could not answer, and SES delivery for
// the follow-up email hand-off.
package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const pushoverEndpoint = "https://api.pushover.net/1/messages.json"

// Pusher sends a short out-of-band notification to the site owner.
type Pusher interface {
	Push(ctx context.Context, message string) error
}

// PushoverClient delivers notifications through the Pushover API.
type PushoverClient struct {
	token      string
	user       string
	endpoint   string
	httpClient *http.Client
}

func NewPushoverClient(token, user string) *PushoverClient {
	return &PushoverClient{
		token:      token,
		user:       user,
		endpoint:   pushoverEndpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewPushoverClientWithEndpoint overrides the API endpoint (for testing).
func NewPushoverClientWithEndpoint(token, user, endpoint string) *PushoverClient {
	c := NewPushoverClient(token, user)
	c.endpoint = endpoint
	return c
}

func (c *PushoverClient) Push(ctx context.Context, message string) error {
	form := url.Values{
		"token":   {c.token},
		"user":    {c.user},
		"message": {message},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build pushover request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("pushover request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pushover returned status %d", resp.StatusCode)
	}
	return nil
}

// NoopPusher is used when Pushover credentials are not configured.
type NoopPusher struct{}

func (NoopPusher) Push(ctx context.Context, message string) error { return nil }
