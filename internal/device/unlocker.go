// Package device talks to the door actuator on the local network.
package device

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Unlocker sends an unlock command for a user to the door actuator.
type Unlocker interface {
	Unlock(ctx context.Context, userID string) error
}

// HTTPUnlocker fires an unlock command at an ESP32-style actuator endpoint.
// The command is fire-and-forget from the caller's point of view; a non-2xx
// reply or transport error is reported so the caller can log and count it.
type HTTPUnlocker struct {
	url        string
	httpClient *http.Client
}

func NewHTTPUnlocker(url string, timeout time.Duration) *HTTPUnlocker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPUnlocker{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (u *HTTPUnlocker) Unlock(ctx context.Context, userID string) error {
	body, err := json.Marshal(map[string]string{"user_id": userID})
	if err != nil {
		return fmt.Errorf("unlock marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("unlock request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("unlock %s: %w", u.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unlock %s: status %d", u.url, resp.StatusCode)
	}
	return nil
}
