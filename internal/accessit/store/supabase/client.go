// Package supabase implements the user and access-log stores against a
// Supabase PostgREST endpoint (/rest/v1).  Credentials are resolved once at
// startup and never mutated.
package supabase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Config carries the immutable connection settings for a Supabase project.
type Config struct {
	// BaseURL is the project URL, e.g. "https://xyz.supabase.co".
	BaseURL string

	// ServiceKey is the service-role API key.  It is sent as both the
	// apikey header and a bearer token.
	ServiceKey string

	// Timeout bounds every request.  Defaults to 5s.
	Timeout time.Duration
}

// Client talks to the PostgREST tables backing the gateway.  It implements
// both store.UserStore and store.AccessLogStore.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		serviceKey: cfg.ServiceKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// restURL builds {base}/rest/v1/{table}?{query}.
func (c *Client) restURL(table string, query url.Values) string {
	u := c.baseURL + "/rest/v1/" + table
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do issues an authenticated request and decodes a 2xx response body into
// out (when out is non-nil).  Non-2xx statuses are persistence failures.
func (c *Client) do(req *http.Request, prefer string, out any) error {
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", "application/json")
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("supabase %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("supabase %s %s: status %d: %s",
			req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("supabase %s %s: decode: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

func jsonBody(v any) (*bytes.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}
	return bytes.NewReader(b), nil
}
