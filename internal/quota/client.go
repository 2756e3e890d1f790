// Package quota talks to the token-quota service and gates turns on the
// caller's remaining balance.
package quota

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Service is what the Gate needs from the quota backend.
type Service interface {
	Remaining(ctx context.Context, token string) (int64, error)
	Decrease(ctx context.Context, token string, by int64) error
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Remaining asks the quota service for the caller's token balance.
func (c *Client) Remaining(ctx context.Context, token string) (int64, error) {
	body, err := c.post(ctx, "/tokens", map[string]any{"utoken": token})
	if err != nil {
		return 0, err
	}
	var out struct {
		Tokens int64 `json:"tokens"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return 0, fmt.Errorf("parsing quota response: %w", err)
	}
	return out.Tokens, nil
}

// Decrease reduces the caller's balance by the given amount.
func (c *Client) Decrease(ctx context.Context, token string, by int64) error {
	_, err := c.post(ctx, "/tokens/decrease", map[string]any{
		"utoken":       token,
		"decrement_by": by,
	})
	return err
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "tutor/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quota request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("quota service: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
