// Package content is the client for the upstream content-management
// service. The service's read responses come in more than one shape, so
// search results go through a lenient normalizer before anything else
// sees them.
package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	baseURL      string
	serviceToken string
	http         *http.Client
}

func NewClient(baseURL, serviceToken string) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		serviceToken: serviceToken,
		http:         &http.Client{Timeout: 30 * time.Second},
	}
}

// Item is the uniform shape search results are normalized into.
type Item struct {
	Title string `json:"title"`
	Type  string `json:"type"`
	ID    int64  `json:"id,omitempty"`
	Link  string `json:"link,omitempty"`
}

// StatusError is a non-2xx reply from the content service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("content service: status %d: %s", e.StatusCode, e.Body)
}

// Search queries posts by title. typ filters by post type ("all" for no
// filter, passed through as-is).
func (c *Client) Search(ctx context.Context, userToken, query, typ string) ([]Item, error) {
	q := url.Values{}
	q.Set("type", typ)
	q.Set("q[title_cont]", query)

	body, err := c.do(ctx, userToken, http.MethodGet, "/posts?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	return normalizeSearch(body), nil
}

// CreateParams is the payload for a new post. Exactly one of SubjectID or
// ProblemID may link the post to a parent.
type CreateParams struct {
	Title     string
	PostType  string
	Body      string // HTML
	SubjectID int64
	ProblemID int64
}

func (c *Client) Create(ctx context.Context, userToken string, p CreateParams) (json.RawMessage, error) {
	post := map[string]any{
		"title":     p.Title,
		"post_type": p.PostType,
		"content":   map[string]any{"body": p.Body},
	}
	if p.SubjectID != 0 {
		post["subject_id"] = p.SubjectID
	} else if p.ProblemID != 0 {
		post["problem_id"] = p.ProblemID
	}

	body, err := c.do(ctx, userToken, http.MethodPost, "/posts", map[string]any{"post": post})
	if err != nil {
		return nil, err
	}
	return createdPost(body), nil
}

// UpdateParams carries a partial edit. Nil fields are left out of the
// request entirely so the service only touches what was supplied.
type UpdateParams struct {
	Title *string
	Body  *string // HTML
}

func (c *Client) Update(ctx context.Context, userToken string, id int64, p UpdateParams) (json.RawMessage, error) {
	post := map[string]any{}
	if p.Title != nil {
		post["title"] = *p.Title
	}
	if p.Body != nil {
		post["content"] = map[string]any{"body": *p.Body}
	}

	path := fmt.Sprintf("/posts/%d/api_update", id)
	body, err := c.do(ctx, userToken, http.MethodPut, path, map[string]any{"post": post})
	if err != nil {
		return nil, err
	}
	return createdPost(body), nil
}

func (c *Client) do(ctx context.Context, userToken, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.serviceToken)
	req.Header.Set("User-Agent", "tutor/1.0")
	if userToken != "" {
		req.Header.Set("X-User-Token", userToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("content request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}
	return respBody, nil
}
