package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// DefaultClientTimeout bounds every HTTP request made by Client.
const DefaultClientTimeout = 10 * time.Second

// Client is the HTTP implementation of RemoteStore against the moneta API.
// It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a client for the API at baseURL. The token is sent as a
// bearer credential on every request; pass "" for unauthenticated reads.
func NewClient(baseURL, token string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: DefaultClientTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken swaps the bearer token, e.g. after a refresh. It may be called
// while other goroutines are issuing requests; in-flight requests keep the
// token they started with.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) bearerToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// apiError is the server's error envelope.
type apiError struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.bearerToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var envelope apiError
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error != "" {
		return &RemoteError{
			Status:  resp.StatusCode,
			Code:    envelope.Code,
			Message: envelope.Error,
		}
	}
	return &RemoteError{
		Status:  resp.StatusCode,
		Message: http.StatusText(resp.StatusCode),
	}
}

// ListPosts implements RemoteStore.
func (c *Client) ListPosts(ctx context.Context, scope Scope) ([]Post, error) {
	var posts []Post
	path := "/api/feed?scope=" + url.QueryEscape(string(scope))
	if err := c.do(ctx, http.MethodGet, path, nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPost implements RemoteStore.
func (c *Client) GetPost(ctx context.Context, postID uint) (*Post, error) {
	var post Post
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/posts/%d", postID), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// CreatePost implements RemoteStore.
func (c *Client) CreatePost(ctx context.Context, in PostInput) (*Post, error) {
	var post Post
	if err := c.do(ctx, http.MethodPost, "/api/posts", in, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdatePost implements RemoteStore.
func (c *Client) UpdatePost(ctx context.Context, postID uint, in PostUpdate) (*Post, error) {
	var post Post
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/posts/%d", postID), in, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeletePost implements RemoteStore.
func (c *Client) DeletePost(ctx context.Context, postID uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/posts/%d", postID), nil, nil)
}

// ToggleLike implements RemoteStore.
func (c *Client) ToggleLike(ctx context.Context, postID uint) (*Post, error) {
	var post Post
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/posts/%d/like", postID), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// ListComments implements RemoteStore.
func (c *Client) ListComments(ctx context.Context, postID uint) ([]Comment, error) {
	var comments []Comment
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/posts/%d/comments", postID), nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CreateComment implements RemoteStore.
func (c *Client) CreateComment(ctx context.Context, postID uint, in CommentInput) (*Comment, error) {
	var comment Comment
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/posts/%d/comments", postID), in, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateComment implements RemoteStore.
func (c *Client) UpdateComment(ctx context.Context, postID, commentID uint, content string) (*Comment, error) {
	var comment Comment
	body := map[string]string{"content": content}
	path := fmt.Sprintf("/api/posts/%d/comments/%d", postID, commentID)
	if err := c.do(ctx, http.MethodPut, path, body, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment implements RemoteStore.
func (c *Client) DeleteComment(ctx context.Context, postID, commentID uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/posts/%d/comments/%d", postID, commentID), nil, nil)
}
