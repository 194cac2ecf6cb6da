// Package api implements the console's REST client: a single request
// pipeline that turns (path, method, optional bearer token, optional JSON
// body) into a decoded result or a classified *Error, plus typed wrappers
// for every backend operation.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const defaultTimeout = 10 * time.Second

// Client issues requests against the backend REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client rooted at baseURL (e.g. "http://host/api").
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// requestOptions carries the per-request knobs of the pipeline. The zero
// value is an unauthenticated GET with no body.
type requestOptions struct {
	method string
	token  string
	body   any
}

// do runs the request pipeline. The response body is always read in full;
// if it is non-empty it is parsed as JSON, and on parse failure the raw
// text is kept as the body value so non-JSON error pages survive
// classification. Any 2xx status decodes into out (when out is non-nil and
// the body non-empty); any other status returns a *Error.
func (c *Client) do(ctx context.Context, path string, opts requestOptions, out any) error {
	method := opts.method
	if method == "" {
		method = http.MethodGet
	}

	var reqBody io.Reader
	if opts.body != nil {
		data, err := json.Marshal(opts.body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if opts.token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.token)
	}
	if opts.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	requestID := uuid.NewString()
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	var body any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			body = string(raw)
		}
	}

	c.logger.Debug("api request",
		"request_id", requestID,
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return newError(resp.StatusCode, http.StatusText(resp.StatusCode), body)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// CreateUser registers a new user. This is the signup path and carries no
// token.
func (c *Client) CreateUser(ctx context.Context, payload UserRequest) (User, error) {
	var user User
	err := c.do(ctx, "/users", requestOptions{method: http.MethodPost, body: payload}, &user)
	return user, err
}

// RequestToken exchanges credentials for an access token. No token is
// attached to this call.
func (c *Client) RequestToken(ctx context.Context, payload TokenRequest) (TokenResponse, error) {
	var resp TokenResponse
	err := c.do(ctx, "/oauth/token", requestOptions{method: http.MethodPost, body: payload}, &resp)
	return resp, err
}

// ListUsers returns every user.
func (c *Client) ListUsers(ctx context.Context, token string) ([]User, error) {
	var users []User
	err := c.do(ctx, "/users", requestOptions{token: token}, &users)
	return users, err
}

// UpdateUser replaces the editable fields of the user with the given id.
func (c *Client) UpdateUser(ctx context.Context, id int64, payload UserRequest, token string) (User, error) {
	var user User
	err := c.do(ctx, fmt.Sprintf("/users/%d", id), requestOptions{method: http.MethodPut, token: token, body: payload}, &user)
	return user, err
}

// DeleteUser deletes the user with the given id.
func (c *Client) DeleteUser(ctx context.Context, id int64, token string) error {
	return c.do(ctx, fmt.Sprintf("/users/%d", id), requestOptions{method: http.MethodDelete, token: token}, nil)
}

// ListTweets returns every tweet.
func (c *Client) ListTweets(ctx context.Context, token string) ([]Tweet, error) {
	var tweets []Tweet
	err := c.do(ctx, "/tweets", requestOptions{token: token}, &tweets)
	return tweets, err
}

// CreateTweet posts a new tweet.
func (c *Client) CreateTweet(ctx context.Context, payload TweetRequest, token string) (Tweet, error) {
	var tweet Tweet
	err := c.do(ctx, "/tweets", requestOptions{method: http.MethodPost, token: token, body: payload}, &tweet)
	return tweet, err
}

// UpdateTweet replaces the content and author of the tweet with the given id.
func (c *Client) UpdateTweet(ctx context.Context, id int64, payload TweetRequest, token string) (Tweet, error) {
	var tweet Tweet
	err := c.do(ctx, fmt.Sprintf("/tweets/%d", id), requestOptions{method: http.MethodPut, token: token, body: payload}, &tweet)
	return tweet, err
}

// DeleteTweet deletes the tweet with the given id.
func (c *Client) DeleteTweet(ctx context.Context, id int64, token string) error {
	return c.do(ctx, fmt.Sprintf("/tweets/%d", id), requestOptions{method: http.MethodDelete, token: token}, nil)
}
