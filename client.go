package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

const (
	loginPath         = "/api/auth/login"
	registerPath      = "/api/auth/register"
	refreshPath       = "/api/auth/refresh"
	profilePath       = "/api/users/profile"
	usersPath         = "/users"
	profileUpdatePath = "/profile"

	defaultHTTPTimeout = 10 * time.Second
)

// Client is the HTTP adapter every session operation goes through. It
// attaches the bearer token on the way out and invokes the unauthorized
// handler on any 401 on the way back, before the error reaches the caller.
// The handler's job is global teardown only; the caller still receives the
// rejected result and handles it locally.
type Client struct {
	baseURL        string
	http           *http.Client
	tokens         TokenSource
	onUnauthorized func()
	logger         Logger
}

// ClientOption customizes Client construction.
type ClientOption func(*Client)

// WithHTTPClient swaps the underlying transport (useful for tests and custom
// TLS setups).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout overrides the default per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithClientLogger overrides the default logger.
func WithClientLogger(logger Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient returns a Client rooted at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultHTTPTimeout},
		logger:  defaultLogger(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

// SetTokenSource wires the credential source consulted on every request.
// The Manager registers itself here during construction.
func (c *Client) SetTokenSource(tokens TokenSource) {
	c.tokens = tokens
}

// SetUnauthorizedHandler wires the 401 teardown hook.
func (c *Client) SetUnauthorizedHandler(fn func()) {
	c.onUnauthorized = fn
}

// Login exchanges credentials for tokens and a user record.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	out := &AuthResponse{}
	if err := c.do(ctx, http.MethodPost, loginPath, creds, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Register creates an account; the user is authenticated immediately on
// success, there is no separate confirmation step.
func (c *Client) Register(ctx context.Context, data Registration) (*RegisterResponse, error) {
	out := &RegisterResponse{}
	if err := c.do(ctx, http.MethodPost, registerPath, data, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Refresh presents the refresh token to mint a new access token.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	out := &AuthResponse{}
	if err := c.do(ctx, http.MethodPost, refreshPath, RefreshRequest{Token: refreshToken}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Profile fetches the richer profile record for the current user.
func (c *Client) Profile(ctx context.Context) (*ProfileResponse, error) {
	out := &ProfileResponse{}
	if err := c.do(ctx, http.MethodGet, profilePath, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Users lists user records.
func (c *Client) Users(ctx context.Context) (*UsersResponse, error) {
	out := &UsersResponse{}
	if err := c.do(ctx, http.MethodGet, usersPath, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateProfile changes the current user's email.
func (c *Client) UpdateProfile(ctx context.Context, email string) (*ProfileResponse, error) {
	out := &ProfileResponse{}
	if err := c.do(ctx, http.MethodPut, profileUpdatePath, ProfileUpdate{Email: email}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")

	if c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("Request transport failure", "method", method, "path", path, "error", err)
		return ErrNetwork.WithMetadata(map[string]any{
			"method": method,
			"path":   path,
			"cause":  err.Error(),
		})
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		io.Copy(io.Discard, resp.Body)
		c.logger.Info("Unauthorized response, tearing down session", "method", method, "path", path)
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return ErrUnauthorized.WithMetadata(map[string]any{
			"method": method,
			"path":   path,
		})
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.errorFromBody(resp, method, path)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to decode response body").
				WithCode(resp.StatusCode)
		}
	}

	return nil
}

// errorFromBody prefers the server-supplied message field, then the error
// field, then a generic status line.
func (c *Client) errorFromBody(resp *http.Response, method, path string) error {
	var body struct {
		Message string `json:"message"`
		Err     string `json:"error"`
	}
	// Best effort: a failure body that does not decode still yields the status error.
	json.NewDecoder(resp.Body).Decode(&body)

	message := body.Message
	if message == "" {
		message = body.Err
	}
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", resp.StatusCode)
	}

	return goerrors.New(message, goerrors.CategoryOperation).
		WithCode(resp.StatusCode).
		WithMetadata(map[string]any{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
		})
}
