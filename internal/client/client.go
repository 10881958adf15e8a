// ABOUTME: HTTP client for the attendance service API
// ABOUTME: Wraps API calls with request IDs, bearer auth and CLI-friendly errors

package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/markalston/facepunch/internal/logger"
)

// API paths. The service requires the trailing slashes.
const (
	PathSignIn            = "/api/auth/signin/"
	PathMarkAttendance    = "/api/features/mark-attendance/"
	PathRegister          = "/api/features/register/"
	PathUsers             = "/api/features/users/"
	PathAttendanceRecords = "/api/features/attendance-records/"
)

// Version is reported in the User-Agent header
var Version = "dev"

// ErrInvalidCredentials is returned for any non-2xx sign-in response
var ErrInvalidCredentials = errors.New("Invalid credentials")

// Client is the API client for the attendance service
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithTimeout overrides the default 30s request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the request logger
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger.Component(l, "client")
	}
}

// New creates a new API client with the given base URL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.Component(nil, "client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Response is a raw API reply whose status the caller interprets
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports a 2xx status
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// newRequest builds a request carrying the request ID, user agent and,
// when token is set, the bearer credential.
func (c *Client) newRequest(ctx context.Context, method, path, token string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	req.Header.Set("User-Agent", "facepunch/"+Version)
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// send performs req and reads the whole body
func (c *Client) send(ctx context.Context, req *http.Request) (*Response, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, c.handleRequestError(ctx, err)
		}
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("api request",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"request_id", req.Header.Get("X-Request-ID"),
		"duration", time.Since(start),
	)
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}

// PostMultipart sends a prebuilt multipart body to path
func (c *Client) PostMultipart(ctx context.Context, path, token, contentType string, body io.Reader) (*Response, error) {
	req, err := c.newRequest(ctx, http.MethodPost, path, token, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	return c.send(ctx, req)
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("request canceled: %w", context.Canceled)
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", context.DeadlineExceeded)
	}
	return fmt.Errorf("cannot connect to service at %s: %w", c.baseURL, err)
}
