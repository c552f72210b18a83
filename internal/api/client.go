package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// APIKeyHeader carries the access key on every request.
const APIKeyHeader = "X-API-Key"

// RequestIDHeader carries the id shared by every attempt of one Execute call.
const RequestIDHeader = "X-Request-ID"

// DefaultBaseURL is where the RIT client application listens by default.
const DefaultBaseURL = "http://localhost:9999"

// Client provides access to the RIT REST API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger

	policy   RetryPolicy
	sleeper  Sleeper
	observer Observer
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new REST API client.
func NewClient(baseURL, apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:   slog.Default(),
		policy:   WaitAndRetry,
		sleeper:  TimerSleeper{},
		observer: nopObserver{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetryPolicy sets the policy used by calls that do not pick one.
func WithRetryPolicy(p RetryPolicy) ClientOption {
	return func(c *Client) {
		c.policy = p
	}
}

// WithSleeper replaces the sleeper used while rate limited.
func WithSleeper(s Sleeper) ClientOption {
	return func(c *Client) {
		if s != nil {
			c.sleeper = s
		}
	}
}

// WithObserver registers an observer for request lifecycle events.
func WithObserver(o Observer) ClientOption {
	return func(c *Client) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// BaseURL returns the server root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}
