// Package gazelle is a typed client for the ajax.php API of Gazelle-based
// music trackers such as RED and OPS.
//
// Every call passes through a per-client sliding-window rate limiter and
// every failure is returned as an *Error tagged with a Kind:
//
//	client, err := gazelle.NewClient(
//	    gazelle.WithBaseURL("https://orpheus.network"),
//	    gazelle.WithAPIKey(key),
//	)
//	if err != nil {
//	    return err
//	}
//	resp, err := client.GetTorrent(ctx, 12345)
//	if errors.Is(err, gazelle.ErrNotFound) {
//	    // no such torrent
//	}
package gazelle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/RogueOneEcho/gazelle-api/pkg/ratelimit"
)

// Client defaults.
const (
	DefaultUserAgent   = "gazelle-api.go"
	defaultHTTPTimeout = 60 * time.Second

	// Larger responses fail with ErrResponseTooLarge (32MB).
	maxResponseSize = 32 * 1024 * 1024
)

// HTTPDoer abstracts the HTTP client so tests and callers can substitute it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// API is the set of operations offered by a Gazelle indexer.
// It is implemented by *Client and by gazelletest.Client.
type API interface {
	GetTorrent(ctx context.Context, id int) (*TorrentResponse, error)
	GetTorrentGroup(ctx context.Context, id int) (*GroupResponse, error)
	GetUser(ctx context.Context, id int) (*User, error)
	DownloadTorrent(ctx context.Context, id int) ([]byte, error)
	UploadTorrent(ctx context.Context, form UploadForm) (*UploadResponse, error)
	UploadNewSource(ctx context.Context, form NewSourceUploadForm) (*UploadResponse, error)
}

// Compile-time interface compliance check.
var _ API = (*Client)(nil)

// Configuration errors returned by NewClient.
var (
	ErrMissingBaseURL = errors.New("base URL is required")
	ErrMissingAPIKey  = errors.New("API key is required")
)

// Client calls a single Gazelle indexer. It is safe for concurrent use;
// all goroutines share one rate limiter.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	capacity   int
	window     time.Duration
	limiter    *ratelimit.Limiter
	httpClient HTTPDoer
	logger     *zap.Logger
	metrics    *Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the indexer root, e.g. "https://redacted.sh".
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithAPIKey sets the key sent in the Authorization header.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRateLimit sets the number of requests allowed per window.
// Ignored when WithLimiter is also given.
func WithRateLimit(requests int, per time.Duration) Option {
	return func(c *Client) {
		c.capacity = requests
		c.window = per
	}
}

// WithLimiter shares an existing limiter, e.g. between clients of the same
// indexer account.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		if doer != nil {
			c.httpClient = doer
		}
	}
}

// WithLogger sets the logger for request tracing. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a Client. WithBaseURL and WithAPIKey are required.
// The rate defaults to ratelimit.DefaultCapacity per ratelimit.DefaultWindow.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		userAgent: DefaultUserAgent,
		capacity:  ratelimit.DefaultCapacity,
		window:    ratelimit.DefaultWindow,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.baseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if c.limiter == nil {
		l, err := ratelimit.New(c.capacity, c.window, ratelimit.WithLogger(c.logger))
		if err != nil {
			return nil, fmt.Errorf("create rate limiter: %w", err)
		}
		c.limiter = l
	}
	c.capacity = c.limiter.Capacity()
	c.window = c.limiter.Window()
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return c, nil
}

// BaseURL returns the indexer root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Limiter returns the rate limiter shared by all calls on this client.
func (c *Client) Limiter() *ratelimit.Limiter {
	return c.limiter
}
