package gocardless

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const defaultUserAgent = "gocardless-go/1.0"

// clientConfig holds configuration for the client.
type clientConfig struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	logger     *zerolog.Logger
	debug      bool
	registerer prometheus.Registerer
	metrics    bool
}

// Option configures the client.
type Option func(*clientConfig)

// WithBaseURL overrides the base URL derived from the access token.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client. Its Timeout takes precedence
// over WithTimeout.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the timeout of the default HTTP client.
// Default: 30 seconds
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *clientConfig) {
		c.userAgent = userAgent
	}
}

// WithLogger sets the logger used for debug traces and transport warnings.
// Default: a disabled logger, or the global zerolog logger when debug
// tracing is on.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = &logger
	}
}

// WithDebug logs every request and response at debug level.
// Setting GOCARDLESS_DEBUG=true has the same effect.
func WithDebug(enabled bool) Option {
	return func(c *clientConfig) {
		c.debug = enabled
	}
}

// WithMetrics records request counts and latencies on reg.
// A nil reg keeps the collectors unregistered.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *clientConfig) {
		c.metrics = true
		c.registerer = reg
	}
}

// requestConfig holds per-call settings. The zero value sends JSON and
// decodes JSON.
type requestConfig struct {
	isFile bool
	header http.Header
}

// RequestOption configures a single call.
type RequestOption func(*requestConfig)

// AsFile switches a call to file mode: Get returns the body as raw bytes
// without decoding it, and Post sends the body as multipart/form-data.
// Put and Del ignore it.
func AsFile() RequestOption {
	return func(c *requestConfig) {
		c.isFile = true
	}
}

// WithIdempotencyKey sets the Idempotency-Key header so a repeated create
// request returns the original resource instead of a duplicate.
func WithIdempotencyKey(key string) RequestOption {
	return WithHeader("Idempotency-Key", key)
}

// WithHeader sets an extra header on a single call.
func WithHeader(key, value string) RequestOption {
	return func(c *requestConfig) {
		if c.header == nil {
			c.header = make(http.Header)
		}
		c.header.Set(key, value)
	}
}

func newRequestConfig(opts []RequestOption) *requestConfig {
	cfg := &requestConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
