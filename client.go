package gocardless

import (
	"context"
	"net/http"
	"net/url"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gocardless-go/client-go/internal/api"
)

// Response is a successful API response. Data holds the decoded JSON
// document, or nil for file downloads and empty bodies; Body always holds
// the raw bytes.
type Response = api.Response

// Form is a multipart upload body for Post with AsFile.
type Form = api.Form

// File is a file part inside a Form.
type File = api.File

// Client is a GoCardless API client. It is safe for concurrent use and holds
// no mutable state after New returns.
type Client struct {
	apiClient   *api.Client
	environment Environment
}

// buildAPIClient creates and configures an API client from the given config.
func buildAPIClient(accessToken string, cfg *clientConfig) (*api.Client, error) {
	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.timeout}
	}

	apiCfg := api.Config{
		BaseURL:     cfg.baseURL,
		AccessToken: accessToken,
		HTTPClient:  httpClient,
		UserAgent:   cfg.userAgent,
		Debug:       cfg.debug,
		Logger:      zerolog.Nop(),
	}
	switch {
	case cfg.logger != nil:
		apiCfg.Logger = *cfg.logger
	case cfg.debug:
		apiCfg.Logger = log.Logger
	}
	if cfg.metrics {
		metrics, err := api.NewMetrics(cfg.registerer)
		if err != nil {
			return nil, err
		}
		apiCfg.Metrics = metrics
	}

	return api.NewClient(apiCfg)
}

// New creates a new GoCardless client for accessToken. The environment is
// picked from the token prefix once, here, and never changes.
func New(accessToken string, opts ...Option) (*Client, error) {
	if accessToken == "" {
		return nil, ErrMissingAccessToken
	}

	env := EnvironmentForToken(accessToken)
	cfg := &clientConfig{
		baseURL:   env.BaseURL(),
		timeout:   api.DefaultTimeout,
		userAgent: defaultUserAgent,
		debug:     debugLoggingRequested(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	apiClient, err := buildAPIClient(accessToken, cfg)
	if err != nil {
		return nil, err //coverage:ignore
	}

	return &Client{
		apiClient:   apiClient,
		environment: env,
	}, nil
}

// Environment returns the environment derived from the access token.
func (c *Client) Environment() Environment {
	return c.environment
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string {
	return c.apiClient.BaseURL()
}

// Get fetches path with the given query parameters. With AsFile the body is
// returned as raw bytes in Response.Body and Response.Data stays nil.
func (c *Client) Get(ctx context.Context, path string, query url.Values, opts ...RequestOption) (*Response, error) {
	if IsEmpty(path) {
		return nil, ErrMissingURL
	}
	cfg := newRequestConfig(opts)

	return c.do(ctx, &api.Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
		Binary: cfg.isFile,
		Header: cfg.header,
	})
}

// Post creates a resource at path. body must not be empty. With AsFile the
// body must be a Form (or map[string]any, map[string]string, url.Values) and
// is sent as multipart/form-data; otherwise it is JSON-encoded.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	if IsEmpty(path) {
		return nil, ErrMissingURL
	}
	if IsEmpty(body) {
		return nil, ErrMissingBody
	}
	cfg := newRequestConfig(opts)

	req := &api.Request{
		Method: http.MethodPost,
		Path:   path,
		Header: cfg.header,
	}
	if cfg.isFile {
		form, err := api.FormFrom(body)
		if err != nil {
			return nil, err
		}
		req.Form = form
	} else {
		req.Body = body
		req.HasBody = true
	}

	return c.do(ctx, req)
}

// Put updates the resource at path. A nil or empty body is sent as an empty
// JSON object; unlike Post, it is not rejected.
func (c *Client) Put(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	if IsEmpty(path) {
		return nil, ErrMissingURL
	}
	if IsEmpty(body) {
		body = map[string]any{}
	}
	cfg := newRequestConfig(opts)

	return c.do(ctx, &api.Request{
		Method:  http.MethodPut,
		Path:    path,
		Body:    body,
		HasBody: true,
		Header:  cfg.header,
	})
}

// Del deletes the resource at path.
func (c *Client) Del(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	if IsEmpty(path) {
		return nil, ErrMissingURL
	}
	cfg := newRequestConfig(opts)

	return c.do(ctx, &api.Request{
		Method: http.MethodDelete,
		Path:   path,
		Header: cfg.header,
	})
}

func (c *Client) do(ctx context.Context, req *api.Request) (*Response, error) {
	resp, err := c.apiClient.Do(ctx, req)
	if err != nil {
		return nil, wrapError(err)
	}
	return resp, nil
}

// debugLoggingRequested reports whether GOCARDLESS_DEBUG=true is set.
func debugLoggingRequested() bool {
	return os.Getenv("GOCARDLESS_DEBUG") == "true"
}
