package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Version is the GoCardless API version every request is pinned to.
const Version = "2015-07-06"

// VersionHeader is the header carrying [Version].
const VersionHeader = "GoCardless-Version"

// DefaultTimeout is used when Config.HTTPClient is nil.
const DefaultTimeout = 30 * time.Second

// Config holds the settings for NewClient.
type Config struct {
	// BaseURL is the resolved API root, e.g. https://api.gocardless.com/.
	BaseURL string
	// AccessToken is sent as a Bearer credential.
	AccessToken string
	// HTTPClient is the underlying client. A client with DefaultTimeout is
	// used when nil.
	HTTPClient *http.Client
	// UserAgent overrides the User-Agent header.
	UserAgent string
	// Logger receives debug traces and transport warnings.
	Logger zerolog.Logger
	// Debug enables per-request debug traces on Logger.
	Debug bool
	// Metrics records request counts and latencies when non-nil.
	Metrics *Metrics
}

// Client is the HTTP API client.
type Client struct {
	baseURL string
	rest    *resty.Client
}

// NewClient creates a new API client from cfg.
func NewClient(cfg Config) (*Client, error) {
	if cfg.AccessToken == "" {
		return nil, fmt.Errorf("access token is required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	rest := resty.NewWithClient(httpClient).
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.AccessToken).
		SetHeader(VersionHeader, Version).
		SetRetryCount(0).
		SetLogger(restyLogger{log: cfg.Logger})

	if cfg.UserAgent != "" {
		rest.SetHeader("User-Agent", cfg.UserAgent)
	}
	if cfg.Debug {
		installDebugHooks(rest, cfg.Logger)
	}
	if cfg.Metrics != nil {
		cfg.Metrics.install(rest)
	}

	return &Client{
		baseURL: cfg.BaseURL,
		rest:    rest,
	}, nil
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do issues req and returns the response. Transport errors are returned
// unchanged; non-2xx statuses become an *APIError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	r := c.rest.R().SetContext(ctx)

	if len(req.Query) > 0 {
		r.SetQueryParamsFromValues(req.Query)
	}
	if req.Binary {
		r.SetHeader("Accept", "*/*")
	} else {
		r.SetHeader("Accept", "application/json")
	}
	for k, values := range req.Header {
		r.Header.Del(k)
		for _, v := range values {
			r.Header.Add(k, v)
		}
	}

	switch {
	case req.Form != nil:
		fields, err := req.Form.multipartFields()
		if err != nil {
			return nil, err
		}
		r.SetMultipartFields(fields...)
	case req.HasBody:
		data, err := encodeBody(req.Body)
		if err != nil {
			return nil, err
		}
		r.SetHeader("Content-Type", "application/json").SetBody(data)
	}

	resp, err := r.Execute(req.Method, req.Path)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, newAPIError(resp.StatusCode(), resp.Header(), resp.Body())
	}

	out := &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}
	if req.Binary || len(out.Body) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(out.Body, &out.Data); err != nil {
		return nil, err
	}
	return out, nil
}

func encodeBody(body any) ([]byte, error) {
	if raw, ok := body.(json.RawMessage); ok {
		return raw, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return data, nil
}
