package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate ...func(*Config)) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := Config{
		BaseURL:     server.URL,
		AccessToken: "sandbox_test-token",
		Logger:      zerolog.Nop(),
	}
	for _, m := range mutate {
		m(&cfg)
	}

	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return client
}

func TestNewClient_RequiresAccessToken(t *testing.T) {
	_, err := NewClient(Config{BaseURL: "https://example.com"})
	if err == nil {
		t.Error("expected error for empty access token")
	}
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{AccessToken: "token"})
	if err == nil {
		t.Error("expected error for empty base URL")
	}
}

func TestNewClient_DefaultHTTPClient(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "https://example.com/", AccessToken: "token"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if client.rest.GetClient().Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", client.rest.GetClient().Timeout, DefaultTimeout)
	}
	if client.BaseURL() != "https://example.com/" {
		t.Errorf("BaseURL() = %q", client.BaseURL())
	}
}

func TestClient_Do_Headers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sandbox_test-token" {
			t.Errorf("Authorization = %q, want Bearer sandbox_test-token", got)
		}
		if got := r.Header.Get(VersionHeader); got != Version {
			t.Errorf("%s = %q, want %q", VersionHeader, got, Version)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q, want application/json", got)
		}
		if got := r.Header.Get("User-Agent"); got != "gocardless-go/test" {
			t.Errorf("User-Agent = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}, func(c *Config) { c.UserAgent = "gocardless-go/test" })

	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			req := &Request{Method: method, Path: "/customers"}
			if method == http.MethodPost || method == http.MethodPut {
				req.Body = map[string]any{"a": 1}
				req.HasBody = true
			}
			if _, err := client.Do(context.Background(), req); err != nil {
				t.Fatalf("Do() error = %v", err)
			}
		})
	}
}

func TestClient_Do_DecodesJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/customers/CU123" {
			t.Errorf("path = %s, want /customers/CU123", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"customers":{"id":"CU123","email":"a@example.com"}}`))
	})

	resp, err := client.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/customers/CU123"})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}

	doc, ok := resp.Data.(map[string]any)
	if !ok {
		t.Fatalf("Data = %T, want map[string]any", resp.Data)
	}
	customer := doc["customers"].(map[string]any)
	if customer["id"] != "CU123" {
		t.Errorf("id = %v, want CU123", customer["id"])
	}

	var typed struct {
		Customers struct {
			Email string `json:"email"`
		} `json:"customers"`
	}
	if err := resp.Decode(&typed); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if typed.Customers.Email != "a@example.com" {
		t.Errorf("Email = %q", typed.Customers.Email)
	}
}

func TestClient_Do_QueryParams(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("limit") != "10" {
			t.Errorf("limit = %q, want 10", q.Get("limit"))
		}
		if got := q["status"]; len(got) != 2 {
			t.Errorf("status = %v, want two values", got)
		}
		w.Write([]byte(`{}`))
	})

	query := url.Values{"limit": {"10"}, "status": {"active", "pending"}}
	if _, err := client.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/payments", Query: query}); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
}

func TestClient_Do_JSONBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", got)
		}
		var body map[string]map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if body["customers"]["email"] != "a@example.com" {
			t.Errorf("body = %v", body)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"customers":{"id":"CU1"}}`))
	})

	req := &Request{
		Method:  http.MethodPost,
		Path:    "/customers",
		Body:    map[string]any{"customers": map[string]string{"email": "a@example.com"}},
		HasBody: true,
	}
	resp, err := client.Do(context.Background(), req)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("StatusCode = %d, want 201", resp.StatusCode)
	}
}

func TestClient_Do_RawMessageBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		if string(data) != `{"x":1}` {
			t.Errorf("body = %s, want {\"x\":1}", data)
		}
		w.Write([]byte(`{}`))
	})

	req := &Request{Method: http.MethodPut, Path: "/x", Body: json.RawMessage(`{"x":1}`), HasBody: true}
	if _, err := client.Do(context.Background(), req); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
}

func TestClient_Do_Binary(t *testing.T) {
	payload := []byte{0x25, 0x50, 0x44, 0x46, 0x00, 0xff, 0xfe}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "*/*" {
			t.Errorf("Accept = %q, want */*", got)
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(payload)
	})

	resp, err := client.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/files/F1", Binary: true})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if !bytes.Equal(resp.Body, payload) {
		t.Errorf("Body = %v, want %v", resp.Body, payload)
	}
	if resp.Data != nil {
		t.Errorf("Data = %v, want nil for binary response", resp.Data)
	}
}

func TestClient_Do_EmptyBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	resp, err := client.Do(context.Background(), &Request{Method: http.MethodDelete, Path: "/x"})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if resp.Data != nil {
		t.Errorf("Data = %v, want nil", resp.Data)
	}
}

func TestClient_Do_MalformedJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	})

	_, err := client.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/x"})
	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Errorf("Do() error = %v, want *json.SyntaxError", err)
	}
}

func TestClient_Do_APIError(t *testing.T) {
	body := `{"error":{"message":"Resource not found","type":"invalid_api_usage","code":404,"request_id":"req-1","errors":[{"reason":"resource_not_found","message":"Resource not found"}]}}`

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(body))
	})

	_, err := client.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/customers/nope"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Do() error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
	}
	if string(apiErr.Body) != body {
		t.Errorf("Body = %s, want verbatim response", apiErr.Body)
	}
	if apiErr.Type != "invalid_api_usage" || apiErr.RequestID != "req-1" {
		t.Errorf("envelope not parsed: %+v", apiErr)
	}
	if len(apiErr.Errors) != 1 || apiErr.Errors[0].Reason != "resource_not_found" {
		t.Errorf("Errors = %+v", apiErr.Errors)
	}
}

func TestClient_Do_NoRetry(t *testing.T) {
	var attempts int32

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/x"})
	if err == nil {
		t.Fatal("expected error for 503")
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("attempts = %d, want 1", got)
	}
}

func TestClient_Do_TransportErrorUnchanged(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "http://127.0.0.1:1", AccessToken: "token"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	_, err = client.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/x"})
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		t.Errorf("Do() error = %T %v, want *url.Error", err, err)
	}
}

func TestClient_Do_ContextCanceled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Do(ctx, &Request{Method: http.MethodGet, Path: "/x"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Do() error = %v, want context.Canceled", err)
	}
}

func TestClient_Do_ExtraHeaders(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Idempotency-Key"); got != "key-1" {
			t.Errorf("Idempotency-Key = %q, want key-1", got)
		}
		w.Write([]byte(`{}`))
	})

	req := &Request{
		Method:  http.MethodPost,
		Path:    "/payments",
		Body:    map[string]any{"payments": map[string]any{"amount": 100}},
		HasBody: true,
		Header:  http.Header{"Idempotency-Key": {"key-1"}},
	}
	if _, err := client.Do(context.Background(), req); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
}

func TestClient_Do_DebugLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}, func(c *Config) {
		c.Logger = logger
		c.Debug = true
		c.AccessToken = "live_secret-token"
	})

	if _, err := client.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/mandates"}); err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, `"message":"HTTP request"`) || !strings.Contains(out, `"message":"HTTP response"`) {
		t.Errorf("missing debug lines: %s", out)
	}
	if strings.Contains(out, "live_secret-token") {
		t.Errorf("access token leaked into logs: %s", out)
	}
	if strings.Contains(out, `"url"`) {
		t.Errorf("debug lines mix url and path keys: %s", out)
	}
	if n := strings.Count(out, `"path":"/mandates"`); n != 2 {
		t.Errorf("path logged %d times, want 2 (request and response): %s", n, out)
	}
}

func TestClient_Do_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{}`))
	}, func(c *Config) { c.Metrics = metrics })

	client.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/ok"})
	client.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/missing"})

	if got := testutil.ToFloat64(metrics.requests.WithLabelValues("GET", "200")); got != 1 {
		t.Errorf("requests{GET,200} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.requests.WithLabelValues("GET", "404")); got != 1 {
		t.Errorf("requests{GET,404} = %v, want 1", got)
	}
}

func TestNewMetrics_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := NewMetrics(reg)
	if err != nil {
		t.Fatalf("first NewMetrics() error = %v", err)
	}
	second, err := NewMetrics(reg)
	if err != nil {
		t.Fatalf("second NewMetrics() error = %v", err)
	}
	if first.requests != second.requests || first.duration != second.duration {
		t.Error("second NewMetrics() did not reuse the registered collectors")
	}
}

func TestNewMetrics_ConflictingCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gocardless_client",
		Name:      "requests_total",
		Help:      "API requests by method and response code; code is \"error\" for transport failures.",
	}, []string{"method"}))

	if _, err := NewMetrics(reg); err == nil {
		t.Error("NewMetrics() error = nil, want registration conflict")
	}
}
