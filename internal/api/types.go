package api

import (
	"encoding/json"
	"net/http"
	"net/url"
)

// Request describes a single API call. It is built per call and discarded.
type Request struct {
	Method string
	// Path is resolved against the client's base URL.
	Path  string
	Query url.Values
	// Body is JSON-encoded when HasBody is set. A json.RawMessage is sent as is.
	Body    any
	HasBody bool
	// Form switches the request to multipart/form-data. Body is ignored.
	Form Form
	// Binary delivers the response as raw bytes instead of decoded JSON.
	Binary bool
	Header http.Header
}

// Response is a successful (2xx) API response.
type Response struct {
	StatusCode int
	Header     http.Header
	// Body holds the raw response bytes.
	Body []byte
	// Data holds the decoded JSON document. It is nil for binary requests
	// and for empty bodies.
	Data any
}

// Decode unmarshals the raw body into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}
