package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// FieldError is one entry of the "errors" array in a GoCardless error body.
type FieldError struct {
	Field          string `json:"field,omitempty"`
	Message        string `json:"message"`
	RequestPointer string `json:"request_pointer,omitempty"`
	Reason         string `json:"reason,omitempty"`
}

// errorEnvelope is the body GoCardless returns alongside non-2xx statuses.
type errorEnvelope struct {
	Error struct {
		Type             string       `json:"type"`
		Code             int          `json:"code"`
		Message          string       `json:"message"`
		RequestID        string       `json:"request_id"`
		DocumentationURL string       `json:"documentation_url"`
		Errors           []FieldError `json:"errors"`
	} `json:"error"`
}

// APIError represents a non-2xx response from the GoCardless API.
type APIError struct {
	StatusCode int
	Header     http.Header
	// Body is the raw response body, kept verbatim.
	Body []byte

	// Fields below are filled from the error envelope when Body contains one.
	Type             string
	Code             int
	Message          string
	RequestID        string
	DocumentationURL string
	Errors           []FieldError
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Body)
	}
	if e.RequestID != "" {
		if msg != "" {
			return fmt.Sprintf("API error %d: %s (request_id: %s)", e.StatusCode, msg, e.RequestID)
		}
		return fmt.Sprintf("API error %d (request_id: %s)", e.StatusCode, e.RequestID)
	}
	if msg != "" {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("API error %d", e.StatusCode)
}

func newAPIError(statusCode int, header http.Header, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: statusCode,
		Header:     header,
		Body:       body,
	}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil {
		apiErr.Type = env.Error.Type
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
		apiErr.RequestID = env.Error.RequestID
		apiErr.DocumentationURL = env.Error.DocumentationURL
		apiErr.Errors = env.Error.Errors
	}
	if apiErr.RequestID == "" {
		apiErr.RequestID = header.Get("X-Request-Id")
	}

	return apiErr
}
