package gocardless

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gocardless-go/client-go/internal/api"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingAccessToken is returned by New when no access token is provided.
	ErrMissingAccessToken = errors.New("Missing accessToken")

	// ErrMissingURL is returned when a request path is empty. No request is sent.
	ErrMissingURL = errors.New("Missing url")

	// ErrMissingBody is returned when Post is called with an empty body.
	// No request is sent.
	ErrMissingBody = errors.New("Missing body")

	// ErrUnsupportedFormValue is returned when a multipart upload holds a
	// value that cannot be encoded as a form part. No request is sent.
	ErrUnsupportedFormValue = api.ErrUnsupportedFormValue
)

// GoCardlessError is implemented by the typed errors of this package.
type GoCardlessError interface {
	error
	GoCardlessError() // marker method
}

// FieldError describes one invalid field reported by the API.
type FieldError = api.FieldError

// APIError represents a non-2xx response from the GoCardless API. The raw
// body is kept verbatim; the remaining fields are read from the GoCardless
// error envelope when the body contains one.
type APIError struct {
	StatusCode       int
	Header           http.Header
	Body             []byte
	Type             string
	Code             int
	Message          string
	RequestID        string // if returned by server
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

// GoCardlessError implements the GoCardlessError interface.
func (e *APIError) GoCardlessError() {}

// wrapError converts internal API errors to public errors.
// Anything else, including network and decode errors, is returned unchanged.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode:       apiErr.StatusCode,
			Header:           apiErr.Header,
			Body:             apiErr.Body,
			Type:             apiErr.Type,
			Code:             apiErr.Code,
			Message:          apiErr.Message,
			RequestID:        apiErr.RequestID,
			DocumentationURL: apiErr.DocumentationURL,
			Errors:           apiErr.Errors,
		}
	}

	return err
}
