// Package webhook verifies and parses the webhooks GoCardless posts to an
// endpoint. Each delivery carries a batch of events and a Webhook-Signature
// header holding the hex HMAC-SHA256 of the raw body under the endpoint's
// secret.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SignatureHeader is the request header carrying the body signature.
const SignatureHeader = "Webhook-Signature"

// maxBodyBytes bounds the body read by ParseRequest.
const maxBodyBytes = 1 << 20

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingSignature is returned when the signature header is empty.
	ErrMissingSignature = errors.New("missing webhook signature")

	// ErrInvalidSignature is returned when the signature does not match the body.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrMissingSecret is returned when no endpoint secret is configured.
	ErrMissingSecret = errors.New("missing webhook secret")
)

// ResourceType names the kind of resource an event is about.
type ResourceType string

const (
	ResourceMandates             ResourceType = "mandates"
	ResourcePayments             ResourceType = "payments"
	ResourcePayouts              ResourceType = "payouts"
	ResourceRefunds              ResourceType = "refunds"
	ResourceSubscriptions        ResourceType = "subscriptions"
	ResourceInstalmentSchedules  ResourceType = "instalment_schedules"
	ResourceCreditors            ResourceType = "creditors"
	ResourceBillingRequests      ResourceType = "billing_requests"
	ResourceCustomerBankAccounts ResourceType = "customer_bank_accounts"
)

// Details explains why an event happened.
type Details struct {
	Origin      string `json:"origin"`
	Cause       string `json:"cause"`
	Description string `json:"description"`
	Scheme      string `json:"scheme,omitempty"`
	ReasonCode  string `json:"reason_code,omitempty"`
}

// Event is a single entry of a webhook batch.
type Event struct {
	ID           string            `json:"id"`
	CreatedAt    time.Time         `json:"created_at"`
	Action       string            `json:"action"`
	ResourceType ResourceType      `json:"resource_type"`
	Links        map[string]string `json:"links"`
	Details      Details           `json:"details"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

type payload struct {
	Events []Event `json:"events"`
}

// Sign returns the hex HMAC-SHA256 of body under secret.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks signature against body using secret.
// The comparison is constant-time.
func VerifySignature(body []byte, signature, secret string) error {
	if secret == "" {
		return ErrMissingSecret
	}
	if signature == "" {
		return ErrMissingSignature
	}
	want := Sign(body, secret)
	if !hmac.Equal([]byte(want), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}

// Parse verifies body and decodes its events.
func Parse(body []byte, signature, secret string) ([]Event, error) {
	if err := VerifySignature(body, signature, secret); err != nil {
		return nil, err
	}

	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode webhook body: %w", err)
	}
	return p.Events, nil
}

// ParseRequest reads r's body and hands it to Parse with the signature from
// the Webhook-Signature header.
func ParseRequest(r *http.Request, secret string) ([]Event, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read webhook body: %w", err)
	}
	return Parse(body, r.Header.Get(SignatureHeader), secret)
}

// Handler returns an http.Handler that verifies each delivery and passes its
// events to fn. Bad signatures get 498 (Invalid Token), as GoCardless
// recommends; an error from fn gets 500 so the delivery is retried.
func Handler(secret string, fn func([]Event) error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		events, err := ParseRequest(r, secret)
		switch {
		case errors.Is(err, ErrInvalidSignature), errors.Is(err, ErrMissingSignature):
			w.WriteHeader(498)
			return
		case err != nil:
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := fn(events); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}
