// Package api provides the HTTP transport used to talk to the GoCardless API.
// It owns the resty client, attaches the authorization and versioning headers,
// and turns a [Request] descriptor into a [Response].
//
// # Client Creation
//
// [NewClient] takes a [Config] holding the resolved base URL and the access
// token. Both are required. The token is sent as a Bearer credential and the
// GoCardless-Version header is pinned to [Version] on every request.
//
// # Requests
//
// A [Request] is built once per call and never stored:
//
//   - Query is encoded onto the URL.
//   - Body, when HasBody is set, is JSON-encoded.
//   - Form, when non-nil, is sent as multipart/form-data instead of Body.
//   - Binary asks for the response body as raw bytes, skipping JSON decoding.
//
// # Error Handling
//
// Failures are not retried or classified. Network errors are returned exactly
// as the transport produced them. Responses outside the 2xx range become an
// [*APIError] that carries the raw body alongside the fields of the GoCardless
// error envelope, when the body contains one.
//
// # Thread Safety
//
// The [Client] type is safe for concurrent use. Its configuration is fixed at
// construction and each call builds its own request.
package api
