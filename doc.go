// Package gocardless provides a minimal authenticated client for the
// GoCardless REST API.
//
// The client picks the sandbox or live environment from the access token:
// tokens starting with "sandbox_" talk to the sandbox, everything else to
// live. Every request carries the Bearer token and the pinned
// GoCardless-Version header.
//
// Basic usage:
//
//	client, err := gocardless.New(os.Getenv("GOCARDLESS_ACCESS_TOKEN"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// List customers
//	resp, err := client.Get(ctx, "/customers", url.Values{"limit": {"10"}})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.Data)
//
//	// Download a file as raw bytes
//	pdf, err := client.Get(ctx, "/documents/DOC123", nil, gocardless.AsFile())
//
// Validation failures ([ErrMissingURL], [ErrMissingBody]) come back through
// the same error return as API and network failures, and no request is sent.
// Nothing is retried.
package gocardless
