package gocardless

import "strings"

// Base URLs for the two GoCardless environments.
const (
	SandboxBaseURL = "https://api-sandbox.gocardless.com/"
	LiveBaseURL    = "https://api.gocardless.com/"
)

// sandboxTokenPrefix marks a sandbox access token.
const sandboxTokenPrefix = "sandbox_"

// Environment identifies which GoCardless deployment a client talks to.
type Environment string

const (
	// EnvironmentSandbox is the test environment.
	EnvironmentSandbox Environment = "sandbox"
	// EnvironmentLive is the production environment.
	EnvironmentLive Environment = "live"
)

// EnvironmentForToken returns EnvironmentSandbox when token starts with
// "sandbox_" (case-sensitive) and EnvironmentLive otherwise.
func EnvironmentForToken(token string) Environment {
	if strings.HasPrefix(token, sandboxTokenPrefix) {
		return EnvironmentSandbox
	}
	return EnvironmentLive
}

// BaseURL returns the API root for the environment.
func (e Environment) BaseURL() string {
	if e == EnvironmentSandbox {
		return SandboxBaseURL
	}
	return LiveBaseURL
}
