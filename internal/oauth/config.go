package oauth

import (
	"strings"
)

// DefaultRedirectURI is used when a config does not name its own callback.
const DefaultRedirectURI = "http://localhost:3000/auth/callback"

// Config holds the registration data for one OAuth2 client application.
//
// A Config without a ClientSecret describes a public client; public clients
// must use PKCE, and the tool layer generates a verifier/challenge pair for
// them automatically.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	// Scopes are requested in the order given and joined with spaces
	// wherever a scope string is needed.
	Scopes []string

	AuthorizationEndpoint string
	TokenEndpoint         string
}

// Validate checks that the fields required before any network use are set.
// It returns a *ConfigError naming the first missing field.
func (c *Config) Validate() error {
	if c.ClientID == "" {
		return &ConfigError{Field: "client_id"}
	}
	if c.AuthorizationEndpoint == "" {
		return &ConfigError{Field: "authorization_endpoint"}
	}
	if c.TokenEndpoint == "" {
		return &ConfigError{Field: "token_endpoint"}
	}
	return nil
}

// IsPublic reports whether the client has no secret and therefore must use
// PKCE for authorization.
func (c *Config) IsPublic() bool {
	return c.ClientSecret == ""
}

// ScopeString returns the scopes joined with single spaces, preserving order.
func (c *Config) ScopeString() string {
	return strings.Join(c.Scopes, " ")
}

// redirectURI returns the configured callback, falling back to the default.
func (c *Config) redirectURI() string {
	if c.RedirectURI == "" {
		return DefaultRedirectURI
	}
	return c.RedirectURI
}
