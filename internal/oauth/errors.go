package oauth

import (
	"fmt"
)

// ConfigError reports a provider configuration that is missing a field
// required before any network use.
type ConfigError struct {
	Field string // name of the missing field (e.g., "client_id")
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("oauth config: missing required field %q", e.Field)
}

// ExchangeError reports a token endpoint response that cannot be turned into
// a token: a non-success HTTP status, or a success body without an
// access_token.
type ExchangeError struct {
	Provider string // provider name (e.g., "microsoft")
	Op       string // "exchange_code" or "refresh_token"
	Status   int    // HTTP status code, 0 when the body was the problem
	Code     string // OAuth error code from the body, if any (e.g., "invalid_grant")
	Detail   string // human-readable detail, truncated body snippet when undecodable
}

// Error implements the error interface
func (e *ExchangeError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s %s: %s: %s", e.Provider, e.Op, e.Code, e.Detail)
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: token endpoint returned status %d: %s", e.Provider, e.Op, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s %s: %s", e.Provider, e.Op, e.Detail)
}

// CallbackError reports invalid callback input during the authorize step:
// a missing callback URL, an unparseable one, or a state that cannot be
// extracted from it.
type CallbackError struct {
	Reason string
}

// Error implements the error interface
func (e *CallbackError) Error() string {
	return fmt.Sprintf("oauth callback: %s", e.Reason)
}
