// Package oauth_tools registers the per-provider authentication tools.
// Each configured provider contributes {name}_is_authenticated and
// {name}_authorize, covering token validation, token refresh, auth URL
// generation, and the authorization code exchange.
package oauth_tools
