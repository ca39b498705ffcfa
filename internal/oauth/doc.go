// Package oauth implements the OAuth2 authorization code flow with PKCE
// against external identity providers (Microsoft, Google, or any generic
// OAuth2 endpoint pair).
//
// The package covers the client side of the flow only: building authorization
// URLs, exchanging authorization codes for tokens, and refreshing access
// tokens. Tokens are returned to the caller and never persisted; the only
// state the package holds is the in-memory mapping from CSRF state to PKCE
// code verifier while an authorization is in flight (see PendingStore).
//
// Provider variants are a closed set. All of them share the same token
// endpoint machinery; variants differ only in their fixed endpoints, the
// extra parameters they inject into authorization URLs, and whether they
// repeat the scope in token requests (Microsoft does).
//
// Example usage:
//
//	cfg := &oauth.Config{
//	    ClientID: "app-id",
//	    Scopes:   []string{"Chat.ReadWrite", "offline_access"},
//	}
//	provider, err := oauth.NewMicrosoftProvider(cfg, "common")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	state, _ := oauth.GenerateState()
//	verifier, challenge, _ := oauth.GeneratePKCEPair()
//	url, _ := provider.BuildAuthURL(state, challenge)
//
//	// ... user visits url, provider redirects back with a code ...
//
//	token, err := provider.ExchangeCode(ctx, code, verifier)
package oauth
