package oauth

import (
	"time"
)

// DefaultTokenType is applied when a token endpoint omits token_type.
const DefaultTokenType = "Bearer"

// Token holds the tokens returned by an OAuth2 token endpoint.
//
// ExpiresAt is derived from ExpiresIn exactly once, when the token is
// constructed, and is never recomputed afterwards. A token without expiry
// information never reports itself expired.
type Token struct {
	AccessToken  string     `json:"access_token"`
	TokenType    string     `json:"token_type"`
	ExpiresIn    *int64     `json:"expires_in,omitempty"`
	RefreshToken string     `json:"refresh_token,omitempty"`
	Scope        string     `json:"scope,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

// tokenEndpointResponse is the wire shape of a successful token endpoint
// response. ExpiresIn is a pointer so an explicit zero (expire immediately)
// can be told apart from an absent field.
type tokenEndpointResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    *int64 `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
}

// newToken builds a Token from a token endpoint response, applying the
// Bearer default and deriving ExpiresAt from ExpiresIn.
func newToken(resp tokenEndpointResponse) *Token {
	t := &Token{
		AccessToken:  resp.AccessToken,
		TokenType:    resp.TokenType,
		ExpiresIn:    resp.ExpiresIn,
		RefreshToken: resp.RefreshToken,
		Scope:        resp.Scope,
	}
	if t.TokenType == "" {
		t.TokenType = DefaultTokenType
	}
	if t.ExpiresIn != nil {
		expiresAt := time.Now().Add(time.Duration(*t.ExpiresIn) * time.Second)
		t.ExpiresAt = &expiresAt
	}
	return t
}

// IsExpired reports whether the access token has expired. Tokens without
// expiry information are treated as still valid.
func (t *Token) IsExpired() bool {
	if t.ExpiresAt == nil {
		return false
	}
	return !time.Now().Before(*t.ExpiresAt)
}
