package common

import (
	"time"

	"github.com/teemow/teams-mcp/internal/oauth"
)

// expiresAtLayouts lists the timestamp formats accepted for the
// tokens.expires_at argument. Authorization results carry RFC 3339, but
// some clients persist naive timestamps without a zone offset.
var expiresAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// TokensFromArgs extracts the "tokens" object from tool arguments and
// converts it into an oauth.Token. It returns nil when the argument is
// absent or not an object. Fields that fail to parse are left unset so a
// token with a usable access_token is never rejected over a malformed
// expiry.
func TokensFromArgs(args map[string]interface{}) *oauth.Token {
	raw, ok := args["tokens"].(map[string]interface{})
	if !ok {
		return nil
	}

	token := &oauth.Token{TokenType: oauth.DefaultTokenType}
	if v, ok := raw["access_token"].(string); ok {
		token.AccessToken = v
	}
	if v, ok := raw["refresh_token"].(string); ok {
		token.RefreshToken = v
	}
	if v, ok := raw["token_type"].(string); ok && v != "" {
		token.TokenType = v
	}
	if v, ok := raw["scope"].(string); ok {
		token.Scope = v
	}
	if v, ok := raw["expires_at"].(string); ok {
		if ts, err := parseExpiresAt(v); err == nil {
			token.ExpiresAt = &ts
		}
	}
	return token
}

// AccessTokenFromArgs returns the access token carried in the "tokens"
// argument, or the empty string when none is present.
func AccessTokenFromArgs(args map[string]interface{}) string {
	token := TokensFromArgs(args)
	if token == nil {
		return ""
	}
	return token.AccessToken
}

func parseExpiresAt(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range expiresAtLayouts {
		ts, err := time.Parse(layout, value)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
