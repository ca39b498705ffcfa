package oauth

// Google OAuth2 endpoints.
const (
	GoogleAuthorizationEndpoint = "https://accounts.google.com/o/oauth2/v2/auth"
	GoogleTokenEndpoint         = "https://oauth2.googleapis.com/token"
)

// NewGoogleProvider builds the Google provider. The endpoints are pinned;
// any endpoints already present in the config are overwritten.
//
// Google only issues a refresh token when the authorization request carries
// access_type=offline, and only reliably on re-consent, so prompt=consent is
// forced as well.
func NewGoogleProvider(config *Config, opts ...Option) (*Provider, error) {
	config.AuthorizationEndpoint = GoogleAuthorizationEndpoint
	config.TokenEndpoint = GoogleTokenEndpoint

	p, err := newProvider("google", config, opts...)
	if err != nil {
		return nil, err
	}
	p.authParams = map[string]string{
		"access_type": "offline",
		"prompt":      "consent",
	}
	return p, nil
}
