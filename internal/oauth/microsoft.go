package oauth

import (
	"fmt"
)

// DefaultTenant is the multi-tenant Azure AD endpoint segment.
const DefaultTenant = "common"

// NewMicrosoftProvider builds the Microsoft identity platform provider for
// the given tenant. An empty tenant selects the multi-tenant "common"
// endpoints. The endpoints are pinned; any endpoints already present in the
// config are overwritten.
//
// Microsoft expects the requested scope to be repeated in token requests,
// both on code exchange and on refresh.
func NewMicrosoftProvider(config *Config, tenantID string, opts ...Option) (*Provider, error) {
	if tenantID == "" {
		tenantID = DefaultTenant
	}
	config.AuthorizationEndpoint = fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/authorize", tenantID)
	config.TokenEndpoint = fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", tenantID)

	p, err := newProvider("microsoft", config, opts...)
	if err != nil {
		return nil, err
	}
	p.authParams = map[string]string{
		"response_mode": "query",
		"prompt":        "select_account",
	}
	p.scopeInTokenRequest = true
	return p, nil
}
