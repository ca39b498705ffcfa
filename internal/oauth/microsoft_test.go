package oauth

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMicrosoftProviderTenantEndpoints(t *testing.T) {
	p, err := NewMicrosoftProvider(&Config{ClientID: "c"}, "t")
	require.NoError(t, err)

	assert.Equal(t, "microsoft", p.Name())
	assert.Equal(t, "https://login.microsoftonline.com/t/oauth2/v2.0/authorize", p.Config().AuthorizationEndpoint)
	assert.Equal(t, "https://login.microsoftonline.com/t/oauth2/v2.0/token", p.Config().TokenEndpoint)
}

func TestNewMicrosoftProviderDefaultTenant(t *testing.T) {
	p, err := NewMicrosoftProvider(&Config{ClientID: "c"}, "")
	require.NoError(t, err)

	assert.Equal(t, "https://login.microsoftonline.com/common/oauth2/v2.0/authorize", p.Config().AuthorizationEndpoint)
	assert.Equal(t, "https://login.microsoftonline.com/common/oauth2/v2.0/token", p.Config().TokenEndpoint)
}

func TestMicrosoftAuthURLParams(t *testing.T) {
	p, err := NewMicrosoftProvider(&Config{ClientID: "c", Scopes: []string{"Chat.ReadWrite", "offline_access"}}, "common")
	require.NoError(t, err)

	u, err := url.Parse(p.BuildAuthURL("S", "CH"))
	require.NoError(t, err)
	q := u.Query()

	assert.Equal(t, "query", q.Get("response_mode"))
	assert.Equal(t, "select_account", q.Get("prompt"))
	assert.Equal(t, "Chat.ReadWrite offline_access", q.Get("scope"))
	assert.Equal(t, "CH", q.Get("code_challenge"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
}

func TestMicrosoftTokenRequestsCarryScope(t *testing.T) {
	var captured capturedForm
	ts := newTokenEndpoint(t, http.StatusOK, `{"access_token":"A","refresh_token":"R","expires_in":3600}`, &captured)
	defer ts.Close()

	cfg := &Config{ClientID: "c", Scopes: []string{"Chat.ReadWrite", "offline_access"}}
	p, err := NewMicrosoftProvider(cfg, "common")
	require.NoError(t, err)
	// Point the pinned endpoint at the fake for the exchange itself.
	p.Config().TokenEndpoint = ts.URL + "/token"

	_, err = p.ExchangeCode(context.Background(), "auth-code", "verifier")
	require.NoError(t, err)
	assert.Equal(t, "Chat.ReadWrite offline_access", captured.values.Get("scope"),
		"exchange must repeat the scope for Microsoft")

	_, err = p.RefreshToken(context.Background(), "R")
	require.NoError(t, err)
	assert.Equal(t, "Chat.ReadWrite offline_access", captured.values.Get("scope"),
		"refresh must repeat the scope for Microsoft")
}

func TestMicrosoftPublicClientTokenRequest(t *testing.T) {
	var captured capturedForm
	ts := newTokenEndpoint(t, http.StatusOK, `{"access_token":"A"}`, &captured)
	defer ts.Close()

	p, err := NewMicrosoftProvider(&Config{ClientID: "c"}, "common")
	require.NoError(t, err)
	p.Config().TokenEndpoint = ts.URL + "/token"

	_, err = p.ExchangeCode(context.Background(), "auth-code", "verifier")
	require.NoError(t, err)

	assert.False(t, captured.values.Has("client_secret"))
	assert.False(t, captured.values.Has("scope"), "no scopes configured, none to repeat")
	assert.Equal(t, "verifier", captured.values.Get("code_verifier"))
}
