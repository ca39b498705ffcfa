package oauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/teemow/teams-mcp/internal/logging"
)

const (
	// defaultHTTPTimeout bounds every token endpoint call.
	defaultHTTPTimeout = 30 * time.Second

	// maxTokenResponseBytes bounds how much of a token endpoint response is
	// read. Token responses are small; anything larger is hostile or broken.
	maxTokenResponseBytes = 1 << 20
)

// Provider implements the OAuth2 authorization code flow against a single
// identity provider.
//
// The variant set is closed: use NewGenericProvider, NewGoogleProvider or
// NewMicrosoftProvider. Variants share all token endpoint machinery and
// differ only in the data they carry: fixed endpoints, extra authorization
// URL parameters, and whether scope is repeated in token requests.
type Provider struct {
	name       string
	config     *Config
	httpClient *http.Client
	logger     *slog.Logger

	// authParams are provider-specific parameters injected into every
	// authorization URL (e.g., access_type=offline for Google).
	authParams map[string]string

	// scopeInTokenRequest adds the space-joined scope to exchange and
	// refresh forms. Microsoft requires this; most providers reject or
	// ignore it.
	scopeInTokenRequest bool
}

// Option configures a Provider.
type Option func(*Provider)

// WithHTTPClient replaces the HTTP client used for token endpoint calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(p *Provider) {
		p.httpClient = hc
	}
}

// WithLogger replaces the logger. The default is slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

func newProvider(name string, config *Config, opts ...Option) (*Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	p := &Provider{
		name:       name,
		config:     config,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Name returns the provider name used as the tool name prefix.
func (p *Provider) Name() string {
	return p.name
}

// Config returns the provider's client configuration.
func (p *Provider) Config() *Config {
	return p.config
}

// BuildAuthURL builds the authorization URL for the given CSRF state.
// codeChallenge may be empty for confidential clients; when set, the S256
// challenge parameters are included.
func (p *Provider) BuildAuthURL(state, codeChallenge string) string {
	return buildAuthURL(p.config, state, codeChallenge, p.authParams)
}

// ExchangeCode exchanges an authorization code for tokens. codeVerifier may
// be empty when the flow did not use PKCE.
func (p *Provider) ExchangeCode(ctx context.Context, code, codeVerifier string) (*Token, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", p.config.redirectURI())
	form.Set("client_id", p.config.ClientID)

	if p.config.ClientSecret != "" {
		form.Set("client_secret", p.config.ClientSecret)
	}
	if codeVerifier != "" {
		form.Set("code_verifier", codeVerifier)
	}
	if p.scopeInTokenRequest && len(p.config.Scopes) > 0 {
		form.Set("scope", p.config.ScopeString())
	}

	token, err := p.requestToken(ctx, "exchange_code", form)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("exchanged authorization code",
		logging.KeyProvider, p.name,
		logging.KeyToken, logging.SanitizeToken(token.AccessToken),
		"has_refresh_token", token.RefreshToken != "",
	)
	return token, nil
}

// RefreshToken obtains a fresh access token using a refresh token. When the
// provider response omits a refresh token, the one passed in is echoed back
// so callers keep their grant.
func (p *Provider) RefreshToken(ctx context.Context, refreshToken string) (*Token, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	form.Set("client_id", p.config.ClientID)

	if p.config.ClientSecret != "" {
		form.Set("client_secret", p.config.ClientSecret)
	}
	if p.scopeInTokenRequest && len(p.config.Scopes) > 0 {
		form.Set("scope", p.config.ScopeString())
	}

	token, err := p.requestToken(ctx, "refresh_token", form)
	if err != nil {
		return nil, err
	}

	if token.RefreshToken == "" {
		token.RefreshToken = refreshToken
	}

	p.logger.Debug("refreshed access token",
		logging.KeyProvider, p.name,
		logging.KeyToken, logging.SanitizeToken(token.AccessToken),
	)
	return token, nil
}

// requestToken POSTs a form to the token endpoint and decodes the response.
// Non-success statuses and bodies without an access_token both become
// *ExchangeError.
func (p *Provider) requestToken(ctx context.Context, op string, form url.Values) (*Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.TokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: token request: %w", p.name, op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%s %s: read token response: %w", p.name, op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, p.exchangeError(op, resp.StatusCode, body)
	}

	var wire tokenEndpointResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, &ExchangeError{
			Provider: p.name,
			Op:       op,
			Status:   resp.StatusCode,
			Detail:   fmt.Sprintf("undecodable token response: %v", err),
		}
	}
	if wire.AccessToken == "" {
		return nil, &ExchangeError{
			Provider: p.name,
			Op:       op,
			Status:   resp.StatusCode,
			Detail:   "token response missing access_token",
		}
	}

	return newToken(wire), nil
}

// exchangeError builds an *ExchangeError from an error response body,
// preferring the standard OAuth error/error_description fields.
func (p *Provider) exchangeError(op string, status int, body []byte) *ExchangeError {
	var wire struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &wire); err == nil && wire.Error != "" {
		detail := wire.ErrorDescription
		if detail == "" {
			detail = wire.Error
		}
		return &ExchangeError{Provider: p.name, Op: op, Status: status, Code: wire.Error, Detail: detail}
	}

	return &ExchangeError{Provider: p.name, Op: op, Status: status, Detail: bodySnippet(body)}
}

// bodySnippet trims a response body down to something loggable.
func bodySnippet(body []byte) string {
	const max = 200
	s := string(bytes.TrimSpace(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
