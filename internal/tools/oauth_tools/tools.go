package oauth_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/teams-mcp/internal/instrumentation"
	"github.com/teemow/teams-mcp/internal/logging"
	"github.com/teemow/teams-mcp/internal/oauth"
	"github.com/teemow/teams-mcp/internal/server"
	"github.com/teemow/teams-mcp/internal/tools/common"
)

// RegisterOAuthTools registers the is_authenticated and authorize tools
// for the given provider. PKCE verifiers are held per registration, keyed
// by CSRF state, and consumed by the first authorize call that presents
// the state.
func RegisterOAuthTools(s *mcpserver.MCPServer, sc *server.ServerContext, provider *oauth.Provider) error {
	if provider == nil {
		return fmt.Errorf("provider must not be nil")
	}

	pending := oauth.NewPendingStore(sc.Logger())

	isAuthenticatedName := provider.Name() + "_is_authenticated"
	isAuthenticatedTool := mcp.NewTool(isAuthenticatedName,
		mcp.WithDescription(fmt.Sprintf("Check if the provided tokens are valid for %s. If no tokens provided, generates auth URL.", provider.Name())),
		mcp.WithObject("tokens",
			mcp.Description("OAuth tokens (optional). If not provided, will generate auth URL"),
			mcp.Properties(map[string]interface{}{
				"access_token":  map[string]interface{}{"type": "string"},
				"refresh_token": map[string]interface{}{"type": "string"},
				"expires_at":    map[string]interface{}{"type": "string"},
			}),
		),
		mcp.WithString("callback_url",
			mcp.Description("Callback URL for OAuth flow (required if tokens not provided)"),
		),
		mcp.WithObject("callback_state",
			mcp.Description("State data to include in OAuth flow (optional)"),
		),
	)

	s.AddTool(isAuthenticatedTool, common.InstrumentedToolHandler(
		isAuthenticatedName, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleIsAuthenticated(ctx, request, sc, provider, pending)
		}))

	authorizeName := provider.Name() + "_authorize"
	authorizeTool := mcp.NewTool(authorizeName,
		mcp.WithDescription(fmt.Sprintf("Exchange authorization code for %s tokens.", provider.Name())),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("Authorization code from OAuth callback"),
		),
		mcp.WithString("callback_url",
			mcp.Required(),
			mcp.Description("Callback URL used in the authorization request"),
		),
		mcp.WithObject("callback_state",
			mcp.Description("State data from OAuth callback (optional)"),
		),
	)

	s.AddTool(authorizeTool, common.InstrumentedToolHandler(
		authorizeName, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAuthorize(ctx, request, sc, provider, pending)
		}))

	return nil
}

func handleIsAuthenticated(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext, provider *oauth.Provider, pending *oauth.PendingStore) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	token := common.TokensFromArgs(args)
	callbackState := callbackStateFromArgs(args)

	// Tokens provided, validate them
	if token != nil && token.AccessToken != "" {
		if token.RefreshToken != "" && token.IsExpired() {
			refreshed, err := provider.RefreshToken(ctx, token.RefreshToken)
			if err != nil {
				recordTokenRefresh(ctx, sc, provider.Name(), instrumentation.OAuthResultFailure)
				return common.JSONErrorResult(map[string]interface{}{
					"authenticated": false,
					"error":         err.Error(),
					"message":       "Token validation failed",
				}), nil
			}
			recordTokenRefresh(ctx, sc, provider.Name(), instrumentation.OAuthResultSuccess)
			return common.JSONResult(map[string]interface{}{
				"authenticated": true,
				"tokens":        refreshed,
				"message":       "Tokens refreshed successfully",
			}), nil
		}

		return common.JSONResult(map[string]interface{}{
			"authenticated": true,
			"message":       "Valid tokens provided",
		}), nil
	}

	// No tokens, generate auth URL
	callbackURL, _ := args["callback_url"].(string)
	if callbackURL == "" {
		return common.JSONErrorResult(map[string]interface{}{
			"authenticated": false,
			"error":         "callback_url required when tokens not provided",
		}), nil
	}

	state, err := oauth.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}

	// Public clients prove possession via PKCE, confidential clients via
	// their secret at the token endpoint
	var authURL string
	if provider.Config().IsPublic() {
		verifier, challenge, err := oauth.GeneratePKCEPair()
		if err != nil {
			return nil, fmt.Errorf("failed to generate PKCE pair: %w", err)
		}
		pending.Put(state, verifier)
		authURL = provider.BuildAuthURL(state, challenge)
	} else {
		authURL = provider.BuildAuthURL(state, "")
	}

	sc.Logger().Debug("issued authorization URL",
		logging.Provider(provider.Name()),
		logging.Operation("is_authenticated"),
	)

	return common.JSONResult(map[string]interface{}{
		"authenticated":  false,
		"auth_url":       authURL,
		"state":          state,
		"callback_state": callbackState,
		"message":        fmt.Sprintf("Visit the auth_url to authenticate with %s", provider.Name()),
	}), nil
}

func handleAuthorize(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext, provider *oauth.Provider, pending *oauth.PendingStore) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	code, _ := args["code"].(string)
	callbackURL, _ := args["callback_url"].(string)
	callbackState := callbackStateFromArgs(args)

	if code == "" || callbackURL == "" {
		return common.JSONErrorResult(map[string]interface{}{
			"success": false,
			"error":   "code and callback_url are required",
		}), nil
	}

	// The callback query carries the CSRF state that keys any pending
	// PKCE verifier
	verifier := ""
	if state, err := oauth.StateFromCallback(callbackURL); err == nil && state != "" {
		verifier, _ = pending.Take(state)
	}

	token, err := provider.ExchangeCode(ctx, code, verifier)
	if err != nil {
		recordAuth(ctx, sc, provider.Name(), instrumentation.OAuthResultFailure)
		sc.Logger().Warn("authorization code exchange failed",
			logging.Provider(provider.Name()),
			logging.Err(err),
		)
		return common.JSONErrorResult(map[string]interface{}{
			"success": false,
			"error":   err.Error(),
			"message": "Failed to exchange authorization code",
		}), nil
	}
	recordAuth(ctx, sc, provider.Name(), instrumentation.OAuthResultSuccess)

	return common.JSONResult(map[string]interface{}{
		"success":        true,
		"tokens":         token,
		"callback_state": callbackState,
		"message":        fmt.Sprintf("Successfully authenticated with %s", provider.Name()),
	}), nil
}

func callbackStateFromArgs(args map[string]interface{}) map[string]interface{} {
	if cs, ok := args["callback_state"].(map[string]interface{}); ok {
		return cs
	}
	return map[string]interface{}{}
}

func recordAuth(ctx context.Context, sc *server.ServerContext, provider, result string) {
	if m := sc.Metrics(); m != nil {
		m.RecordOAuthAuth(ctx, provider, result)
	}
}

func recordTokenRefresh(ctx context.Context, sc *server.ServerContext, provider, result string) {
	if m := sc.Metrics(); m != nil {
		m.RecordOAuthTokenRefresh(ctx, provider, result)
	}
}
