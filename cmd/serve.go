package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/teams-mcp/internal/config"
	"github.com/teemow/teams-mcp/internal/instrumentation"
	"github.com/teemow/teams-mcp/internal/logging"
	"github.com/teemow/teams-mcp/internal/oauth"
	"github.com/teemow/teams-mcp/internal/server"
	"github.com/teemow/teams-mcp/internal/tools/drive_tools"
	"github.com/teemow/teams-mcp/internal/tools/github_tools"
	"github.com/teemow/teams-mcp/internal/tools/oauth_tools"
	"github.com/teemow/teams-mcp/internal/tools/teams_tools"
)

// GitHub OAuth2 endpoints. GitHub goes through the generic provider, so the
// endpoints live here with the rest of the server assembly.
const (
	githubAuthorizationEndpoint = "https://github.com/login/oauth/authorize"
	githubTokenEndpoint         = "https://github.com/login/oauth/access_token"
)

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

func newServeCmd() *cobra.Command {
	var (
		debugMode        bool
		transport        string
		httpAddr         string
		readOnly         bool
		disableStreaming bool
		metricsEnabled   bool
		metricsAddr      string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server providing Microsoft Teams,
GitHub and Google Drive tools for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport

Authentication:
  Every provider with a configured client id gets a pair of tools
  ({provider}_is_authenticated and {provider}_authorize) implementing the
  OAuth2 authorization code flow with PKCE. Tokens stay with the MCP client
  and are passed to tools as arguments; the server stores nothing.

Configuration (environment variables, .env file supported):
  AZURE_CLIENT_ID, AZURE_TENANT_ID, AZURE_CLIENT_SECRET,
  AZURE_REDIRECT_URI, TEAMS_SCOPES         Microsoft provider
  GITHUB_CLIENT_ID, GITHUB_CLIENT_SECRET,
  GITHUB_REDIRECT_URI, GITHUB_SCOPES       GitHub provider
  GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET,
  GOOGLE_REDIRECT_URI, GOOGLE_SCOPES       Google provider

  Leaving a provider's client id unset disables that provider's
  authentication tools. Omitting the client secret makes the provider a
  public client, which switches the authorization flow to PKCE.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Env fallbacks apply only when the flag was not set explicitly
			if !cmd.Flags().Changed("metrics-enabled") && os.Getenv("METRICS_ENABLED") == "false" {
				metricsEnabled = false
			}
			if !cmd.Flags().Changed("metrics-addr") {
				if addr := os.Getenv("METRICS_ADDR"); addr != "" {
					metricsAddr = addr
				}
			}

			return runServe(serveOptions{
				transport:        transport,
				httpAddr:         httpAddr,
				debug:            debugMode,
				readOnly:         readOnly,
				disableStreaming: disableStreaming,
				metrics:          MetricsConfig{Enabled: metricsEnabled, Addr: metricsAddr},
			})
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging. Can also use DEBUG env var.")
	cmd.Flags().StringVar(&transport, "transport", "stdio", "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&httpAddr, "http-addr", ":8080", "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&readOnly, "read-only", false, "Register read operations only (skips teams_create_chat and teams_send_message)")
	cmd.Flags().BoolVar(&disableStreaming, "disable-streaming", false, "Disable streaming for HTTP transport (for compatibility with certain clients)")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port (streamable-http only). Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

// serveOptions carries the resolved serve command flags.
type serveOptions struct {
	transport        string
	httpAddr         string
	debug            bool
	readOnly         bool
	disableStreaming bool
	metrics          MetricsConfig
}

func runServe(opts serveOptions) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	settings, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := newLogger(opts.debug || settings.Debug)
	slog.SetDefault(logger)

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Error("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	serverContext, err := server.NewServerContext(shutdownCtx, settings, logger)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Error("server context shutdown failed", logging.Err(err))
		}
	}()

	// Attach metrics and audit logging for tool instrumentation
	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging))
	}

	mcpSrv := mcpserver.NewMCPServer("teams-mcp", version,
		mcpserver.WithToolCapabilities(true),
	)

	providers, err := buildProviders(settings, logger)
	if err != nil {
		return err
	}
	if len(providers) == 0 {
		logger.Warn("no OAuth provider configured, authentication tools are disabled " +
			"(set AZURE_CLIENT_ID, GITHUB_CLIENT_ID or GOOGLE_CLIENT_ID)")
	}

	if opts.readOnly {
		logger.Info("starting in read-only mode, write tools are not registered")
	}

	if err := registerTools(mcpSrv, serverContext, providers, opts.readOnly); err != nil {
		return err
	}

	switch opts.transport {
	case "stdio":
		return runStdioServer(mcpSrv)
	case "streamable-http":
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, provider, opts)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", opts.transport)
	}
}

// newLogger builds the server logger. Logs go to stderr because stdout
// belongs to the stdio transport.
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// buildProviders constructs one OAuth provider per configured registration.
// Providers without a client id are skipped.
func buildProviders(settings *config.Settings, logger *slog.Logger) ([]*oauth.Provider, error) {
	var providers []*oauth.Provider

	if settings.Microsoft.ClientID != "" {
		p, err := oauth.NewMicrosoftProvider(&oauth.Config{
			ClientID:     settings.Microsoft.ClientID,
			ClientSecret: settings.Microsoft.ClientSecret,
			RedirectURI:  settings.Microsoft.RedirectURI,
			Scopes:       settings.Microsoft.Scopes,
		}, settings.TenantID, oauth.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("failed to create Microsoft provider: %w", err)
		}
		providers = append(providers, p)
	}

	if settings.GitHub != nil {
		p, err := oauth.NewGenericProvider("github", &oauth.Config{
			ClientID:              settings.GitHub.ClientID,
			ClientSecret:          settings.GitHub.ClientSecret,
			RedirectURI:           settings.GitHub.RedirectURI,
			Scopes:                settings.GitHub.Scopes,
			AuthorizationEndpoint: githubAuthorizationEndpoint,
			TokenEndpoint:         githubTokenEndpoint,
		}, oauth.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("failed to create GitHub provider: %w", err)
		}
		providers = append(providers, p)
	}

	if settings.Google != nil {
		p, err := oauth.NewGoogleProvider(&oauth.Config{
			ClientID:     settings.Google.ClientID,
			ClientSecret: settings.Google.ClientSecret,
			RedirectURI:  settings.Google.RedirectURI,
			Scopes:       settings.Google.Scopes,
		}, oauth.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("failed to create Google provider: %w", err)
		}
		providers = append(providers, p)
	}

	for _, p := range providers {
		logger.Info("registered OAuth provider",
			logging.Provider(p.Name()),
			slog.Bool("public_client", p.Config().IsPublic()),
		)
	}

	return providers, nil
}

// registerTools registers the OAuth tools of every configured provider plus
// all downstream service tools
func registerTools(mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, providers []*oauth.Provider, readOnly bool) error {
	for _, provider := range providers {
		if err := oauth_tools.RegisterOAuthTools(mcpSrv, sc, provider); err != nil {
			return fmt.Errorf("failed to register %s OAuth tools: %w", provider.Name(), err)
		}
	}

	// Define all tool registrations
	type toolRegistration struct {
		name     string
		register func() error
	}

	registrations := []toolRegistration{
		{
			name: "Teams",
			register: func() error {
				return teams_tools.RegisterTeamsTools(mcpSrv, sc, readOnly)
			},
		},
		{
			name: "GitHub",
			register: func() error {
				return github_tools.RegisterGithubTools(mcpSrv, sc)
			},
		},
		{
			name: "Drive",
			register: func() error {
				return drive_tools.RegisterDriveTools(mcpSrv, sc)
			},
		},
	}

	// Register all tools
	for _, reg := range registrations {
		if err := reg.register(); err != nil {
			return fmt.Errorf("failed to register %s tools: %w", reg.name, err)
		}
	}

	return nil
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := mcpserver.ServeStdio(mcpSrv); err != nil {
			serverDone <- err
		}
	}()

	err := <-serverDone
	if err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, instrProvider *instrumentation.Provider, opts serveOptions) error {
	logger := sc.Logger()

	// Metrics server on its own port, isolated from the MCP listener
	if opts.metrics.Enabled && instrProvider.Enabled() {
		metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    opts.metrics.Addr,
			Enabled:                 true,
			InstrumentationProvider: instrProvider,
			ServerContext:           sc,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", logging.Err(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("metrics server shutdown failed", logging.Err(err))
			}
		}()
	}

	var streamableServer http.Handler
	if opts.disableStreaming {
		streamableServer = mcpserver.NewStreamableHTTPServer(mcpSrv,
			mcpserver.WithEndpointPath("/mcp"),
			mcpserver.WithDisableStreaming(true),
		)
	} else {
		streamableServer = mcpserver.NewStreamableHTTPServer(mcpSrv,
			mcpserver.WithEndpointPath("/mcp"),
		)
	}

	mux := http.NewServeMux()
	mux.Handle("/mcp", server.WithHTTPMetrics(sc.Metrics(), streamableServer))

	healthChecker := server.NewHealthChecker(sc)
	healthChecker.RegisterHealthEndpoints(mux)

	httpServer := &http.Server{
		Addr:              opts.httpAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("starting streamable HTTP server",
		slog.String("addr", opts.httpAddr),
		slog.String("endpoint", "/mcp"),
	)

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping HTTP server")
		healthChecker.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	logger.Info("HTTP server stopped")
	return nil
}
