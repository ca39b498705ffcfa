package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/teemow/teams-mcp/internal/config"
	"github.com/teemow/teams-mcp/internal/drive"
	"github.com/teemow/teams-mcp/internal/github"
	"github.com/teemow/teams-mcp/internal/instrumentation"
	"github.com/teemow/teams-mcp/internal/ratelimit"
	"github.com/teemow/teams-mcp/internal/teams"
)

// ServerContext holds the shared state for the MCP server
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	settings *config.Settings
	logger   *slog.Logger

	// limiter paces all Microsoft Graph traffic; every Teams client call
	// goes through it
	limiter *ratelimit.Limiter

	teamsClient  *teams.Client
	githubClient *github.Client
	driveClient  *drive.Client

	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new server context. Downstream clients are
// created lazily on first use; metrics and audit logging are attached later
// via SetMetrics and SetAuditLogger once instrumentation is initialized.
func NewServerContext(ctx context.Context, settings *config.Settings, logger *slog.Logger) (*ServerContext, error) {
	if settings == nil {
		settings = &config.Settings{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	shutdownCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:      shutdownCtx,
		cancel:   cancel,
		settings: settings,
		logger:   logger,
	}

	// The observers read metrics through the accessor because
	// instrumentation is attached after construction.
	sc.limiter = ratelimit.NewLimiter(0, 0,
		ratelimit.WithLogger(logger),
		ratelimit.WithWaitObserver(func(wait time.Duration) {
			if m := sc.Metrics(); m != nil {
				m.RecordRateLimitWait(shutdownCtx, instrumentation.ServiceTeams, wait)
			}
		}),
		ratelimit.WithThrottleObserver(func() {
			if m := sc.Metrics(); m != nil {
				m.RecordThrottled(shutdownCtx, instrumentation.ServiceTeams)
			}
		}),
	)

	return sc, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Settings returns the parsed configuration
func (sc *ServerContext) Settings() *config.Settings {
	return sc.settings
}

// Logger returns the server logger
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// Limiter returns the shared Microsoft Graph rate limiter
func (sc *ServerContext) Limiter() *ratelimit.Limiter {
	return sc.limiter
}

// TeamsClient returns the Microsoft Graph client
// Creates and caches the client if it doesn't exist yet
func (sc *ServerContext) TeamsClient() *teams.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.teamsClient == nil {
		sc.teamsClient = teams.NewClient(sc.limiter, teams.WithLogger(sc.logger))
	}
	return sc.teamsClient
}

// SetTeamsClient sets the Microsoft Graph client
func (sc *ServerContext) SetTeamsClient(client *teams.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.teamsClient = client
}

// GithubClient returns the GitHub client
// Creates and caches the client if it doesn't exist yet
func (sc *ServerContext) GithubClient() *github.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.githubClient == nil {
		sc.githubClient = github.NewClient(github.WithLogger(sc.logger))
	}
	return sc.githubClient
}

// SetGithubClient sets the GitHub client
func (sc *ServerContext) SetGithubClient(client *github.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.githubClient = client
}

// DriveClient returns the Google Drive client
// Creates and caches the client if it doesn't exist yet
func (sc *ServerContext) DriveClient() *drive.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.driveClient == nil {
		sc.driveClient = drive.NewClient(drive.WithLogger(sc.logger))
	}
	return sc.driveClient
}

// SetDriveClient sets the Google Drive client
func (sc *ServerContext) SetDriveClient(client *drive.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.driveClient = client
}

// Metrics returns the metrics recorder, or nil when instrumentation is
// disabled
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetMetrics sets the metrics recorder
func (sc *ServerContext) SetMetrics(metrics *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
}

// AuditLogger returns the audit logger, or nil when audit logging is disabled
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// SetAuditLogger sets the audit logger
func (sc *ServerContext) SetAuditLogger(auditLogger *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = auditLogger
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
