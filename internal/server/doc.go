// Package server provides the shared state and operational endpoints for the
// teams-mcp MCP server.
//
// ServerContext carries the pieces every tool registration needs: parsed
// configuration, the root context with its cancel, the slog logger, the
// shared Microsoft Graph rate limiter, and lazily-created downstream clients
// for Teams, GitHub and Google Drive. Metrics and audit logging attach after
// instrumentation is initialized; the rate limiter reports its waits and
// throttles through them once they are present.
//
// MetricsServer exposes Prometheus metrics on a dedicated port together with
// /healthz and /readyz probes backed by HealthChecker, keeping operational
// traffic away from the MCP transport.
package server
