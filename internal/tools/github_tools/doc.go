// Package github_tools registers the GitHub tools with the MCP server.
// Tools take the caller's OAuth tokens per request, so a token obtained
// through github_authorize can be used directly.
package github_tools
