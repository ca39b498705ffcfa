// Package teams_tools registers the Microsoft Teams chat tools with the
// MCP server. Tools take the caller's OAuth tokens per request and talk
// to Microsoft Graph through the shared rate-limited client.
package teams_tools
