// Package drive_tools registers the Google Drive tools with the MCP
// server. Tools take the caller's OAuth tokens per request, so a token
// obtained through google_authorize can be used directly.
package drive_tools
