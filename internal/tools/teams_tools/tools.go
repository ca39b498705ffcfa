package teams_tools

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/teams-mcp/internal/server"
)

// authHint names the tool clients should call to obtain Microsoft tokens.
const authHint = "microsoft_is_authenticated"

// limitFromArgs reads the "limit" argument, applying the default when it
// is absent or not positive and capping it at max.
func limitFromArgs(args map[string]interface{}, def, max int) int {
	limit, ok := args["limit"].(float64)
	if !ok || limit < 1 {
		return def
	}
	if int(limit) > max {
		return max
	}
	return int(limit)
}

// RegisterTeamsTools registers all Teams chat tools with the MCP server.
// Write tools are skipped in read-only mode.
func RegisterTeamsTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if err := registerChatTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register chat tools: %w", err)
	}

	if err := registerMessageTools(s, sc, readOnly); err != nil {
		return fmt.Errorf("failed to register message tools: %w", err)
	}

	return nil
}
