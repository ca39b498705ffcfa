package drive_tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/teams-mcp/internal/drive"
	"github.com/teemow/teams-mcp/internal/instrumentation"
	"github.com/teemow/teams-mcp/internal/server"
	"github.com/teemow/teams-mcp/internal/tools/common"
)

// authHint names the tool clients should call to obtain Google tokens.
const authHint = "google_is_authenticated"

// maxPageSize caps the number of files a single call returns.
const maxPageSize = 100

// RegisterDriveTools registers all Google Drive tools with the MCP server.
// The only tool is read-only.
func RegisterDriveTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	listFilesTool := mcp.NewTool("google_drive_list_files",
		mcp.WithDescription("List files in Google Drive"),
		mcp.WithObject("tokens",
			mcp.Required(),
			mcp.Description("OAuth tokens with access_token"),
			mcp.Properties(map[string]interface{}{
				"access_token": map[string]interface{}{"type": "string"},
			}),
		),
		mcp.WithString("query",
			mcp.Description("Search query in Drive query language (e.g. \"name contains 'report'\")"),
		),
		mcp.WithNumber("pageSize",
			mcp.Description("Maximum number of files to return (default: 10, max: 100)"),
		),
	)

	s.AddTool(listFilesTool, common.InstrumentedToolHandlerWithService(
		"google_drive_list_files", instrumentation.ServiceDrive, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListFiles(ctx, request, sc)
		}))

	return nil
}

func handleListFiles(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	accessToken := common.AccessTokenFromArgs(args)
	if accessToken == "" {
		return common.MissingTokenResult(authHint), nil
	}

	query, _ := args["query"].(string)

	pageSize := drive.DefaultPageSize
	if raw, ok := args["pageSize"].(float64); ok && int(raw) > 0 {
		pageSize = int(raw)
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}
	}

	files, _, err := sc.DriveClient().ListFiles(ctx, accessToken, &drive.ListOptions{
		Query:    query,
		PageSize: pageSize,
	})
	if err != nil {
		return common.ErrorResult(err.Error(), "Failed to list files"), nil
	}

	formatted := make([]map[string]interface{}, 0, len(files))
	for _, file := range files {
		entry := map[string]interface{}{
			"id":       file.ID,
			"name":     file.Name,
			"mimeType": file.MimeType,
		}
		if !file.ModifiedTime.IsZero() {
			entry["modifiedTime"] = file.ModifiedTime.Format(time.RFC3339)
		}
		formatted = append(formatted, entry)
	}

	return common.JSONResult(map[string]interface{}{
		"files":   formatted,
		"count":   len(formatted),
		"message": fmt.Sprintf("Found %d files", len(formatted)),
	}), nil
}
