package common

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// JSONResult marshals payload as indented JSON and wraps it in a text
// result.
func JSONResult(payload interface{}) *mcp.CallToolResult {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

// JSONErrorResult reports a failed operation as a tool error whose
// payload is still parseable JSON.
func JSONErrorResult(payload interface{}) *mcp.CallToolResult {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err))
	}
	return mcp.NewToolResultError(string(data))
}

// ErrorResult reports a failed operation with the machine-readable error
// text and a human-readable message.
func ErrorResult(errText, message string) *mcp.CallToolResult {
	return JSONErrorResult(map[string]interface{}{
		"error":   errText,
		"message": message,
	})
}

// MissingTokenResult is the response for tool calls that arrive without
// an access token. authTool names the tool the client should call to
// authenticate.
func MissingTokenResult(authTool string) *mcp.CallToolResult {
	return ErrorResult("Missing access token", "Please authenticate first using "+authTool)
}
