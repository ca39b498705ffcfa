package teams_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/teams-mcp/internal/instrumentation"
	"github.com/teemow/teams-mcp/internal/server"
	"github.com/teemow/teams-mcp/internal/teams"
	"github.com/teemow/teams-mcp/internal/tools/common"
)

// registerMessageTools registers message reading and sending tools
func registerMessageTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// Get messages tool (read-only, always available)
	getMessagesTool := mcp.NewTool("teams_get_messages",
		mcp.WithDescription("Get messages from a Teams chat"),
		mcp.WithObject("tokens",
			mcp.Required(),
			mcp.Description("OAuth tokens with access_token"),
			mcp.Properties(map[string]interface{}{
				"access_token": map[string]interface{}{"type": "string"},
			}),
		),
		mcp.WithString("chatId",
			mcp.Required(),
			mcp.Description("ID of the chat to retrieve messages from"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of messages to return (1-50, default: 20)"),
		),
		mcp.WithString("orderBy",
			mcp.Description("Sort order for messages (default: 'createdDateTime desc')"),
			mcp.Enum("createdDateTime desc", "createdDateTime asc"),
		),
	)

	s.AddTool(getMessagesTool, common.InstrumentedToolHandlerWithService(
		"teams_get_messages", instrumentation.ServiceTeams, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetMessages(ctx, request, sc)
		}))

	// Register write tools only if not in read-only mode
	if !readOnly {
		sendMessageTool := mcp.NewTool("teams_send_message",
			mcp.WithDescription("Send a message to a Teams chat"),
			mcp.WithObject("tokens",
				mcp.Required(),
				mcp.Description("OAuth tokens with access_token"),
				mcp.Properties(map[string]interface{}{
					"access_token": map[string]interface{}{"type": "string"},
				}),
			),
			mcp.WithString("chatId",
				mcp.Required(),
				mcp.Description("ID of the chat to send the message to"),
			),
			mcp.WithString("content",
				mcp.Required(),
				mcp.Description("Content of the message"),
			),
			mcp.WithString("contentType",
				mcp.Description("Type of content (default: text)"),
				mcp.Enum("text", "html"),
			),
		)

		s.AddTool(sendMessageTool, common.InstrumentedToolHandlerWithService(
			"teams_send_message", instrumentation.ServiceTeams, instrumentation.OperationSend, sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handleSendMessage(ctx, request, sc)
			}))
	}

	return nil
}

func handleSendMessage(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	accessToken := common.AccessTokenFromArgs(args)
	if accessToken == "" {
		return common.MissingTokenResult(authHint), nil
	}

	chatID, _ := args["chatId"].(string)
	if chatID == "" {
		return common.ErrorResult("Invalid chatId", "chatId is required"), nil
	}

	content, _ := args["content"].(string)
	if content == "" {
		return common.ErrorResult("Invalid content", "content is required"), nil
	}

	contentType, ok := args["contentType"].(string)
	if !ok || contentType == "" {
		contentType = "text"
	}
	if contentType != "text" && contentType != "html" {
		return common.ErrorResult("Invalid content type", "contentType must be 'text' or 'html'"), nil
	}

	message, err := sc.TeamsClient().SendMessage(ctx, accessToken, chatID, content, contentType)
	if err != nil {
		return common.ErrorResult(err.Error(), "Failed to send message"), nil
	}

	sent := map[string]interface{}{
		"id":              message.ID,
		"createdDateTime": message.CreatedDateTime,
		"body": map[string]interface{}{
			"contentType": message.Body.ContentType,
			"content":     message.Body.Content,
		},
	}
	if message.From != nil && message.From.User != nil {
		sent["from"] = map[string]interface{}{
			"displayName": message.From.User.DisplayName,
			"id":          message.From.User.ID,
		}
	}

	return common.JSONResult(map[string]interface{}{
		"sentMessage": sent,
		"message":     "Message sent successfully",
	}), nil
}

func handleGetMessages(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	accessToken := common.AccessTokenFromArgs(args)
	if accessToken == "" {
		return common.MissingTokenResult(authHint), nil
	}

	chatID, _ := args["chatId"].(string)
	if chatID == "" {
		return common.ErrorResult("Invalid chatId", "chatId is required"), nil
	}

	limit := limitFromArgs(args, teams.DefaultMessagePageSize, teams.DefaultChatPageSize)

	orderBy, ok := args["orderBy"].(string)
	if !ok || orderBy == "" {
		orderBy = "createdDateTime desc"
	}
	if orderBy != "createdDateTime desc" && orderBy != "createdDateTime asc" {
		return common.ErrorResult("Invalid orderBy value", "orderBy must be 'createdDateTime desc' or 'createdDateTime asc'"), nil
	}

	messages, err := sc.TeamsClient().ListMessages(ctx, accessToken, chatID, limit, orderBy)
	if err != nil {
		return common.ErrorResult(err.Error(), "Failed to get messages"), nil
	}

	formatted := make([]map[string]interface{}, 0, len(messages))
	for _, msg := range messages {
		messageType := msg.MessageType
		if messageType == "" {
			messageType = "message"
		}
		entry := map[string]interface{}{
			"id":                   msg.ID,
			"createdDateTime":      msg.CreatedDateTime,
			"lastModifiedDateTime": msg.LastModifiedDateTime,
			"messageType":          messageType,
			"body": map[string]interface{}{
				"contentType": msg.Body.ContentType,
				"content":     msg.Body.Content,
			},
		}
		if msg.From != nil && msg.From.User != nil {
			entry["from"] = map[string]interface{}{
				"displayName": msg.From.User.DisplayName,
				"id":          msg.From.User.ID,
			}
		}
		if len(msg.Attachments) > 0 {
			entry["attachments"] = len(msg.Attachments)
		}
		formatted = append(formatted, entry)
	}

	return common.JSONResult(map[string]interface{}{
		"messages": formatted,
		"count":    len(formatted),
		"chatId":   chatID,
		"message":  fmt.Sprintf("Retrieved %d messages", len(formatted)),
	}), nil
}
