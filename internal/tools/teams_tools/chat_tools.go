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

// registerChatTools registers chat listing and creation tools
func registerChatTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// List chats tool (read-only, always available)
	listChatsTool := mcp.NewTool("teams_list_chats",
		mcp.WithDescription("List all chats for the authenticated user"),
		mcp.WithObject("tokens",
			mcp.Description("OAuth tokens with access_token"),
			mcp.Properties(map[string]interface{}{
				"access_token": map[string]interface{}{"type": "string"},
			}),
		),
		mcp.WithString("filter",
			mcp.Description("OData filter expression (e.g., \"chatType eq 'oneOnOne'\")"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of chats to return (1-50, default: 50)"),
		),
	)

	s.AddTool(listChatsTool, common.InstrumentedToolHandlerWithService(
		"teams_list_chats", instrumentation.ServiceTeams, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListChats(ctx, request, sc)
		}))

	// Register write tools only if not in read-only mode
	if !readOnly {
		createChatTool := mcp.NewTool("teams_create_chat",
			mcp.WithDescription("Create a new Teams chat (one-on-one or group)"),
			mcp.WithObject("tokens",
				mcp.Required(),
				mcp.Description("OAuth tokens with access_token"),
				mcp.Properties(map[string]interface{}{
					"access_token": map[string]interface{}{"type": "string"},
				}),
			),
			mcp.WithString("chatType",
				mcp.Required(),
				mcp.Description("Type of chat to create"),
				mcp.Enum("oneOnOne", "group"),
			),
			mcp.WithArray("members",
				mcp.Required(),
				mcp.Description("List of members to add to the chat (at least one)"),
				mcp.Items(map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"email": map[string]interface{}{
							"type":        "string",
							"description": "Email address of the user to add",
						},
						"role": map[string]interface{}{
							"type":        "string",
							"description": "Role of the member in the chat (default: owner)",
							"enum":        []string{"owner", "guest"},
						},
					},
					"required": []string{"email"},
				}),
			),
			mcp.WithString("topic",
				mcp.Description("Topic/name for the chat (only for group chats)"),
			),
		)

		s.AddTool(createChatTool, common.InstrumentedToolHandlerWithService(
			"teams_create_chat", instrumentation.ServiceTeams, instrumentation.OperationCreate, sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handleCreateChat(ctx, request, sc)
			}))
	}

	return nil
}

func handleListChats(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	accessToken := common.AccessTokenFromArgs(args)
	if accessToken == "" {
		return common.MissingTokenResult(authHint), nil
	}

	opts := teams.ListChatsOptions{
		Top: limitFromArgs(args, teams.DefaultChatPageSize, teams.DefaultChatPageSize),
	}
	if filter, ok := args["filter"].(string); ok && filter != "" {
		opts.Filter = filter
	}

	chats, err := sc.TeamsClient().ListChats(ctx, accessToken, opts)
	if err != nil {
		return common.ErrorResult(err.Error(), "Failed to list chats"), nil
	}

	formatted := make([]map[string]interface{}, 0, len(chats))
	for _, chat := range chats {
		entry := map[string]interface{}{
			"id":                  chat.ID,
			"topic":               chat.Topic,
			"chatType":            chat.ChatType,
			"createdDateTime":     chat.CreatedDateTime,
			"lastUpdatedDateTime": chat.LastUpdatedDateTime,
		}
		if len(chat.Members) > 0 {
			members := make([]map[string]interface{}, 0, len(chat.Members))
			for _, m := range chat.Members {
				members = append(members, map[string]interface{}{
					"displayName": m.DisplayName,
					"email":       m.Email,
				})
			}
			entry["members"] = members
		}
		formatted = append(formatted, entry)
	}

	return common.JSONResult(map[string]interface{}{
		"chats":   formatted,
		"count":   len(formatted),
		"message": fmt.Sprintf("Found %d chats", len(formatted)),
	}), nil
}

func handleCreateChat(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	accessToken := common.AccessTokenFromArgs(args)
	if accessToken == "" {
		return common.MissingTokenResult(authHint), nil
	}

	chatType, _ := args["chatType"].(string)
	if chatType != "oneOnOne" && chatType != "group" {
		return common.ErrorResult("Invalid chat type", "chatType must be 'oneOnOne' or 'group'"), nil
	}

	members := memberSpecsFromArgs(args)
	if len(members) == 0 {
		return common.ErrorResult("Invalid members", "At least one member is required"), nil
	}
	if chatType == "oneOnOne" && len(members) != 1 {
		return common.ErrorResult("Invalid members count", "One-on-one chat requires exactly one other member"), nil
	}

	topic, _ := args["topic"].(string)

	chat, err := sc.TeamsClient().CreateChat(ctx, accessToken, chatType, members, topic)
	if err != nil {
		return common.ErrorResult(err.Error(), "Failed to create chat"), nil
	}

	return common.JSONResult(map[string]interface{}{
		"chat": map[string]interface{}{
			"id":              chat.ID,
			"chatType":        chat.ChatType,
			"topic":           chat.Topic,
			"createdDateTime": chat.CreatedDateTime,
			"webUrl":          chat.WebURL,
		},
		"message": fmt.Sprintf("Successfully created %s chat", chatType),
	}), nil
}

// memberSpecsFromArgs converts the "members" argument into member specs.
// Entries that are not objects are dropped.
func memberSpecsFromArgs(args map[string]interface{}) []teams.MemberSpec {
	raw, ok := args["members"].([]interface{})
	if !ok {
		return nil
	}

	members := make([]teams.MemberSpec, 0, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		spec := teams.MemberSpec{}
		if email, ok := m["email"].(string); ok {
			spec.Email = email
		}
		if role, ok := m["role"].(string); ok {
			spec.Role = role
		}
		members = append(members, spec)
	}
	return members
}
