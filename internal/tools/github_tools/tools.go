package github_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/teams-mcp/internal/instrumentation"
	"github.com/teemow/teams-mcp/internal/server"
	"github.com/teemow/teams-mcp/internal/tools/common"
)

// authHint names the tool clients should call to obtain GitHub tokens.
const authHint = "github_is_authenticated"

// RegisterGithubTools registers all GitHub tools with the MCP server.
// Both tools are read-only.
func RegisterGithubTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	getUserTool := mcp.NewTool("github_get_user",
		mcp.WithDescription("Get authenticated GitHub user info"),
		mcp.WithObject("tokens",
			mcp.Required(),
			mcp.Description("OAuth tokens with access_token"),
			mcp.Properties(map[string]interface{}{
				"access_token": map[string]interface{}{"type": "string"},
			}),
		),
	)

	s.AddTool(getUserTool, common.InstrumentedToolHandlerWithService(
		"github_get_user", instrumentation.ServiceGitHub, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetUser(ctx, request, sc)
		}))

	listReposTool := mcp.NewTool("github_list_repos",
		mcp.WithDescription("List GitHub repositories"),
		mcp.WithObject("tokens",
			mcp.Required(),
			mcp.Description("OAuth tokens with access_token"),
			mcp.Properties(map[string]interface{}{
				"access_token": map[string]interface{}{"type": "string"},
			}),
		),
		mcp.WithString("visibility",
			mcp.Description("Filter by visibility (default: all)"),
			mcp.Enum("all", "public", "private"),
		),
	)

	s.AddTool(listReposTool, common.InstrumentedToolHandlerWithService(
		"github_list_repos", instrumentation.ServiceGitHub, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListRepos(ctx, request, sc)
		}))

	return nil
}

func handleGetUser(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	accessToken := common.AccessTokenFromArgs(args)
	if accessToken == "" {
		return common.MissingTokenResult(authHint), nil
	}

	user, err := sc.GithubClient().GetUser(ctx, accessToken)
	if err != nil {
		return common.ErrorResult(err.Error(), "Failed to get user info"), nil
	}

	// The profile reveals who the token belongs to; attribute the
	// invocation for audit and metrics
	if email := user.GetEmail(); email != "" {
		common.SetInvocationUser(ctx, email)
	}

	return common.JSONResult(map[string]interface{}{
		"user": map[string]interface{}{
			"login":        user.GetLogin(),
			"name":         user.GetName(),
			"email":        user.GetEmail(),
			"company":      user.GetCompany(),
			"public_repos": user.GetPublicRepos(),
			"followers":    user.GetFollowers(),
		},
		"message": "Successfully retrieved user info",
	}), nil
}

func handleListRepos(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	accessToken := common.AccessTokenFromArgs(args)
	if accessToken == "" {
		return common.MissingTokenResult(authHint), nil
	}

	visibility, _ := args["visibility"].(string)

	repos, err := sc.GithubClient().ListRepos(ctx, accessToken, visibility)
	if err != nil {
		return common.ErrorResult(err.Error(), "Failed to list repositories"), nil
	}

	formatted := make([]map[string]interface{}, 0, len(repos))
	for _, repo := range repos {
		formatted = append(formatted, map[string]interface{}{
			"name":             repo.GetName(),
			"full_name":        repo.GetFullName(),
			"description":      repo.GetDescription(),
			"private":          repo.GetPrivate(),
			"html_url":         repo.GetHTMLURL(),
			"language":         repo.GetLanguage(),
			"stargazers_count": repo.GetStargazersCount(),
		})
	}

	return common.JSONResult(map[string]interface{}{
		"repos":   formatted,
		"count":   len(formatted),
		"message": fmt.Sprintf("Found %d repositories", len(formatted)),
	}), nil
}
