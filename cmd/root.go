package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the teams-mcp application
var rootCmd = &cobra.Command{
	Use:   "teams-mcp",
	Short: "MCP server for Microsoft Teams with reusable OAuth2 tools",
	Long: `teams-mcp is a Model Context Protocol (MCP) server that lets AI
assistants work with Microsoft Teams chats, GitHub and Google Drive.

Authentication uses the OAuth2 authorization code flow with PKCE. The MCP
client keeps the tokens; every tool call carries them as arguments, so the
server stores nothing.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "teams-mcp version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default.
	// MCP clients launch the bare binary and speak over stdio.
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("teams-mcp version %s\n", version)
		},
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
