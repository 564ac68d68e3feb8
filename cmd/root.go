package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the inboxroute application
var rootCmd = &cobra.Command{
	Use:   "inboxroute",
	Short: "MCP server for Gmail, Google Calendar and Google Maps",
	Long: `inboxroute exposes Gmail, Google Calendar and Google Maps as tools for
AI assistants speaking the Model Context Protocol (MCP).

It can run over:
  - stdio (default), launched by the MCP client
  - streamable HTTP, with health endpoints and an optional metrics server`,
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
	rootCmd.SetVersionTemplate(`{{printf "inboxroute version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newToolsCmd())
}
