package app

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/uxpulse/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP stdio server over the event store",
	Long: `Start a Model Context Protocol stdio server so an assistant can query
recorded sessions. The server exposes four tools:

  list_sessions    Stored sessions with event and sample counts
  analyze_session  Run the full analysis over a stored session
  list_analyses    Saved analyses with their headline numbers
  get_analysis     The full report of one saved analysis

Example MCP configuration:
  {"mcpServers":{"uxpulse":{"command":"uxpulse","args":["mcp"]}}}`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	srv := mcp.NewServer(db, engine, appVersion)
	return srv.Run(cmd.Context(), os.Stdin, os.Stdout)
}
