package cmd

import (
	"github.com/huangsam/diffeffort/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the diffeffort MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents estimate effort, analyze a
repository day and list category rules or repositories via standard tools.`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
