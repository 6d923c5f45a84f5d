package cmd

import (
	"time"

	"github.com/huangsam/diffeffort/core"
	"github.com/huangsam/diffeffort/internal/contract"
	"github.com/spf13/cobra"
)

// reposCmd lists the repositories a report would cover.
var reposCmd = &cobra.Command{
	Use:   "repos [dir]",
	Short: "List the Git repositories a report would analyze.",
	Long: `Walk dir (default: the current directory) and list every Git repository found,
together with its remotes. With --remote-filter, only repositories with a remote name
or URL containing the filter are listed.

Examples:
  diffeffort repos ~/src
  diffeffort repos ~/src --remote-filter acme --output json`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(_ *cobra.Command, args []string) error {
		if err := loadInput(args); err != nil {
			return err
		}
		return contract.ProcessAndValidate(cfg, input, time.Now())
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRepos(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot list repositories", err)
		}
	},
}
