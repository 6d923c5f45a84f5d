package cmd

import (
	"github.com/huangsam/diffeffort/core"
	"github.com/huangsam/diffeffort/internal/contract"
	"github.com/spf13/cobra"
)

// reportCmd estimates effort per day and repository.
var reportCmd = &cobra.Command{
	Use:   "report [dir]",
	Short: "Estimate the effort spent per day in every repository under a directory.",
	Long: `Find every Git repository under dir (default: the current directory), diff each
requested day on the first existing branch of --branches, count changed lines per file
category and estimate the time they took.

A day costs --setup-minutes plus --per-change-minutes for the first changed line, with
every following line costing --decay-factor times the previous one.

Examples:
  # Today's effort across all repositories under ~/src
  diffeffort report ~/src

  # The last week, only repositories hosted under an organization
  diffeffort report ~/src --days 7 --remote-filter github.com/acme

  # One day with per-file detail
  diffeffort report --date 2024-03-15 --verbosity 3

  # Export the last month for a spreadsheet
  diffeffort report --days 30 --output csv --output-file effort.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReport(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run report", err)
		}
	},
}
