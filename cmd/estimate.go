package cmd

import (
	"fmt"
	"strconv"

	"github.com/huangsam/diffeffort/core"
	"github.com/huangsam/diffeffort/internal/contract"
	"github.com/spf13/cobra"
)

// estimateSetup validates only what a standalone estimate needs.
func estimateSetup(_ *cobra.Command, _ []string) error {
	if err := loadInput(nil); err != nil {
		return err
	}
	return contract.ProcessCostOnly(cfg, input)
}

// parseChangeCount parses the positional change count.
func parseChangeCount(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid change count %q. Expected a non-negative integer", arg)
	}
	return n, nil
}

// estimateCmd converts a change count into a time estimate.
var estimateCmd = &cobra.Command{
	Use:   "estimate <changes>",
	Short: "Estimate the effort for a number of changed lines.",
	Long: `Apply the cost model to a change count without touching any repository.

Also prints the upper bound the estimate approaches as the change count grows,
which is setup + per-change / (1 - decay) when the decay factor is below 1.

Examples:
  diffeffort estimate 120
  diffeffort estimate 5 --per-change-minutes 3 --setup-minutes 10`,
	Args:    cobra.ExactArgs(1),
	PreRunE: estimateSetup,
	Run: func(_ *cobra.Command, args []string) {
		changes, err := parseChangeCount(args[0])
		if err != nil {
			contract.LogFatal("Cannot estimate", err)
		}
		if err := core.ExecuteEstimate(changes, cfg); err != nil {
			contract.LogFatal("Cannot estimate", err)
		}
	},
}
