package cmd

import (
	"github.com/huangsam/diffeffort/core"
	"github.com/huangsam/diffeffort/internal/contract"
	"github.com/spf13/cobra"
)

// categoriesCmd lists the category rules.
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the file category rules in match order.",
	Long: `Show the category rules used to classify changed files.

Rules come from the 'categories' list of .diffeffort.yaml, or the built-in defaults
when the file defines none. Each pattern is a regular expression searched for
anywhere in the file path. A file counts once for every rule it matches.`,
	Args: cobra.NoArgs,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if err := loadInput(nil); err != nil {
			return err
		}
		return contract.ProcessCategoriesOnly(cfg, input)
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCategories(cfg); err != nil {
			contract.LogFatal("Cannot list categories", err)
		}
	},
}
