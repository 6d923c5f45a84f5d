// Package cmd defines the command-line interface for diffeffort.
package cmd

import (
	"github.com/huangsam/diffeffort/internal/contract"
	"github.com/huangsam/diffeffort/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(estimateCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(reposCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for minute columns (1 or 2)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of repositories analyzed concurrently")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Diff cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("history-backend", "", "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for run history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().Float64("per-change-minutes", contract.DefaultPerChangeMinutes, "Minutes the first changed line costs")
	rootCmd.PersistentFlags().Float64("decay-factor", contract.DefaultDecayFactor, "Cost multiplier for each following line, in (0, 1]")
	rootCmd.PersistentFlags().Float64("setup-minutes", contract.DefaultSetupMinutes, "Fixed minutes added once per day and repository")
	rootCmd.PersistentFlags().String("remote-filter", "", "Only keep repositories with a remote name or URL containing this text (case-insensitive)")
	rootCmd.PersistentFlags().Bool("include-unclassified", false, "Count files matching no category rule as 'unclassified'")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of reportCmd to Viper
	reportCmd.Flags().Int("days", contract.DefaultDays, "Number of days to analyze, counting back from today")
	reportCmd.Flags().String("date", "", "Analyze a single day (YYYY-MM-DD, 'yesterday' or 'N days ago'); wins over --days")
	reportCmd.Flags().String("branches", contract.DefaultBranches, "Comma-separated branch preference list")
	reportCmd.Flags().Int("verbosity", contract.DefaultVerbosity, "Text output detail from 0 (summary only) to 5 (diff segments)")
	reportCmd.Flags().Bool("full-diff", false, "Show the diff segment of every counted file (verbosity 3 and above)")
	reportCmd.Flags().String("exclude-paths", contract.DefaultExcludePaths, "Comma-separated glob patterns of paths to ignore")
	reportCmd.Flags().Int("max-line-length", contract.DefaultMaxLineLength, "Drop diff lines this long or longer (0 disables)")
	if err := viper.BindPFlags(reportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding report flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
