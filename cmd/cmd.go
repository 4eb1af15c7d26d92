// Package cmd defines the command-line interface for changescope.
package cmd

import (
	"github.com/huangsam/changescope/internal/contract"
	"github.com/huangsam/changescope/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(branchesCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(analysisCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the analysis subcommands to the parent analysis command
	analysisCmd.AddCommand(analysisClearCmd)
	analysisCmd.AddCommand(analysisStatusCmd)
	analysisCmd.AddCommand(analysisExportCmd)
	analysisCmd.AddCommand(analysisMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().Bool("detail", false, "Print per-file language, complexity, quality and issue columns")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of files to display in text output")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or yaml")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Result cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("cache-ttl", contract.DefaultCacheTTL, "How long a cached analysis stays valid (e.g., '7 days', '12h')")
	rootCmd.PersistentFlags().String("analysis-backend", "", "Analysis tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("analysis-db-connect", "", "Database connection string for analysis tracking (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("method-excludes", "", "Comma-separated words the method pattern must not capture (empty keeps the defaults)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of diffCmd to Viper
	diffCmd.Flags().String("source-ref", "", "Git reference holding the changes (defaults to HEAD)")
	diffCmd.Flags().String("target-ref", "", "Git reference the changes are compared against (required)")
	diffCmd.Flags().String("commit", "", "Analyze a single commit against its parent")
	diffCmd.Flags().String("from", "", "Start of a commit range (requires --to)")
	diffCmd.Flags().String("to", "", "End of a commit range (requires --from)")
	diffCmd.Flags().String("since", "", "Only count commits after this date (ISO8601 or time ago)")
	diffCmd.Flags().String("until", "", "Only count commits before this date (ISO8601 or time ago)")
	diffCmd.Flags().String("author", "", "Only count commits by this author")
	diffCmd.Flags().String("file", "", "Restrict the analysis to this path")
	diffCmd.Flags().String("include", "", "Comma-separated globs of paths to keep")
	diffCmd.Flags().String("exclude", "", "Comma-separated globs of paths to drop")
	if err := viper.BindPFlags(diffCmd.Flags()); err != nil {
		contract.LogFatal("Error binding diff flags", err)
	}

	// Bind all flags of inspectCmd to Viper
	inspectCmd.Flags().String("ref", contract.DefaultSourceRef, "Git reference to read the file from")
	inspectCmd.Flags().String("path", "", "Repository-relative path of the file (required)")
	if err := viper.BindPFlags(inspectCmd.Flags()); err != nil {
		contract.LogFatal("Error binding inspect flags", err)
	}

	// Bind all flags of analysisMigrateCmd to Viper
	analysisMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(analysisMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding analysis migrate flags", err)
	}
}
