// Package cmd defines the command-line interface for teamspot.
package cmd

import (
	"github.com/huangsam/teamspot/internal/contract"
	"github.com/huangsam/teamspot/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(alignmentCmd)
	rootCmd.AddCommand(hotspotsCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the aggregated view to the parent hotspots command
	hotspotsCmd.AddCommand(hotspotsAggregatedCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().Int("limit-commits", 0, "Only read the most recent N commits (0 = all)")
	rootCmd.PersistentFlags().Int("limit-months", 0, "Only read commits newer than N months (0 = all)")
	rootCmd.PersistentFlags().String("start", "", "Start date in ISO8601 or time ago")
	rootCmd.PersistentFlags().String("end", "", "End date in ISO8601 or time ago")
	rootCmd.PersistentFlags().StringSlice("scopes", nil, "Comma-separated list of path prefixes to report on")
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of path prefixes or patterns to ignore")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("log-format", contract.DefaultLogFormat, "Log format: text or json")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of alignmentCmd to Viper
	alignmentCmd.Flags().Bool("by-user", false, "Group changes by author instead of by team")
	if err := viper.BindPFlags(alignmentCmd.Flags()); err != nil {
		contract.LogFatal("Error binding alignment flags", err)
	}

	// Bind all persistent flags of hotspotsCmd to Viper
	hotspotsCmd.PersistentFlags().String("metric", string(schema.LengthMetric), "Complexity metric: length or mccabe")
	hotspotsCmd.PersistentFlags().Float64("min-score", contract.DefaultMinScore, "Minimum score (0-100) for a file to be reported")
	hotspotsCmd.PersistentFlags().String("module", "", "Only report files under this path prefix")
	if err := viper.BindPFlags(hotspotsCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding hotspots flags", err)
	}

	// Bind all flags of cacheMigrateCmd to Viper
	cacheMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(cacheMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cache migrate flags", err)
	}
}
