// Package cmd implements the command-line interface for sma.
// It uses the Cobra library to handle commands, flags, and execution.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information (passed from main)
var (
	version string
	commit  string
	date    string
)

// Flag variables for command-line options.
// These are package-level variables as required by Cobra's flag binding.
var (
	// Time filtering flags
	beginTime  string // --begin: Keep entries after this datetime
	endTime    string // --end: Keep entries before this datetime
	windowFlag string // --window: Time window duration (e.g. 30m, 2h)
	lastFlag   string // --last: Analyze last N duration (e.g. 1h, 30m)

	// Content filtering flags
	grepFilter []string // --grep: Keep only entries containing all substrings

	// Section selection flags (limit the report to specific sections)
	summaryFlag    bool // --summary
	gcFlag         bool // --gc
	poolsFlag      bool // --pools
	tombstonesFlag bool // --tombstones
	slowReadsFlag  bool // --slowreads

	// Output format flags
	jsonFlag bool   // --json: Export results as JSON
	mdFlag   bool   // --md: Export results as Markdown
	htmlPath string // --html: Write a self-contained HTML report to this file
	outPath  string // --out: Write the report to this file instead of stdout

	// Engine and infrastructure flags
	workersFlag    int    // --workers: Extractor parallelism
	configPath     string // --config: Configuration file path
	logLevelFlag   string // --log-level: Override configured log level
	logFileFlag    string // --log-file: Append logs to this file
	cachePathFlag  string // --cache: Result cache database path
	noCacheFlag    bool   // --no-cache: Skip the result cache entirely
	clickhouseAddr string // --clickhouse: Push results to this ClickHouse address
	traceFlag      bool   // --trace: Force OTLP trace export on
)

// rootCmd is the main command for the sma CLI.
var rootCmd = &cobra.Command{
	Use:   "sma [files, dirs or archives]",
	Short: "Cassandra and DSE system log analyzer",
	Long: `sma turns Cassandra and DSE system logs into time series and reports.

It extracts operational signals from plain, rotated, compressed or
archived logs:
  - GC pause durations with collector and generation breakdown
  - Thread pool saturation from StatusLogger output
  - Tombstone scan warnings per table and per query
  - Timed-out reads per data file

Specify log files, directories or support bundles as arguments, and use
"-" to read from standard input.`,
	Run: executeAnalysis,
}

// Execute runs the root command.
// This is called by main.go to start the CLI application.
func Execute(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// init initializes all command-line flags.
func init() {
	// Time filter flags
	rootCmd.PersistentFlags().StringVarP(&beginTime, "begin", "b", "",
		"Keep entries after this datetime (format: YYYY-MM-DD HH:MM:SS)")
	rootCmd.PersistentFlags().StringVarP(&endTime, "end", "e", "",
		"Keep entries before this datetime (format: YYYY-MM-DD HH:MM:SS)")
	rootCmd.PersistentFlags().StringVarP(&windowFlag, "window", "W", "",
		"Time window duration (e.g. 30m, 2h). Adjusts --begin or --end accordingly")
	rootCmd.PersistentFlags().StringVarP(&lastFlag, "last", "L", "",
		"Analyze last N duration from now (e.g. 1h, 30m, 24h)")

	// Content filter flags
	rootCmd.PersistentFlags().StringSliceVarP(&grepFilter, "grep", "g", nil,
		"Keep only entries containing all given substrings. Can be specified multiple times")

	// Section selection flags
	rootCmd.Flags().BoolVar(&summaryFlag, "summary", false,
		"Print only the summary section")
	rootCmd.Flags().BoolVar(&gcFlag, "gc", false,
		"Print only the GC pause section")
	rootCmd.Flags().BoolVar(&poolsFlag, "pools", false,
		"Print only the thread pool section")
	rootCmd.Flags().BoolVar(&tombstonesFlag, "tombstones", false,
		"Print only the tombstone section")
	rootCmd.Flags().BoolVar(&slowReadsFlag, "slowreads", false,
		"Print only the slow read section")

	// Output format flags
	rootCmd.PersistentFlags().BoolVarP(&jsonFlag, "json", "J", false,
		"Export results in JSON format")
	rootCmd.PersistentFlags().BoolVar(&mdFlag, "md", false,
		"Export results in Markdown format")
	rootCmd.PersistentFlags().StringVar(&htmlPath, "html", "",
		"Write a self-contained HTML report to the given file")
	rootCmd.PersistentFlags().StringVarP(&outPath, "out", "o", "",
		"Write the report to this file instead of stdout")

	// Engine and infrastructure flags
	rootCmd.PersistentFlags().IntVarP(&workersFlag, "workers", "w", 0,
		"Extractor parallelism (0 = use configuration)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Configuration file path (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "",
		"Append logs to this file in addition to stderr")
	rootCmd.PersistentFlags().StringVar(&cachePathFlag, "cache", "",
		"Result cache database path")
	rootCmd.PersistentFlags().BoolVar(&noCacheFlag, "no-cache", false,
		"Skip the result cache even when a path is configured")
	rootCmd.PersistentFlags().StringVar(&clickhouseAddr, "clickhouse", "",
		"Export extracted series and metadata to ClickHouse at this address (host:port)")
	rootCmd.PersistentFlags().BoolVar(&traceFlag, "trace", false,
		"Force OTLP trace export on, regardless of configuration")
}
