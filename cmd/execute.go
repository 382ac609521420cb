package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/pranjalkishor/Support-Metrics-Analyzer-sub000/analysis"
	"github.com/pranjalkishor/Support-Metrics-Analyzer-sub000/cache"
	"github.com/pranjalkishor/Support-Metrics-Analyzer-sub000/clickhouse"
	"github.com/pranjalkishor/Support-Metrics-Analyzer-sub000/config"
	"github.com/pranjalkishor/Support-Metrics-Analyzer-sub000/observability"
	"github.com/pranjalkishor/Support-Metrics-Analyzer-sub000/output"
	"github.com/pranjalkishor/Support-Metrics-Analyzer-sub000/parser"
)

// executeAnalysis is the main pipeline behind the root command:
//  1. Collect input files, directories and archives
//  2. Parse time filters and validate options
//  3. Read and filter the raw log text
//  4. Run the extractors (through the result cache when enabled)
//  5. Render reports and push optional exports
func executeAnalysis(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	applyFlagOverrides(cfg)

	log := observability.NewLogger(cfg.LogLevel, cfg.LogFile)

	shutdown, err := observability.InitTracer(observability.TracerConfig{
		ServiceName:    "sma",
		ServiceVersion: version,
		Endpoint:       cfg.Tracing.Endpoint,
		Protocol:       cfg.Tracing.Protocol,
		Enabled:        cfg.Tracing.Enabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("tracing setup failed")
	}
	ctx := context.Background()
	defer func() {
		if err := shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("tracer shutdown failed")
		}
	}()
	tracer := otel.Tracer(observability.TracerName)

	runID := uuid.NewString()
	log.Debug().Str("run_id", runID).Str("version", version).Msg("starting run")

	ctx, runSpan := tracer.Start(ctx, "run")
	runSpan.SetAttributes(attribute.String("run.id", runID))
	defer runSpan.End()

	// Collect input paths.
	_, collectSpan := tracer.Start(ctx, "collect")
	files := collectFiles(args, log)
	collectSpan.SetAttributes(attribute.Int("input.files", len(files)))
	collectSpan.End()
	if len(files) == 0 {
		log.Fatal().Msg("no log files found, specify files, directories or archives (or - for stdin)")
	}

	filters, err := buildLogFilters()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid time filter")
	}

	// Read and filter the raw text.
	_, readSpan := tracer.Start(ctx, "read")
	parseStart := time.Now()
	doc, err := parser.ParseFiles(files, filters, log)
	readSpan.End()
	if err != nil {
		log.Fatal().Err(err).Msg("reading input failed")
	}
	parseTime := time.Since(parseStart)

	if log.GetLevel() <= zerolog.DebugLevel {
		logLevelMix(log, doc.Lines)
	}

	// Run the extractors, by way of the result cache when enabled.
	_, analyzeSpan := tracer.Start(ctx, "analyze")
	res, cacheHit := analyzeWithCache(cfg, doc.Lines, log)
	analyzeSpan.SetAttributes(
		attribute.Int("input.lines", len(doc.Lines)),
		attribute.Bool("cache.hit", cacheHit),
	)
	analyzeSpan.End()

	info := output.ReportInfo{
		RunID:       runID,
		Source:      sourceLabel(args),
		Files:       len(doc.Files),
		Lines:       len(doc.Lines),
		Bytes:       totalBytes(doc.Files),
		ParseTimeMs: float64(parseTime.Microseconds()) / 1000,
		Version:     version,
	}
	sections := buildSectionList()

	_, renderSpan := tracer.Start(ctx, "render")
	renderErr := renderReport(res, info, sections)
	renderSpan.End()
	if renderErr != nil {
		log.Fatal().Err(renderErr).Msg("rendering report failed")
	}

	if clickhouseAddr != "" {
		_, exportSpan := tracer.Start(ctx, "export")
		exportClickHouse(ctx, cfg, runID, info.Source, res, log)
		exportSpan.End()
	}
}

// applyFlagOverrides lets command-line flags win over file and
// environment configuration.
func applyFlagOverrides(cfg *config.Config) {
	if workersFlag > 0 {
		cfg.Workers = workersFlag
	}
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}
	if logFileFlag != "" {
		cfg.LogFile = logFileFlag
	}
	if cachePathFlag != "" {
		cfg.CachePath = cachePathFlag
	}
	if noCacheFlag {
		cfg.CachePath = ""
	}
	if clickhouseAddr != "" {
		cfg.ClickHouse.Addr = clickhouseAddr
	}
	if traceFlag {
		cfg.Tracing.Enabled = true
	}
}

// analyzeWithCache runs the extractors, consulting the bbolt result cache
// first when one is configured. Cache failures degrade to a plain run.
func analyzeWithCache(cfg *config.Config, lines []string, log zerolog.Logger) (analysis.Results, bool) {
	var store *cache.Store
	if cfg.CachePath != "" {
		s, err := cache.Open(cfg.CachePath, log)
		if err != nil {
			log.Warn().Err(err).Msg("cache unavailable, analyzing without it")
		} else {
			store = s
			defer store.Close()
		}
	}

	var key []byte
	if store != nil {
		key = cache.KeyLines(lines)
		if res, ok := store.Get(key); ok {
			log.Debug().Msg("result cache hit")
			return res, true
		}
	}

	analyzer := analysis.NewAnalyzer(log, resolveWorkers(cfg.Workers, len(lines)) > 1)
	res, err := analyzer.AnalyzeLines(lines)
	if err != nil {
		// Extractor panics are contained; whatever the others produced
		// is still worth reporting.
		log.Warn().Err(err).Msg("some extractors failed, report may be incomplete")
	}

	if store != nil && err == nil {
		if err := store.Put(key, res); err != nil {
			log.Warn().Err(err).Msg("caching results failed")
		}
	}
	return res, false
}

// renderReport writes the selected output format to stdout (or --out),
// plus the HTML report file when requested.
func renderReport(res analysis.Results, info output.ReportInfo, sections []string) error {
	var w io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch {
	case jsonFlag:
		if err := output.ExportJSON(w, res, info, sections); err != nil {
			return fmt.Errorf("writing JSON: %w", err)
		}
	case mdFlag:
		if err := output.ExportMarkdown(w, res, info, sections); err != nil {
			return fmt.Errorf("writing Markdown: %w", err)
		}
	default:
		printProcessingSummary(w, info)
		output.PrintReport(w, res, info, sections)
	}

	if htmlPath != "" {
		f, err := os.Create(htmlPath)
		if err != nil {
			return fmt.Errorf("creating HTML report: %w", err)
		}
		defer f.Close()
		if err := output.ExportHTML(f, res, info); err != nil {
			return fmt.Errorf("writing HTML report: %w", err)
		}
	}
	return nil
}

// exportClickHouse pushes the run's series and metadata to the configured
// ClickHouse instance.
func exportClickHouse(ctx context.Context, cfg *config.Config, runID, source string, res analysis.Results, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := clickhouse.Connect(ctx,
		cfg.ClickHouse.Addr, cfg.ClickHouse.Database,
		cfg.ClickHouse.Username, cfg.ClickHouse.Password, log)
	if err != nil {
		log.Fatal().Err(err).Msg("clickhouse connection failed")
	}
	defer client.Close()

	if err := client.ExportRun(ctx, runID, source, res); err != nil {
		log.Fatal().Err(err).Msg("clickhouse export failed")
	}
	log.Info().Str("addr", cfg.ClickHouse.Addr).Msg("results exported to clickhouse")
}

// buildSectionList translates section flags into the section names the
// renderers understand. No flags means everything.
func buildSectionList() []string {
	var sections []string
	if summaryFlag {
		sections = append(sections, "summary")
	}
	if gcFlag {
		sections = append(sections, "gc")
	}
	if poolsFlag {
		sections = append(sections, "threadpools")
	}
	if tombstonesFlag {
		sections = append(sections, "tombstones")
	}
	if slowReadsFlag {
		sections = append(sections, "slowreads")
	}
	if len(sections) == 0 {
		sections = append(sections, "all")
	}
	return sections
}

// buildLogFilters assembles the line filters from the time and grep flags.
func buildLogFilters() (parser.LogFilters, error) {
	begin, end, err := parseTimeFlags()
	if err != nil {
		return parser.LogFilters{}, err
	}
	return parser.LogFilters{
		BeginT:   begin,
		EndT:     end,
		GrepExpr: grepFilter,
	}, nil
}

// printProcessingSummary displays a summary line showing processing
// statistics ahead of the text report.
func printProcessingSummary(w io.Writer, info output.ReportInfo) {
	fmt.Fprintf(w, "sma – %d lines processed in %.2f s (%s)\n",
		info.Lines, info.ParseTimeMs/1000, formatBytes(info.Bytes))
}

// formatBytes converts a byte count to a human-readable string (KB, MB, GB, etc).
func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%dB", b)
	}

	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%cB", float64(b)/float64(div), "kMGTPE"[exp])
}

// sourceLabel names the run's input for reports and exports.
func sourceLabel(args []string) string {
	switch len(args) {
	case 0:
		return "-"
	case 1:
		return args[0]
	default:
		return fmt.Sprintf("%s (+%d more)", args[0], len(args)-1)
	}
}

// totalBytes sums the decompressed size of everything that was scanned.
func totalBytes(files []parser.FileInfo) int64 {
	var total int64
	for _, f := range files {
		total += f.Bytes
	}
	return total
}

// logLevelMix logs how many lines of each log level the input contains,
// plus the count of lines with no recognizable prefix.
func logLevelMix(log zerolog.Logger, lines []string) {
	counts := map[string]int{}
	unparsed := 0
	for _, line := range lines {
		if p, ok := parser.SplitPrefix(line); ok {
			counts[p.Level]++
		} else {
			unparsed++
		}
	}
	ev := log.Debug().Int("unparsed", unparsed)
	for level, n := range counts {
		ev = ev.Int(level, n)
	}
	ev.Msg("input level mix")
}
