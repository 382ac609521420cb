package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/pranjalkishor/Support-Metrics-Analyzer-sub000/analysis"
)

// ExportMarkdown produces a comprehensive markdown report.
// Reuses the histogram computation shared with the text report.
func ExportMarkdown(w io.Writer, res analysis.Results, info ReportInfo, sections []string) error {
	has := func(name string) bool {
		for _, s := range sections {
			if s == name || s == "all" {
				return true
			}
		}
		return false
	}

	var b strings.Builder
	start, end := resultsWindow(res)
	duration := end.Sub(start)

	// ============================================================================
	// SUMMARY
	// ============================================================================
	if has("summary") {
		b.WriteString("## SUMMARY\n\n")
		b.WriteString(fmt.Sprintf("This _sma_ report covers **%s** log lines collected between %s — %s, spanning %s of activity.\n\n",
			formatIntWithCommas(int64(info.Lines)),
			humanDate(start),
			humanDate(end),
			humanDuration(duration),
		))
		if info.Source != "" {
			b.WriteString("|  |  |\n|---|---|\n")
			b.WriteString(fmt.Sprintf("| Source | %s |\n", info.Source))
			if info.Files > 0 {
				b.WriteString(fmt.Sprintf("| Files | %d |\n", info.Files))
			}
			if info.Bytes > 0 {
				b.WriteString(fmt.Sprintf("| Input size | %s |\n", formatBytes(info.Bytes)))
			}
			if info.RunID != "" {
				b.WriteString(fmt.Sprintf("| Run ID | %s |\n", info.RunID))
			}
			b.WriteString("\n")
		}
	}

	// ============================================================================
	// GC PAUSES
	// ============================================================================
	stats := metaMap(res.GC, "pauseStats")
	if has("gc") && int(numField(stats, "count")) > 0 {
		b.WriteString("## GC PAUSES\n\n")
		b.WriteString("|  |  |\n|---|---|\n")
		b.WriteString(fmt.Sprintf("| Pause events | %d |\n", int(numField(stats, "count"))))
		b.WriteString(fmt.Sprintf("| Min pause | %s |\n", formatMillis(numField(stats, "minMs"))))
		b.WriteString(fmt.Sprintf("| Max pause | %s |\n", formatMillis(numField(stats, "maxMs"))))
		b.WriteString(fmt.Sprintf("| Avg pause | %s |\n", formatMillis(numField(stats, "avgMs"))))
		b.WriteString(fmt.Sprintf("| Median pause | %s |\n", formatMillis(numField(stats, "medianMs"))))
		b.WriteString(fmt.Sprintf("| Total pause time | %s |\n\n", formatMillis(numField(stats, "totalMs"))))

		if collectors := metaEntityCounts(res.GC, "collectors"); len(collectors) > 0 {
			b.WriteString("### Collectors\n\n")
			b.WriteString("| Collector | Events |\n|---|---:|\n")
			for _, c := range collectors {
				b.WriteString(fmt.Sprintf("| %s | %d |\n", c.Name, c.Count))
			}
			b.WriteString("\n")
		}

		if dist, labels, scale := pauseDistributionHistogram(res.GC); len(dist) > 0 {
			printHistogramMarkdown(&b, dist, "Pause distribution", "pauses", scale, labels)
		}
		if load, labels, unit, scale := computePauseLoadHistogram(res.GC); len(load) > 0 {
			printHistogramMarkdown(&b, load, "Pause load over time", unit, scale, labels)
		}
	}

	// ============================================================================
	// THREAD POOLS
	// ============================================================================
	pools := metaStringSlice(res.ThreadPools, analysis.MetaThreadPools)
	if has("threadpools") && len(pools) > 0 {
		b.WriteString("## THREAD POOLS\n\n")
		if layout := metaString(res.ThreadPools, analysis.MetaPoolLayout); layout != "" {
			b.WriteString(fmt.Sprintf("%d pools reported in the `%s` status line layout.\n\n", len(pools), layout))
		}
		b.WriteString("| Pool | Peak pending | Peak active | Peak blocked | Completed |\n")
		b.WriteString("|---|---:|---:|---:|---:|\n")
		for _, pool := range pools {
			b.WriteString(fmt.Sprintf("| %s | %.0f | %.0f | %.0f | %s |\n",
				pool,
				seriesPeak(res.ThreadPools, analysis.PoolSeries(pool, "Pending")),
				seriesPeak(res.ThreadPools, analysis.PoolSeries(pool, "Active")),
				seriesPeak(res.ThreadPools, analysis.PoolSeries(pool, "Blocked")),
				formatIntWithCommas(int64(seriesPeak(res.ThreadPools, analysis.PoolSeries(pool, "Completed")))),
			))
		}
		b.WriteString("\n")
	}

	// ============================================================================
	// TOMBSTONES
	// ============================================================================
	tables := metaTableTombstones(res.Tombstones)
	queries := metaTombstoneQueries(res.Tombstones)
	if has("tombstones") && (len(tables) > 0 || len(queries) > 0) {
		b.WriteString("## TOMBSTONES\n\n")

		if len(tables) > 0 {
			b.WriteString("### Tables\n\n")
			b.WriteString("| Table | Tombstones | Live rows | Queries |\n|---|---:|---:|---:|\n")
			for _, t := range tables {
				b.WriteString(fmt.Sprintf("| %s | %s | %s | %d |\n",
					t.Table, formatIntWithCommas(int64(t.Tombstones)), formatIntWithCommas(int64(t.LiveRows)), t.Queries))
			}
			b.WriteString("\n")
		}

		if len(queries) > 0 {
			b.WriteString("### Worst queries\n\n")
			b.WriteString("| ID | Table | Tombstones | Live | Ratio | Query |\n|---|---|---:|---:|---:|---|\n")
			for _, q := range queries {
				b.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %.2f | `%s` |\n",
					q.QueryID, q.Table,
					formatIntWithCommas(int64(q.Tombstones)), formatIntWithCommas(int64(q.LiveRows)),
					q.Ratio, strings.ReplaceAll(q.Query, "|", "\\|")))
			}
			b.WriteString("\n")
		}
	}

	// ============================================================================
	// SLOW READS
	// ============================================================================
	total := int(seriesSum(res.SlowReads, analysis.SeriesSlowReads))
	if has("slowreads") && total > 0 {
		b.WriteString("## SLOW READS\n\n")
		b.WriteString(fmt.Sprintf("**%s** reads timed out during the observation window.\n\n", formatIntWithCommas(int64(total))))
		if files := metaEntityCounts(res.SlowReads, analysis.MetaFileCounts); len(files) > 0 {
			b.WriteString("| Data file | Timeouts |\n|---|---:|\n")
			for _, f := range files {
				b.WriteString(fmt.Sprintf("| %s | %d |\n", f.Name, f.Count))
			}
			b.WriteString("\n")
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write markdown: %w", err)
	}
	return nil
}
