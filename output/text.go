package output

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pranjalkishor/Support-Metrics-Analyzer-sub000/analysis"
	"golang.org/x/term"
)

// PrintReport writes the aggregated extraction results as a sectioned
// terminal report. Sections absent from the filter are skipped.
func PrintReport(w io.Writer, res analysis.Results, info ReportInfo, sections []string) {
	has := func(name string) bool {
		for _, s := range sections {
			if s == name || s == "all" {
				return true
			}
		}
		return false
	}

	// ANSI style for bold text.
	bold := "\033[1m"
	reset := "\033[0m"

	if has("summary") {
		printSummarySection(w, res, info, bold, reset)
	}
	if has("gc") {
		printGCSection(w, res.GC, bold, reset)
	}
	if has("threadpools") {
		printThreadPoolSection(w, res.ThreadPools, bold, reset)
	}
	if has("tombstones") {
		printTombstoneSection(w, res.Tombstones, bold, reset)
	}
	if has("slowreads") {
		printSlowReadSection(w, res.SlowReads, bold, reset)
	}
}

func printSummarySection(w io.Writer, res analysis.Results, info ReportInfo, bold, reset string) {
	start, end := resultsWindow(res)

	fmt.Fprintln(w, bold+"\nSUMMARY\n"+reset)
	if info.RunID != "" {
		fmt.Fprintf(w, "  %-25s : %s\n", "Run ID", info.RunID)
	}
	if info.Source != "" {
		fmt.Fprintf(w, "  %-25s : %s\n", "Source", info.Source)
	}
	if info.Files > 0 {
		fmt.Fprintf(w, "  %-25s : %d\n", "Files parsed", info.Files)
	}
	fmt.Fprintf(w, "  %-25s : %s\n", "Lines read", formatIntWithCommas(int64(info.Lines)))
	if info.Bytes > 0 {
		fmt.Fprintf(w, "  %-25s : %s\n", "Input size", formatBytes(info.Bytes))
	}
	if info.ParseTimeMs > 0 {
		fmt.Fprintf(w, "  %-25s : %s\n", "Parse time", formatMillis(info.ParseTimeMs))
	}
	if !start.IsZero() {
		fmt.Fprintf(w, "  %-25s : %s\n", "Start date", start.Format("2006-01-02 15:04:05 MST"))
		fmt.Fprintf(w, "  %-25s : %s\n", "End date", end.Format("2006-01-02 15:04:05 MST"))
		fmt.Fprintf(w, "  %-25s : %s\n", "Duration", end.Sub(start))
	}
}

func printGCSection(w io.Writer, gc analysis.ParsedTimeSeries, bold, reset string) {
	fmt.Fprintln(w, bold+"\nGC PAUSES\n"+reset)

	stats := metaMap(gc, "pauseStats")
	count := int(numField(stats, "count"))
	if count == 0 {
		fmt.Fprintln(w, "  No GC pause events found.")
		return
	}

	fmt.Fprintf(w, "  %-25s : %d\n", "Pause events", count)
	fmt.Fprintf(w, "  %-25s : %s\n", "Min pause", formatMillis(numField(stats, "minMs")))
	fmt.Fprintf(w, "  %-25s : %s\n", "Max pause", formatMillis(numField(stats, "maxMs")))
	fmt.Fprintf(w, "  %-25s : %s\n", "Avg pause", formatMillis(numField(stats, "avgMs")))
	fmt.Fprintf(w, "  %-25s : %s\n", "Median pause", formatMillis(numField(stats, "medianMs")))
	fmt.Fprintf(w, "  %-25s : %s\n", "Total pause time", formatMillis(numField(stats, "totalMs")))
	if est := metaInt(gc, "estimatedEvents"); est > 0 {
		fmt.Fprintf(w, "  %-25s : %d\n", "Estimated timestamps", est)
	}

	if collectors := metaEntityCounts(gc, "collectors"); len(collectors) > 0 {
		fmt.Fprintln(w, "  Collectors:")
		printTopEntities(w, collectors, count)
	}

	if dist, labels, scale := pauseDistributionHistogram(gc); len(dist) > 0 {
		fmt.Fprintln(w, "  Pause distribution:")
		writeHistogramRows(w, "    ", dist, labels, "pauses", scale)
	}
}

func printThreadPoolSection(w io.Writer, tp analysis.ParsedTimeSeries, bold, reset string) {
	fmt.Fprintln(w, bold+"\nTHREAD POOLS\n"+reset)

	pools := metaStringSlice(tp, analysis.MetaThreadPools)
	if len(pools) == 0 {
		fmt.Fprintln(w, "  No thread pool status lines found.")
		return
	}

	fmt.Fprintf(w, "  %-25s : %d\n", "Pools discovered", len(pools))
	if layout := metaString(tp, analysis.MetaPoolLayout); layout != "" {
		fmt.Fprintf(w, "  %-25s : %s\n", "Status line layout", layout)
	}
	if metaBool(tp, analysis.MetaDegraded) {
		fmt.Fprintf(w, "  %-25s : %s\n", "Degraded recovery", "status header missing, partial data")
	}

	fmt.Fprintln(w, "  Busiest pools:")
	printPoolTable(w, tp, pools, bold, reset)
}

// printPoolTable ranks pools by peak pending backlog and prints the key
// saturation numbers for the busiest ones.
func printPoolTable(w io.Writer, tp analysis.ParsedTimeSeries, pools []string, bold, reset string) {
	type poolRow struct {
		name      string
		pending   float64
		active    float64
		blocked   float64
		completed float64
	}

	rows := make([]poolRow, 0, len(pools))
	for _, pool := range pools {
		rows = append(rows, poolRow{
			name:      pool,
			pending:   seriesPeak(tp, analysis.PoolSeries(pool, "Pending")),
			active:    seriesPeak(tp, analysis.PoolSeries(pool, "Active")),
			blocked:   seriesPeak(tp, analysis.PoolSeries(pool, "Blocked")),
			completed: seriesPeak(tp, analysis.PoolSeries(pool, "Completed")),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].pending != rows[j].pending {
			return rows[i].pending > rows[j].pending
		}
		return rows[i].active > rows[j].active
	})
	if len(rows) > 10 {
		rows = rows[:10]
	}

	nameLen := len("Pool")
	for _, r := range rows {
		if len(r.name) > nameLen {
			nameLen = len(r.name)
		}
	}
	if tw, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		if nameLen > int(float64(tw)*0.4) {
			nameLen = int(float64(tw) * 0.4)
		}
	}

	fmt.Fprintf(w, "    %s%-*s %12s %12s %12s %14s%s\n",
		bold, nameLen, "Pool", "Peak pending", "Peak active", "Peak blocked", "Completed", reset)
	for _, r := range rows {
		fmt.Fprintf(w, "    %-*s %12.0f %12.0f %12.0f %14s\n",
			nameLen, r.name, r.pending, r.active, r.blocked, formatIntWithCommas(int64(r.completed)))
	}
}

func printTombstoneSection(w io.Writer, tb analysis.ParsedTimeSeries, bold, reset string) {
	fmt.Fprintln(w, bold+"\nTOMBSTONES\n"+reset)

	tables := metaTableTombstones(tb)
	queries := metaTombstoneQueries(tb)
	if len(tables) == 0 && len(queries) == 0 {
		fmt.Fprintln(w, "  No tombstone warnings found.")
		return
	}

	warnings := 0
	cells := 0
	for _, t := range tables {
		warnings += t.Queries
		cells += t.Tombstones
	}
	fmt.Fprintf(w, "  %-25s : %d\n", "Tombstone warnings", warnings)
	fmt.Fprintf(w, "  %-25s : %d\n", "Tables affected", len(tables))
	fmt.Fprintf(w, "  %-25s : %s\n", "Tombstone cells read", formatIntWithCommas(int64(cells)))

	if len(tables) > 0 {
		counts := make([]analysis.EntityCount, 0, len(tables))
		for _, t := range tables {
			counts = append(counts, analysis.EntityCount{Name: t.Table, Count: t.Tombstones})
		}
		fmt.Fprintln(w, "  Top tables by tombstones read:")
		printTopEntities(w, counts, cells)
	}

	if len(queries) > 0 {
		fmt.Fprintln(w, "  Worst queries:")
		printTombstoneQueries(w, queries, 20)
	}
}

func printSlowReadSection(w io.Writer, sr analysis.ParsedTimeSeries, bold, reset string) {
	fmt.Fprintln(w, bold+"\nSLOW READS\n"+reset)

	total := int(seriesSum(sr, analysis.SeriesSlowReads))
	if total == 0 {
		fmt.Fprintln(w, "  No timed-out reads found.")
		return
	}

	files := metaEntityCounts(sr, analysis.MetaFileCounts)
	fmt.Fprintf(w, "  %-25s : %d\n", "Timed-out reads", total)
	fmt.Fprintf(w, "  %-25s : %d\n", "Data files implicated", len(files))
	if len(files) > 0 {
		fmt.Fprintln(w, "  Hottest data files:")
		printTopEntities(w, files, total)
	}
}

// printTopEntities prints ranked name/count rows until they cover 80% of the
// total or ten rows, whichever comes first.
func printTopEntities(w io.Writer, entities []analysis.EntityCount, total int) {
	if total <= 0 {
		return
	}

	nameLen := 0
	for _, e := range entities {
		if l := len(e.Name); l > nameLen {
			nameLen = l
		}
	}
	if tw, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		if nameLen > int(float64(tw)*0.4) {
			nameLen = int(float64(tw) * 0.4)
		}
	}

	cum := 0
	n := 0
	for _, e := range entities {
		percentage := float64(e.Count) / float64(total) * 100
		cum += e.Count
		n++
		cumPercentage := float64(cum) / float64(total) * 100

		fmt.Fprintf(w, "    %-*s %6d %6.2f%%\n", nameLen, e.Name, e.Count, percentage)

		if cumPercentage >= 80 || n >= 10 {
			break
		}
	}
}
