package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pranjalkishor/Support-Metrics-Analyzer-sub000/analysis"
)

// SummaryJSON describes the run and the observation window.
type SummaryJSON struct {
	RunID       string  `json:"run_id,omitempty"`
	Source      string  `json:"source,omitempty"`
	Files       int     `json:"files,omitempty"`
	Lines       int     `json:"lines"`
	InputBytes  int64   `json:"input_bytes,omitempty"`
	InputSize   string  `json:"input_size,omitempty"`
	Start       string  `json:"start,omitempty"`
	End         string  `json:"end,omitempty"`
	Duration    string  `json:"duration,omitempty"`
	ParseTimeMs float64 `json:"parse_time_ms,omitempty"`
	Version     string  `json:"version,omitempty"`
}

// GCStatsJSON summarizes collector pause behavior.
type GCStatsJSON struct {
	Events          int     `json:"events"`
	EstimatedEvents int     `json:"estimated_events,omitempty"`
	MinMs           float64 `json:"min_ms"`
	MaxMs           float64 `json:"max_ms"`
	AvgMs           float64 `json:"avg_ms"`
	MedianMs        float64 `json:"median_ms"`
	TotalMs         float64 `json:"total_ms"`
}

// GCJSON is the gc section of the export.
type GCJSON struct {
	Stats        GCStatsJSON              `json:"stats"`
	Distribution map[string]int           `json:"distribution,omitempty"`
	Collectors   []analysis.EntityCount   `json:"collectors,omitempty"`
	RuleHits     map[string]int           `json:"rule_hits,omitempty"`
	Series       analysis.ParsedTimeSeries `json:"series"`
}

// ThreadPoolsJSON is the threadpools section of the export.
type ThreadPoolsJSON struct {
	Layout   string                    `json:"layout,omitempty"`
	Pools    []string                  `json:"pools"`
	Metrics  map[string][]string       `json:"metrics,omitempty"`
	Degraded bool                      `json:"degraded,omitempty"`
	Series   analysis.ParsedTimeSeries `json:"series"`
}

// TombstonesJSON is the tombstones section of the export.
type TombstonesJSON struct {
	Warnings int                        `json:"warnings"`
	Cells    int                        `json:"cells"`
	Queries  []analysis.TombstoneQuery  `json:"queries,omitempty"`
	Tables   []analysis.TableTombstones `json:"tables,omitempty"`
	Series   analysis.ParsedTimeSeries  `json:"series"`
}

// SlowReadsJSON is the slowreads section of the export.
type SlowReadsJSON struct {
	Total  int                       `json:"total"`
	Files  []analysis.EntityCount    `json:"files,omitempty"`
	Series analysis.ParsedTimeSeries `json:"series"`
}

// buildJSONData assembles the export structure shared by the JSON and HTML
// formats. Sections absent from the filter are left out entirely.
func buildJSONData(res analysis.Results, info ReportInfo, sections []string) map[string]any {
	has := func(name string) bool {
		for _, s := range sections {
			if s == name || s == "all" {
				return true
			}
		}
		return false
	}

	data := make(map[string]any)

	if has("summary") {
		start, end := resultsWindow(res)
		summary := SummaryJSON{
			RunID:       info.RunID,
			Source:      info.Source,
			Files:       info.Files,
			Lines:       info.Lines,
			InputBytes:  info.Bytes,
			ParseTimeMs: info.ParseTimeMs,
			Version:     info.Version,
		}
		if info.Bytes > 0 {
			summary.InputSize = formatBytes(info.Bytes)
		}
		if !start.IsZero() {
			summary.Start = start.Format("2006-01-02 15:04:05")
			summary.End = end.Format("2006-01-02 15:04:05")
			summary.Duration = end.Sub(start).String()
		}
		data["summary"] = summary
	}

	if has("gc") {
		stats := metaMap(res.GC, "pauseStats")
		data["gc"] = GCJSON{
			Stats: GCStatsJSON{
				Events:          int(numField(stats, "count")),
				EstimatedEvents: metaInt(res.GC, "estimatedEvents"),
				MinMs:           numField(stats, "minMs"),
				MaxMs:           numField(stats, "maxMs"),
				AvgMs:           numField(stats, "avgMs"),
				MedianMs:        numField(stats, "medianMs"),
				TotalMs:         numField(stats, "totalMs"),
			},
			Distribution: metaIntMap(res.GC, "pauseDistribution"),
			Collectors:   metaEntityCounts(res.GC, "collectors"),
			RuleHits:     metaIntMap(res.GC, "ruleHits"),
			Series:       res.GC,
		}
	}

	if has("threadpools") {
		pools := metaStringSlice(res.ThreadPools, analysis.MetaThreadPools)
		metrics, _ := res.ThreadPools.Metadata[analysis.MetaPoolMetrics].(map[string][]string)
		data["threadpools"] = ThreadPoolsJSON{
			Layout:   metaString(res.ThreadPools, analysis.MetaPoolLayout),
			Pools:    pools,
			Metrics:  metrics,
			Degraded: metaBool(res.ThreadPools, analysis.MetaDegraded),
			Series:   res.ThreadPools,
		}
	}

	if has("tombstones") {
		tables := metaTableTombstones(res.Tombstones)
		warnings := 0
		cells := 0
		for _, t := range tables {
			warnings += t.Queries
			cells += t.Tombstones
		}
		data["tombstones"] = TombstonesJSON{
			Warnings: warnings,
			Cells:    cells,
			Queries:  metaTombstoneQueries(res.Tombstones),
			Tables:   tables,
			Series:   res.Tombstones,
		}
	}

	if has("slowreads") {
		data["slowreads"] = SlowReadsJSON{
			Total:  int(seriesSum(res.SlowReads, analysis.SeriesSlowReads)),
			Files:  metaEntityCounts(res.SlowReads, analysis.MetaFileCounts),
			Series: res.SlowReads,
		}
	}

	return data
}

// ExportJSON writes the selected sections as indented JSON.
func ExportJSON(w io.Writer, res analysis.Results, info ReportInfo, sections []string) error {
	data := buildJSONData(res, info, sections)

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to export JSON: %w", err)
	}
	out = append(out, '\n')
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}
