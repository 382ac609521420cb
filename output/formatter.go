// Package output renders extraction results as terminal text, JSON,
// Markdown and self-contained HTML reports.
package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/pranjalkishor/Support-Metrics-Analyzer-sub000/analysis"
)

// ReportInfo carries run metadata shared by every report format.
type ReportInfo struct {
	RunID       string
	Source      string
	Files       int
	Lines       int
	Bytes       int64
	ParseTimeMs float64
	Version     string
}

// formatBytes converts a size in bytes into a readable string (TB, GB, MB, KB or B).
func formatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
		TB = 1024 * GB
	)
	switch {
	case bytes >= TB:
		return fmt.Sprintf("%.2f TB", float64(bytes)/float64(TB))
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// formatMillis renders a millisecond quantity with a unit that keeps the
// number small: plain ms below one second, seconds above.
func formatMillis(ms float64) string {
	if ms < 1000 {
		return fmt.Sprintf("%.0f ms", ms)
	}
	return fmt.Sprintf("%.2f s", ms/1000)
}

func formatIntWithCommas(n int64) string {
	s := fmt.Sprintf("%d", n)
	if n < 0 {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	res := strings.Join(parts, ",")
	if n < 0 {
		res = "-" + res
	}
	return res
}

func humanDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("2 Jan 2006, 15:04 (MST)")
}

func humanDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	s := int64(d / time.Second)
	days := s / 86400
	s -= days * 86400
	hours := s / 3600
	s -= hours * 3600
	minutes := s / 60
	secs := s - minutes*60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if secs > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%ds", secs))
	}
	return strings.Join(parts, " ")
}

// resultsWindow returns the earliest and latest timestamp across every
// section's time axis. Zero times when no section produced data.
func resultsWindow(res analysis.Results) (time.Time, time.Time) {
	var start, end time.Time
	for _, sec := range res.Sections() {
		ts := sec.Series.Timestamps
		if len(ts) == 0 {
			continue
		}
		if start.IsZero() || ts[0].Before(start) {
			start = ts[0]
		}
		if last := ts[len(ts)-1]; end.IsZero() || last.After(end) {
			end = last
		}
	}
	return start, end
}

// Metadata values are stored as `any`; the accessors below recover the
// concrete types the extractors put in and fall back to zero values when a
// key is absent, so formatters never have to branch on presence themselves.

func metaMap(ts analysis.ParsedTimeSeries, key string) map[string]any {
	m, _ := ts.Metadata[key].(map[string]any)
	return m
}

func metaInt(ts analysis.ParsedTimeSeries, key string) int {
	switch v := ts.Metadata[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

func metaBool(ts analysis.ParsedTimeSeries, key string) bool {
	b, _ := ts.Metadata[key].(bool)
	return b
}

func metaString(ts analysis.ParsedTimeSeries, key string) string {
	s, _ := ts.Metadata[key].(string)
	return s
}

func metaStringSlice(ts analysis.ParsedTimeSeries, key string) []string {
	s, _ := ts.Metadata[key].([]string)
	return s
}

func metaIntMap(ts analysis.ParsedTimeSeries, key string) map[string]int {
	m, _ := ts.Metadata[key].(map[string]int)
	return m
}

func metaEntityCounts(ts analysis.ParsedTimeSeries, key string) []analysis.EntityCount {
	e, _ := ts.Metadata[key].([]analysis.EntityCount)
	return e
}

func metaTombstoneQueries(ts analysis.ParsedTimeSeries) []analysis.TombstoneQuery {
	q, _ := ts.Metadata[analysis.MetaQueryData].([]analysis.TombstoneQuery)
	return q
}

func metaTableTombstones(ts analysis.ParsedTimeSeries) []analysis.TableTombstones {
	t, _ := ts.Metadata[analysis.MetaTableStats].([]analysis.TableTombstones)
	return t
}

// numField reads a numeric entry out of a map[string]any regardless of
// whether it was stored as int or float64.
func numField(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// seriesSum totals every value of one named series.
func seriesSum(ts analysis.ParsedTimeSeries, name string) float64 {
	var sum float64
	for _, v := range ts.Series[name] {
		sum += v
	}
	return sum
}

// seriesPeak returns the maximum value of one named series.
func seriesPeak(ts analysis.ParsedTimeSeries, name string) float64 {
	var peak float64
	for _, v := range ts.Series[name] {
		if v > peak {
			peak = v
		}
	}
	return peak
}
