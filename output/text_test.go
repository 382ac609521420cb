package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pranjalkishor/Support-Metrics-Analyzer-sub000/analysis"
)

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	info := ReportInfo{
		RunID:       "run-1",
		Source:      "system.log",
		Files:       2,
		Lines:       1234,
		Bytes:       2048,
		ParseTimeMs: 12,
	}
	PrintReport(&buf, testResults(), info, []string{"all"})
	out := buf.String()

	for _, want := range []string{
		"SUMMARY",
		"Run ID",
		"run-1",
		"system.log",
		"1,234",
		"2.00 KB",
		"GC PAUSES",
		"Pause events",
		"Total pause time",
		"600 ms",
		"G1 Young Generation",
		"Pause distribution:",
		"■",
		"THREAD POOLS",
		"Busiest pools:",
		"CompactionExecutor",
		"99,022",
		"TOMBSTONES",
		"Tombstone warnings",
		"ks.events",
		"SLOW READS",
		"Timed-out reads",
		"md-1-big-Data.db",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestPrintReportEmptyResults(t *testing.T) {
	var buf bytes.Buffer
	PrintReport(&buf, analysis.Results{}, ReportInfo{Lines: 10}, []string{"all"})
	out := buf.String()

	for _, want := range []string{
		"No GC pause events found.",
		"No thread pool status lines found.",
		"No tombstone warnings found.",
		"No timed-out reads found.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("empty report missing %q:\n%s", want, out)
		}
	}
}

func TestPrintReportSectionFilter(t *testing.T) {
	var buf bytes.Buffer
	PrintReport(&buf, testResults(), ReportInfo{Lines: 10}, []string{"gc"})
	out := buf.String()

	if !strings.Contains(out, "GC PAUSES") {
		t.Errorf("gc section missing:\n%s", out)
	}
	for _, unwanted := range []string{"SUMMARY", "THREAD POOLS", "TOMBSTONES", "SLOW READS"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("section %q should be filtered out:\n%s", unwanted, out)
		}
	}
}

func TestPrintTombstoneQueriesTruncatesLongQueries(t *testing.T) {
	long := "SELECT " + strings.Repeat("column_name, ", 60) + "id FROM ks.wide_table WHERE partition = ?"
	queries := []analysis.TombstoneQuery{
		{QueryID: "abc", Query: long, Table: "ks.wide_table", LiveRows: 10, Tombstones: 90, Ratio: 0.9},
	}

	var buf bytes.Buffer
	printTombstoneQueries(&buf, queries, 20)
	out := buf.String()

	if !strings.Contains(out, "ks.wide_table") {
		t.Fatalf("table name missing:\n%s", out)
	}
	if strings.Contains(out, long) {
		t.Error("long query should have been truncated")
	}
}

func TestTruncateQuery(t *testing.T) {
	if got := truncateQuery("short", 40); got != "short" {
		t.Errorf("short query altered: %q", got)
	}
	long := strings.Repeat("x", 50)
	got := truncateQuery(long, 40)
	if len(got) != 40 {
		t.Errorf("truncated length = %d, want 40", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncation marker missing: %q", got)
	}
	if got := truncateQuery(long, 3); got != long {
		t.Errorf("width 3 should not truncate, got %q", got)
	}
}

func TestPrintTombstoneQueriesLimit(t *testing.T) {
	queries := make([]analysis.TombstoneQuery, 5)
	for i := range queries {
		queries[i] = analysis.TombstoneQuery{Query: "SELECT 1", Table: "ks.t", Tombstones: i}
	}

	var buf bytes.Buffer
	printTombstoneQueries(&buf, queries, 2)

	// header + separator + two rows
	lines := strings.Count(strings.TrimRight(buf.String(), "\n"), "\n") + 1
	if lines != 4 {
		t.Errorf("got %d lines, want 4:\n%s", lines, buf.String())
	}
}
