package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pranjalkishor/Support-Metrics-Analyzer-sub000/analysis"
)

func TestExportMarkdown(t *testing.T) {
	var buf bytes.Buffer
	info := ReportInfo{RunID: "run-1", Source: "system.log", Files: 2, Lines: 1234, Bytes: 2048}
	if err := ExportMarkdown(&buf, testResults(), info, []string{"all"}); err != nil {
		t.Fatalf("ExportMarkdown: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"## SUMMARY",
		"**1,234** log lines",
		"## GC PAUSES",
		"### Collectors",
		"### Pause distribution",
		"### Pause load over time",
		"```",
		"■",
		"## THREAD POOLS",
		"| CompactionExecutor |",
		"## TOMBSTONES",
		"| ks.events |",
		"## SLOW READS",
		"| md-1-big-Data.db | 5 |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestExportMarkdownSectionFilter(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportMarkdown(&buf, testResults(), ReportInfo{Lines: 10}, []string{"summary"}); err != nil {
		t.Fatalf("ExportMarkdown: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "## SUMMARY") {
		t.Error("summary section missing")
	}
	for _, notWant := range []string{"## GC PAUSES", "## THREAD POOLS", "## TOMBSTONES", "## SLOW READS"} {
		if strings.Contains(out, notWant) {
			t.Errorf("filtered export should not contain %q", notWant)
		}
	}
}

func TestExportMarkdownEscapesPipes(t *testing.T) {
	res := testResults()
	res.Tombstones.Metadata[analysis.MetaQueryData] = []analysis.TombstoneQuery{
		{Query: "SELECT a || b FROM ks.t", Table: "ks.t", Tombstones: 1, Ratio: 0.5},
	}

	var buf bytes.Buffer
	if err := ExportMarkdown(&buf, res, ReportInfo{}, []string{"tombstones"}); err != nil {
		t.Fatalf("ExportMarkdown: %v", err)
	}
	if !strings.Contains(buf.String(), `\|\|`) {
		t.Error("pipe characters in query text should be escaped for markdown tables")
	}
}

func TestExportMarkdownEmptyResults(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportMarkdown(&buf, analysis.Results{}, ReportInfo{}, []string{"all"}); err != nil {
		t.Fatalf("ExportMarkdown on empty results: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "## SUMMARY") {
		t.Error("summary should always render")
	}
	if strings.Contains(out, "## GC PAUSES") {
		t.Error("empty gc section should be skipped")
	}
}
