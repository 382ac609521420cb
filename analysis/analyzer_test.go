package analysis

import (
	"strings"
	"testing"
)

var mixedDocument = strings.Join([]string{
	"INFO  [main] 2020-03-30 11:48:00,000 CassandraDaemon.java:650 - Startup complete",
	"INFO  [Service Thread] 2020-03-30 11:48:35,411 GCInspector.java:284 - ParNew GC in 345ms.  CMS Old Gen: 489 -> 490;",
	"INFO  [Service Thread] 2020-03-30 11:48:35,535 StatusLogger.java:47 - Pool Name                    Active   Pending      Completed   Blocked  All Time Blocked",
	"INFO  [Service Thread] 2020-03-30 11:48:35,541 StatusLogger.java:51 - MutationStage                     2         5          21155         0                 0",
	"INFO  [Service Thread] 2020-03-30 11:48:35,549 StatusLogger.java:51 - CompactionExecutor                2         0          99022         0                 0",
	"WARN  [ReadStage-2] 2020-03-30 11:49:00,100 ReadCommand.java:520 - Read 0 live rows and 50 tombstone cells for query SELECT * FROM ks.events LIMIT 100 (see tombstone_warn_threshold)",
	"WARN  [CoreThread-5] 2020-03-30 11:49:11,107 NoSpamLogger.java:97 - Timed out async read from AsyncPartitionReader for file /data/ks/events-1/aa-1-bti-Data.db",
	"this line is garbage and must not abort anything",
}, "\n") + "\n"

func checkMixedResults(t *testing.T, res Results) {
	t.Helper()

	if len(res.GC.Timestamps) != 1 {
		t.Errorf("gc events = %d, want 1", len(res.GC.Timestamps))
	}
	if got := res.GC.Series[SeriesGCDuration][0]; got != 345 {
		t.Errorf("gc duration = %v, want 345", got)
	}

	if len(res.ThreadPools.Timestamps) != 1 {
		t.Errorf("pool reports = %d, want 1", len(res.ThreadPools.Timestamps))
	}
	if got := res.ThreadPools.Series["CompactionExecutor: Active"][0]; got != 2 {
		t.Errorf("CompactionExecutor Active = %v, want 2", got)
	}
	if got := res.ThreadPools.Series["CompactionExecutor: Completed"][0]; got != 99022 {
		t.Errorf("CompactionExecutor Completed = %v, want 99022", got)
	}

	if got := res.Tombstones.Series[SeriesTombstoneRatio][0]; got != 1.0 {
		t.Errorf("tombstone ratio = %v, want 1.0", got)
	}
	if got := res.SlowReads.Series[SeriesSlowReads][0]; got != 1 {
		t.Errorf("slow reads = %v, want 1", got)
	}
}

func TestAnalyzerSequential(t *testing.T) {
	res, err := NewAnalyzer(testLogger(), false).Analyze(mixedDocument)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	checkMixedResults(t, res)
}

func TestAnalyzerParallelMatchesSequential(t *testing.T) {
	res, err := NewAnalyzer(testLogger(), true).Analyze(mixedDocument)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	checkMixedResults(t, res)
}

func TestAnalyzerEmptyInput(t *testing.T) {
	res, err := NewAnalyzer(testLogger(), false).Analyze("")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	for name, pts := range map[string]ParsedTimeSeries{
		"gc":          res.GC,
		"threadPools": res.ThreadPools,
		"tombstones":  res.Tombstones,
		"slowReads":   res.SlowReads,
	} {
		if pts.Timestamps == nil || pts.Series == nil || pts.Metadata == nil {
			t.Errorf("%s: empty input must still produce non-nil containers", name)
		}
		if !pts.Empty() {
			t.Errorf("%s: empty input produced %d events", name, len(pts.Timestamps))
		}
	}
}

type panickingExtractor struct{}

func (panickingExtractor) Name() string { return "boom" }

func (panickingExtractor) Extract([]string) ParsedTimeSeries { panic("kaboom") }

func TestAnalyzerContainsExtractorPanic(t *testing.T) {
	a := NewAnalyzer(testLogger(), false)
	a.gc = panickingExtractor{}

	res, err := a.Analyze(mixedDocument)
	if err == nil {
		t.Fatal("expected error from panicking extractor")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("error %q does not name the failed extractor", err)
	}

	// The failed concern is empty, the others are intact.
	if !res.GC.Empty() || res.GC.Series == nil {
		t.Error("failed extractor must yield a well-formed empty result")
	}
	if got := res.ThreadPools.Series["CompactionExecutor: Completed"][0]; got != 99022 {
		t.Errorf("surviving extractor lost data: %v", got)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a\nb\nc", []string{"a", "b", "c"}},
		{"a\r\nb\r\n", []string{"a", "b"}},
		{"single", []string{"single"}},
		{"", nil},
		{"\n", []string{""}},
	}
	for _, tt := range tests {
		got := SplitLines(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("SplitLines(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("SplitLines(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}
