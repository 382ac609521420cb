package output

import (
	"testing"
	"time"

	"github.com/pranjalkishor/Support-Metrics-Analyzer-sub000/analysis"
)

func ts(h, m int) time.Time {
	return time.Date(2024, 7, 1, h, m, 0, 0, time.UTC)
}

// testResults builds a small but fully populated result set used across the
// formatter tests.
func testResults() analysis.Results {
	return analysis.Results{
		GC: analysis.ParsedTimeSeries{
			Timestamps: []time.Time{ts(12, 0), ts(12, 10), ts(12, 20), ts(12, 30), ts(12, 40), ts(12, 50)},
			Series: map[string][]float64{
				analysis.SeriesGCDuration: {120, 240, 310, 95, 600, 150},
			},
			Metadata: map[string]any{
				"pauseStats": map[string]any{
					"count":    6,
					"minMs":    95.0,
					"maxMs":    600.0,
					"avgMs":    252.5,
					"medianMs": 195.0,
					"totalMs":  1515.0,
				},
				"pauseDistribution": map[string]int{
					"< 10ms":        0,
					"10ms - 50ms":   0,
					"50ms - 200ms":  3,
					"200ms - 500ms": 2,
					"500ms - 1s":    1,
					"> 1s":          0,
				},
				"collectors": []analysis.EntityCount{
					{Name: "G1 Young Generation", Count: 5},
					{Name: "G1 Old Generation", Count: 1},
				},
				"ruleHits":        map[string]int{"g1": 6},
				"estimatedEvents": 1,
			},
		},
		ThreadPools: analysis.ParsedTimeSeries{
			Timestamps: []time.Time{ts(12, 10), ts(12, 20)},
			Series: map[string][]float64{
				analysis.PoolSeries("CompactionExecutor", "Active"):    {2, 2},
				analysis.PoolSeries("CompactionExecutor", "Pending"):   {31, 4},
				analysis.PoolSeries("CompactionExecutor", "Completed"): {99000, 99022},
				analysis.PoolSeries("CompactionExecutor", "Blocked"):   {0, 0},
				analysis.PoolSeries("MutationStage", "Active"):         {8, 1},
				analysis.PoolSeries("MutationStage", "Pending"):        {0, 2},
				analysis.PoolSeries("MutationStage", "Completed"):      {120400, 128112},
				analysis.PoolSeries("MutationStage", "Blocked"):        {0, 1},
			},
			Metadata: map[string]any{
				analysis.MetaThreadPools: []string{"CompactionExecutor", "MutationStage"},
				analysis.MetaPoolLayout:  "modern",
				analysis.MetaPoolMetrics: map[string][]string{
					"CompactionExecutor": {"Active", "Pending", "Completed", "Blocked"},
					"MutationStage":      {"Active", "Pending", "Completed", "Blocked"},
				},
			},
		},
		Tombstones: analysis.ParsedTimeSeries{
			Timestamps: []time.Time{ts(12, 15)},
			Series: map[string][]float64{
				analysis.SeriesTombstoneCells: {50},
				analysis.SeriesTombstoneRatio: {1.0},
			},
			Metadata: map[string]any{
				analysis.MetaQueryData: []analysis.TombstoneQuery{
					{
						QueryID:    "8f2a1c",
						Query:      "SELECT * FROM ks.events WHERE id = ?",
						Table:      "ks.events",
						LiveRows:   0,
						Tombstones: 50,
						Ratio:      1.0,
					},
				},
				analysis.MetaTableStats: []analysis.TableTombstones{
					{Table: "ks.events", Tombstones: 50, LiveRows: 0, Queries: 1},
				},
			},
		},
		SlowReads: analysis.ParsedTimeSeries{
			Timestamps: []time.Time{ts(12, 5), ts(12, 55)},
			Series: map[string][]float64{
				analysis.SeriesSlowReads: {3, 2},
				"md-1-big-Data.db":       {3, 2},
			},
			Metadata: map[string]any{
				analysis.MetaFileCounts: []analysis.EntityCount{
					{Name: "md-1-big-Data.db", Count: 5},
				},
			},
		},
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{2048, "2.00 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
		{2 * 1024 * 1024 * 1024 * 1024, "2.00 TB"},
	}
	for _, tc := range tests {
		if got := formatBytes(tc.in); got != tc.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatMillis(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0 ms"},
		{250, "250 ms"},
		{999, "999 ms"},
		{1500, "1.50 s"},
		{61250, "61.25 s"},
	}
	for _, tc := range tests {
		if got := formatMillis(tc.in); got != tc.want {
			t.Errorf("formatMillis(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatIntWithCommas(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{99022, "99,022"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
	}
	for _, tc := range tests {
		if got := formatIntWithCommas(tc.in); got != tc.want {
			t.Errorf("formatIntWithCommas(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestHumanDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{45 * time.Second, "45s"},
		{90 * time.Minute, "1h 30m"},
		{26*time.Hour + 2*time.Second, "1d 2h 2s"},
	}
	for _, tc := range tests {
		if got := humanDuration(tc.in); got != tc.want {
			t.Errorf("humanDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResultsWindow(t *testing.T) {
	start, end := resultsWindow(testResults())
	if !start.Equal(ts(12, 0)) {
		t.Errorf("start = %v, want %v", start, ts(12, 0))
	}
	if !end.Equal(ts(12, 55)) {
		t.Errorf("end = %v, want %v", end, ts(12, 55))
	}

	start, end = resultsWindow(analysis.Results{})
	if !start.IsZero() || !end.IsZero() {
		t.Errorf("empty results window = %v..%v, want zero times", start, end)
	}
}

func TestMetaAccessorsMissingKeys(t *testing.T) {
	var empty analysis.ParsedTimeSeries

	if got := metaInt(empty, "nope"); got != 0 {
		t.Errorf("metaInt on empty series = %d, want 0", got)
	}
	if got := metaString(empty, "nope"); got != "" {
		t.Errorf("metaString on empty series = %q, want empty", got)
	}
	if got := metaStringSlice(empty, "nope"); len(got) != 0 {
		t.Errorf("metaStringSlice on empty series = %v, want empty", got)
	}
	if got := metaEntityCounts(empty, "nope"); len(got) != 0 {
		t.Errorf("metaEntityCounts on empty series = %v, want empty", got)
	}
	if got := numField(nil, "x"); got != 0 {
		t.Errorf("numField(nil) = %v, want 0", got)
	}
}

func TestSeriesHelpers(t *testing.T) {
	res := testResults()
	if got := seriesSum(res.SlowReads, analysis.SeriesSlowReads); got != 5 {
		t.Errorf("seriesSum = %v, want 5", got)
	}
	if got := seriesPeak(res.ThreadPools, analysis.PoolSeries("CompactionExecutor", "Pending")); got != 31 {
		t.Errorf("seriesPeak = %v, want 31", got)
	}
	if got := seriesPeak(res.ThreadPools, "missing series"); got != 0 {
		t.Errorf("seriesPeak missing = %v, want 0", got)
	}
}
