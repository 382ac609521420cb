package parser

import (
	"strings"
	"testing"
	"time"
)

func TestSplitPrefix(t *testing.T) {
	tests := []struct {
		name        string
		line        string
		wantOK      bool
		wantLevel   string
		wantThread  string
		wantSource  string
		wantMessage string
		wantTime    time.Time
	}{
		{
			name:        "standard info line",
			line:        "INFO  [Service Thread] 2024-07-01 12:05:13,123 GCInspector.java:284 - ParNew GC in 345ms.",
			wantOK:      true,
			wantLevel:   "INFO",
			wantThread:  "Service Thread",
			wantSource:  "GCInspector.java:284",
			wantMessage: "ParNew GC in 345ms.",
			wantTime:    time.Date(2024, 7, 1, 12, 5, 13, 123000000, time.UTC),
		},
		{
			name:        "warn line",
			line:        "WARN  [ReadStage-2] 2024-07-01 12:00:00,000 ReadCommand.java:520 - Read 0 live rows and 50 tombstone cells for query SELECT * FROM ks.t",
			wantOK:      true,
			wantLevel:   "WARN",
			wantThread:  "ReadStage-2",
			wantSource:  "ReadCommand.java:520",
			wantMessage: "Read 0 live rows and 50 tombstone cells for query SELECT * FROM ks.t",
			wantTime:    time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name:       "no source reference",
			line:       "ERROR [main] 2024-07-01 12:00:00,000 - something broke",
			wantOK:     true,
			wantLevel:  "ERROR",
			wantThread: "main",
			wantSource: "",
			wantTime:   time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			name:   "continuation line",
			line:   "	at org.apache.cassandra.Foo.bar(Foo.java:10)",
			wantOK: false,
		},
		{
			name:   "pool report row",
			line:   "CompactionExecutor                2         0          99022         0                 0",
			wantOK: false,
		},
		{
			name:   "level without thread",
			line:   "INFO  2024-07-01 12:00:00,000 no thread bracket",
			wantOK: false,
		},
		{
			name:   "thread without timestamp",
			line:   "INFO  [main] no timestamp here",
			wantOK: false,
		},
		{
			name:   "empty line",
			line:   "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := SplitPrefix(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("SplitPrefix(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if p.Level != tt.wantLevel {
				t.Errorf("Level = %q, want %q", p.Level, tt.wantLevel)
			}
			if p.Thread != tt.wantThread {
				t.Errorf("Thread = %q, want %q", p.Thread, tt.wantThread)
			}
			if p.Source != tt.wantSource {
				t.Errorf("Source = %q, want %q", p.Source, tt.wantSource)
			}
			if tt.wantMessage != "" && p.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", p.Message, tt.wantMessage)
			}
			if !p.Timestamp.Equal(tt.wantTime) {
				t.Errorf("Timestamp = %v, want %v", p.Timestamp, tt.wantTime)
			}
		})
	}
}

func TestIsBinaryContent(t *testing.T) {
	tests := []struct {
		name   string
		sample string
		want   bool
	}{
		{"plain log text", "INFO  [main] 2024-07-01 12:00:00,000 Startup.java:1 - ready\n", false},
		{"empty", "", false},
		{"nul byte", "abc\x00def", true},
		{"mostly control bytes", "\x01\x02\x03\x04\x05\x06abc", true},
		{"tabs and newlines are text", "a\tb\nc\r\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isBinaryContent(tt.sample); got != tt.want {
				t.Errorf("isBinaryContent(%q) = %v, want %v", tt.sample, got, tt.want)
			}
		})
	}
}

func TestLooksLikeSystemLog(t *testing.T) {
	good := strings.Join([]string{
		"some preamble without a prefix",
		"INFO  [main] 2024-07-01 12:00:00,000 Startup.java:1 - ready",
	}, "\n")
	if !looksLikeSystemLog(good) {
		t.Error("sample with one prefixed line should pass")
	}

	bad := "col1,col2,col3\n1,2,3\n"
	if looksLikeSystemLog(bad) {
		t.Error("csv sample should not pass")
	}
}

func TestIsLogEntryName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"system.log", true},
		{"nodes/10.0.0.1/logs/cassandra/system.log", true},
		{"system.log.1", true},
		{"system.log.2024-07-01.gz", true},
		{"debug.log.zst", true},
		{"output.log", true},
		{"gc.log", false},
		{"gc.log.0.current", false},
		{"conf/cassandra.yaml", false},
		{"nodetool/tpstats", false},
		{"schema.cql", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLogEntryName(tt.name); got != tt.want {
				t.Errorf("IsLogEntryName(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}
