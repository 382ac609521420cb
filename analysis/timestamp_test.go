package analysis

import (
	"testing"
	"time"
)

func TestExtractTimestamp(t *testing.T) {
	tests := []struct {
		name string
		line string
		want time.Time
		ok   bool
	}{
		{
			name: "logback comma millis",
			line: "INFO  [Service Thread] 2020-03-30 11:48:35,411 GCInspector.java:284 - ParNew GC in 345ms.",
			want: time.Date(2020, 3, 30, 11, 48, 35, 411e6, time.UTC),
			ok:   true,
		},
		{
			name: "dot millis",
			line: "WARN  [ReadStage-2] 2019-12-01 00:00:01.007 ReadCommand.java:520 - some warning",
			want: time.Date(2019, 12, 1, 0, 0, 1, 7e6, time.UTC),
			ok:   true,
		},
		{
			name: "iso T separator with zulu",
			line: "INFO  [main] 2021-06-15T08:30:00,123Z CassandraDaemon.java:650 - startup",
			want: time.Date(2021, 6, 15, 8, 30, 0, 123e6, time.UTC),
			ok:   true,
		},
		{
			name: "positive offset with colon",
			line: "INFO  [main] 2021-06-15T08:30:00.123+02:00 CassandraDaemon.java:650 - startup",
			want: time.Date(2021, 6, 15, 8, 30, 0, 123e6, time.FixedZone("", 2*3600)),
			ok:   true,
		},
		{
			name: "negative compact offset",
			line: "INFO  [main] 2021-06-15 08:30:00,123-0500 CassandraDaemon.java:650 - startup",
			want: time.Date(2021, 6, 15, 8, 30, 0, 123e6, time.FixedZone("", -5*3600)),
			ok:   true,
		},
		{
			name: "no fractional seconds",
			line: "INFO  [main] 2021-06-15 08:30:00 CassandraDaemon.java:650 - startup",
			want: time.Date(2021, 6, 15, 8, 30, 0, 0, time.UTC),
			ok:   true,
		},
		{
			name: "stack trace frame",
			line: "\tat org.apache.cassandra.db.ReadCommand.executeLocally(ReadCommand.java:407)",
			ok:   false,
		},
		{
			name: "wrapped continuation",
			line: "        AND token(id) <= 9223372036854775807 LIMIT 5000",
			ok:   false,
		},
		{
			name: "empty",
			line: "",
			ok:   false,
		},
		{
			name: "dashes without date",
			line: "----- ------ -------",
			ok:   false,
		},
		{
			name: "month out of range",
			line: "INFO  [main] 2021-13-15 08:30:00,123 X.java:1 - msg",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractTimestamp(tt.line)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractTimestampOffsetNormalization(t *testing.T) {
	// The same instant expressed in two zones must land on the same axis
	// point once normalized.
	utc, ok := ExtractTimestamp("INFO  [main] 2021-06-15T10:30:00.000Z X.java:1 - a")
	if !ok {
		t.Fatal("utc line did not parse")
	}
	offset, ok := ExtractTimestamp("INFO  [main] 2021-06-15T12:30:00.000+02:00 X.java:1 - b")
	if !ok {
		t.Fatal("offset line did not parse")
	}
	if !utc.Equal(offset) {
		t.Errorf("instants differ: %v vs %v", utc, offset)
	}
}
