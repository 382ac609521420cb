package cmd

import (
	"strings"
	"testing"
	"time"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(DateTimeFormat, value)
	if err != nil {
		t.Fatalf("bad test datetime %q: %v", value, err)
	}
	return parsed
}

func TestParseTimeFlags(t *testing.T) {
	tests := []struct {
		name    string
		begin   string
		end     string
		window  string
		last    string
		wantErr string // substring, empty means success
		check   func(t *testing.T, begin, end time.Time)
	}{
		{
			name: "no flags",
			check: func(t *testing.T, begin, end time.Time) {
				if !begin.IsZero() || !end.IsZero() {
					t.Errorf("expected zero bounds, got %v, %v", begin, end)
				}
			},
		},
		{
			name:  "begin only",
			begin: "2024-07-01 12:00:00",
			check: func(t *testing.T, begin, end time.Time) {
				if !begin.Equal(mustTime(t, "2024-07-01 12:00:00")) {
					t.Errorf("begin = %v", begin)
				}
				if !end.IsZero() {
					t.Errorf("end should stay zero, got %v", end)
				}
			},
		},
		{
			name:  "begin and end",
			begin: "2024-07-01 12:00:00",
			end:   "2024-07-01 18:00:00",
			check: func(t *testing.T, begin, end time.Time) {
				if end.Sub(begin) != 6*time.Hour {
					t.Errorf("window = %v, want 6h", end.Sub(begin))
				}
			},
		},
		{
			name:   "window extends begin",
			begin:  "2024-07-01 12:00:00",
			window: "2h",
			check: func(t *testing.T, begin, end time.Time) {
				if !end.Equal(begin.Add(2 * time.Hour)) {
					t.Errorf("end = %v, want begin+2h", end)
				}
			},
		},
		{
			name:   "window anchors end",
			end:    "2024-07-01 12:00:00",
			window: "90m",
			check: func(t *testing.T, begin, end time.Time) {
				if !begin.Equal(end.Add(-90 * time.Minute)) {
					t.Errorf("begin = %v, want end-90m", begin)
				}
			},
		},
		{
			name:    "window alone",
			window:  "2h",
			wantErr: "requires --begin or --end",
		},
		{
			name:    "begin end and window conflict",
			begin:   "2024-07-01 12:00:00",
			end:     "2024-07-01 18:00:00",
			window:  "1h",
			wantErr: "cannot all be used together",
		},
		{
			name: "last alone",
			last: "30m",
			check: func(t *testing.T, begin, end time.Time) {
				if end.Sub(begin) != 30*time.Minute {
					t.Errorf("window = %v, want 30m", end.Sub(begin))
				}
				if time.Since(end) > time.Minute {
					t.Errorf("end should be close to now, got %v", end)
				}
			},
		},
		{
			name:    "last with begin",
			last:    "1h",
			begin:   "2024-07-01 12:00:00",
			wantErr: "--last cannot be combined",
		},
		{
			name:    "invalid begin",
			begin:   "july first",
			wantErr: "invalid --begin",
		},
		{
			name:    "invalid window",
			begin:   "2024-07-01 12:00:00",
			window:  "soon",
			wantErr: "invalid --window",
		},
		{
			name:    "negative window",
			begin:   "2024-07-01 12:00:00",
			window:  "-1h",
			wantErr: "must be positive",
		},
		{
			name:    "negative last",
			last:    "-10m",
			wantErr: "must be positive",
		},
		{
			name:    "end before begin",
			begin:   "2024-07-01 18:00:00",
			end:     "2024-07-01 12:00:00",
			wantErr: "is before",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			beginTime, endTime, windowFlag, lastFlag = tt.begin, tt.end, tt.window, tt.last
			t.Cleanup(func() {
				beginTime, endTime, windowFlag, lastFlag = "", "", "", ""
			})

			begin, end, err := parseTimeFlags()
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got begin=%v end=%v", tt.wantErr, begin, end)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want substring %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, begin, end)
			}
		})
	}
}
