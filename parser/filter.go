package parser

import (
	"strings"
	"time"

	"github.com/pranjalkishor/Support-Metrics-Analyzer-sub000/analysis"
)

// lineFilter applies the time window and grep filters with entry context:
// lines without their own timestamp follow the decision made for the last
// timestamped line, so stack traces and thread pool report blocks stay
// with their entry.
type lineFilter struct {
	filters  LogFilters
	inWindow bool
}

func newLineFilter(filters LogFilters) *lineFilter {
	return &lineFilter{
		filters: filters,
		// Until the first timestamp is seen, lines are kept unless a
		// begin bound is set.
		inWindow: filters.BeginT.IsZero(),
	}
}

// Keep reports whether the line survives the configured filters.
func (lf *lineFilter) Keep(line string) bool {
	if ts, ok := analysis.ExtractTimestamp(line); ok {
		lf.inWindow = lf.inRange(ts)
	}
	if !lf.inWindow {
		return false
	}
	if len(lf.filters.GrepExpr) > 0 && !containsAll(line, lf.filters.GrepExpr) {
		return false
	}
	return true
}

func (lf *lineFilter) inRange(ts time.Time) bool {
	if !lf.filters.BeginT.IsZero() && ts.Before(lf.filters.BeginT) {
		return false
	}
	if !lf.filters.EndT.IsZero() && ts.After(lf.filters.EndT) {
		return false
	}
	return true
}

// containsAll reports whether every pattern occurs in s.
func containsAll(s string, patterns []string) bool {
	for _, p := range patterns {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
