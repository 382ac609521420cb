package analysis

import (
	"regexp"
	"strings"
	"time"
)

// The thread pool layout cascade. Layouts are attempted in order over the
// whole document; the first scan that discovers at least one pool wins.
// scanPoolFallback runs only when every layout comes up empty.
type poolLayout struct {
	name string
	scan func(lines []string) *poolScan
}

var poolLayouts = []poolLayout{
	{name: "header", scan: scanHeaderLayout},
	{name: "backpressure", scan: scanBackpressureLayout},
	{name: "legacy", scan: scanLegacyLayout},
}

// scanHeaderLayout handles modern header-driven reports: a "Pool Name ..."
// header line defines the columns, following rows carry one pool each. All
// rows of a block share the header's timestamp. Blocks whose header carries
// the DSE backpressure qualifier are left for the variant layout.
func scanHeaderLayout(lines []string) *poolScan {
	s := newPoolScan("header")

	var (
		lastTS  time.Time
		haveTS  bool
		columns []string
		blockTS time.Time
	)

	for _, line := range lines {
		if ts, ok := ExtractTimestamp(line); ok {
			lastTS = ts
			haveTS = true
		}
		if !strings.Contains(line, statusLoggerTag) {
			continue
		}
		text, ok := messageAfterTag(line, statusLoggerTag)
		if !ok {
			continue
		}
		text = strings.TrimSpace(text)

		if isPoolHeader(text) {
			if strings.Contains(strings.ToLower(text), backpressureQualifier) || !haveTS {
				columns = nil
				continue
			}
			columns = parseHeaderColumns(text)
			blockTS = lastTS
			continue
		}
		if columns == nil {
			continue
		}
		if text == "" || isPoolSectionTerminator(text) {
			columns = nil
			continue
		}

		name, fields, ok := splitPoolRow(text)
		if !ok {
			continue
		}
		if hasParenField(fields) {
			// Parenthesized cells belong to the backpressure variant.
			continue
		}
		n := min(len(fields), len(columns))
		for i := 0; i < n; i++ {
			v, vok := parsePoolValue(fields[i])
			if !vok {
				continue
			}
			s.record(blockTS, name, columns[i], v)
		}
	}
	return s
}

// scanBackpressureLayout handles the DSE 5.1 layout where the Pending
// header cell reads "Pending (w/Backpressure)" and each row carries the
// backpressure value parenthesized after the pending value, e.g. "0 (N/A)".
func scanBackpressureLayout(lines []string) *poolScan {
	s := newPoolScan("backpressure")

	var (
		lastTS  time.Time
		haveTS  bool
		columns []string
		blockTS time.Time
	)

	for _, line := range lines {
		if ts, ok := ExtractTimestamp(line); ok {
			lastTS = ts
			haveTS = true
		}
		if !strings.Contains(line, statusLoggerTag) {
			continue
		}
		text, ok := messageAfterTag(line, statusLoggerTag)
		if !ok {
			continue
		}
		text = strings.TrimSpace(text)

		if isPoolHeader(text) {
			if !strings.Contains(strings.ToLower(text), backpressureQualifier) || !haveTS {
				columns = nil
				continue
			}
			columns = parseHeaderColumns(text)
			blockTS = lastTS
			continue
		}
		if columns == nil {
			continue
		}
		if text == "" || isPoolSectionTerminator(text) {
			columns = nil
			continue
		}

		name, fields, ok := splitPoolRow(text)
		if !ok {
			continue
		}

		// Columns and fields advance on separate cursors: a row may omit
		// the parenthesized backpressure cell entirely.
		fi := 0
		for _, col := range columns {
			if col == MetricBackpressure {
				if fi < len(fields) && isParenField(fields[fi]) {
					if v, vok := parsePoolValue(fields[fi]); vok {
						s.record(blockTS, name, col, v)
					}
					fi++
				} else {
					s.record(blockTS, name, col, 0)
				}
				continue
			}
			if fi >= len(fields) {
				break
			}
			if v, vok := parsePoolValue(fields[fi]); vok {
				s.record(blockTS, name, col, v)
			}
			fi++
		}
	}
	return s
}

// Positional schemas for headerless 2.0-era reports, chosen by field count.
var (
	legacyShortSchema = []string{
		MetricActive,
		MetricPending,
		MetricCompleted,
		MetricBlocked,
		MetricAllTimeBlocked,
	}
	legacyFullSchema = []string{
		MetricActive,
		MetricPending,
		MetricBackpressure,
		MetricDelayed,
		MetricShared,
		MetricStolen,
		MetricCompleted,
		MetricBlocked,
		MetricAllTimeBlocked,
	}
)

// scanLegacyLayout handles headerless reports: every parseable StatusLogger
// row is mapped positionally, the schema picked by field count. Rows carry
// their own line timestamps since no header groups them.
func scanLegacyLayout(lines []string) *poolScan {
	s := newPoolScan("legacy")

	var (
		lastTS time.Time
		haveTS bool
	)

	for _, line := range lines {
		if ts, ok := ExtractTimestamp(line); ok {
			lastTS = ts
			haveTS = true
		}
		if !strings.Contains(line, statusLoggerTag) {
			continue
		}
		text, ok := messageAfterTag(line, statusLoggerTag)
		if !ok || !haveTS {
			continue
		}
		text = strings.TrimSpace(text)
		if isPoolHeader(text) || isPoolSectionTerminator(text) {
			continue
		}

		name, fields, ok := splitPoolRow(text)
		if !ok {
			continue
		}

		var schema []string
		switch len(fields) {
		case len(legacyShortSchema):
			schema = legacyShortSchema
		case len(legacyFullSchema):
			schema = legacyFullSchema
		default:
			continue
		}
		for i, f := range fields {
			if v, vok := parsePoolValue(f); vok {
				s.record(lastTS, name, schema[i], v)
			}
		}
	}
	return s
}

var qualifiedNameRe = regexp.MustCompile(`\b[A-Za-z_][A-Za-z0-9_$]*(?:\.[A-Za-z_][A-Za-z0-9_$]*)+\b`)

// scanPoolFallback is the lossy last resort: when no layout parses, pool
// identifiers are salvaged from qualified-name-like tokens on StatusLogger
// lines and registered at a single synthetic timestamp with zeroed standard
// metrics. Deliberately over-broad; the result is flagged degraded.
func scanPoolFallback(lines []string) *poolScan {
	s := newPoolScan("fallback")
	s.degraded = true

	var (
		synthetic time.Time
		haveTS    bool
	)

	for _, line := range lines {
		if ts, ok := ExtractTimestamp(line); ok && !haveTS {
			synthetic = ts
			haveTS = true
		}
		if !strings.Contains(line, statusLoggerTag) {
			continue
		}
		for _, tok := range qualifiedNameRe.FindAllString(line, -1) {
			if strings.Contains(tok, ".java") {
				continue
			}
			s.registerPool(tok)
		}
	}

	if s.poolCount() > 0 {
		if !haveTS {
			synthetic = time.Unix(0, 0).UTC()
		}
		s.seed = append(s.seed, synthetic)
	}
	return s
}

func hasParenField(fields []string) bool {
	for _, f := range fields {
		if isParenField(f) {
			return true
		}
	}
	return false
}
