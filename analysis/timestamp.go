package analysis

import (
	"time"
)

// Timestamp extraction for Cassandra / DSE system.log lines.
//
// The dominant layout is the logback default:
//
//	INFO  [Service Thread] 2020-03-30 11:48:35,411 GCInspector.java:284 - ...
//
// i.e. "yyyy-MM-dd HH:mm:ss,SSS" with a comma before the milliseconds and no
// zone designator. Some deployments reconfigure logback to ISO-8601 with a
// dot separator, a 'T' date-time separator, and/or a numeric zone offset
// ("+00:00", "+0000") or 'Z'. The timestamp is not anchored to the start of
// the line, so we scan for the first plausible candidate and validate it
// positionally, byte by byte, before committing to a parse. Lines without a
// zone are interpreted as UTC.

const minTimestampLen = 19 // "2006-01-02 15:04:05"

// ExtractTimestamp scans a log line for the first embedded timestamp and
// returns it in canonical form. ok is false when the line carries no
// parseable timestamp (stack trace frames, wrapped lines, garbage).
func ExtractTimestamp(line string) (ts time.Time, ok bool) {
	// Cheap scan for a "dddd-dd-dd" anchor. Positions are validated before
	// any allocation or parse attempt.
	limit := len(line) - minTimestampLen
	for i := 0; i <= limit; i++ {
		if line[i+4] != '-' || line[i+7] != '-' {
			continue
		}
		if ts, ok = parseTimestampAt(line, i); ok {
			return ts, true
		}
	}
	return time.Time{}, false
}

// parseTimestampAt attempts a positional parse of a timestamp starting at
// offset i. The base "date sep time" shape is mandatory; fractional seconds
// and a zone suffix are optional.
func parseTimestampAt(line string, i int) (time.Time, bool) {
	year, ok := digits(line, i, 4)
	if !ok {
		return time.Time{}, false
	}
	month, ok := digits(line, i+5, 2)
	if !ok || month < 1 || month > 12 {
		return time.Time{}, false
	}
	day, ok := digits(line, i+8, 2)
	if !ok || day < 1 || day > 31 {
		return time.Time{}, false
	}
	if sep := line[i+10]; sep != ' ' && sep != 'T' {
		return time.Time{}, false
	}
	hour, ok := digits(line, i+11, 2)
	if !ok || hour > 23 {
		return time.Time{}, false
	}
	if line[i+13] != ':' {
		return time.Time{}, false
	}
	minute, ok := digits(line, i+14, 2)
	if !ok || minute > 59 {
		return time.Time{}, false
	}
	if line[i+16] != ':' {
		return time.Time{}, false
	}
	sec, ok := digits(line, i+17, 2)
	if !ok || sec > 60 {
		return time.Time{}, false
	}

	pos := i + minTimestampLen
	nanos := 0

	// Optional fractional seconds, comma or dot separated, 1 to 9 digits.
	// logback emits exactly 3 but DSE micro-precision appears in the wild.
	if pos < len(line) && (line[pos] == ',' || line[pos] == '.') {
		start := pos + 1
		end := start
		for end < len(line) && end-start < 9 && isDigit(line[end]) {
			end++
		}
		if end == start {
			return time.Time{}, false
		}
		frac, _ := digits(line, start, end-start)
		scale := 9 - (end - start)
		for k := 0; k < scale; k++ {
			frac *= 10
		}
		nanos = frac
		pos = end
	}

	loc := time.UTC
	if pos < len(line) {
		switch line[pos] {
		case 'Z':
			// explicit UTC
		case '+', '-':
			if off, zok := parseZoneOffset(line, pos); zok {
				loc = time.FixedZone("", off)
			}
		}
	}

	return time.Date(year, time.Month(month), day, hour, minute, sec, nanos, loc), true
}

// parseZoneOffset reads "+hh:mm", "+hhmm" or "+hh" at pos and returns the
// offset in seconds east of UTC.
func parseZoneOffset(line string, pos int) (offsetSec int, ok bool) {
	sign := 1
	if line[pos] == '-' {
		sign = -1
	}
	h, ok := digits(line, pos+1, 2)
	if !ok || h > 14 {
		return 0, false
	}
	m := 0
	rest := pos + 3
	if rest < len(line) && line[rest] == ':' {
		rest++
	}
	if mm, mok := digits(line, rest, 2); mok && mm < 60 {
		m = mm
	}
	return sign * (h*3600 + m*60), true
}

// digits parses exactly n ASCII digits at offset i.
func digits(s string, i, n int) (int, bool) {
	if i+n > len(s) {
		return 0, false
	}
	v := 0
	for k := i; k < i+n; k++ {
		c := s[k]
		if c < '0' || c > '9' {
			return 0, false
		}
		v = v*10 + int(c-'0')
	}
	return v, true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
