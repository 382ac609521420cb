package parser

import (
	"strings"
	"time"

	"github.com/pranjalkishor/Support-Metrics-Analyzer-sub000/analysis"
)

// LogPrefix is the decomposed standard line prefix:
//
//	INFO  [Service Thread] 2024-07-01 12:05:13,123 GCInspector.java:284 - ParNew GC in 345ms.
type LogPrefix struct {
	// Level is the severity token (INFO, WARN, ERROR, DEBUG, TRACE, FATAL).
	Level string

	// Thread is the bracketed thread name.
	Thread string

	// Timestamp is the parsed line timestamp.
	Timestamp time.Time

	// Source is the "File.java:NNN" reference, when present.
	Source string

	// Message is everything after the " - " separator, when present.
	Message string
}

var logLevels = []string{"INFO", "WARN", "ERROR", "DEBUG", "TRACE", "FATAL"}

// prefixProbeWindow bounds how far into the post-thread remainder the
// timestamp may start. A prefix timestamp sits at the front; anything
// deeper belongs to the message.
const prefixProbeWindow = 8

// SplitPrefix decomposes line into its standard prefix fields. It reports
// false when the line does not carry the prefix shape; callers treat such
// lines as continuations of the previous entry.
func SplitPrefix(line string) (LogPrefix, bool) {
	var p LogPrefix

	rest, ok := leadingLevel(line)
	if !ok {
		return LogPrefix{}, false
	}
	p.Level = line[:len(line)-len(rest)]

	rest = strings.TrimLeft(rest, " \t")
	if len(rest) == 0 || rest[0] != '[' {
		return LogPrefix{}, false
	}
	end := strings.IndexByte(rest, ']')
	if end < 0 {
		return LogPrefix{}, false
	}
	p.Thread = rest[1:end]
	rest = strings.TrimLeft(rest[end+1:], " \t")

	probe := rest
	if len(probe) > prefixProbeWindow+timestampMaxLen {
		probe = probe[:prefixProbeWindow+timestampMaxLen]
	}
	ts, ok := analysis.ExtractTimestamp(probe)
	if !ok {
		return LogPrefix{}, false
	}
	p.Timestamp = ts

	if i := strings.Index(rest, " - "); i >= 0 {
		head := strings.Fields(rest[:i])
		if n := len(head); n > 0 {
			if tok := head[n-1]; isSourceRef(tok) {
				p.Source = tok
			}
		}
		p.Message = rest[i+len(" - "):]
	}

	return p, true
}

// timestampMaxLen is the longest timestamp form the probe has to cover,
// "2024-07-01 12:05:13,123456789+00:00".
const timestampMaxLen = 35

// leadingLevel strips a severity token from the front of the line.
func leadingLevel(line string) (string, bool) {
	for _, lvl := range logLevels {
		if strings.HasPrefix(line, lvl) {
			rest := line[len(lvl):]
			if len(rest) > 0 && (rest[0] == ' ' || rest[0] == '\t') {
				return rest, true
			}
		}
	}
	return "", false
}

// isSourceRef reports whether tok looks like a "File.java:123" reference.
// Requiring a letter first keeps time-of-day tokens out.
func isSourceRef(tok string) bool {
	if tok == "" {
		return false
	}
	c := tok[0]
	if !(c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z') {
		return false
	}
	return strings.ContainsRune(tok, ':')
}
