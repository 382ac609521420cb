package parser

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pranjalkishor/Support-Metrics-Analyzer-sub000/analysis"
)

const (
	// initialScanBuffer is sized so ordinary files never reallocate.
	initialScanBuffer = 4 * 1024 * 1024

	// maxScanBuffer tolerates pathological lines, such as tombstone
	// warnings quoting multi-megabyte IN-clause queries.
	maxScanBuffer = 100 * 1024 * 1024
)

// newLineScanner returns a scanner sized for log lines that may carry very
// long statements.
func newLineScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, initialScanBuffer), maxScanBuffer)
	return sc
}

// jsonEnvelope is the per-line object written by container log collectors.
// Docker json-file uses "log", most shippers use "message".
type jsonEnvelope struct {
	Timestamp string `json:"@timestamp"`
	Time      string `json:"timestamp"`
	Message   string `json:"message"`
	Log       string `json:"log"`
}

// unwrapJSONLine recovers the original log line from a JSON-wrapped one.
// When the wrapped line lost its own timestamp, the envelope timestamp is
// prepended so extraction keeps time context.
func unwrapJSONLine(line string) (string, bool) {
	if len(line) < 2 || line[0] != '{' || line[len(line)-1] != '}' {
		return line, false
	}

	var env jsonEnvelope
	if err := json.Unmarshal([]byte(line), &env); err != nil {
		return line, false
	}
	msg := env.Message
	if msg == "" {
		msg = env.Log
	}
	if msg == "" {
		return line, false
	}
	msg = strings.TrimRight(msg, "\r\n")

	if _, ok := analysis.ExtractTimestamp(msg); !ok {
		raw := env.Timestamp
		if raw == "" {
			raw = env.Time
		}
		if ts, ok := analysis.ExtractTimestamp(raw); ok {
			msg = ts.UTC().Format("2006-01-02 15:04:05,000") + " " + msg
		}
	}
	return msg, true
}

// readInto scans r line by line into doc, applying JSON unwrapping and the
// line filters, and returns bookkeeping for the source.
//
// Unwrap mode is decided once, from the first non-empty line. In unwrap
// mode, lines that fail to unwrap are kept raw rather than dropped.
func readInto(doc *LogDocument, name string, r io.Reader, filters LogFilters) (FileInfo, error) {
	sc := newLineScanner(r)
	lf := newLineFilter(filters)
	info := FileInfo{Name: name}

	unwrap := false
	probed := false
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		info.Bytes += int64(len(line)) + 1

		if !probed && strings.TrimSpace(line) != "" {
			probed = true
			_, unwrap = unwrapJSONLine(strings.TrimSpace(line))
		}
		if unwrap {
			if msg, ok := unwrapJSONLine(strings.TrimSpace(line)); ok {
				line = msg
			}
		}

		if !lf.Keep(line) {
			continue
		}
		doc.Lines = append(doc.Lines, line)
		info.Lines++
	}
	if err := sc.Err(); err != nil {
		return info, fmt.Errorf("reading %s: %w", name, err)
	}
	return info, nil
}
