package analysis

import "strings"

// Line classification. Every extractor re-scans the full document, so the
// classifier's job is to make the "not for me" decision as cheap as possible:
// a substring probe against a stable marker, never a regex. The same marker
// constants gate the extractors themselves, keeping routing and extraction
// in agreement.

// LineClass identifies which concern a log line feeds, if any.
type LineClass int

const (
	// ClassOther covers lines no extractor consumes.
	ClassOther LineClass = iota
	// ClassGC marks garbage collection reports logged by GCInspector.
	ClassGC
	// ClassThreadPool marks StatusLogger thread pool report lines,
	// including headers, rows and section terminators.
	ClassThreadPool
	// ClassTombstone marks tombstone overread warnings.
	ClassTombstone
	// ClassSlowRead marks timed-out read warnings.
	ClassSlowRead
)

func (c LineClass) String() string {
	switch c {
	case ClassGC:
		return "gc"
	case ClassThreadPool:
		return "threadpool"
	case ClassTombstone:
		return "tombstone"
	case ClassSlowRead:
		return "slowread"
	default:
		return "other"
	}
}

// Source tags and message markers. These are stable across the 2.x, 3.x,
// 4.x and DSE lines this engine targets.
const (
	gcInspectorTag    = "GCInspector"
	statusLoggerTag   = "StatusLogger"
	tombstoneMarker   = "tombstone"
	slowReadMarker    = "imed out" // matches "Timed out" and "timed out"
	legacyGCForMarker = "GC for"
)

// Classify routes a line to the extractor concern it belongs to. Lines can
// in principle carry several markers; precedence follows extraction cost so
// diagnostics stay deterministic.
func Classify(line string) LineClass {
	switch {
	case strings.Contains(line, statusLoggerTag):
		return ClassThreadPool
	case strings.Contains(line, gcInspectorTag) || strings.Contains(line, legacyGCForMarker):
		return ClassGC
	case strings.Contains(line, tombstoneMarker):
		return ClassTombstone
	case strings.Contains(line, slowReadMarker):
		return ClassSlowRead
	default:
		return ClassOther
	}
}

// classCounts tallies the line mix of a document for diagnostics.
type classCounts struct {
	GC         int
	ThreadPool int
	Tombstone  int
	SlowRead   int
	Other      int
	Total      int
}

func countClasses(lines []string) classCounts {
	var c classCounts
	for _, line := range lines {
		switch Classify(line) {
		case ClassGC:
			c.GC++
		case ClassThreadPool:
			c.ThreadPool++
		case ClassTombstone:
			c.Tombstone++
		case ClassSlowRead:
			c.SlowRead++
		default:
			c.Other++
		}
		c.Total++
	}
	return c
}
