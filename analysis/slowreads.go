package analysis

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Timed-out read warnings.
//
//	WARN  [CoreThread-5] 2020-03-30 11:49:11,107 NoSpamLogger.java:97 -
//	Timed out async read from org.apache.cassandra.io.sstable.format...
//	for file /data/cassandra/ks/tbl-c60e.../aa-3234-bti-Data.db
//
// Each warning becomes a count on the "Slow Reads" series. Warnings are
// additionally grouped by the file path's last two segments (data file and
// its parent table directory), and the hottest groups get their own count
// series so a single misbehaving SSTable stands out on the chart.

// SeriesSlowReads is the overall timed-out read count series.
const SeriesSlowReads = "Slow Reads"

// MetaFileCounts keys the per-file-group totals in metadata.
const MetaFileCounts = "fileCounts"

// maxFileSeries bounds how many per-file group series are emitted alongside
// the overall count.
const maxFileSeries = 5

// SlowReadExtractor recovers timed-out read warnings.
type SlowReadExtractor struct {
	log zerolog.Logger
}

// NewSlowReadExtractor creates a slow-read extractor logging through the
// given logger.
func NewSlowReadExtractor(log zerolog.Logger) *SlowReadExtractor {
	return &SlowReadExtractor{log: log.With().Str("extractor", "slowreads").Logger()}
}

// Name implements Extractor.
func (s *SlowReadExtractor) Name() string { return "slowreads" }

type slowReadSample struct {
	ts   time.Time
	file string
}

// Extract scans the document for timed-out reads.
func (s *SlowReadExtractor) Extract(lines []string) ParsedTimeSeries {
	b := newSeriesBuilder()

	var (
		lastTS  time.Time
		haveTS  bool
		samples []slowReadSample
		counts  = map[string]int{}
		skipped int
	)

	for _, line := range lines {
		if ts, ok := ExtractTimestamp(line); ok {
			lastTS = ts
			haveTS = true
		}
		if !strings.Contains(line, slowReadMarker) {
			continue
		}

		path, ok := timedOutFilePath(line)
		if !ok {
			continue
		}
		if !haveTS {
			skipped++
			s.log.Debug().Str("line", truncateLine(line)).Msg("timed-out read without timestamp context, skipped")
			continue
		}

		b.add(b.slot(lastTS), SeriesSlowReads, 1)

		group := fileGroup(path)
		counts[group]++
		samples = append(samples, slowReadSample{ts: lastTS, file: group})
	}

	// Per-file series only for the hottest groups; everything else stays in
	// the overall count and the metadata totals.
	top := map[string]bool{}
	ranked := SortByCount(counts)
	for i, e := range ranked {
		if i == maxFileSeries {
			break
		}
		top[e.Name] = true
	}
	for _, smp := range samples {
		if top[smp.file] {
			b.add(b.slot(smp.ts), smp.file, 1)
		}
	}

	b.setMeta(MetaFileCounts, ranked)

	out := b.build()
	s.log.Debug().
		Int("warnings", len(samples)).
		Int("files", len(counts)).
		Int("skipped", skipped).
		Msg("slow read extraction complete")
	return out
}

// timedOutFilePath recognizes a timed-out read warning and returns the file
// path it names. Recognition is deliberately loose: any "timed out" line
// carrying an absolute path qualifies, so wording drift between versions
// does not blind the extractor.
func timedOutFilePath(line string) (string, bool) {
	if !strings.Contains(line, slowReadMarker) {
		return "", false
	}
	lower := strings.ToLower(line)
	if !strings.Contains(lower, "read") {
		return "", false
	}
	for _, tok := range strings.Fields(line) {
		if len(tok) > 1 && tok[0] == '/' {
			return strings.TrimRight(tok, ".,;:)"), true
		}
	}
	return "", false
}

// fileGroup reduces a path to its last two segments, collapsing rotated
// generations of the same table directory into one group.
func fileGroup(path string) string {
	trimmed := strings.TrimRight(path, "/")
	idx := strings.LastIndexByte(trimmed, '/')
	if idx < 0 {
		return trimmed
	}
	prev := strings.LastIndexByte(trimmed[:idx], '/')
	if prev < 0 {
		return strings.TrimPrefix(trimmed, "/")
	}
	return trimmed[prev+1:]
}
