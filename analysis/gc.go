package analysis

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// GC event extraction from GCInspector lines.
//
// The line shape has drifted across releases:
//
//	2.0:  GC for ParNew: 338 ms for 1 collections, 10810696 used; ...
//	2.1+: ParNew GC in 345ms.  CMS Old Gen: 4897930928 -> 4908984504; ...
//	3.x:  ConcurrentMarkSweep GC in 1112ms.  CMS Old Gen: ...
//	4.x:  G1 Young Generation GC in 273ms.  G1 Eden Space: ...
//
// Extraction runs an ordered rule cascade, first match wins. Structured
// rules capture the collector name and exact pause; looser rules recover a
// pause from degraded or truncated lines; the final rule salvages event
// presence alone (default pause, flagged as estimated in metadata) so a
// mangled line still lands on the time axis instead of disappearing.

const (
	// SeriesGCDuration is the series name for GC pause durations.
	SeriesGCDuration = "GC Duration (ms)"

	// MetaGCGenerations keys the per-event generation tags, index-aligned
	// to the timestamp axis.
	MetaGCGenerations = "gcGenerations"

	// defaultGCPauseMs is recorded when only event presence could be
	// recovered from a line, never a duration.
	defaultGCPauseMs = 100
)

// Generation tags.
const (
	GenYoung   = "young"
	GenOld     = "old"
	GenUnknown = "unknown"
)

var (
	gcPrimaryRe  = regexp.MustCompile(`([A-Za-z][A-Za-z0-9_ ]*?) GC in (\d+)ms`)
	gcYoungForRe = regexp.MustCompile(`GC for (ParNew|Copy|DefNew|PS ?Scavenge): (\d+) ms`)
	gcOldForRe   = regexp.MustCompile(`GC for (ConcurrentMarkSweep|MarkSweepCompact|PS ?MarkSweep|G1 Old[A-Za-z ]*): (\d+) ms`)
	gcLooseForRe = regexp.MustCompile(`GC for ([A-Za-z][A-Za-z0-9_ ]*?):\s+(\d+(?:\.\d+)?)\s*ms`)
	gcLooseInRe  = regexp.MustCompile(`\bin (\d+(?:\.\d+)?)\s*ms`)
	gcLooseMsRe  = regexp.MustCompile(`\b(\d+(?:\.\d+)?)\s*ms\b`)
)

// gcHit is one recovered GC event before placement on the time axis.
type gcHit struct {
	collector string
	pauseMs   float64
	estimated bool
}

// gcRule is one stage of the extraction cascade.
type gcRule struct {
	name    string
	extract func(line string) (gcHit, bool)
}

func captureRule(re *regexp.Regexp) func(string) (gcHit, bool) {
	return func(line string) (gcHit, bool) {
		m := re.FindStringSubmatch(line)
		if m == nil {
			return gcHit{}, false
		}
		ms, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			return gcHit{}, false
		}
		return gcHit{collector: strings.TrimSpace(m[1]), pauseMs: ms}, true
	}
}

func durationRule(re *regexp.Regexp) func(string) (gcHit, bool) {
	return func(line string) (gcHit, bool) {
		m := re.FindStringSubmatch(line)
		if m == nil {
			return gcHit{}, false
		}
		ms, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return gcHit{}, false
		}
		return gcHit{pauseMs: ms}, true
	}
}

// gcRules is evaluated in order; the first rule that matches a line wins.
// Order encodes trust: exact collector+pause first, bare pause recovery in
// the middle, presence-only salvage last.
var gcRules = []gcRule{
	{name: "primary", extract: captureRule(gcPrimaryRe)},
	{name: "young-for", extract: captureRule(gcYoungForRe)},
	{name: "old-for", extract: captureRule(gcOldForRe)},
	{name: "loose-for", extract: captureRule(gcLooseForRe)},
	{name: "loose-in", extract: durationRule(gcLooseInRe)},
	{name: "loose-ms", extract: durationRule(gcLooseMsRe)},
	{name: "presence", extract: func(line string) (gcHit, bool) {
		if !strings.Contains(line, "ms") {
			return gcHit{}, false
		}
		return gcHit{pauseMs: defaultGCPauseMs, estimated: true}, true
	}},
}

// GCExtractor recovers GC pause events from GCInspector lines.
type GCExtractor struct {
	log zerolog.Logger
}

// NewGCExtractor creates a GC extractor logging through the given logger.
func NewGCExtractor(log zerolog.Logger) *GCExtractor {
	return &GCExtractor{log: log.With().Str("extractor", "gc").Logger()}
}

// Name implements Extractor.
func (g *GCExtractor) Name() string { return "gc" }

// Extract scans the document for GC events and returns the pause duration
// series plus per-event generation tags and aggregate pause statistics.
func (g *GCExtractor) Extract(lines []string) ParsedTimeSeries {
	b := newSeriesBuilder()

	var (
		lastTS    time.Time
		haveTS    bool
		pauses    []time.Duration
		collector = map[string]int{}
		ruleHits  = map[string]int{}
		estimated int
		skipped   int
	)

	for _, line := range lines {
		if ts, ok := ExtractTimestamp(line); ok {
			lastTS = ts
			haveTS = true
		}
		if !strings.Contains(line, gcInspectorTag) && !strings.Contains(line, legacyGCForMarker) {
			continue
		}

		hit, rule, ok := applyGCRules(line)
		if !ok {
			continue
		}
		if !haveTS {
			skipped++
			g.log.Debug().Str("line", truncateLine(line)).Msg("gc event without timestamp context, skipped")
			continue
		}

		slot := b.slot(lastTS)
		b.set(slot, SeriesGCDuration, hit.pauseMs)

		gen := classifyGeneration(hit.collector, line)
		b.setLabel(slot, MetaGCGenerations, gen)

		pauses = append(pauses, time.Duration(hit.pauseMs*float64(time.Millisecond)))
		if hit.collector != "" {
			collector[hit.collector]++
		}
		ruleHits[rule]++
		if hit.estimated {
			estimated++
		}
	}

	stats := CalculateDurationStats(pauses)
	b.setMeta("pauseStats", map[string]any{
		"count":    stats.Count,
		"minMs":    durationMs(stats.Min),
		"maxMs":    durationMs(stats.Max),
		"avgMs":    durationMs(stats.Avg),
		"medianMs": durationMs(stats.Median),
		"totalMs":  durationMs(stats.Total),
	})
	b.setMeta("pauseDistribution", CalculatePauseDistribution(pauses))
	b.setMeta("collectors", SortByCount(collector))
	b.setMeta("ruleHits", ruleHits)
	b.setMeta("estimatedEvents", estimated)

	out := b.build()
	g.log.Debug().
		Int("events", len(out.Timestamps)).
		Int("estimated", estimated).
		Int("skipped", skipped).
		Msg("gc extraction complete")
	return out
}

func applyGCRules(line string) (gcHit, string, bool) {
	for _, r := range gcRules {
		if hit, ok := r.extract(line); ok {
			return hit, r.name, true
		}
	}
	return gcHit{}, "", false
}

// classifyGeneration tags an event young or old. The collector name is
// authoritative when a structured rule captured one; otherwise keywords on
// the whole line decide, young markers checked before old markers because
// young-collection lines routinely mention old-generation heap pools in
// their memory detail tail.
func classifyGeneration(collector, line string) string {
	subject := collector
	if subject == "" {
		subject = line
	}
	lower := strings.ToLower(subject)

	for _, kw := range []string{"parnew", "young", "copy", "scavenge", "defnew", "eden"} {
		if strings.Contains(lower, kw) {
			return GenYoung
		}
	}
	for _, kw := range []string{"concurrentmarksweep", "marksweep", "cms", "old", "full", "tenured", "mixed"} {
		if strings.Contains(lower, kw) {
			return GenOld
		}
	}
	return GenUnknown
}

func durationMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func truncateLine(line string) string {
	const max = 160
	if len(line) <= max {
		return line
	}
	return line[:max] + "..."
}
