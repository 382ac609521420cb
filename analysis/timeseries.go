// Package analysis provides the log-to-time-series extraction engine for
// Cassandra and DSE system logs.
package analysis

import (
	"sort"
	"time"
)

// ParsedTimeSeries is the shared output shape produced by every extractor.
// All series are index-aligned to the shared timestamp axis: index i in any
// series corresponds to Timestamps[i].
//
// Invariants (guaranteed after assembly):
//   - len(Series[k]) == len(Timestamps) for every key k
//   - Timestamps is sorted ascending with no duplicates
//   - missing observations are 0, never absent
type ParsedTimeSeries struct {
	// Timestamps is the shared time axis, sorted ascending, de-duplicated.
	Timestamps []time.Time `json:"timestamps"`

	// Series maps a series name (e.g. "MutationStage: Active",
	// "GC Duration (ms)") to its values, one per timestamp.
	Series map[string][]float64 `json:"series"`

	// Metadata holds auxiliary data not indexed by time (discovered pool
	// names, per-table tombstone totals, per-file timeout counts, ...).
	// Free-form, keyed by producer.
	Metadata map[string]any `json:"metadata"`
}

// Empty reports whether no events were extracted.
func (p ParsedTimeSeries) Empty() bool {
	return len(p.Timestamps) == 0
}

// EmptyTimeSeries returns a valid zero-event result. Consumers always get
// non-nil maps and slices, never a null result.
func EmptyTimeSeries() ParsedTimeSeries {
	return ParsedTimeSeries{
		Timestamps: []time.Time{},
		Series:     map[string][]float64{},
		Metadata:   map[string]any{},
	}
}

// Results bundles the four independent extractor outputs for one log.
type Results struct {
	GC          ParsedTimeSeries `json:"gc"`
	ThreadPools ParsedTimeSeries `json:"threadPools"`
	Tombstones  ParsedTimeSeries `json:"tombstones"`
	SlowReads   ParsedTimeSeries `json:"slowReads"`
}

// NamedSeries pairs a result section with its stable export name.
type NamedSeries struct {
	Name   string
	Series ParsedTimeSeries
}

// Sections lists the four result sections in render order.
func (r Results) Sections() []NamedSeries {
	return []NamedSeries{
		{Name: "gc", Series: r.GC},
		{Name: "threadpools", Series: r.ThreadPools},
		{Name: "tombstones", Series: r.Tombstones},
		{Name: "slowreads", Series: r.SlowReads},
	}
}

// ============================================================================
// Series assembly
// ============================================================================

// seriesBuilder accumulates per-event samples and assembles them into an
// aligned ParsedTimeSeries. Extractors register samples against arbitrary
// instants in any order; build() merges, sorts and de-duplicates the axis and
// pads every series with 0 so lengths match the timestamp count exactly.
//
// The assembly step is purely structural: it never re-interprets values.
type seriesBuilder struct {
	times []time.Time
	index map[int64]int // UnixNano -> position in times

	series map[string]map[int]float64 // name -> (slot -> value)
	labels map[string]map[int]string  // name -> (slot -> tag), aligned like series
	meta   map[string]any
}

func newSeriesBuilder() *seriesBuilder {
	return &seriesBuilder{
		index:  make(map[int64]int),
		series: make(map[string]map[int]float64),
		labels: make(map[string]map[int]string),
		meta:   make(map[string]any),
	}
}

// slot returns the axis position for the given instant, registering it on
// first use. Identical instants from different lines share one slot.
func (b *seriesBuilder) slot(ts time.Time) int {
	key := ts.UnixNano()
	if pos, ok := b.index[key]; ok {
		return pos
	}
	pos := len(b.times)
	b.times = append(b.times, ts)
	b.index[key] = pos
	return pos
}

// set records a value for one series at one slot. A later write to the same
// slot replaces the earlier one.
func (b *seriesBuilder) set(slot int, name string, v float64) {
	s, ok := b.series[name]
	if !ok {
		s = make(map[int]float64)
		b.series[name] = s
	}
	s[slot] = v
}

// add accumulates into a counting series (occurrences falling into the same
// slot sum up).
func (b *seriesBuilder) add(slot int, name string, v float64) {
	s, ok := b.series[name]
	if !ok {
		s = make(map[int]float64)
		b.series[name] = s
	}
	s[slot] += v
}

// ensure registers a series name so it appears in the output even if no
// sample was ever set (all values default to 0).
func (b *seriesBuilder) ensure(name string) {
	if _, ok := b.series[name]; !ok {
		b.series[name] = make(map[int]float64)
	}
}

// setLabel records a string tag aligned to the axis (e.g. a GC generation
// per event). Labels are materialized into Metadata as []string with ""
// for slots that carry no tag.
func (b *seriesBuilder) setLabel(slot int, name, tag string) {
	l, ok := b.labels[name]
	if !ok {
		l = make(map[int]string)
		b.labels[name] = l
	}
	l[slot] = tag
}

func (b *seriesBuilder) setMeta(key string, v any) {
	b.meta[key] = v
}

// build assembles the final aligned result. The timestamp axis is sorted
// ascending (already de-duplicated by slot registration) and every series is
// padded with 0 where no sample was recorded.
func (b *seriesBuilder) build() ParsedTimeSeries {
	n := len(b.times)

	// Sort axis positions, remembering where each original slot lands.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		return b.times[order[i]].Before(b.times[order[j]])
	})
	dest := make([]int, n) // original slot -> sorted index
	sorted := make([]time.Time, n)
	for newPos, oldPos := range order {
		dest[oldPos] = newPos
		sorted[newPos] = b.times[oldPos]
	}

	out := ParsedTimeSeries{
		Timestamps: sorted,
		Series:     make(map[string][]float64, len(b.series)),
		Metadata:   b.meta,
	}
	if out.Metadata == nil {
		out.Metadata = map[string]any{}
	}

	for name, samples := range b.series {
		values := make([]float64, n)
		for slot, v := range samples {
			values[dest[slot]] = v
		}
		out.Series[name] = values
	}

	for name, tags := range b.labels {
		aligned := make([]string, n)
		for slot, tag := range tags {
			aligned[dest[slot]] = tag
		}
		out.Metadata[name] = aligned
	}

	return out
}
