package analysis

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Thread pool report extraction from StatusLogger output.
//
// StatusLogger dumps a tpstats-like table into the log whenever a node
// detects dropped messages or long GC pauses. The table layout has changed
// repeatedly: modern versions print a "Pool Name ..." header followed by one
// row per pool, DSE 5.1 folds backpressure into a parenthesized qualifier on
// the Pending column, and 2.0-era versions print bare positional rows with
// no header at all. Layout detection is document-level: each known layout is
// attempted over the whole input and the first one that discovers any pool
// wins. A last-resort recovery stage salvages pool names alone from
// otherwise unparseable StatusLogger lines.

// Canonical thread pool metric names. Header keywords and positional
// schemas all normalize to these.
const (
	MetricActive         = "Active"
	MetricPending        = "Pending"
	MetricBackpressure   = "Backpressure"
	MetricDelayed        = "Delayed"
	MetricShared         = "Shared"
	MetricStolen         = "Stolen"
	MetricCompleted      = "Completed"
	MetricBlocked        = "Blocked"
	MetricAllTimeBlocked = "All Time Blocked"
)

// StandardPoolMetrics are materialized for every discovered pool, at every
// timestamp, whether or not the layout reported them.
var StandardPoolMetrics = []string{
	MetricActive,
	MetricPending,
	MetricDelayed,
	MetricCompleted,
	MetricBlocked,
	MetricAllTimeBlocked,
}

// OptionalPoolMetrics appear in the output only when a layout reported them
// for at least one pool; they then cover every pool. Report variants that
// lack the columns entirely stay uncluttered.
var OptionalPoolMetrics = []string{
	MetricBackpressure,
	MetricShared,
	MetricStolen,
}

// canonicalMetricOrder fixes the listing order of metrics in metadata.
var canonicalMetricOrder = []string{
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

// Metadata keys produced by the thread pool extractor.
const (
	MetaThreadPools = "threadPools"
	MetaPoolMetrics = "poolMetrics"
	MetaPoolLayout  = "layout"
	MetaDegraded    = "degradedRecovery"
)

// PoolSeries builds the series name for one pool metric,
// e.g. "CompactionExecutor: Active".
func PoolSeries(pool, metric string) string {
	return pool + ": " + metric
}

// ============================================================================
// Shared row and header parsing
// ============================================================================

var poolNameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_/#:.\- ]*$`)

// splitPoolRow splits a report row into the leading pool name and its value
// fields. The name may contain single internal spaces; the first run of two
// or more spaces, or a tab, ends it. Returns ok=false for anything that does
// not look like a pool row (cache sections, table sections, prose).
func splitPoolRow(text string) (name string, fields []string, ok bool) {
	text = strings.TrimSpace(text)
	boundary := -1
	for i := 0; i < len(text)-1; i++ {
		if text[i] == '\t' || (text[i] == ' ' && text[i+1] == ' ') {
			boundary = i
			break
		}
	}
	if boundary <= 0 {
		return "", nil, false
	}

	name = strings.TrimSpace(text[:boundary])
	if name == "" || !poolNameRe.MatchString(name) {
		return "", nil, false
	}

	fields = strings.Fields(text[boundary:])
	if len(fields) == 0 {
		return "", nil, false
	}
	for _, f := range fields {
		// Comma-separated values belong to memtable ops,data sections,
		// never to pool rows.
		if strings.ContainsRune(f, ',') {
			return "", nil, false
		}
		if _, vok := parsePoolValue(f); !vok {
			return "", nil, false
		}
	}
	return name, fields, true
}

// parsePoolValue parses one report cell. "N/A" parses as 0; parentheses
// around a value are tolerated.
func parsePoolValue(tok string) (float64, bool) {
	tok = strings.Trim(tok, "()")
	if strings.EqualFold(tok, "N/A") {
		return 0, true
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isParenField(tok string) bool {
	return len(tok) >= 2 && tok[0] == '(' && tok[len(tok)-1] == ')'
}

const backpressureQualifier = "(w/backpressure"

// isPoolHeader reports whether a message line starts a pool report block.
func isPoolHeader(text string) bool {
	return strings.Contains(strings.ToLower(text), "pool name")
}

// parseHeaderColumns normalizes a header line into ordered canonical metric
// columns. Multi-word metrics and the DSE pending qualifier are resolved by
// keyword; unrecognized tokens are dropped. Returns nil when fewer than two
// metric columns survive.
func parseHeaderColumns(text string) []string {
	tokens := strings.Fields(strings.ToLower(text))
	var columns []string
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case tok == "pool" && i+1 < len(tokens) && tokens[i+1] == "name":
			i++
		case tok == "all" && i+2 < len(tokens) && tokens[i+1] == "time" && strings.HasPrefix(tokens[i+2], "blocked"):
			columns = append(columns, MetricAllTimeBlocked)
			i += 2
		case strings.HasPrefix(tok, "pending"):
			columns = append(columns, MetricPending)
			if i+1 < len(tokens) && strings.HasPrefix(tokens[i+1], backpressureQualifier) {
				// "Pending (w/Backpressure)" is one header cell carrying
				// two values per row.
				columns = append(columns, MetricBackpressure)
				i++
			}
		case strings.HasPrefix(tok, "active"):
			columns = append(columns, MetricActive)
		case strings.HasPrefix(tok, "backpressure"):
			columns = append(columns, MetricBackpressure)
		case strings.HasPrefix(tok, "delayed"):
			columns = append(columns, MetricDelayed)
		case strings.HasPrefix(tok, "shared"):
			columns = append(columns, MetricShared)
		case strings.HasPrefix(tok, "stolen"):
			columns = append(columns, MetricStolen)
		case strings.HasPrefix(tok, "completed"):
			columns = append(columns, MetricCompleted)
		case strings.HasPrefix(tok, "blocked"):
			columns = append(columns, MetricBlocked)
		}
	}
	if len(columns) < 2 {
		return nil
	}
	return columns
}

// isPoolSectionTerminator recognizes the section that follows the pool
// table in a StatusLogger report (cache stats, then per-table memtable
// stats). Hitting one closes the current block.
func isPoolSectionTerminator(text string) bool {
	if strings.HasPrefix(text, "Cache Type") {
		return true
	}
	if strings.HasPrefix(text, "Table") && strings.Contains(text, "Memtable") {
		return true
	}
	if strings.HasPrefix(text, "ColumnFamily") && strings.Contains(text, "Memtable") {
		return true
	}
	return false
}

// messageAfterTag returns the log message following a source tag, handling
// both "Tag.java:51 - msg" and the 2.0-era "Tag.java (line 57) msg".
func messageAfterTag(line, tag string) (string, bool) {
	i := strings.Index(line, tag)
	if i < 0 {
		return "", false
	}
	rest := line[i+len(tag):]
	if j := strings.Index(rest, " - "); j >= 0 {
		return rest[j+3:], true
	}
	if k := strings.Index(rest, "(line"); k >= 0 {
		if j := strings.Index(rest[k:], ") "); j >= 0 {
			return rest[k+j+2:], true
		}
	}
	return "", false
}

// ============================================================================
// Scan accumulation and assembly
// ============================================================================

// poolSample is one metric observation before assembly.
type poolSample struct {
	ts     time.Time
	pool   string
	metric string
	value  float64
}

// poolScan is the raw outcome of one layout attempt.
type poolScan struct {
	layout   string
	samples  []poolSample
	pools    map[string]map[string]bool // pool -> metrics actually reported
	seed     []time.Time                // axis instants with no samples (fallback)
	degraded bool
}

func newPoolScan(layout string) *poolScan {
	return &poolScan{layout: layout, pools: map[string]map[string]bool{}}
}

func (s *poolScan) record(ts time.Time, pool, metric string, v float64) {
	s.samples = append(s.samples, poolSample{ts: ts, pool: pool, metric: metric, value: v})
	s.registerPool(pool)
	s.pools[pool][metric] = true
}

// registerPool discovers a pool without attributing any metric observation
// to it.
func (s *poolScan) registerPool(pool string) {
	if _, ok := s.pools[pool]; !ok {
		s.pools[pool] = map[string]bool{}
	}
}

func (s *poolScan) poolCount() int { return len(s.pools) }

// ThreadPoolExtractor recovers thread pool reports from StatusLogger lines.
type ThreadPoolExtractor struct {
	log zerolog.Logger
}

// NewThreadPoolExtractor creates a thread pool extractor logging through the
// given logger.
func NewThreadPoolExtractor(log zerolog.Logger) *ThreadPoolExtractor {
	return &ThreadPoolExtractor{log: log.With().Str("extractor", "threadpool").Logger()}
}

// Name implements Extractor.
func (e *ThreadPoolExtractor) Name() string { return "threadpool" }

// Extract runs the layout cascade over the document and assembles the
// winning scan. With no StatusLogger content at all the result is empty but
// fully formed.
func (e *ThreadPoolExtractor) Extract(lines []string) ParsedTimeSeries {
	var scan *poolScan
	for _, layout := range poolLayouts {
		s := layout.scan(lines)
		if s.poolCount() > 0 {
			scan = s
			break
		}
		e.log.Debug().Str("layout", layout.name).Msg("thread pool layout matched nothing")
	}
	if scan == nil {
		scan = scanPoolFallback(lines)
		if scan.poolCount() > 0 {
			e.log.Warn().
				Int("pools", scan.poolCount()).
				Msg("thread pool reports unparseable, recovered pool names only")
		}
	}

	out := e.assemble(scan)
	e.log.Debug().
		Str("layout", scan.layout).
		Int("pools", scan.poolCount()).
		Int("samples", len(scan.samples)).
		Msg("thread pool extraction complete")
	return out
}

// assemble turns a raw scan into the aligned result and applies the
// normalization pass: every discovered pool gets the standard metric series
// (zero-filled where never reported), optional metrics only where a layout
// reported them.
func (e *ThreadPoolExtractor) assemble(scan *poolScan) ParsedTimeSeries {
	b := newSeriesBuilder()

	for _, ts := range scan.seed {
		b.slot(ts)
	}
	for _, smp := range scan.samples {
		b.set(b.slot(smp.ts), PoolSeries(smp.pool, smp.metric), smp.value)
	}

	// An optional metric reported by any pool is materialized for all of
	// them, so one report variant yields one uniform column set.
	optionalSeen := map[string]bool{}
	for _, observed := range scan.pools {
		for _, m := range OptionalPoolMetrics {
			if observed[m] {
				optionalSeen[m] = true
			}
		}
	}

	poolNames := make([]string, 0, len(scan.pools))
	poolMetrics := make(map[string][]string, len(scan.pools))
	for pool := range scan.pools {
		poolNames = append(poolNames, pool)

		var metrics []string
		for _, m := range canonicalMetricOrder {
			if isStandardMetric(m) || optionalSeen[m] {
				b.ensure(PoolSeries(pool, m))
				metrics = append(metrics, m)
			}
		}
		poolMetrics[pool] = metrics
	}
	sort.Strings(poolNames)

	b.setMeta(MetaThreadPools, poolNames)
	b.setMeta(MetaPoolMetrics, poolMetrics)
	b.setMeta(MetaPoolLayout, scan.layout)
	if scan.degraded && len(scan.pools) > 0 {
		b.setMeta(MetaDegraded, true)
	}

	return b.build()
}

func isStandardMetric(m string) bool {
	for _, s := range StandardPoolMetrics {
		if s == m {
			return true
		}
	}
	return false
}
