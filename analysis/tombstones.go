package analysis

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Tombstone overread warnings.
//
//	3.x+: Read 86 live rows and 1209 tombstone cells for query
//	      SELECT * FROM ks.tbl WHERE ... (see tombstone_warn_threshold)
//	2.x:  Read 0 live and 1537 tombstoned cells in ks.tbl for key: ...
//
// Each warning yields one point on three series (live rows, tombstone
// cells, tombstone ratio) plus a per-query record and a per-table running
// total kept in metadata.

// Series names produced by the tombstone extractor.
const (
	SeriesLiveRows       = "Live Rows"
	SeriesTombstoneCells = "Tombstone Cells"
	SeriesTombstoneRatio = "Tombstone Ratio"
)

// Metadata keys produced by the tombstone extractor.
const (
	MetaQueryData  = "queryData"
	MetaTableStats = "tableStats"
)

// maxTrackedQueries bounds the per-query records kept in metadata. Only the
// heaviest warnings by tombstone count are retained.
const maxTrackedQueries = 20

const unknownTable = "Unknown"

var (
	tombstoneQueryRe  = regexp.MustCompile(`Read (\d+) live rows? and (\d+) tombstone cells? for query (.+?)(?:\s*\(see tombstone_warn_threshold\))?\s*$`)
	tombstoneLegacyRe = regexp.MustCompile(`Read (\d+) live and (\d+) tombstoned? cells in (\S+)`)
	fromClauseRe      = regexp.MustCompile(`(?i)\bFROM\s+("?[A-Za-z0-9_]+"?(?:\."?[A-Za-z0-9_]+"?)?)`)
)

// TombstoneQuery is one recorded overread warning.
type TombstoneQuery struct {
	QueryID    string  `json:"queryId,omitempty"`
	Query      string  `json:"query"`
	Table      string  `json:"table"`
	LiveRows   int     `json:"liveRows"`
	Tombstones int     `json:"tombstones"`
	Ratio      float64 `json:"ratio"`
}

// TableTombstones aggregates overreads per table.
type TableTombstones struct {
	Table      string `json:"table"`
	Tombstones int    `json:"tombstones"`
	LiveRows   int    `json:"liveRows"`
	Queries    int    `json:"queries"`
}

// TombstoneExtractor recovers tombstone overread warnings.
type TombstoneExtractor struct {
	log zerolog.Logger
}

// NewTombstoneExtractor creates a tombstone extractor logging through the
// given logger.
func NewTombstoneExtractor(log zerolog.Logger) *TombstoneExtractor {
	return &TombstoneExtractor{log: log.With().Str("extractor", "tombstones").Logger()}
}

// Name implements Extractor.
func (t *TombstoneExtractor) Name() string { return "tombstones" }

// Extract scans the document for tombstone warnings. The ratio series is
// tombstones / (live + tombstones); a warning with zero live rows therefore
// scores 1.0, the worst case.
func (t *TombstoneExtractor) Extract(lines []string) ParsedTimeSeries {
	b := newSeriesBuilder()

	var (
		lastTS  time.Time
		haveTS  bool
		queries []TombstoneQuery
		tables  = map[string]*TableTombstones{}
		skipped int
	)

	for _, line := range lines {
		if ts, ok := ExtractTimestamp(line); ok {
			lastTS = ts
			haveTS = true
		}
		if !strings.Contains(line, tombstoneMarker) {
			continue
		}

		rec, ok := parseTombstoneWarning(line)
		if !ok {
			continue
		}
		if !haveTS {
			skipped++
			t.log.Debug().Str("line", truncateLine(line)).Msg("tombstone warning without timestamp context, skipped")
			continue
		}

		slot := b.slot(lastTS)
		b.set(slot, SeriesLiveRows, float64(rec.LiveRows))
		b.set(slot, SeriesTombstoneCells, float64(rec.Tombstones))
		b.set(slot, SeriesTombstoneRatio, rec.Ratio)

		queries = append(queries, rec)
		agg, ok := tables[rec.Table]
		if !ok {
			agg = &TableTombstones{Table: rec.Table}
			tables[rec.Table] = agg
		}
		agg.Tombstones += rec.Tombstones
		agg.LiveRows += rec.LiveRows
		agg.Queries++
	}

	b.setMeta(MetaQueryData, topQueries(queries, maxTrackedQueries))
	b.setMeta(MetaTableStats, rankTables(tables))

	out := b.build()
	t.log.Debug().
		Int("warnings", len(queries)).
		Int("tables", len(tables)).
		Int("skipped", skipped).
		Msg("tombstone extraction complete")
	return out
}

func parseTombstoneWarning(line string) (TombstoneQuery, bool) {
	if m := tombstoneQueryRe.FindStringSubmatch(line); m != nil {
		live, _ := strconv.Atoi(m[1])
		tombs, _ := strconv.Atoi(m[2])
		query := strings.TrimRight(strings.TrimSpace(m[3]), ";")
		id, _ := GenerateQueryID(query)
		return TombstoneQuery{
			QueryID:    id,
			Query:      query,
			Table:      tableFromQuery(query),
			LiveRows:   live,
			Tombstones: tombs,
			Ratio:      tombstoneRatio(live, tombs),
		}, true
	}
	if m := tombstoneLegacyRe.FindStringSubmatch(line); m != nil {
		live, _ := strconv.Atoi(m[1])
		tombs, _ := strconv.Atoi(m[2])
		return TombstoneQuery{
			Table:      strings.Trim(m[3], ".,;"),
			LiveRows:   live,
			Tombstones: tombs,
			Ratio:      tombstoneRatio(live, tombs),
		}, true
	}
	return TombstoneQuery{}, false
}

// tableFromQuery pulls the table name out of a CQL FROM clause, keyspace
// qualification and quoting tolerated.
func tableFromQuery(query string) string {
	m := fromClauseRe.FindStringSubmatch(query)
	if m == nil {
		return unknownTable
	}
	return strings.ReplaceAll(m[1], `"`, "")
}

func tombstoneRatio(live, tombstones int) float64 {
	total := live + tombstones
	if total == 0 {
		return 0
	}
	return float64(tombstones) / float64(total)
}

// topQueries keeps the n heaviest warnings by tombstone count. Ties keep
// their original log order.
func topQueries(queries []TombstoneQuery, n int) []TombstoneQuery {
	ranked := make([]TombstoneQuery, len(queries))
	copy(ranked, queries)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Tombstones > ranked[j].Tombstones
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func rankTables(tables map[string]*TableTombstones) []TableTombstones {
	ranked := make([]TableTombstones, 0, len(tables))
	for _, agg := range tables {
		ranked = append(ranked, *agg)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Tombstones != ranked[j].Tombstones {
			return ranked[i].Tombstones > ranked[j].Tombstones
		}
		return ranked[i].Table < ranked[j].Table
	})
	return ranked
}
