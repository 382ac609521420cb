package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pranjalkishor/Support-Metrics-Analyzer-sub000/analysis"
	"golang.org/x/term"
)

// queryTableColumn represents one column of the tombstone query table.
type queryTableColumn struct {
	// Header is the column header text.
	Header string

	// Width is the column width (0 = default).
	Width int

	// Alignment is "left" or "right".
	Alignment string

	// ValueFunc extracts the column value from a query.
	ValueFunc func(q analysis.TombstoneQuery) string
}

func tombstoneColumns() []queryTableColumn {
	return []queryTableColumn{
		{Header: "ID", Width: 10, Alignment: "left", ValueFunc: func(q analysis.TombstoneQuery) string {
			if q.QueryID == "" {
				return "-"
			}
			return q.QueryID
		}},
		{Header: "Table", Width: 28, Alignment: "left", ValueFunc: func(q analysis.TombstoneQuery) string {
			if q.Table == "" {
				return "-"
			}
			return q.Table
		}},
		{Header: "Tombstones", Width: 10, Alignment: "right", ValueFunc: func(q analysis.TombstoneQuery) string {
			return formatIntWithCommas(int64(q.Tombstones))
		}},
		{Header: "Live", Width: 10, Alignment: "right", ValueFunc: func(q analysis.TombstoneQuery) string {
			return formatIntWithCommas(int64(q.LiveRows))
		}},
		{Header: "Ratio", Width: 6, Alignment: "right", ValueFunc: func(q analysis.TombstoneQuery) string {
			return fmt.Sprintf("%.2f", q.Ratio)
		}},
		{Header: "Query", Alignment: "left", ValueFunc: func(q analysis.TombstoneQuery) string {
			return q.Query
		}},
	}
}

// printTombstoneQueries prints the worst tombstone-reading queries. On wide
// terminals the full query text gets a column; narrow terminals drop it and
// keep the per-table numbers.
func printTombstoneQueries(w io.Writer, queries []analysis.TombstoneQuery, limit int) {
	if len(queries) == 0 {
		return
	}
	if limit > 0 && len(queries) > limit {
		queries = queries[:limit]
	}

	termWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		termWidth = 120
	}
	wideMode := termWidth >= 120

	bold := "\033[1m"
	reset := "\033[0m"

	columns := tombstoneColumns()
	if !wideMode {
		columns = columns[:len(columns)-1]
	}

	// Query column takes what remains of the terminal, 40 columns minimum.
	queryWidth := termWidth
	for _, col := range columns {
		if col.Header != "Query" {
			queryWidth -= col.Width + 2
		}
	}
	if queryWidth < 40 {
		queryWidth = 40
	}

	var headerParts []string
	totalWidth := 0
	for i, col := range columns {
		width := col.Width
		if col.Header == "Query" {
			width = queryWidth
		}
		if col.Alignment == "right" {
			headerParts = append(headerParts, fmt.Sprintf("%*s", width, col.Header))
		} else {
			headerParts = append(headerParts, fmt.Sprintf("%-*s", width, col.Header))
		}
		totalWidth += width
		if i < len(columns)-1 {
			totalWidth += 2
		}
	}

	fmt.Fprint(w, "  ", bold)
	fmt.Fprintln(w, strings.Join(headerParts, "  "))
	fmt.Fprint(w, reset)
	fmt.Fprintln(w, "  "+strings.Repeat("-", totalWidth))

	for _, q := range queries {
		var rowParts []string
		for _, col := range columns {
			value := col.ValueFunc(q)
			width := col.Width
			if col.Header == "Query" {
				width = queryWidth
				value = truncateQuery(value, width)
			}
			if col.Alignment == "right" {
				rowParts = append(rowParts, fmt.Sprintf("%*s", width, value))
			} else {
				rowParts = append(rowParts, fmt.Sprintf("%-*s", width, value))
			}
		}
		fmt.Fprintln(w, "  "+strings.Join(rowParts, "  "))
	}
}

// truncateQuery shortens a query to fit the column, marking the cut.
func truncateQuery(q string, width int) string {
	if width <= 3 || len(q) <= width {
		return q
	}
	return q[:width-3] + "..."
}
