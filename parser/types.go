// Package parser turns raw log inputs (plain files, compressed files,
// archives, stdin) into flat line documents ready for extraction.
package parser

import (
	"errors"
	"time"
)

// Sentinel errors for input handling. Callers match them with errors.Is.
var (
	// ErrNoInput indicates that no readable input was found.
	ErrNoInput = errors.New("no readable input")

	// ErrBinaryFile indicates binary content where log text was expected.
	ErrBinaryFile = errors.New("binary content is not supported")

	// ErrCompressionFailed indicates a failure reading compressed content.
	ErrCompressionFailed = errors.New("failed to read compressed file")
)

// LogDocument is a fully read input: every surviving line of every source,
// in read order, plus per-source bookkeeping.
//
// Lines from multiple files are concatenated in rotation order (oldest
// first), so a document built from system.log.2 + system.log.1 + system.log
// reads roughly chronologically. Extraction sorts its own time axis, so
// exact ordering is not required.
type LogDocument struct {
	// Lines holds the log lines with line endings stripped.
	Lines []string

	// Files records one entry per source that contributed lines,
	// including individual archive members.
	Files []FileInfo
}

// FileInfo records where a slice of the document came from.
type FileInfo struct {
	// Name is the path of the source. Archive members are written as
	// "bundle.tar.gz!nodes/10.0.0.1/system.log".
	Name string

	// Lines is the number of lines kept after filtering.
	Lines int

	// Bytes is the decompressed text size that was scanned.
	Bytes int64

	// Compressed reports whether the source required decompression.
	Compressed bool
}

// LogFilters narrows which lines are kept while reading.
// Zero values disable the corresponding filter.
type LogFilters struct {
	// BeginT drops lines timestamped before this instant. Lines without
	// their own timestamp follow the last timestamped line, so multi-line
	// entries stay intact.
	BeginT time.Time

	// EndT drops lines timestamped after this instant.
	EndT time.Time

	// GrepExpr keeps only lines containing all of these substrings.
	// Applied per line, including continuation lines.
	GrepExpr []string
}

// Active reports whether any filter is set.
func (f LogFilters) Active() bool {
	return !f.BeginT.IsZero() || !f.EndT.IsZero() || len(f.GrepExpr) > 0
}
