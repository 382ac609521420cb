package cmd

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/pranjalkishor/Support-Metrics-Analyzer-sub000/parser"
)

// collectFiles gathers all log inputs from the provided arguments.
// Arguments can be:
//   - "-" for standard input
//   - Individual files and archives
//   - Glob patterns (e.g. "*.log")
//   - Directories (scanned for supported inputs, non-recursive)
//
// Rotation ordering happens later, in the parser, once the full set is
// known.
func collectFiles(args []string, log zerolog.Logger) []string {
	var files []string

	for _, arg := range args {
		if arg == "-" {
			files = append(files, arg)
			continue
		}

		info, err := os.Stat(arg)
		if err == nil && info.IsDir() {
			dirFiles, err := gatherLogFiles(arg)
			if err != nil {
				log.Warn().Err(err).Str("dir", arg).Msg("skipping unreadable directory")
				continue
			}
			if len(dirFiles) == 0 {
				log.Warn().Str("dir", arg).Msg("no supported log files in directory")
			}
			files = append(files, dirFiles...)
			continue
		}

		// Try to expand as glob pattern
		matches, err := filepath.Glob(arg)
		if err != nil {
			log.Warn().Err(err).Str("pattern", arg).Msg("invalid pattern")
			continue
		}
		if len(matches) == 0 {
			log.Warn().Str("pattern", arg).Msg("no files match pattern")
			continue
		}
		files = append(files, matches...)
	}

	return files
}

// gatherLogFiles scans a directory for supported log inputs
// (non-recursive). Snapshots, SSTable data and other non-log content
// common in Cassandra log directories are skipped by the name check.
func gatherLogFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var logFiles []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if parser.SupportedInput(entry.Name()) {
			logFiles = append(logFiles, filepath.Join(dir, entry.Name()))
		}
	}

	return logFiles, nil
}
