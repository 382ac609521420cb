//go:build !js

package parser

import (
	"fmt"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/rs/zerolog"
)

// parseSevenZipArchive reads supported log members from a .7z diagnostic
// bundle. Unlike tar, 7z allows random access, so members are read in
// rotation order and the document comes out roughly chronological.
func parseSevenZipArchive(doc *LogDocument, filename string, filters LogFilters, log zerolog.Logger) error {
	r, err := sevenzip.OpenReader(filename)
	if err != nil {
		return fmt.Errorf("open 7z archive %s: %w", filename, err)
	}
	defer r.Close()

	members := make(map[string]*sevenzip.File, len(r.File))
	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !IsLogEntryName(f.Name) {
			continue
		}
		members[f.Name] = f
		names = append(names, f.Name)
	}
	SortRotated(names)

	for _, name := range names {
		rc, err := members[name].Open()
		if err != nil {
			log.Error().Err(err).Str("archive", filename).Str("entry", name).Msg("failed to open archive member")
			continue
		}
		err = readArchiveMember(doc, filename, name, rc, filters)
		rc.Close()
		if err != nil {
			log.Error().Err(err).Str("archive", filename).Str("entry", name).Msg("failed to read archive member")
		}
	}
	return nil
}

// isSevenZipArchive reports whether the name designates a 7z archive.
func isSevenZipArchive(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".7z")
}
