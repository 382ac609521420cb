//go:build !js

package parser

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// parseTarArchive reads every supported log member of a tar archive
// (optionally gzip or zstd compressed) into doc. Diagnostic bundles often
// carry one bad member among dozens of good ones, so member failures are
// logged and skipped rather than failing the archive.
//
// Members are read in archive order. Extraction sorts its own time axis,
// so out-of-order members only cost a little locality.
func parseTarArchive(doc *LogDocument, filename string, filters LogFilters, log zerolog.Logger) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("open archive %s: %w", filename, err)
	}
	defer file.Close()

	var reader io.Reader = file
	if codec, ok := archiveCodec(filename); ok {
		cr, err := codec.opener(file)
		if err != nil {
			return fmt.Errorf("%w: %s reader for archive %s: %v", ErrCompressionFailed, codec.name, filename, err)
		}
		defer cr.Close()
		reader = cr
	}

	tr := tar.NewReader(reader)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading archive %s: %w", filename, err)
		}
		if hdr == nil || hdr.Typeflag != tar.TypeReg || hdr.Size == 0 {
			continue
		}

		entryName := hdr.Name
		entryReader := io.LimitReader(tr, hdr.Size)

		if !IsLogEntryName(entryName) {
			if _, err := io.Copy(io.Discard, entryReader); err != nil {
				return fmt.Errorf("discarding %s in %s: %w", entryName, filename, err)
			}
			log.Debug().Str("archive", filename).Str("entry", entryName).Msg("skipping non-log archive member")
			continue
		}

		if err := readArchiveMember(doc, filename, entryName, entryReader, filters); err != nil {
			log.Error().Err(err).Str("archive", filename).Str("entry", entryName).Msg("failed to read archive member")
		}

		// Consume whatever the member reader left behind so the next
		// header lines up.
		if _, err := io.Copy(io.Discard, entryReader); err != nil {
			return fmt.Errorf("draining %s in %s: %w", entryName, filename, err)
		}
	}
	return nil
}

// readArchiveMember reads one archive member into doc, decompressing
// nested .gz or .zst members on the fly.
func readArchiveMember(doc *LogDocument, archive, entry string, r io.Reader, filters LogFilters) error {
	name := archive + "!" + entry

	codec, compressed := codecForName(entry)
	if compressed {
		cr, err := codec.opener(r)
		if err != nil {
			return fmt.Errorf("%w: %s in %s: %v", ErrCompressionFailed, entry, archive, err)
		}
		defer cr.Close()
		r = cr
	}

	info, err := readInto(doc, name, r, filters)
	if err != nil {
		return err
	}
	info.Compressed = compressed
	doc.Files = append(doc.Files, info)
	return nil
}

// archiveCodec returns the outer compression codec of a tar archive name.
func archiveCodec(name string) (compressionCodec, bool) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return gzipCodec, true
	case strings.HasSuffix(lower, ".tar.zst"), strings.HasSuffix(lower, ".tar.zstd"), strings.HasSuffix(lower, ".tzst"):
		return zstdCodec, true
	}
	return compressionCodec{}, false
}

// isTarArchive reports whether the name designates a tar archive in any
// supported compression variant.
func isTarArchive(name string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range []string{".tar", ".tar.gz", ".tgz", ".tar.zst", ".tar.zstd", ".tzst"} {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
