//go:build !js

package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// ParseFiles reads every input into a single document, rotation order
// first. "-" reads from standard input. Individual file failures are
// logged and skipped; an error is returned only when no input could be
// read at all.
func ParseFiles(files []string, filters LogFilters, log zerolog.Logger) (*LogDocument, error) {
	if len(files) == 0 {
		return nil, ErrNoInput
	}

	ordered := make([]string, len(files))
	copy(ordered, files)
	SortRotated(ordered)

	doc := &LogDocument{}
	var errs []error
	for _, file := range ordered {
		if err := parseOne(doc, file, filters, log); err != nil {
			errs = append(errs, err)
			log.Error().Err(err).Str("file", file).Msg("skipping unreadable input")
		}
	}

	if len(errs) == len(ordered) {
		return nil, fmt.Errorf("%w: %w", ErrNoInput, errors.Join(errs...))
	}
	log.Info().Int("files", len(doc.Files)).Int("lines", len(doc.Lines)).Msg("inputs read")
	return doc, nil
}

// SupportedInput reports whether a path names something ParseFiles knows
// how to read: stdin, an archive, or a (possibly rotated or compressed)
// log file. Directory scans use it to skip snapshots, data files and JVM
// gc logs.
func SupportedInput(name string) bool {
	if name == "-" {
		return true
	}
	if isTarArchive(name) || isSevenZipArchive(name) {
		return true
	}
	return IsLogEntryName(name)
}

// parseOne dispatches a single input path to the matching reader.
func parseOne(doc *LogDocument, filename string, filters LogFilters, log zerolog.Logger) error {
	if filename == "-" {
		return parseStdin(doc, filters, log)
	}

	switch {
	case isTarArchive(filename):
		return parseTarArchive(doc, filename, filters, log)
	case isSevenZipArchive(filename):
		return parseSevenZipArchive(doc, filename, filters, log)
	}

	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("open %s: %w", filename, err)
	}
	defer file.Close()

	if codec, ok := codecForName(filename); ok {
		return parseCompressed(doc, filename, file, codec, filters, log)
	}
	return parsePlain(doc, filename, file, filters, log)
}

// parsePlain validates a sample of the file, then scans the sample plus
// the remaining stream.
func parsePlain(doc *LogDocument, filename string, file *os.File, filters LogFilters, log zerolog.Logger) error {
	sample, err := readSample(file)
	if err != nil {
		return fmt.Errorf("sampling %s: %w", filename, err)
	}
	if err := validateSample(filename, string(sample), log); err != nil {
		return err
	}

	info, err := readInto(doc, filename, io.MultiReader(bytes.NewReader(sample), file), filters)
	if err != nil {
		return err
	}
	doc.Files = append(doc.Files, info)
	return nil
}

// parseCompressed decompresses the file, validates a sample of the
// decompressed text, then scans the rest of the stream.
func parseCompressed(doc *LogDocument, filename string, file *os.File, codec compressionCodec, filters LogFilters, log zerolog.Logger) error {
	cr, err := codec.opener(file)
	if err != nil {
		return fmt.Errorf("%w: %s reader for %s: %v", ErrCompressionFailed, codec.name, filename, err)
	}
	defer cr.Close()

	sample, err := readSample(cr)
	if err != nil {
		return fmt.Errorf("%w: sampling %s: %v", ErrCompressionFailed, filename, err)
	}
	if err := validateSample(filename, string(sample), log); err != nil {
		return err
	}

	info, err := readInto(doc, filename, io.MultiReader(bytes.NewReader(sample), cr), filters)
	if err != nil {
		return err
	}
	info.Compressed = true
	doc.Files = append(doc.Files, info)
	return nil
}

// parseStdin reads from standard input. A sample is read first for binary
// detection, then rejoined with the remaining stream.
func parseStdin(doc *LogDocument, filters LogFilters, log zerolog.Logger) error {
	sample, err := readSample(os.Stdin)
	if err != nil {
		return fmt.Errorf("stdin: %w", err)
	}
	if err := validateSample("stdin", string(sample), log); err != nil {
		return err
	}

	info, err := readInto(doc, "stdin", io.MultiReader(bytes.NewReader(sample), os.Stdin), filters)
	if err != nil {
		return err
	}
	doc.Files = append(doc.Files, info)
	return nil
}

// readSample reads up to sampleBufferSize bytes for content detection.
func readSample(r io.Reader) ([]byte, error) {
	buf := make([]byte, sampleBufferSize)
	n, err := io.ReadAtLeast(r, buf, 1)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	return buf[:n], nil
}
