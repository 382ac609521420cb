package parser

import (
	"fmt"
	"io"
	"strings"
)

// ParseFromReader reads one text stream into a document. This is the entry
// point for the browser build, where file and archive handling happen
// before the content reaches the module.
func ParseFromReader(name string, r io.Reader, filters LogFilters) (*LogDocument, error) {
	doc := &LogDocument{}
	info, err := readInto(doc, name, r, filters)
	if err != nil {
		return nil, err
	}
	doc.Files = append(doc.Files, info)
	return doc, nil
}

// ParseFromString parses in-memory content, rejecting binary data up
// front. Convenience wrapper around ParseFromReader.
func ParseFromString(name, content string, filters LogFilters) (*LogDocument, error) {
	sample := content
	if len(sample) > sampleBufferSize {
		sample = sample[:sampleBufferSize]
	}
	if isBinaryContent(sample) {
		return nil, fmt.Errorf("%s: %w", name, ErrBinaryFile)
	}
	return ParseFromReader(name, strings.NewReader(content), filters)
}
