package parser

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

const (
	// sampleBufferSize bounds the probe read used for content detection.
	sampleBufferSize = 16 * 1024

	// binaryProbeLimit caps how many bytes the binary heuristic inspects.
	binaryProbeLimit = 4 * 1024
)

// isBinaryContent reports whether the sample looks like binary data rather
// than log text. A NUL byte is a hard signal; otherwise a high share of
// control bytes decides.
func isBinaryContent(sample string) bool {
	if sample == "" {
		return false
	}
	probe := sample
	if len(probe) > binaryProbeLimit {
		probe = probe[:binaryProbeLimit]
	}
	if strings.IndexByte(probe, 0x00) >= 0 {
		return true
	}
	control := 0
	for i := 0; i < len(probe); i++ {
		b := probe[i]
		if b < 0x20 && b != '\n' && b != '\r' && b != '\t' {
			control++
		}
	}
	return control*10 > len(probe)
}

// looksLikeSystemLog reports whether at least one sample line carries the
// standard prefix shape (level, bracketed thread, timestamp).
func looksLikeSystemLog(sample string) bool {
	for _, line := range strings.Split(sample, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if _, ok := SplitPrefix(trimmed); ok {
			return true
		}
	}
	return false
}

// looksJSONWrapped reports whether the first sample line is a JSON object
// holding the original line in a message field, the shape container log
// collectors write.
func looksJSONWrapped(sample string) bool {
	for _, line := range strings.Split(sample, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		_, ok := unwrapJSONLine(trimmed)
		return ok
	}
	return false
}

// validateSample rejects inputs that cannot be log text. Text that merely
// fails the prefix probe is allowed through with a warning; extraction
// copes with unknown lines.
func validateSample(name, sample string, log zerolog.Logger) error {
	if isBinaryContent(sample) {
		return fmt.Errorf("%s: %w", name, ErrBinaryFile)
	}
	if !looksLikeSystemLog(sample) && !looksJSONWrapped(sample) {
		log.Warn().Str("file", name).Msg("content does not match the expected log prefix shape, parsing anyway")
	}
	return nil
}

// IsLogEntryName reports whether a file or archive member name looks like
// a log file worth reading, rotated and compressed variants included. JVM
// gc logs are excluded, they use a different format.
func IsLogEntryName(name string) bool {
	base := name
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	family := classifyRotation(strings.ToLower(base)).family
	if !strings.HasSuffix(family, ".log") {
		return false
	}
	return !strings.HasPrefix(family, "gc.log")
}
