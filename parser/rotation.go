package parser

import (
	"sort"
	"strconv"
	"strings"
)

// rotationClass orders the members of one log family: archived dated
// rotations first, then numeric rotations, then the live file.
type rotationClass int

const (
	rotationDated rotationClass = iota
	rotationNumeric
	rotationLive
)

type rotationKey struct {
	family string
	class  rotationClass
	seq    int
	date   string
}

// SortRotated orders log file names oldest first so a concatenated read
// stays roughly chronological: within each family, dated rotations sort
// ascending, numeric rotations descending (logrotate counts up as files
// age), and the live file comes last.
func SortRotated(names []string) {
	keys := make(map[string]rotationKey, len(names))
	for _, n := range names {
		keys[n] = classifyRotation(n)
	}
	sort.SliceStable(names, func(i, j int) bool {
		a, b := keys[names[i]], keys[names[j]]
		if a.family != b.family {
			return a.family < b.family
		}
		if a.class != b.class {
			return a.class < b.class
		}
		switch a.class {
		case rotationDated:
			return a.date < b.date
		case rotationNumeric:
			return a.seq > b.seq
		}
		return false
	})
}

// classifyRotation splits a rotation marker off the file name. Compression
// extensions are stripped first so "system.log.1.gz" and "system.log.1"
// land in the same family.
func classifyRotation(name string) rotationKey {
	base := stripCompressionExt(name)
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		suffix := base[i+1:]
		if suffix != "" {
			if n, err := strconv.Atoi(suffix); err == nil {
				return rotationKey{family: base[:i], class: rotationNumeric, seq: n}
			}
			if isDateSuffix(suffix) {
				return rotationKey{family: base[:i], class: rotationDated, date: suffix}
			}
		}
	}
	return rotationKey{family: base, class: rotationLive}
}

// isDateSuffix matches rotation stamps that start with an ISO date, such
// as "2024-07-01" or "2024-07-01-3".
func isDateSuffix(s string) bool {
	if len(s) < 10 {
		return false
	}
	for i := 0; i < 10; i++ {
		switch i {
		case 4, 7:
			if s[i] != '-' {
				return false
			}
		default:
			if s[i] < '0' || s[i] > '9' {
				return false
			}
		}
	}
	return true
}

// stripCompressionExt removes a trailing compression extension so rotation
// suffixes underneath stay visible.
func stripCompressionExt(name string) string {
	lower := strings.ToLower(name)
	for _, ext := range []string{".gz", ".zst", ".zstd"} {
		if strings.HasSuffix(lower, ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}
