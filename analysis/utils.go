// analysis/utils.go
package analysis

import (
	"crypto/md5"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
)

var (
	cqlStringRe = regexp.MustCompile(`'[^']*'`)
	cqlNumberRe = regexp.MustCompile(`\b\d+(?:\.\d+)?\b`)
	cqlSpaceRe  = regexp.MustCompile(`\s+`)
)

// normalizeCQL standardizes a CQL statement so that repeated warnings for
// the same query shape share one identity. String and numeric literals are
// masked, whitespace collapsed, case folded.
func normalizeCQL(query string) string {
	query = strings.ReplaceAll(query, "\n", " ")
	query = cqlStringRe.ReplaceAllString(query, "?")
	query = cqlNumberRe.ReplaceAllString(query, "?")
	query = cqlSpaceRe.ReplaceAllString(query, " ")
	return strings.ToLower(strings.TrimSpace(query))
}

// GenerateQueryID generates a short identifier for a CQL statement. The
// prefix encodes the statement verb and the tail is a compact hash of the
// normalized form, so literal-only variations map to the same ID.
func GenerateQueryID(rawQuery string) (id, fullHash string) {
	lowerQuery := strings.ToLower(strings.TrimSpace(rawQuery))
	prefix := "xx-" // Default prefix.
	if strings.HasPrefix(lowerQuery, "select") {
		prefix = "se-"
	} else if strings.HasPrefix(lowerQuery, "insert") {
		prefix = "in-"
	} else if strings.HasPrefix(lowerQuery, "update") {
		prefix = "up-"
	} else if strings.HasPrefix(lowerQuery, "delete") {
		prefix = "de-"
	} else if strings.HasPrefix(lowerQuery, "batch") {
		prefix = "ba-"
	}

	// Compute the MD5 hash of the normalized query.
	hashBytes := md5.Sum([]byte(normalizeCQL(rawQuery)))
	fullHash = strings.ToLower(fmt.Sprintf("%x", hashBytes)) // 32 hex characters.

	// Convert the hash to base64 for a more compact representation.
	b64 := base64.StdEncoding.EncodeToString(hashBytes[:])
	// Remove special characters to obtain an alphanumeric string.
	b64 = strings.NewReplacer("+", "", "/", "", "=", "").Replace(b64)
	shortHash := b64
	if len(b64) > 6 {
		shortHash = b64[:6]
	}

	id = prefix + shortHash
	return
}

// QueryTypeFromID returns the statement verb encoded in an identifier
// prefix.
func QueryTypeFromID(id string) string {
	switch {
	case strings.HasPrefix(id, "se-"):
		return "select"
	case strings.HasPrefix(id, "in-"):
		return "insert"
	case strings.HasPrefix(id, "up-"):
		return "update"
	case strings.HasPrefix(id, "de-"):
		return "delete"
	case strings.HasPrefix(id, "ba-"):
		return "batch"
	default:
		return "other"
	}
}
