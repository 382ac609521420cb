// Package cache stores extraction results keyed by input digest, so
// repeated runs over the same log text skip extraction entirely.
package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.etcd.io/bbolt"

	"github.com/pranjalkishor/Support-Metrics-Analyzer-sub000/analysis"
)

const bucketName = "results"

// schemaVersion is baked into every key. Bump it whenever the shape of
// Results or any metadata payload changes, so stale entries miss instead
// of decoding into the wrong shape.
const schemaVersion = "v1"

func init() {
	// Concrete types that travel inside Metadata's interface values.
	gob.Register(map[string]any{})
	gob.Register(map[string]int{})
	gob.Register([]string{})
	gob.Register([]analysis.EntityCount{})
	gob.Register([]analysis.TombstoneQuery{})
	gob.Register([]analysis.TableTombstones{})
}

// Store is a bbolt-backed result cache.
type Store struct {
	db  *bbolt.DB
	log zerolog.Logger
}

// Open opens or creates the cache database at path.
func Open(path string, log zerolog.Logger) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache %s (file may be locked by another process): %w", path, err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache bucket: %w", err)
	}

	log.Debug().Str("path", path).Msg("result cache opened")
	return &Store{db: db, log: log}, nil
}

// Key digests the input text together with the engine schema version.
func Key(text string) []byte {
	h := sha256.New()
	h.Write([]byte(schemaVersion))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return h.Sum(nil)
}

// KeyLines digests an already-split document without joining it back into
// one allocation. Line boundaries are part of the digest, so re-splitting
// the same text yields the same key.
func KeyLines(lines []string) []byte {
	h := sha256.New()
	h.Write([]byte(schemaVersion))
	h.Write([]byte{0})
	for _, line := range lines {
		h.Write([]byte(line))
		h.Write([]byte{'\n'})
	}
	return h.Sum(nil)
}

// Get returns the cached results for key. Misses and undecodable entries
// report ok=false; undecodable entries are removed.
func (s *Store) Get(key []byte) (analysis.Results, bool) {
	var raw []byte
	if err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket([]byte(bucketName)).Get(key); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	}); err != nil {
		s.log.Warn().Err(err).Msg("cache read failed")
		return analysis.Results{}, false
	}
	if raw == nil {
		return analysis.Results{}, false
	}

	var res analysis.Results
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&res); err != nil {
		s.log.Warn().Err(err).Msg("dropping undecodable cache entry")
		s.delete(key)
		return analysis.Results{}, false
	}
	return res, true
}

// Put stores results under key.
func (s *Store) Put(key []byte, res analysis.Results) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(res); err != nil {
		return fmt.Errorf("encode cached results: %w", err)
	}
	if err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put(key, buf.Bytes())
	}); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

func (s *Store) delete(key []byte) {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete(key)
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("cache delete failed")
	}
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
