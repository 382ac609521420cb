package analysis

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Extractor is the unit of the engine: one concern, one pass over the
// document, one aligned time series bundle out. Extractors never share
// state and never see each other's output.
type Extractor interface {
	Name() string
	Extract(lines []string) ParsedTimeSeries
}

// Analyzer fans one log document out to the four extractors and bundles
// their results. The zero value is not usable; construct with NewAnalyzer.
type Analyzer struct {
	log      zerolog.Logger
	parallel bool

	gc         Extractor
	threadPool Extractor
	tombstones Extractor
	slowReads  Extractor
}

// NewAnalyzer creates an analyzer. All extractors log through the given
// logger; pass a disabled logger to silence them. With parallel set, the
// four extractors run concurrently, one goroutine each.
func NewAnalyzer(log zerolog.Logger, parallel bool) *Analyzer {
	return &Analyzer{
		log:        log,
		parallel:   parallel,
		gc:         NewGCExtractor(log),
		threadPool: NewThreadPoolExtractor(log),
		tombstones: NewTombstoneExtractor(log),
		slowReads:  NewSlowReadExtractor(log),
	}
}

// Analyze splits a raw document into lines and runs the extractors.
func (a *Analyzer) Analyze(text string) (Results, error) {
	return a.AnalyzeLines(SplitLines(text))
}

// AnalyzeLines runs the extractors over an already-split document.
//
// A panicking extractor is contained: its concern comes back empty, the
// panic is reported in the joined error, and the remaining extractors still
// produce their results. Malformed individual lines never surface here at
// all; extractors skip them internally.
func (a *Analyzer) AnalyzeLines(lines []string) (Results, error) {
	start := time.Now()

	counts := countClasses(lines)
	a.log.Debug().
		Int("lines", counts.Total).
		Int("gc", counts.GC).
		Int("threadpool", counts.ThreadPool).
		Int("tombstone", counts.Tombstone).
		Int("slowread", counts.SlowRead).
		Msg("document classified")

	res := Results{
		GC:          EmptyTimeSeries(),
		ThreadPools: EmptyTimeSeries(),
		Tombstones:  EmptyTimeSeries(),
		SlowReads:   EmptyTimeSeries(),
	}
	jobs := []struct {
		ex  Extractor
		dst *ParsedTimeSeries
	}{
		{a.gc, &res.GC},
		{a.threadPool, &res.ThreadPools},
		{a.tombstones, &res.Tombstones},
		{a.slowReads, &res.SlowReads},
	}

	errs := make([]error, len(jobs))
	if a.parallel {
		var wg sync.WaitGroup
		for i, job := range jobs {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs[i] = runExtractor(job.ex, lines, job.dst)
			}()
		}
		wg.Wait()
	} else {
		for i, job := range jobs {
			errs[i] = runExtractor(job.ex, lines, job.dst)
		}
	}

	for i, err := range errs {
		if err != nil {
			a.log.Error().Err(err).Str("extractor", jobs[i].ex.Name()).Msg("extractor failed, result empty")
		}
	}

	a.log.Info().
		Int("lines", counts.Total).
		Int("gcEvents", len(res.GC.Timestamps)).
		Int("poolReports", len(res.ThreadPools.Timestamps)).
		Int("tombstoneWarnings", len(res.Tombstones.Timestamps)).
		Int("slowReads", len(res.SlowReads.Timestamps)).
		Dur("elapsed", time.Since(start)).
		Msg("analysis complete")

	return res, errors.Join(errs...)
}

// runExtractor contains a single extractor run, converting a panic into an
// error so one bad concern cannot take down the other three.
func runExtractor(ex Extractor, lines []string, dst *ParsedTimeSeries) (err error) {
	defer func() {
		if r := recover(); r != nil {
			*dst = EmptyTimeSeries()
			err = fmt.Errorf("extractor %s panicked: %v", ex.Name(), r)
		}
	}()
	*dst = ex.Extract(lines)
	return nil
}

// SplitLines splits a document on newlines, tolerating CRLF endings. A
// trailing newline does not produce a phantom empty line.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
