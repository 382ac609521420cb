package cmd

import "runtime"

// extractorCount is the number of concurrent extractors the analyzer fans
// out to; more workers than that would sit idle.
const extractorCount = 4

// smallInputLines is the input size below which the fan-out and merge
// overhead outweighs the scan itself.
const smallInputLines = 5000

// resolveWorkers decides the effective extractor parallelism from the
// configured value (flag overrides already folded in) and the input size.
func resolveWorkers(configured, numLines int) int {
	workers := configured
	if workers < 1 {
		workers = 1
	}
	if n := runtime.NumCPU(); workers > n {
		workers = n
	}
	if workers > extractorCount {
		workers = extractorCount
	}
	if numLines < smallInputLines {
		return 1
	}
	return workers
}
