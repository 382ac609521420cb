package output

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/pranjalkishor/Support-Metrics-Analyzer-sub000/analysis"
)

// histogramWidth is the maximum bar length in characters.
const histogramWidth = 40

// computePauseLoadHistogram splits the GC time axis into six equal buckets
// and accumulates pause milliseconds per bucket, so a reader can spot when
// the collector was busiest.
//
// Returns:
//   - histogram: bucket label ("15:04 - 15:04") to accumulated pause time
//   - labels: bucket labels in chronological order
//   - unit: "ms", "s" or "m" depending on the heaviest bucket
//   - scaleFactor: units per bar character
func computePauseLoadHistogram(gc analysis.ParsedTimeSeries) (map[string]int, []string, string, int) {
	values := gc.Series[analysis.SeriesGCDuration]
	if len(gc.Timestamps) == 0 || len(values) == 0 {
		return nil, nil, "", 0
	}

	start := gc.Timestamps[0]
	end := gc.Timestamps[len(gc.Timestamps)-1]

	numBuckets := 6
	bucketDuration := end.Sub(start) / time.Duration(numBuckets)
	if bucketDuration <= 0 {
		bucketDuration = 1 * time.Nanosecond
	}

	histogramMs := make([]int, numBuckets)
	labels := make([]string, numBuckets)
	for i := 0; i < numBuckets; i++ {
		bs := start.Add(time.Duration(i) * bucketDuration)
		be := start.Add(time.Duration(i+1) * bucketDuration)
		labels[i] = fmt.Sprintf("%s - %s", bs.Format("15:04"), be.Format("15:04"))
	}

	for i, ts := range gc.Timestamps {
		if i >= len(values) {
			break
		}
		idx := int(ts.Sub(start) / bucketDuration)
		if idx >= numBuckets {
			idx = numBuckets - 1
		}
		if idx < 0 {
			idx = 0
		}
		histogramMs[idx] += int(values[i])
	}

	maxLoad := 0
	for _, load := range histogramMs {
		if load > maxLoad {
			maxLoad = load
		}
	}

	var unit string
	var conversion int
	switch {
	case maxLoad < 1000:
		unit = "ms"
		conversion = 1
	case maxLoad < 60000:
		unit = "s"
		conversion = 1000
	default:
		unit = "m"
		conversion = 60000
	}

	// Round up so any non-zero bucket shows at least one unit.
	histogram := make(map[string]int, numBuckets)
	for i, load := range histogramMs {
		value := 0
		if load > 0 {
			value = (load + conversion - 1) / conversion
		}
		histogram[labels[i]] = value
	}

	return histogram, labels, unit, scaleFor(histogram)
}

// pauseDistributionHistogram reads the fixed-bucket pause distribution the
// GC extractor stores in metadata.
func pauseDistributionHistogram(gc analysis.ParsedTimeSeries) (map[string]int, []string, int) {
	dist := metaIntMap(gc, "pauseDistribution")
	if len(dist) == 0 {
		return nil, nil, 0
	}
	return dist, analysis.PauseBuckets, scaleFor(dist)
}

// scaleFor computes units per bar character so the longest bar fits the
// histogram width.
func scaleFor(data map[string]int) int {
	maxValue := 0
	for _, v := range data {
		if v > maxValue {
			maxValue = v
		}
	}
	scale := int(math.Ceil(float64(maxValue) / float64(histogramWidth)))
	if scale < 1 {
		scale = 1
	}
	return scale
}

// sortBucketLabels orders labels chronologically when they look like time
// ranges, alphabetically otherwise.
func sortBucketLabels(data map[string]int) []string {
	var labels []string
	for k := range data {
		labels = append(labels, k)
	}
	sort.Slice(labels, func(i, j int) bool {
		pi := strings.Split(labels[i], " - ")
		pj := strings.Split(labels[j], " - ")
		if len(pi) == 2 && len(pj) == 2 {
			ti, err1 := time.Parse("15:04", pi[0])
			tj, err2 := time.Parse("15:04", pj[0])
			if err1 == nil && err2 == nil {
				return ti.Before(tj)
			}
		}
		return labels[i] < labels[j]
	})
	return labels
}

// writeHistogramRows renders one bar per label in the shared
// "label | bar value unit" layout used by the text and markdown reports.
func writeHistogramRows(w io.Writer, indent string, data map[string]int, orderedLabels []string, unit string, scaleFactor int) {
	labels := orderedLabels
	if len(labels) == 0 {
		labels = sortBucketLabels(data)
	}
	if scaleFactor <= 0 {
		scaleFactor = 1
	}

	labelWidth := 0
	for _, l := range labels {
		if len(l) > labelWidth {
			labelWidth = len(l)
		}
	}

	for _, label := range labels {
		v := data[label]
		barLen := v / scaleFactor
		if barLen < 0 {
			barLen = 0
		}
		bar := strings.Repeat("■", barLen)

		valueStr := fmt.Sprintf("%d %s", v, unit)
		if v == 0 {
			valueStr = "-"
		}
		fmt.Fprintf(w, "%s%-*s | %s %s\n", indent, labelWidth, label, bar, valueStr)
	}
}

// printHistogramMarkdown wraps the shared bar renderer in a fenced block.
func printHistogramMarkdown(b *strings.Builder, data map[string]int, title, unit string, scaleFactor int, orderedLabels []string) {
	if len(data) == 0 {
		b.WriteString("(No data available)\n\n")
		return
	}
	b.WriteString(fmt.Sprintf("### %s\n\n```\n", title))
	writeHistogramRows(b, "", data, orderedLabels, unit, scaleFactor)
	b.WriteString("```\n\n")
}
