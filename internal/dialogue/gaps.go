package dialogue

import (
	"math"
	"sort"

	"platter/internal/subtitles"
)

// Gap is one inter-cue silence. Position is where the silence begins
// (previous cue end) in seconds from video start, Duration its length.
type Gap struct {
	Position float64 `json:"position_seconds"`
	Duration float64 `json:"duration_seconds"`
}

// GapStats summarizes a gap sample and carries the derived outlier threshold.
type GapStats struct {
	Count     int     `json:"count"`
	Median    float64 `json:"median_seconds"`
	Stddev    float64 `json:"stddev_seconds"`
	Threshold float64 `json:"threshold_seconds"`
	Adaptive  bool    `json:"adaptive"`
}

// GapsFromCues computes every inter-cue gap from cues in playback order.
// Overlapping or touching cues produce no gap.
func GapsFromCues(cues []subtitles.Cue) []Gap {
	if len(cues) < 2 {
		return nil
	}
	gaps := make([]Gap, 0, len(cues)-1)
	for i := 1; i < len(cues); i++ {
		duration := cues[i].Start - cues[i-1].End
		if duration <= 0 {
			continue
		}
		gaps = append(gaps, Gap{Position: cues[i-1].End, Duration: duration})
	}
	return gaps
}

// AnalyzeGaps derives the structural-silence threshold for a gap sample.
//
// With at least minSamples gaps the threshold adapts to the track's own
// pacing: max(10*median, median + 3*stddev). Sparse samples yield unstable
// statistics, so smaller samples fall back to fixedThreshold.
func AnalyzeGaps(gaps []Gap, fixedThreshold float64, minSamples int) GapStats {
	stats := GapStats{Count: len(gaps), Threshold: fixedThreshold}
	if len(gaps) == 0 {
		return stats
	}

	durations := make([]float64, len(gaps))
	for i, gap := range gaps {
		durations[i] = gap.Duration
	}
	stats.Median = median(durations)
	stats.Stddev = stddev(durations)

	if len(gaps) >= minSamples {
		stats.Threshold = math.Max(10*stats.Median, stats.Median+3*stats.Stddev)
		stats.Adaptive = true
	}
	return stats
}

// SignificantGaps returns the gaps whose duration exceeds the threshold,
// preserving playback order.
func SignificantGaps(gaps []Gap, threshold float64) []Gap {
	var significant []Gap
	for _, gap := range gaps {
		if gap.Duration > threshold {
			significant = append(significant, gap)
		}
	}
	return significant
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	cp := append([]float64(nil), values...)
	sort.Float64s(cp)
	mid := len(cp) / 2
	if len(cp)%2 == 1 {
		return cp[mid]
	}
	return (cp[mid-1] + cp[mid]) / 2
}

func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var squares float64
	for _, v := range values {
		diff := v - mean
		squares += diff * diff
	}
	return math.Sqrt(squares / float64(len(values)))
}
