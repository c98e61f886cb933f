package dialogue

import (
	"math"
	"testing"

	"platter/internal/subtitles"
)

func TestGapsFromCues(t *testing.T) {
	cues := []subtitles.Cue{
		{Start: 0, End: 2},
		{Start: 5, End: 7},    // 3s gap after first cue
		{Start: 7, End: 9},    // touching, no gap
		{Start: 8.5, End: 11}, // overlapping, no gap
		{Start: 12, End: 14},  // 1s gap
	}
	gaps := GapsFromCues(cues)
	if len(gaps) != 2 {
		t.Fatalf("expected 2 gaps, got %d: %+v", len(gaps), gaps)
	}
	if gaps[0].Position != 2 || gaps[0].Duration != 3 {
		t.Errorf("gap 0 = %+v, want position 2 duration 3", gaps[0])
	}
	if gaps[1].Position != 11 || gaps[1].Duration != 1 {
		t.Errorf("gap 1 = %+v, want position 11 duration 1", gaps[1])
	}

	if got := GapsFromCues([]subtitles.Cue{{Start: 0, End: 1}}); got != nil {
		t.Errorf("single cue should yield no gaps, got %+v", got)
	}
}

func gapSample(durations []float64) []Gap {
	gaps := make([]Gap, len(durations))
	position := 0.0
	for i, d := range durations {
		gaps[i] = Gap{Position: position, Duration: d}
		position += d + 2
	}
	return gaps
}

func TestAnalyzeGapsAdaptiveThreshold(t *testing.T) {
	// 29 gaps of 2s plus one 32s outlier: median 2, mean 3, stddev sqrt(29).
	durations := make([]float64, 30)
	for i := range durations {
		durations[i] = 2.0
	}
	durations[29] = 32.0

	stats := AnalyzeGaps(gapSample(durations), 60, 30)
	if !stats.Adaptive {
		t.Fatal("expected adaptive threshold with 30 samples")
	}
	if stats.Median != 2.0 {
		t.Errorf("median = %f, want 2.0", stats.Median)
	}
	// max(10*2, 2+3*sqrt(29)) = max(20, 18.15...) = 20
	if math.Abs(stats.Threshold-20.0) > 0.001 {
		t.Errorf("threshold = %f, want 20.0", stats.Threshold)
	}
}

func TestAnalyzeGapsStddevTermDominates(t *testing.T) {
	// 28 gaps of 1s plus two 50s outliers: median 1 but wide spread, so the
	// median+3*stddev term exceeds 10*median.
	durations := make([]float64, 30)
	for i := range durations {
		durations[i] = 1.0
	}
	durations[28] = 50.0
	durations[29] = 50.0

	stats := AnalyzeGaps(gapSample(durations), 60, 30)
	if !stats.Adaptive {
		t.Fatal("expected adaptive threshold with 30 samples")
	}
	if math.Abs(stats.Threshold-37.668) > 0.001 {
		t.Errorf("threshold = %f, want 37.668", stats.Threshold)
	}
}

func TestAnalyzeGapsSparseFallback(t *testing.T) {
	durations := make([]float64, 29)
	for i := range durations {
		durations[i] = 2.0
	}
	stats := AnalyzeGaps(gapSample(durations), 60, 30)
	if stats.Adaptive {
		t.Fatal("29 samples should not use the adaptive threshold")
	}
	if stats.Threshold != 60 {
		t.Errorf("threshold = %f, want fixed 60", stats.Threshold)
	}

	empty := AnalyzeGaps(nil, 60, 30)
	if empty.Count != 0 || empty.Threshold != 60 {
		t.Errorf("empty sample stats = %+v", empty)
	}
}

func TestSignificantGaps(t *testing.T) {
	gaps := []Gap{
		{Position: 10, Duration: 59.9},
		{Position: 100, Duration: 60.0},
		{Position: 200, Duration: 61.0},
	}
	significant := SignificantGaps(gaps, 60)
	if len(significant) != 1 {
		t.Fatalf("expected 1 significant gap, got %d", len(significant))
	}
	if significant[0].Position != 200 {
		t.Errorf("significant gap position = %f, want 200", significant[0].Position)
	}
}
