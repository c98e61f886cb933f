package dialogue

import (
	"math"
	"testing"
)

func testTuning() BoundaryTuning {
	return BoundaryTuning{
		MinEpisode:    15 * 60,
		MaxEpisode:    45 * 60,
		TargetEpisode: 25 * 60,
		MinSplit:      60 * 60,
		Tolerance:     5,
	}
}

func TestChooseBoundariesAllOrNothing(t *testing.T) {
	// 120-minute recording with structural gaps at 58:00 and 59:30. Cutting
	// at either leaves both halves outside the 15-45 minute band, so no
	// boundary set may be produced at all.
	gaps := []Gap{
		{Position: 58 * 60, Duration: 90},
		{Position: 59*60 + 30, Duration: 80},
	}
	boundaries := chooseBoundaries(gaps, 120*60, 2, testTuning())
	if boundaries != nil {
		t.Fatalf("expected no split, got boundaries %v", boundaries)
	}
}

func TestSelectBoundariesThreeEpisodes(t *testing.T) {
	// 90-minute recording holding three ~30-minute episodes. The noise gap
	// at 5:00 can never produce a segment inside the band and must be
	// ignored; the estimated count of four leaves one ideal with no
	// qualifying gap, which is skipped without forcing.
	gaps := []Gap{
		{Position: 5 * 60, Duration: 70},
		{Position: 29*60 + 55, Duration: 95},
		{Position: 60*60 + 2, Duration: 110},
	}
	boundaries := SelectBoundaries(gaps, 90*60, testTuning())
	if len(boundaries) != 2 {
		t.Fatalf("expected 2 boundaries, got %v", boundaries)
	}
	if math.Abs(boundaries[0]-(29*60+55)) > 0.001 || math.Abs(boundaries[1]-(60*60+2)) > 0.001 {
		t.Errorf("boundaries = %v, want [1795 3602]", boundaries)
	}
}

func TestSelectBoundariesShortRecording(t *testing.T) {
	gaps := []Gap{{Position: 25 * 60, Duration: 90}}
	if got := SelectBoundaries(gaps, 50*60, testTuning()); got != nil {
		t.Fatalf("recordings under the split minimum must not be split, got %v", got)
	}
}

func TestChooseBoundariesSingleEpisodeEstimate(t *testing.T) {
	gaps := []Gap{{Position: 10 * 60, Duration: 90}}
	if got := chooseBoundaries(gaps, 30*60, 1, testTuning()); got != nil {
		t.Fatalf("k<2 must not split, got %v", got)
	}
}

func TestAtBoundary(t *testing.T) {
	boundaries := []float64{1795, 3602}
	if !AtBoundary(1798, boundaries, 5) {
		t.Error("1798 should match boundary 1795 within 5s tolerance")
	}
	if AtBoundary(1789, boundaries, 5) {
		t.Error("1789 should not match boundary 1795 within 5s tolerance")
	}
}
