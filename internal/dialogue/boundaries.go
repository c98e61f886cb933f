package dialogue

import "math"

// BoundaryTuning parameterizes episode boundary selection. All values are
// seconds.
type BoundaryTuning struct {
	MinEpisode    float64 // shortest acceptable episode segment
	MaxEpisode    float64 // longest acceptable episode segment
	TargetEpisode float64 // typical episode length used to estimate the count
	MinSplit      float64 // recordings shorter than this are never split
	Tolerance     float64 // boundary/gap coincidence tolerance
}

// SelectBoundaries picks the subset of significant gap positions that cuts a
// long recording into episode-length segments.
//
// The episode count is estimated as round(total/TargetEpisode). For each of
// the k-1 evenly spaced ideal positions, the closest unused gap producing a
// segment within [MinEpisode, MaxEpisode] is chosen; ideals with no
// qualifying gap are skipped rather than forced. The result is discarded
// entirely when the final segment falls outside the episode band: a
// partially valid split is treated as no split.
func SelectBoundaries(gaps []Gap, total float64, tuning BoundaryTuning) []float64 {
	if total < tuning.MinSplit {
		return nil
	}
	k := int(math.Round(total / tuning.TargetEpisode))
	return chooseBoundaries(gaps, total, k, tuning)
}

func chooseBoundaries(gaps []Gap, total float64, k int, tuning BoundaryTuning) []float64 {
	if k < 2 || len(gaps) == 0 {
		return nil
	}

	used := make([]bool, len(gaps))
	chosen := make([]float64, 0, k-1)
	previous := 0.0

	for i := 1; i < k; i++ {
		ideal := float64(i) * total / float64(k)
		best := -1
		bestDistance := math.Inf(1)
		for j, gap := range gaps {
			if used[j] {
				continue
			}
			segment := gap.Position - previous
			if segment < tuning.MinEpisode || segment > tuning.MaxEpisode {
				continue
			}
			distance := math.Abs(gap.Position - ideal)
			if distance < bestDistance {
				bestDistance = distance
				best = j
			}
		}
		if best < 0 {
			continue
		}
		used[best] = true
		chosen = append(chosen, gaps[best].Position)
		previous = gaps[best].Position
	}

	if len(chosen) == 0 {
		return nil
	}
	final := total - chosen[len(chosen)-1]
	if final < tuning.MinEpisode || final > tuning.MaxEpisode {
		return nil
	}
	return chosen
}

// AtBoundary reports whether a position coincides with any chosen boundary
// within the tolerance.
func AtBoundary(position float64, boundaries []float64, tolerance float64) bool {
	for _, boundary := range boundaries {
		if math.Abs(position-boundary) <= tolerance {
			return true
		}
	}
	return false
}
