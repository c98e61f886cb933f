package pattern

import (
	"math"
	"sort"
)

// Kind classifies what a disk's video durations suggest about its content.
type Kind string

const (
	Episodic      Kind = "episodic"
	SingleFeature Kind = "single_feature"
	Mixed         Kind = "mixed"
	Unknown       Kind = "unknown"
)

// Tuning parameterizes classification. Durations are seconds.
type Tuning struct {
	PlayAllTolerance float64 // relative tolerance for the play-all sum check
	EpisodicStddev   float64 // max main-content stddev for episodic, also the cluster width
	LongVideo        float64 // minimum duration of a feature-length video
}

// Result is the disk-level classification.
//
// PlayAllIndex and MainIndexes refer to positions in the duration slice
// passed to Classify. PlayAllIndex is -1 when no play-all video exists.
type Result struct {
	Kind            Kind
	PlayAllIndex    int
	MainIndexes     []int
	Mean            float64
	Stddev          float64
	SameLengthCount int
}

// Classify aggregates per-video durations into a disk-level pattern.
//
// A play-all video (one file concatenating the episodes that also exist
// individually) is detected first: the largest duration cluster is the
// episode evidence, and a video approximating that cluster's sum within the
// tolerance is flagged. Main content is then the remaining cluster with the
// greatest total duration, so feature-length videos outweigh a pile of
// short extras. Statistics exclude everything outside the main cluster.
func Classify(durations []float64, tuning Tuning) Result {
	res := Result{Kind: Unknown, PlayAllIndex: -1}

	valid := make([]int, 0, len(durations))
	for i, d := range durations {
		if d > 0 {
			valid = append(valid, i)
		}
	}
	if len(valid) == 0 {
		return res
	}
	if len(valid) == 1 {
		only := valid[0]
		res.MainIndexes = []int{only}
		res.Mean = durations[only]
		res.SameLengthCount = 1
		if durations[only] > tuning.LongVideo {
			res.Kind = SingleFeature
		}
		return res
	}

	clusters := clusterByDuration(durations, valid, tuning.EpisodicStddev)
	res.PlayAllIndex = findPlayAll(durations, valid, modalCluster(durations, clusters), tuning.PlayAllTolerance)

	remaining := valid
	if res.PlayAllIndex >= 0 {
		remaining = make([]int, 0, len(valid)-1)
		for _, i := range valid {
			if i != res.PlayAllIndex {
				remaining = append(remaining, i)
			}
		}
		clusters = clusterByDuration(durations, remaining, tuning.EpisodicStddev)
	}

	main := dominantCluster(durations, clusters)
	res.MainIndexes = main
	res.Mean, res.Stddev = meanStddev(durations, main)
	res.SameLengthCount = len(modalCluster(durations, clusters))

	longCount := 0
	for _, i := range remaining {
		if durations[i] > tuning.LongVideo {
			longCount++
		}
	}

	switch {
	case len(main) >= 2 && res.Stddev < tuning.EpisodicStddev:
		res.Kind = Episodic
	case longCount == 1:
		res.Kind = SingleFeature
	default:
		res.Kind = Mixed
	}
	return res
}

// clusterByDuration groups the given indexes into clusters of near-equal
// duration. Cluster membership is measured from the cluster's shortest
// member; width is absolute seconds.
func clusterByDuration(durations []float64, indexes []int, width float64) [][]int {
	sorted := append([]int(nil), indexes...)
	sort.Slice(sorted, func(a, b int) bool { return durations[sorted[a]] < durations[sorted[b]] })

	var clusters [][]int
	for _, idx := range sorted {
		n := len(clusters)
		if n > 0 {
			seed := clusters[n-1][0]
			if durations[idx]-durations[seed] <= width {
				clusters[n-1] = append(clusters[n-1], idx)
				continue
			}
		}
		clusters = append(clusters, []int{idx})
	}
	return clusters
}

// modalCluster returns the cluster with the most members, preferring greater
// total duration on ties.
func modalCluster(durations []float64, clusters [][]int) []int {
	var best []int
	bestTotal := 0.0
	for _, cluster := range clusters {
		total := 0.0
		for _, i := range cluster {
			total += durations[i]
		}
		if len(cluster) > len(best) || (len(cluster) == len(best) && total > bestTotal) {
			best = cluster
			bestTotal = total
		}
	}
	return best
}

// dominantCluster returns the cluster with the greatest total duration.
func dominantCluster(durations []float64, clusters [][]int) []int {
	var best []int
	bestTotal := -1.0
	for _, cluster := range clusters {
		total := 0.0
		for _, i := range cluster {
			total += durations[i]
		}
		if total > bestTotal {
			bestTotal = total
			best = cluster
		}
	}
	return best
}

// findPlayAll returns the index of a video whose duration approximates the
// sum of the modal cluster's other members, or -1. The sum needs at least
// two contributors: a pair of equal-length videos is a double feature, not
// a concatenation.
func findPlayAll(durations []float64, valid []int, modal []int, tolerance float64) int {
	candidates := append([]int(nil), valid...)
	sort.Slice(candidates, func(a, b int) bool { return durations[candidates[a]] > durations[candidates[b]] })

	for _, candidate := range candidates {
		sum := 0.0
		contributors := 0
		for _, i := range modal {
			if i == candidate {
				continue
			}
			sum += durations[i]
			contributors++
		}
		if contributors < 2 || sum <= 0 {
			continue
		}
		if math.Abs(durations[candidate]-sum) <= tolerance*sum {
			return candidate
		}
	}
	return -1
}

func meanStddev(durations []float64, indexes []int) (float64, float64) {
	if len(indexes) == 0 {
		return 0, 0
	}
	var sum float64
	for _, i := range indexes {
		sum += durations[i]
	}
	mean := sum / float64(len(indexes))

	if len(indexes) < 2 {
		return mean, 0
	}
	var squares float64
	for _, i := range indexes {
		diff := durations[i] - mean
		squares += diff * diff
	}
	return mean, math.Sqrt(squares / float64(len(indexes)))
}
