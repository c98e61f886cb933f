package dialogue

import (
	"sort"

	"platter/internal/subtitles"
)

// GapMarker is inserted between dialogue lines at structural silences when a
// recording could not be split into episode segments.
const GapMarker = "[LONG GAP]"

// SegmentDurations converts boundary positions into per-segment lengths.
// Without boundaries the whole recording is a single segment.
func SegmentDurations(boundaries []float64, total float64) []float64 {
	if total <= 0 {
		return nil
	}
	if len(boundaries) == 0 {
		return []float64{total}
	}
	sorted := append([]float64(nil), boundaries...)
	sort.Float64s(sorted)

	segments := make([]float64, 0, len(sorted)+1)
	previous := 0.0
	for _, boundary := range sorted {
		segments = append(segments, boundary-previous)
		previous = boundary
	}
	return append(segments, total-previous)
}

// SplitCues partitions cues into per-episode groups at the chosen
// boundaries. A cue belongs to the segment its start time falls in.
func SplitCues(cues []subtitles.Cue, boundaries []float64) [][]subtitles.Cue {
	if len(boundaries) == 0 {
		return [][]subtitles.Cue{cues}
	}
	sorted := append([]float64(nil), boundaries...)
	sort.Float64s(sorted)

	groups := make([][]subtitles.Cue, len(sorted)+1)
	for _, cue := range cues {
		idx := sort.SearchFloat64s(sorted, cue.Start)
		groups[idx] = append(groups[idx], cue)
	}
	return groups
}

// MarkedDialogue renders cue texts in playback order with GapMarker lines
// inserted at significant gaps. This is the un-split fallback: structural
// silences stay visible to summarization without cutting the recording.
func MarkedDialogue(cues []subtitles.Cue, significant []Gap, tolerance float64) []string {
	positions := make([]float64, len(significant))
	for i, gap := range significant {
		positions[i] = gap.Position
	}
	sort.Float64s(positions)

	lines := make([]string, 0, len(cues)+len(positions))
	next := 0
	for _, cue := range cues {
		for next < len(positions) && positions[next]+tolerance < cue.Start {
			lines = append(lines, GapMarker)
			next++
		}
		if cue.Text != "" {
			lines = append(lines, cue.Text)
		}
	}
	return lines
}
