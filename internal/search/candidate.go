package search

import "sort"

// Confidence levels attached to candidates and resolved matches.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Candidate is one scored shortlist entry. Season and Episode are zero until
// the resolver pins an episodic candidate to a specific episode.
type Candidate struct {
	ExternalID     string `json:"external_id"`
	Title          string `json:"title"`
	Year           int    `json:"year"`
	Kind           string `json:"kind"`
	RuntimeMinutes int    `json:"runtime_minutes,omitempty"`
	Season         int    `json:"season,omitempty"`
	Episode        int    `json:"episode,omitempty"`
	Score          int    `json:"score"`
	Confidence     string `json:"confidence"`
	Reasoning      string `json:"reasoning,omitempty"`
}

// Sort orders candidates descending by score, breaking ties by the most
// recent release year.
func Sort(candidates []Candidate) {
	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].Score != candidates[b].Score {
			return candidates[a].Score > candidates[b].Score
		}
		return candidates[a].Year > candidates[b].Year
	})
}

// confidenceForScore maps a search score to a coarse confidence bucket. The
// resolver re-derives confidence from its own evidence; this only labels raw
// shortlist entries.
func confidenceForScore(score int) string {
	switch {
	case score >= 80:
		return ConfidenceHigh
	case score >= 40:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
