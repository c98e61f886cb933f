package main

import (
	"fmt"
	"time"

	"platter/internal/catalog"
	"platter/internal/search"
)

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

// formatDuration renders seconds as a compact duration like "2h25m0s".
func formatDuration(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	return time.Duration(seconds * float64(time.Second)).Round(time.Second).String()
}

// candidateLabel renders a human-facing label: "Goodfellas (1990)" for
// movies, "Breaking Bad S02E03" for resolved episodes.
func candidateLabel(candidate search.Candidate) string {
	label := candidate.Title
	if candidate.Kind == catalog.KindSeries && candidate.Season > 0 && candidate.Episode > 0 {
		return fmt.Sprintf("%s S%02dE%02d", label, candidate.Season, candidate.Episode)
	}
	if candidate.Year > 0 {
		return fmt.Sprintf("%s (%d)", label, candidate.Year)
	}
	return label
}
