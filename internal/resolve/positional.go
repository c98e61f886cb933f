package resolve

import (
	"fmt"

	"platter/internal/discname"
	"platter/internal/reasoning"
)

// ResolvedEpisode is one episode pinned earlier in the same disk's file
// order.
type ResolvedEpisode struct {
	Season  int
	Episode int
}

// Label renders the conventional SxxEyy form used in prompts and logs.
func (r ResolvedEpisode) Label() string {
	return fmt.Sprintf("S%02dE%02d", r.Season, r.Episode)
}

// BuildHints assembles the positional context for one video on a TV disk:
// season/disc hints parsed from the directory name, the video's 1-based
// position among the disk's episode candidates, and everything already
// resolved on the disk in file order.
func BuildHints(parsed discname.Parsed, position int, resolved []ResolvedEpisode) *reasoning.PositionalHints {
	hints := &reasoning.PositionalHints{
		Season:   parsed.Season,
		Disc:     parsed.Disc,
		Position: position,
	}
	for _, episode := range resolved {
		hints.ResolvedEpisodes = append(hints.ResolvedEpisodes, episode.Label())
	}
	return hints
}

// NextSequential predicts the episode a video in this position would carry if
// the disk follows sequential file order. Episodes resolved earlier anchor
// the prediction; without any, the season hint (or season 1) starts at the
// video's position. This is a bias used to fill gaps the resolver left, never
// an override of an explicit answer.
func NextSequential(resolved []ResolvedEpisode, seasonHint, position int) (int, int) {
	if len(resolved) > 0 {
		last := resolved[len(resolved)-1]
		return last.Season, last.Episode + 1
	}
	season := seasonHint
	if season <= 0 {
		season = 1
	}
	if position <= 0 {
		position = 1
	}
	return season, position
}
