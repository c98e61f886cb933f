package reasoning

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// CharacterExtractionPrompt asks the model to pull character names out of raw
// dialogue. Names come back as a JSON array so decoding stays mechanical.
const CharacterExtractionPrompt = `You extract character names from movie and TV episode dialogue.

The dialogue comes from OCR'd disc subtitles: expect missing speaker labels,
occasional OCR errors, and no scene context. Only report names that are
actually addressed or referred to in the dialogue. Do not guess the title.
Do not invent names. Skip generic forms of address (sir, mom, doctor).

Respond ONLY with JSON: {"characters": ["Name", ...]}`

// SummarizationPrompt asks for a compact plot synopsis of one unit of
// content. The kind hint ("movie", "episode") shapes the expected length.
const SummarizationPrompt = `You summarize movie and TV episode dialogue into a plot synopsis.

The dialogue comes from disc subtitles in playback order. Lines reading
[LONG GAP] mark structural silences between distinct segments.

Write 3-6 sentences describing the plot events in order: who does what, key
locations, and how the story resolves. Use character names when the dialogue
provides them. Do not speculate about the title or franchise. Respond with
the synopsis text only, no preamble.`

// MatchPrompt asks the model to rank a candidate shortlist against a
// synopsis and commit to the best match.
const MatchPrompt = `You identify which catalog candidate matches a plot synopsis.

You receive a synopsis generated from disc subtitles and a numbered list of
candidates from a title database. Pick the single best match, or none when no
candidate plausibly fits. For episodic candidates, infer season and episode
when the episode guide or positional context supports it; leave them 0
otherwise. When an episode guide is listed, choose season and episode from
its entries.

Respond ONLY with JSON:
{"external_id": "...", "kind": "movie|episode|special", "season": 0, "episode": 0, "confidence": "high|medium|low", "reasoning": "brief reason"}

Use an empty external_id when no candidate matches.`

// CandidateSummary is one shortlist entry rendered into the match prompt.
type CandidateSummary struct {
	ExternalID     string
	Title          string
	Year           int
	Kind           string
	RuntimeMinutes int
	Score          int
}

// PositionalHints carries episode-ordering context for TV disks: hints from
// the parsed disk name, the video's 1-based position on the disk, and the
// episodes already resolved earlier in file order. The hints bias the model
// toward the next sequential episode without forcing it.
type PositionalHints struct {
	Season           int
	Disc             int
	Position         int
	ResolvedEpisodes []string
}

// EpisodeSummary is one episode-guide entry rendered into the match prompt.
type EpisodeSummary struct {
	Season         int
	Episode        int
	Name           string
	RuntimeMinutes int
}

// MatchRequest is one semantic-matching call.
type MatchRequest struct {
	Summary    string
	Candidates []CandidateSummary
	Hybrid     bool
	Episodes   []EpisodeSummary
	Positional *PositionalHints
}

func buildMatchPrompt(req MatchRequest) string {
	var b strings.Builder
	b.WriteString("Synopsis:\n")
	b.WriteString(strings.TrimSpace(req.Summary))
	b.WriteString("\n\nCandidates:\n")
	for i, candidate := range req.Candidates {
		fmt.Fprintf(&b, "%d. external_id=%s %q (%d) kind=%s", i+1, candidate.ExternalID, candidate.Title, candidate.Year, candidate.Kind)
		if candidate.RuntimeMinutes > 0 {
			fmt.Fprintf(&b, " runtime=%dm", candidate.RuntimeMinutes)
		}
		if candidate.Score > 0 {
			fmt.Fprintf(&b, " search_score=%d", candidate.Score)
		}
		b.WriteByte('\n')
	}
	if req.Hybrid {
		b.WriteString("\nThis disc mixes movie and episode content; both kinds are listed and both are acceptable answers.\n")
	}
	if len(req.Episodes) > 0 {
		b.WriteString("\nEpisode guide for the leading series candidate:\n")
		for _, episode := range req.Episodes {
			fmt.Fprintf(&b, "- S%02dE%02d %q", episode.Season, episode.Episode, episode.Name)
			if episode.RuntimeMinutes > 0 {
				fmt.Fprintf(&b, " runtime=%dm", episode.RuntimeMinutes)
			}
			b.WriteByte('\n')
		}
	}
	if p := req.Positional; p != nil {
		b.WriteString("\nPositional context:\n")
		if p.Season > 0 {
			fmt.Fprintf(&b, "- disk name suggests season %d\n", p.Season)
		}
		if p.Disc > 0 {
			fmt.Fprintf(&b, "- disk name suggests disc %d of the season\n", p.Disc)
		}
		if p.Position > 0 {
			fmt.Fprintf(&b, "- this video is file %d on the disk in playback order\n", p.Position)
		}
		if len(p.ResolvedEpisodes) > 0 {
			fmt.Fprintf(&b, "- episodes already identified on this disk, in order: %s\n", strings.Join(p.ResolvedEpisodes, ", "))
			b.WriteString("- episodes usually appear in sequential file order; prefer the next episode when the synopsis is consistent with it\n")
		}
	}
	return b.String()
}

func buildDialoguePrompt(dialogue []string, limit int) string {
	joined := strings.Join(dialogue, "\n")
	if limit > 0 && len(joined) > limit {
		// Back up to a rune boundary so the cut never splits a multi-byte
		// character.
		for limit > 0 && !utf8.RuneStart(joined[limit]) {
			limit--
		}
		joined = joined[:limit]
	}
	return joined
}
