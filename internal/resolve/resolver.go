package resolve

import (
	"context"
	"fmt"
	"log/slog"

	"platter/internal/catalog"
	"platter/internal/config"
	"platter/internal/logging"
	"platter/internal/reasoning"
	"platter/internal/search"
	"platter/internal/services"
	"platter/internal/textutil"
)

const componentName = "resolve"

// episodeGuideLimit caps the episode guide rendered into the match prompt.
// Season-filtered guides stay small; an unfiltered long-running series would
// otherwise swamp the prompt.
const episodeGuideLimit = 60

// Request carries everything the resolver needs for one unit of content.
// Candidates must already be sorted by score. Positional and Resolved are
// only meaningful for TV or hybrid disks.
type Request struct {
	Label      string
	Characters []string
	Synopsis   string
	Candidates []search.Candidate
	Hybrid     bool
	Positional *reasoning.PositionalHints
	Resolved   []ResolvedEpisode
}

// Resolver picks the final match for one unit from its shortlist.
type Resolver struct {
	store  *catalog.Store
	svc    reasoning.Service
	cfg    *config.Config
	logger *slog.Logger
}

func NewResolver(store *catalog.Store, svc reasoning.Service, cfg *config.Config, logger *slog.Logger) *Resolver {
	return &Resolver{
		store:  store,
		svc:    svc,
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, componentName),
	}
}

// Resolve returns the chosen candidate, or nil when the unit stays
// unresolved. The character-evidence path runs first and, once it accepts,
// the semantic path never overrides it. Hybrid disks skip straight to the
// semantic path: cast overlap cannot separate a series from its tie-in movie,
// which shares the cast.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*search.Candidate, error) {
	if len(req.Candidates) == 0 {
		return nil, nil
	}

	if !req.Hybrid {
		match, err := r.characterMatch(ctx, req)
		if err != nil {
			return nil, err
		}
		if match != nil {
			return match, nil
		}
	}
	return r.semanticMatch(ctx, req)
}

// characterMatch counts how many extracted character names appear in each
// candidate's credited cast and accepts the best candidate once the count
// reaches the configured minimum.
func (r *Resolver) characterMatch(ctx context.Context, req Request) (*search.Candidate, error) {
	if len(req.Characters) == 0 {
		return nil, nil
	}

	best := -1
	bestCount := 0
	for i, candidate := range req.Candidates {
		cast, err := r.store.CastForExternalID(ctx, candidate.ExternalID)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, componentName, "cast lookup", candidate.ExternalID, err)
		}
		count := countMatchedNames(cast, req.Characters)
		if count > bestCount {
			bestCount = count
			best = i
		}
	}
	if best < 0 || bestCount < r.cfg.Matching.CharacterMatchMinimum {
		return nil, nil
	}

	match := req.Candidates[best]
	match.Confidence = search.ConfidenceHigh
	match.Reasoning = fmt.Sprintf("%d extracted character names matched the credited cast", bestCount)
	fillEpisode(&match, req)

	r.logger.Info("match resolved from character evidence",
		logging.String(logging.FieldEventType, "match_resolved"),
		logging.String("unit", req.Label),
		logging.String("external_id", match.ExternalID),
		logging.String(logging.FieldDecisionType, "character_evidence"),
		logging.Int("matched_names", bestCount))
	return &match, nil
}

// semanticMatch asks the reasoning service to pick a candidate from the
// synopsis. A declined or unparsable answer leaves the unit unresolved;
// only transport failures surface as errors.
func (r *Resolver) semanticMatch(ctx context.Context, req Request) (*search.Candidate, error) {
	if req.Synopsis == "" {
		r.logger.Info("no synopsis available, unit unresolved",
			logging.String(logging.FieldEventType, "match_unresolved"),
			logging.String("unit", req.Label))
		return nil, nil
	}

	summaries := make([]reasoning.CandidateSummary, 0, len(req.Candidates))
	for _, candidate := range req.Candidates {
		summaries = append(summaries, reasoning.CandidateSummary{
			ExternalID:     candidate.ExternalID,
			Title:          candidate.Title,
			Year:           candidate.Year,
			Kind:           candidate.Kind,
			RuntimeMinutes: candidate.RuntimeMinutes,
			Score:          candidate.Score,
		})
	}
	matchReq := reasoning.MatchRequest{
		Summary:    req.Synopsis,
		Candidates: summaries,
		Hybrid:     req.Hybrid,
		Positional: req.Positional,
	}
	if req.Positional != nil {
		matchReq.Episodes = r.episodeGuide(ctx, req.Candidates, req.Positional.Season)
	}
	result, err := r.svc.Match(ctx, matchReq)
	if err != nil {
		return nil, err
	}
	if result.ExternalID == "" {
		r.logger.Info("model declined to pick a candidate",
			logging.String(logging.FieldEventType, "match_unresolved"),
			logging.String("unit", req.Label),
			logging.String("reasoning", result.Reasoning))
		return nil, nil
	}

	match, ok := candidateByID(req.Candidates, result.ExternalID)
	if !ok {
		// normalizeMatchResult already drops unknown ids; this guards a
		// shortlist that changed between search and resolve.
		return nil, nil
	}
	match.Season = result.Season
	match.Episode = result.Episode
	match.Confidence = result.Confidence
	match.Reasoning = result.Reasoning
	r.validateEpisode(ctx, &match, req.Label)
	fillEpisode(&match, req)

	r.logger.Info("match resolved from synopsis",
		logging.String(logging.FieldEventType, "match_resolved"),
		logging.String("unit", req.Label),
		logging.String("external_id", match.ExternalID),
		logging.String(logging.FieldDecisionType, "semantic"),
		logging.String("confidence", match.Confidence))
	return &match, nil
}

// episodeGuide loads the episode table for the strongest series candidate so
// the model picks season and episode from real entries instead of guessing.
// A series without episode rows, or a lookup failure, leaves the prompt
// without a guide.
func (r *Resolver) episodeGuide(ctx context.Context, candidates []search.Candidate, season int) []reasoning.EpisodeSummary {
	series, ok := topSeriesCandidate(candidates)
	if !ok {
		return nil
	}
	episodes, err := r.store.EpisodesForSeries(ctx, series.ExternalID, season)
	if err != nil {
		r.logger.Warn("episode guide lookup failed",
			logging.String("external_id", series.ExternalID),
			logging.Error(err))
		return nil
	}
	if len(episodes) > episodeGuideLimit {
		episodes = episodes[:episodeGuideLimit]
	}
	guide := make([]reasoning.EpisodeSummary, 0, len(episodes))
	for _, episode := range episodes {
		guide = append(guide, reasoning.EpisodeSummary{
			Season:         episode.Season,
			Episode:        episode.Episode,
			Name:           episode.Name,
			RuntimeMinutes: episode.RuntimeMinutes,
		})
	}
	return guide
}

// validateEpisode checks a series answer against the episode table. An answer
// naming an episode the catalog does not list is cleared so the sequential
// bias fills it instead. A series without episode rows is left alone.
func (r *Resolver) validateEpisode(ctx context.Context, match *search.Candidate, unit string) {
	if match.Kind != catalog.KindSeries || match.Season == 0 || match.Episode == 0 {
		return
	}
	episodes, err := r.store.EpisodesForSeries(ctx, match.ExternalID, 0)
	if err != nil || len(episodes) == 0 {
		return
	}
	for _, episode := range episodes {
		if episode.Season == match.Season && episode.Episode == match.Episode {
			return
		}
	}
	attrs := append(logging.DecisionAttrs("episode_validation", "rejected",
		fmt.Sprintf("S%02dE%02d not in the episode table", match.Season, match.Episode)),
		logging.String("unit", unit),
		logging.String("external_id", match.ExternalID))
	r.logger.Info("episode answer not in catalog, falling back to sequential order", logging.Args(attrs...)...)
	match.Season, match.Episode = 0, 0
}

func topSeriesCandidate(candidates []search.Candidate) (search.Candidate, bool) {
	for _, candidate := range candidates {
		if candidate.Kind == catalog.KindSeries {
			return candidate, true
		}
	}
	return search.Candidate{}, false
}

// fillEpisode applies the sequential-order bias: a series match that came
// back without an explicit episode inherits the next episode in disk order.
// Explicit answers are left alone.
func fillEpisode(match *search.Candidate, req Request) {
	if match.Kind != catalog.KindSeries || req.Positional == nil {
		return
	}
	if match.Season != 0 && match.Episode != 0 {
		return
	}
	season, episode := NextSequential(req.Resolved, req.Positional.Season, req.Positional.Position)
	if match.Season == 0 {
		match.Season = season
	}
	if match.Episode == 0 {
		match.Episode = episode
	}
}

// countMatchedNames counts the distinct extracted names that appear in the
// candidate's cast, matching against the character credit first and the
// actor name as a fallback for content where dialogue uses real names.
func countMatchedNames(cast []catalog.CastMember, names []string) int {
	count := 0
	for _, name := range names {
		for _, member := range cast {
			if textutil.ContainsName(member.Character, name) || textutil.ContainsName(member.Actor, name) {
				count++
				break
			}
		}
	}
	return count
}

func candidateByID(candidates []search.Candidate, externalID string) (search.Candidate, bool) {
	for _, candidate := range candidates {
		if candidate.ExternalID == externalID {
			return candidate, true
		}
	}
	return search.Candidate{}, false
}
