package search

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"platter/internal/catalog"
	"platter/internal/config"
	"platter/internal/logging"
	"platter/internal/services"
	"platter/internal/textutil"
)

const (
	castNameWeight     = 10
	titleQueryBase     = 30
	exactTitleBonus    = 25
	runtimeWindowBonus = 15
	exactRuntimeBonus  = 10
	yearMatchBonus     = 10

	perNameQueryLimit = 40
	titleQueryLimit   = 40
	runtimeQueryLimit = 40
)

// Query carries the evidence gathered for one unit of content. Both content
// kinds are always searched; franchises span movies and series, so the TV
// hint only tightens runtime windows, it never filters. A year parsed from
// the disk name earns a scoring bonus under the same rule.
type Query struct {
	TitleHint       string
	Year            int
	Names           []string
	Nouns           []string
	RuntimesMinutes []int
	TVHint          bool
}

// Searcher issues the weighted catalog queries and merges their results.
type Searcher struct {
	store  *catalog.Store
	cfg    *config.Config
	logger *slog.Logger
}

// NewSearcher builds a Searcher. The catalog store is read-only here.
func NewSearcher(store *catalog.Store, cfg *config.Config, logger *slog.Logger) *Searcher {
	return &Searcher{
		store:  store,
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "search"),
	}
}

// merged accumulates the per-title evidence across queries before scoring.
type merged struct {
	title        catalog.Title
	matchedNames map[string]struct{}
	titleHit     bool
	exactTitle   bool
	runtimeHit   bool
	exactRuntime bool
	sweepNames   map[string]struct{}
}

// Search runs the query set and returns the deduplicated, ranked shortlist.
// A store failure is structural: the shortlist stage cannot function without
// the catalog, so the error aborts the run.
func (s *Searcher) Search(ctx context.Context, query Query) ([]Candidate, error) {
	results := make(map[string]*merged)

	if err := s.searchByCast(ctx, query.Names, results); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "search", "cast query", "catalog unreachable", err)
	}

	titleHits, err := s.searchByTitle(ctx, query, results)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "search", "title query", "catalog unreachable", err)
	}

	if err := s.searchByRuntime(ctx, query, results); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "search", "runtime query", "catalog unreachable", err)
	}

	// Broad proper-noun sweep, only as a fallback when the title text led
	// nowhere. Requires several distinct matched names so a single common
	// word cannot drag in unrelated titles.
	if titleHits == 0 {
		if err := s.nounSweep(ctx, query.Nouns, results); err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "search", "noun sweep", "catalog unreachable", err)
		}
	}

	candidates := s.scoreAndRank(query, results)
	limit := s.cfg.Matching.ShortlistLimit
	if limit > 0 && len(candidates) > limit {
		candidates = candidates[:limit]
	}

	s.logger.Info("candidate shortlist built",
		logging.String(logging.FieldEventType, "shortlist"),
		logging.Int("result_titles", len(results)),
		logging.Int("shortlist", len(candidates)),
		logging.Int("title_hits", titleHits),
		logging.Int("names", len(query.Names)))
	return candidates, nil
}

func (s *Searcher) searchByCast(ctx context.Context, names []string, results map[string]*merged) error {
	if len(names) == 0 {
		return nil
	}
	matches, err := s.store.SearchByCast(ctx, names, perNameQueryLimit)
	if err != nil {
		return err
	}
	for _, match := range matches {
		entry := ensureEntry(results, match.Title)
		entry.matchedNames[strings.ToLower(match.MatchedName)] = struct{}{}
	}
	return nil
}

func (s *Searcher) searchByTitle(ctx context.Context, query Query, results map[string]*merged) (int, error) {
	normalized := textutil.NormalizeTitle(query.TitleHint)
	if normalized == "" {
		return 0, nil
	}
	titles, err := s.store.SearchByTitle(ctx, normalized, titleQueryLimit)
	if err != nil {
		return 0, err
	}
	for _, title := range titles {
		entry := ensureEntry(results, title)
		entry.titleHit = true
		if title.NormalizedName == normalized {
			entry.exactTitle = true
		}
		s.applyRuntimeEvidence(entry, query)
	}
	return len(titles), nil
}

// searchByRuntime pulls titles whose catalog runtime falls inside the window
// around each segment runtime. Runtime evidence reaches cast-only candidates
// this way, and a runtime-only title can still enter the shortlist for the
// semantic path to weigh.
func (s *Searcher) searchByRuntime(ctx context.Context, query Query, results map[string]*merged) error {
	// Query with the widest window; the kind-specific check narrows locally.
	window := s.cfg.Matching.MovieRuntimeWindowMins
	if w := s.cfg.Matching.TVRuntimeWindowMinutes; w > window {
		window = w
	}
	for _, target := range query.RuntimesMinutes {
		if target <= 0 {
			continue
		}
		titles, err := s.store.SearchByRuntime(ctx, target-window, target+window, runtimeQueryLimit)
		if err != nil {
			return err
		}
		for _, title := range titles {
			s.applyRuntimeEvidence(ensureEntry(results, title), query)
		}
	}
	return nil
}

func (s *Searcher) nounSweep(ctx context.Context, nouns []string, results map[string]*merged) error {
	if len(nouns) == 0 {
		return nil
	}
	matches, err := s.store.SearchByCast(ctx, nouns, perNameQueryLimit)
	if err != nil {
		return err
	}
	sweep := make(map[string]*merged)
	for _, match := range matches {
		entry := ensureEntry(sweep, match.Title)
		entry.sweepNames[strings.ToLower(match.MatchedName)] = struct{}{}
	}
	minimum := s.cfg.Matching.NounSweepMinimum
	for _, entry := range sweep {
		if len(entry.sweepNames) < minimum {
			continue
		}
		kept := ensureEntry(results, entry.title)
		for name := range entry.sweepNames {
			kept.matchedNames[name] = struct{}{}
		}
	}
	return nil
}

// applyRuntimeEvidence checks the candidate runtime against each target
// runtime using the kind-specific window: TV episodes run to schedule, so
// their window is tighter than the movie window. Ambiguous kinds take the
// tighter window when the disk evidence says TV.
func (s *Searcher) applyRuntimeEvidence(entry *merged, query Query) {
	if entry.title.RuntimeMinutes <= 0 {
		return
	}
	window := s.cfg.Matching.MovieRuntimeWindowMins
	switch entry.title.Kind {
	case catalog.KindSeries:
		window = s.cfg.Matching.TVRuntimeWindowMinutes
	case catalog.KindTVMovie, catalog.KindSpecial:
		if query.TVHint {
			window = s.cfg.Matching.TVRuntimeWindowMinutes
		}
	}
	for _, target := range query.RuntimesMinutes {
		if target <= 0 {
			continue
		}
		diff := entry.title.RuntimeMinutes - target
		if diff < 0 {
			diff = -diff
		}
		if diff == 0 {
			entry.runtimeHit = true
			entry.exactRuntime = true
			return
		}
		if diff <= window {
			entry.runtimeHit = true
		}
	}
}

func (s *Searcher) scoreAndRank(query Query, results map[string]*merged) []Candidate {
	candidates := make([]Candidate, 0, len(results))
	for _, entry := range results {
		score := len(entry.matchedNames) * castNameWeight
		var signals []string
		if n := len(entry.matchedNames); n > 0 {
			signals = append(signals, fmt.Sprintf("%d character name(s) in credited cast", n))
		}
		if entry.titleHit {
			score += titleQueryBase
			signals = append(signals, "title text match")
		}
		if entry.exactTitle {
			score += exactTitleBonus
			signals = append(signals, "exact title")
		}
		if query.Year > 0 && entry.title.Year == query.Year {
			score += yearMatchBonus
			signals = append(signals, "release year match")
		}
		if entry.runtimeHit {
			score += runtimeWindowBonus
			signals = append(signals, "runtime in window")
		}
		if entry.exactRuntime {
			score += exactRuntimeBonus
			signals = append(signals, "exact runtime")
		}
		if score <= 0 {
			continue
		}
		candidates = append(candidates, Candidate{
			ExternalID:     entry.title.ExternalID,
			Title:          entry.title.Name,
			Year:           entry.title.Year,
			Kind:           entry.title.Kind,
			RuntimeMinutes: entry.title.RuntimeMinutes,
			Score:          score,
			Confidence:     confidenceForScore(score),
			Reasoning:      strings.Join(signals, "; "),
		})
	}
	Sort(candidates)
	return candidates
}

func ensureEntry(results map[string]*merged, title catalog.Title) *merged {
	entry, ok := results[title.ExternalID]
	if !ok {
		entry = &merged{
			title:        title,
			matchedNames: make(map[string]struct{}),
			sweepNames:   make(map[string]struct{}),
		}
		results[title.ExternalID] = entry
	}
	return entry
}

// DistinctRuntimes converts segment durations in seconds into the deduplicated
// whole-minute targets fed to the runtime window queries.
func DistinctRuntimes(durationsSeconds []float64) []int {
	seen := make(map[int]struct{})
	var runtimes []int
	for _, seconds := range durationsSeconds {
		minutes := int(seconds/60 + 0.5)
		if minutes <= 0 {
			continue
		}
		if _, dup := seen[minutes]; dup {
			continue
		}
		seen[minutes] = struct{}{}
		runtimes = append(runtimes, minutes)
	}
	sort.Ints(runtimes)
	return runtimes
}
