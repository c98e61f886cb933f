package resolve

import (
	"context"
	"path/filepath"
	"testing"

	"platter/internal/catalog"
	"platter/internal/config"
	"platter/internal/discname"
	"platter/internal/logging"
	"platter/internal/reasoning"
	"platter/internal/search"
)

type fakeReasoner struct {
	result  reasoning.MatchResult
	err     error
	calls   int
	lastReq reasoning.MatchRequest
}

func (f *fakeReasoner) ExtractCharacters(context.Context, []string) ([]string, error) {
	return nil, nil
}

func (f *fakeReasoner) Summarize(context.Context, []string, string) (string, error) {
	return "", nil
}

func (f *fakeReasoner) Match(_ context.Context, req reasoning.MatchRequest) (reasoning.MatchResult, error) {
	f.calls++
	f.lastReq = req
	return f.result, f.err
}

func (f *fakeReasoner) HealthCheck(context.Context) error { return nil }

func newTestResolver(t *testing.T, svc reasoning.Service) (*Resolver, *catalog.Store, *config.Config) {
	t.Helper()
	cfg := config.Default()
	cfg.Catalog.Path = filepath.Join(t.TempDir(), "catalog.db")
	store, err := catalog.Open(&cfg)
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return NewResolver(store, svc, &cfg, logging.NewNop()), store, &cfg
}

func seedCast(t *testing.T, store *catalog.Store, externalID, name, kind string, cast []catalog.CastMember) {
	t.Helper()
	title := catalog.Title{ExternalID: externalID, Name: name, Kind: kind, Year: 2005, RuntimeMinutes: 120}
	if _, err := store.AddTitle(context.Background(), title, cast, nil); err != nil {
		t.Fatalf("seed %s: %v", externalID, err)
	}
}

func TestResolveCharacterEvidenceWins(t *testing.T) {
	// The fake reasoner would pick tt2; character evidence must pick tt1 and
	// the semantic path must never run.
	fake := &fakeReasoner{result: reasoning.MatchResult{ExternalID: "tt2", Kind: "movie", Confidence: "high"}}
	resolver, store, _ := newTestResolver(t, fake)
	seedCast(t, store, "tt1", "Batman Begins", catalog.KindMovie, []catalog.CastMember{
		{Actor: "Christian Bale", Character: "Bruce Wayne"},
		{Actor: "Michael Caine", Character: "Alfred"},
		{Actor: "Gary Oldman", Character: "Jim Gordon"},
	})
	seedCast(t, store, "tt2", "Unrelated Picture", catalog.KindMovie, nil)

	match, err := resolver.Resolve(context.Background(), Request{
		Label:      "title_00",
		Characters: []string{"Bruce", "Alfred", "Gordon"},
		Synopsis:   "A vigilante defends his city.",
		Candidates: []search.Candidate{
			{ExternalID: "tt2", Title: "Unrelated Picture", Kind: catalog.KindMovie, Score: 55},
			{ExternalID: "tt1", Title: "Batman Begins", Kind: catalog.KindMovie, Score: 40},
		},
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if match == nil || match.ExternalID != "tt1" {
		t.Fatalf("expected character-evidence match tt1, got %+v", match)
	}
	if match.Confidence != search.ConfidenceHigh {
		t.Fatalf("character-evidence matches are high confidence, got %q", match.Confidence)
	}
	if fake.calls != 0 {
		t.Fatalf("semantic path must not run after character evidence accepts, got %d calls", fake.calls)
	}
}

func TestResolveCharacterEvidenceBelowMinimumFallsBack(t *testing.T) {
	fake := &fakeReasoner{result: reasoning.MatchResult{ExternalID: "tt1", Kind: "movie", Confidence: "medium", Reasoning: "synopsis describes a heist"}}
	resolver, store, _ := newTestResolver(t, fake)
	seedCast(t, store, "tt1", "Heat", catalog.KindMovie, []catalog.CastMember{
		{Actor: "Al Pacino", Character: "Vincent Hanna"},
		{Actor: "Robert De Niro", Character: "Neil McCauley"},
	})

	match, err := resolver.Resolve(context.Background(), Request{
		Label:      "title_00",
		Characters: []string{"Vincent", "Neil"},
		Synopsis:   "A detective pursues a crew of career thieves.",
		Candidates: []search.Candidate{{ExternalID: "tt1", Title: "Heat", Kind: catalog.KindMovie, Score: 70}},
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if fake.calls != 1 {
		t.Fatalf("two matched names is below the minimum, semantic path should run")
	}
	if match == nil || match.ExternalID != "tt1" {
		t.Fatalf("expected semantic match, got %+v", match)
	}
	if match.Confidence != "medium" || match.Reasoning != "synopsis describes a heist" {
		t.Fatalf("semantic result fields not carried over: %+v", match)
	}
}

func TestResolveHybridAlwaysSemantic(t *testing.T) {
	fake := &fakeReasoner{result: reasoning.MatchResult{ExternalID: "tt1", Kind: "movie", Confidence: "high"}}
	resolver, store, _ := newTestResolver(t, fake)
	seedCast(t, store, "tt1", "Series Finale Movie", catalog.KindTVMovie, []catalog.CastMember{
		{Actor: "A", Character: "Hawkeye"},
		{Actor: "B", Character: "Hot Lips"},
		{Actor: "C", Character: "Radar"},
	})

	_, err := resolver.Resolve(context.Background(), Request{
		Label:      "title_00",
		Characters: []string{"Hawkeye", "Hot Lips", "Radar"},
		Synopsis:   "The war ends and the unit goes home.",
		Candidates: []search.Candidate{{ExternalID: "tt1", Title: "Series Finale Movie", Kind: catalog.KindTVMovie, Score: 80}},
		Hybrid:     true,
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if fake.calls != 1 {
		t.Fatal("hybrid disks must always use the semantic path")
	}
	if !fake.lastReq.Hybrid {
		t.Fatal("hybrid flag not forwarded to the reasoning request")
	}
}

func TestResolveNoSynopsisUnresolved(t *testing.T) {
	fake := &fakeReasoner{}
	resolver, _, _ := newTestResolver(t, fake)

	match, err := resolver.Resolve(context.Background(), Request{
		Label:      "title_00",
		Candidates: []search.Candidate{{ExternalID: "tt1", Title: "Something", Kind: catalog.KindMovie, Score: 70}},
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if match != nil {
		t.Fatalf("no characters and no synopsis should leave the unit unresolved, got %+v", match)
	}
	if fake.calls != 0 {
		t.Fatal("semantic path must not run without a synopsis")
	}
}

func TestResolveModelDeclines(t *testing.T) {
	fake := &fakeReasoner{result: reasoning.MatchResult{Kind: "unknown", Confidence: "low"}}
	resolver, _, _ := newTestResolver(t, fake)

	match, err := resolver.Resolve(context.Background(), Request{
		Label:      "title_00",
		Synopsis:   "Too generic to place.",
		Candidates: []search.Candidate{{ExternalID: "tt1", Title: "Something", Kind: catalog.KindMovie, Score: 70}},
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if match != nil {
		t.Fatalf("declined answer should leave the unit unresolved, got %+v", match)
	}
}

func TestResolveEmptyShortlist(t *testing.T) {
	fake := &fakeReasoner{}
	resolver, _, _ := newTestResolver(t, fake)

	match, err := resolver.Resolve(context.Background(), Request{Label: "title_00", Synopsis: "anything"})
	if err != nil || match != nil {
		t.Fatalf("empty shortlist must resolve to nothing, got %+v, %v", match, err)
	}
	if fake.calls != 0 {
		t.Fatal("no candidates means no reasoning call")
	}
}

func TestResolveSequentialEpisodeFill(t *testing.T) {
	// The model picks the series but leaves season/episode empty; the
	// positional bias fills in the next episode after the last resolved one.
	fake := &fakeReasoner{result: reasoning.MatchResult{ExternalID: "tt1", Kind: "episode", Confidence: "medium"}}
	resolver, _, _ := newTestResolver(t, fake)

	match, err := resolver.Resolve(context.Background(), Request{
		Label:      "title_02",
		Synopsis:   "The crew investigates a derelict station.",
		Candidates: []search.Candidate{{ExternalID: "tt1", Title: "Deep Space", Kind: catalog.KindSeries, Score: 75}},
		Positional: &reasoning.PositionalHints{Season: 2, Position: 3},
		Resolved:   []ResolvedEpisode{{Season: 2, Episode: 5}, {Season: 2, Episode: 6}},
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if match == nil {
		t.Fatal("expected a match")
	}
	if match.Season != 2 || match.Episode != 7 {
		t.Fatalf("expected sequential fill S02E07, got S%02dE%02d", match.Season, match.Episode)
	}
}

func TestResolveSemanticSendsEpisodeGuide(t *testing.T) {
	fake := &fakeReasoner{result: reasoning.MatchResult{ExternalID: "tt1", Kind: "episode", Season: 2, Episode: 2, Confidence: "high"}}
	resolver, store, _ := newTestResolver(t, fake)
	title := catalog.Title{ExternalID: "tt1", Name: "Deep Space", Kind: catalog.KindSeries, Year: 1993, RuntimeMinutes: 45}
	episodes := []catalog.Episode{
		{Season: 2, Episode: 1, Name: "The Homecoming", RuntimeMinutes: 46},
		{Season: 2, Episode: 2, Name: "The Circle", RuntimeMinutes: 46},
	}
	if _, err := store.AddTitle(context.Background(), title, nil, episodes); err != nil {
		t.Fatal(err)
	}

	match, err := resolver.Resolve(context.Background(), Request{
		Label:      "title_01",
		Synopsis:   "A political coup unfolds on the station.",
		Candidates: []search.Candidate{{ExternalID: "tt1", Title: "Deep Space", Kind: catalog.KindSeries, Score: 75}},
		Positional: &reasoning.PositionalHints{Season: 2, Position: 2},
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(fake.lastReq.Episodes) != 2 {
		t.Fatalf("expected the season's episode guide in the request, got %v", fake.lastReq.Episodes)
	}
	if fake.lastReq.Episodes[1].Name != "The Circle" || fake.lastReq.Episodes[1].Episode != 2 {
		t.Fatalf("unexpected guide entry %+v", fake.lastReq.Episodes[1])
	}
	if match == nil || match.Season != 2 || match.Episode != 2 {
		t.Fatalf("catalog-listed answer must be kept, got %+v", match)
	}
}

func TestResolveRejectsEpisodeOutsideCatalog(t *testing.T) {
	// The model names an episode the catalog does not list; the answer falls
	// back to the sequential-order bias.
	fake := &fakeReasoner{result: reasoning.MatchResult{ExternalID: "tt1", Kind: "episode", Season: 9, Episode: 14, Confidence: "high"}}
	resolver, store, _ := newTestResolver(t, fake)
	title := catalog.Title{ExternalID: "tt1", Name: "Deep Space", Kind: catalog.KindSeries, Year: 1993, RuntimeMinutes: 45}
	episodes := []catalog.Episode{
		{Season: 2, Episode: 1, Name: "The Homecoming"},
		{Season: 2, Episode: 2, Name: "The Circle"},
		{Season: 2, Episode: 3, Name: "The Siege"},
	}
	if _, err := store.AddTitle(context.Background(), title, nil, episodes); err != nil {
		t.Fatal(err)
	}

	match, err := resolver.Resolve(context.Background(), Request{
		Label:      "title_00",
		Synopsis:   "The station changes hands.",
		Candidates: []search.Candidate{{ExternalID: "tt1", Title: "Deep Space", Kind: catalog.KindSeries, Score: 75}},
		Positional: &reasoning.PositionalHints{Season: 2, Position: 1},
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if match == nil {
		t.Fatal("expected a match")
	}
	if match.Season != 2 || match.Episode != 1 {
		t.Fatalf("rejected answer should fall back to S02E01, got S%02dE%02d", match.Season, match.Episode)
	}
}

func TestResolveExplicitEpisodeNotOverridden(t *testing.T) {
	fake := &fakeReasoner{result: reasoning.MatchResult{ExternalID: "tt1", Kind: "episode", Season: 3, Episode: 1, Confidence: "high"}}
	resolver, _, _ := newTestResolver(t, fake)

	match, err := resolver.Resolve(context.Background(), Request{
		Label:      "title_00",
		Synopsis:   "A season premiere.",
		Candidates: []search.Candidate{{ExternalID: "tt1", Title: "Deep Space", Kind: catalog.KindSeries, Score: 75}},
		Positional: &reasoning.PositionalHints{Season: 2, Position: 1},
		Resolved:   []ResolvedEpisode{{Season: 2, Episode: 9}},
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if match.Season != 3 || match.Episode != 1 {
		t.Fatalf("explicit model answer must win over the bias, got S%02dE%02d", match.Season, match.Episode)
	}
}

func TestBuildHints(t *testing.T) {
	parsed := discname.Parse("Breaking_Bad_S2_D1")
	hints := BuildHints(parsed, 2, []ResolvedEpisode{{Season: 2, Episode: 1}})
	if hints.Season != 2 || hints.Disc != 1 || hints.Position != 2 {
		t.Fatalf("unexpected hints %+v", hints)
	}
	if len(hints.ResolvedEpisodes) != 1 || hints.ResolvedEpisodes[0] != "S02E01" {
		t.Fatalf("unexpected resolved episodes %v", hints.ResolvedEpisodes)
	}
}

func TestNextSequential(t *testing.T) {
	if s, e := NextSequential(nil, 0, 1); s != 1 || e != 1 {
		t.Fatalf("empty state should start at S01E01, got S%02dE%02d", s, e)
	}
	if s, e := NextSequential(nil, 4, 2); s != 4 || e != 2 {
		t.Fatalf("season hint with position should yield S04E02, got S%02dE%02d", s, e)
	}
	if s, e := NextSequential([]ResolvedEpisode{{Season: 1, Episode: 12}}, 1, 2); s != 1 || e != 13 {
		t.Fatalf("anchored state should continue sequentially, got S%02dE%02d", s, e)
	}
}
