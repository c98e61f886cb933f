package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"platter/internal/dialogue"
	"platter/internal/language"
	"platter/internal/logging"
	"platter/internal/pattern"
	"platter/internal/resolve"
	"platter/internal/search"
	"platter/internal/services"
	"platter/internal/subtitles"
	"platter/internal/textutil"
)

// Outcome tags a step result. Failure handling is policy-driven, not
// control-flow signaling: a failed step aborts the run only when its policy
// says so or the error is structural.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeSkip
	OutcomeFail
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeSkip:
		return "skip"
	case OutcomeFail:
		return "fail"
	}
	return "unknown"
}

// StepResult is the tagged outcome of one step execution.
type StepResult struct {
	Outcome Outcome
	Detail  string
	Err     error
}

func success(detail string) StepResult { return StepResult{Outcome: OutcomeSuccess, Detail: detail} }
func skipped(detail string) StepResult { return StepResult{Outcome: OutcomeSkip, Detail: detail} }
func failed(err error) StepResult      { return StepResult{Outcome: OutcomeFail, Err: err} }

type step struct {
	number         int
	fatalOnFailure bool
	run            func(ctx context.Context, s *session) StepResult
}

func (r *Runner) steps() []step {
	return []step{
		{number: StepScan, fatalOnFailure: true, run: r.stepScan},
		{number: StepSubtitles, fatalOnFailure: true, run: r.stepSubtitles},
		{number: StepAnalyze, run: r.stepAnalyze},
		{number: StepCharacters, run: r.stepCharacters},
		{number: StepSynopsis, run: r.stepSynopsis},
		{number: StepSearch, fatalOnFailure: true, run: r.stepSearch},
		{number: StepResolve, run: r.stepResolve},
		{number: StepSelect, run: r.stepSelect},
		{number: StepFinalize, run: r.stepFinalize},
	}
}

var videoExtensions = map[string]struct{}{
	".mkv": {},
	".mp4": {},
	".m4v": {},
}

// stepScan discovers video files, probes their container metadata, and seeds
// the per-video records. The disk name was parsed when the record was created.
func (r *Runner) stepScan(ctx context.Context, s *session) StepResult {
	entries, err := os.ReadDir(s.record.Path)
	if err != nil {
		return failed(services.Wrap(services.ErrConfiguration, "scan", "read disk directory", "", err))
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if _, ok := videoExtensions[strings.ToLower(filepath.Ext(name))]; !ok {
			continue
		}
		video := VideoRecord{
			Identifier: strings.TrimSuffix(name, filepath.Ext(name)),
			Path:       filepath.Join(s.record.Path, name),
		}
		logger := logging.WithContext(services.WithVideo(ctx, video.Identifier), r.logger)
		probed, err := r.probe(ctx, r.cfg.FFprobeBinary(), video.Path)
		if err != nil {
			logger.Warn("ffprobe failed, recording zero duration", logging.Error(err))
		} else {
			video.DurationSeconds = probed.DurationSeconds()
			video.SizeBytes = probed.SizeBytes()
			video.VideoCodec = probed.VideoCodec()
			video.Width, video.Height = probed.Resolution()
			video.SubtitleLanguages = probed.SubtitleLanguages()
			if probed.VideoStreamCount() == 0 {
				logger.Warn("container reports no video stream")
			}
		}
		logger.Info("video discovered",
			logging.String(logging.FieldEventType, "video_discovered"),
			logging.Float64("duration_seconds", video.DurationSeconds),
			logging.String("codec", video.VideoCodec),
			logging.String("size", humanize.Bytes(uint64(max64(video.SizeBytes, 0)))))
		s.record.Videos = append(s.record.Videos, video)
	}

	if len(s.record.Videos) == 0 {
		return failed(services.Wrap(services.ErrValidation, "scan", "", "no video files in disk directory", nil))
	}
	s.resize()
	return success(fmt.Sprintf("%d video file(s)", len(s.record.Videos)))
}

// stepSubtitles locates and parses per-video subtitle sidecars. A video
// without usable subtitles keeps running with no dialogue evidence; the step
// fails only when no video on the disk has any.
func (r *Runner) stepSubtitles(ctx context.Context, s *session) StepResult {
	usable := 0
	for i := range s.record.Videos {
		video := &s.record.Videos[i]
		tracks, err := r.loadTracks(video.Path)
		if err != nil {
			logging.WithContext(services.WithVideo(ctx, video.Identifier), r.logger).
				Warn("subtitle discovery failed", logging.Error(err))
			continue
		}

		// Sidecar languages join the embedded-stream languages recorded at
		// scan time.
		langs := video.SubtitleLanguages
		for _, track := range tracks {
			if track.Language != "" {
				langs = append(langs, track.Language)
			}
		}
		video.SubtitleLanguages = language.NormalizeList(langs)

		chosen := subtitles.PickDialogueTrack(tracks)
		if chosen == nil || len(chosen.Cues) == 0 {
			continue
		}
		video.SubtitlePath = chosen.Path
		s.dialogue[i].cues = chosen.Cues
		s.dialogue[i].loaded = true
		usable++
	}

	if usable == 0 {
		return failed(services.Wrap(services.ErrValidation, "subtitles", "", "no usable subtitle track on any video", nil))
	}
	return success(fmt.Sprintf("%d video(s) with dialogue", usable))
}

// stepAnalyze is pure computation: gap statistics per video, disk pattern
// classification, play-all detection, and boundary selection for long
// recordings. Insufficient data records pattern unknown, never an error.
func (r *Runner) stepAnalyze(ctx context.Context, s *session) StepResult {
	durations := make([]float64, len(s.record.Videos))
	for i := range s.record.Videos {
		durations[i] = s.record.Videos[i].DurationSeconds
	}

	result := pattern.Classify(durations, pattern.Tuning{
		PlayAllTolerance: r.cfg.Analysis.PlayAllTolerance,
		EpisodicStddev:   r.cfg.Analysis.EpisodicStddevSeconds,
		LongVideo:        r.cfg.Analysis.LongVideoMinutes * 60,
	})
	s.record.Pattern = result.Kind
	s.record.SameLengthCount = result.SameLengthCount
	if result.PlayAllIndex >= 0 {
		s.record.Videos[result.PlayAllIndex].IsPlayAll = true
	}
	attrs := append(logging.DecisionAttrs("disk_pattern", string(result.Kind),
		fmt.Sprintf("%d same-length video(s)", result.SameLengthCount)),
		logging.Int("play_all_index", result.PlayAllIndex))
	logging.WithContext(ctx, r.logger).Info("disk pattern classified", logging.Args(attrs...)...)

	tuning := dialogue.BoundaryTuning{
		MinEpisode:    r.cfg.Analysis.EpisodeMinMinutes * 60,
		MaxEpisode:    r.cfg.Analysis.EpisodeMaxMinutes * 60,
		TargetEpisode: r.cfg.Analysis.TargetEpisodeMinutes * 60,
		MinSplit:      r.cfg.Analysis.SplitMinMinutes * 60,
		Tolerance:     r.cfg.Analysis.BoundaryToleranceSeconds,
	}
	for i := range s.record.Videos {
		video := &s.record.Videos[i]
		if video.HasDialogue() {
			gaps := dialogue.GapsFromCues(s.dialogue[i].cues)
			stats := dialogue.AnalyzeGaps(gaps, r.cfg.Analysis.SparseGapThresholdSeconds, r.cfg.Analysis.AdaptiveMinSamples)
			video.GapStats = &stats
			video.SignificantGaps = dialogue.SignificantGaps(gaps, stats.Threshold)
		}

		// A play-all copy is excluded from splitting unless it is the only
		// video, in which case it is the sole source of episode evidence.
		if s.unitEligible(i) && video.HasDialogue() {
			video.BoundarySeconds = dialogue.SelectBoundaries(video.SignificantGaps, video.DurationSeconds, tuning)
		}
		if video.DurationSeconds > 0 {
			video.SegmentsSeconds = dialogue.SegmentDurations(video.BoundarySeconds, video.DurationSeconds)
		}
	}
	return success(string(s.record.Pattern))
}

// stepCharacters counts proper nouns locally and asks the reasoning service
// for character names. Transient service failures degrade to the local
// counts.
func (r *Runner) stepCharacters(ctx context.Context, s *session) StepResult {
	degraded := 0
	for i := range s.record.Videos {
		video := &s.record.Videos[i]
		if !s.unitEligible(i) || !video.HasDialogue() {
			continue
		}
		logger := logging.WithContext(services.WithVideo(ctx, video.Identifier), r.logger)
		if err := r.ensureDialogue(s, i); err != nil {
			logger.Warn("subtitle reload failed on resume", logging.Error(err))
			continue
		}

		lines := r.unitDialogue(s, i)
		video.ProperNouns = textutil.ProperNouns(lines)

		names, err := r.reasoner.ExtractCharacters(ctx, lines)
		if err != nil {
			if services.IsInputDefect(err) {
				continue
			}
			degraded++
			logger.Warn("character extraction degraded to local proper nouns", logging.Error(err))
			continue
		}
		// Keep only names the dialogue actually contains; models sometimes
		// invent one.
		kept := make([]string, 0, len(names))
		for _, name := range names {
			if textutil.CountName(lines, name) > 0 {
				kept = append(kept, name)
			}
		}
		video.Characters = kept
	}
	if degraded > 0 {
		return success(fmt.Sprintf("%d unit(s) degraded to proper-noun counts", degraded))
	}
	return success("")
}

// stepSynopsis summarizes each eligible unit's dialogue. Play-all copies get
// the skipped sentinel; transient failures leave the synopsis empty.
func (r *Runner) stepSynopsis(ctx context.Context, s *session) StepResult {
	kindHint := ""
	switch s.record.Pattern {
	case pattern.Episodic:
		kindHint = "television episode"
	case pattern.SingleFeature:
		kindHint = "feature film"
	}

	for i := range s.record.Videos {
		video := &s.record.Videos[i]
		if !s.unitEligible(i) {
			video.Synopsis = SynopsisSkipped
			continue
		}
		if !video.HasDialogue() {
			continue
		}
		if err := r.ensureDialogue(s, i); err != nil {
			continue
		}

		synopsis, err := r.reasoner.Summarize(ctx, r.unitDialogue(s, i), kindHint)
		if err != nil {
			if services.IsInputDefect(err) {
				continue
			}
			logging.WithContext(services.WithVideo(ctx, video.Identifier), r.logger).
				Warn("summarization failed, unit keeps empty synopsis", logging.Error(err))
			continue
		}
		video.Synopsis = synopsis
	}
	return success("")
}

// stepSearch builds the disk-level candidate shortlist and classifies the
// content type. A store failure is structural and aborts the run.
func (r *Runner) stepSearch(ctx context.Context, s *session) StepResult {
	query := search.Query{
		TitleHint: s.record.Parsed.Title,
		Year:      s.record.Parsed.Year,
		TVHint:    s.record.Parsed.IsTVHint() || s.record.Pattern == pattern.Episodic,
	}

	nouns := make(map[string]int)
	seenNames := make(map[string]struct{})
	var segments []float64
	for i := range s.record.Videos {
		video := &s.record.Videos[i]
		if !s.unitEligible(i) {
			continue
		}
		for _, name := range video.Characters {
			key := strings.ToLower(name)
			if _, dup := seenNames[key]; dup {
				continue
			}
			seenNames[key] = struct{}{}
			query.Names = append(query.Names, name)
		}
		for name, count := range video.ProperNouns {
			nouns[name] += count
		}
		segments = append(segments, video.SegmentsSeconds...)
	}
	query.Nouns = topNames(nouns, 20)
	query.RuntimesMinutes = search.DistinctRuntimes(segments)

	candidates, err := r.searcher.Search(ctx, query)
	if err != nil {
		return failed(err)
	}
	s.record.Candidates = candidates
	for i := range s.record.Videos {
		if s.unitEligible(i) {
			s.record.Videos[i].Matches = append([]search.Candidate(nil), candidates...)
		}
	}

	s.record.ContentType = search.ClassifyContentType(candidates, s.record.SameLengthCount, r.cfg.Matching.HybridSameLengthMinimum)
	attrs := logging.DecisionAttrs("content_type", string(s.record.ContentType),
		fmt.Sprintf("%d candidate(s), %d same-length video(s)", len(candidates), s.record.SameLengthCount))
	logging.WithContext(ctx, r.logger).Info("content type classified", logging.Args(attrs...)...)
	return success(fmt.Sprintf("%d candidate(s), %s", len(candidates), s.record.ContentType))
}

// stepResolve runs two-path resolution per eligible unit, threading positional
// context through TV disks so episodes resolve in file order.
func (r *Runner) stepResolve(ctx context.Context, s *session) StepResult {
	tv := s.record.ContentType == search.ContentTV
	hybrid := s.record.ContentType == search.ContentHybrid

	var resolved []resolve.ResolvedEpisode
	position := 0
	unresolvedUnits := 0
	for i := range s.record.Videos {
		video := &s.record.Videos[i]
		if !s.unitEligible(i) {
			continue
		}
		position++

		names := video.Characters
		if len(names) == 0 {
			names = topNames(video.ProperNouns, 10)
		}
		req := resolve.Request{
			Label:      video.Identifier,
			Characters: names,
			Synopsis:   unitSynopsis(video),
			Candidates: s.record.Candidates,
			Hybrid:     hybrid,
			Resolved:   resolved,
		}
		if tv || hybrid {
			req.Positional = resolve.BuildHints(s.record.Parsed, position, resolved)
		}

		match, err := r.resolver.Resolve(services.WithVideo(ctx, video.Identifier), req)
		if err != nil {
			if services.IsStructural(err) {
				return failed(err)
			}
			unresolvedUnits++
			logging.WithContext(services.WithVideo(ctx, video.Identifier), r.logger).
				Warn("unit resolution failed, unit stays unresolved", logging.Error(err))
			continue
		}
		if match == nil {
			unresolvedUnits++
			continue
		}
		video.Resolved = match
		if tv && match.Season > 0 && match.Episode > 0 {
			resolved = append(resolved, resolve.ResolvedEpisode{Season: match.Season, Episode: match.Episode})
		}
	}
	if unresolvedUnits > 0 {
		return success(fmt.Sprintf("%d unit(s) unresolved", unresolvedUnits))
	}
	return success("")
}

// stepSelect picks the disk-level best match and applies the unresolved
// criteria.
func (r *Runner) stepSelect(ctx context.Context, s *session) StepResult {
	var best *search.Candidate
	for i := range s.record.Videos {
		video := &s.record.Videos[i]
		if video.Resolved == nil {
			continue
		}
		if best == nil || video.Resolved.Score > best.Score {
			best = video.Resolved
		}
	}

	reason := ""
	switch {
	case s.record.Status.Error != "":
		reason = "upstream error recorded"
	case len(s.record.Candidates) == 0:
		reason = "empty candidate list"
	case maxScore(s.record.Candidates) <= r.cfg.Matching.MinAcceptScore:
		reason = fmt.Sprintf("no candidate above acceptance score %d", r.cfg.Matching.MinAcceptScore)
	case best == nil:
		reason = "no unit resolved to a match"
	}

	logger := logging.WithContext(ctx, r.logger)
	if reason != "" {
		s.record.BestMatch = nil
		logger.Info("disk unresolved", logging.Args(logging.DecisionAttrs("best_match", "unresolved", reason)...)...)
		return success("unresolved: " + reason)
	}

	chosen := *best
	s.record.BestMatch = &chosen
	attrs := append(logging.DecisionAttrs("best_match", chosen.ExternalID, chosen.Reasoning),
		logging.String("title", chosen.Title),
		logging.Int("score", chosen.Score),
		logging.String("confidence", chosen.Confidence))
	logger.Info("best match selected", logging.Args(attrs...)...)
	return success(fmt.Sprintf("%s (%d)", chosen.Title, chosen.Year))
}

// stepFinalize sets the terminal state and pushes the outcome notification.
// After this step the record is immutable.
func (r *Runner) stepFinalize(ctx context.Context, s *session) StepResult {
	logger := logging.WithContext(ctx, r.logger)
	if s.record.BestMatch != nil {
		s.record.Status.Terminal = TerminalCompleted
		if err := r.notifier.NotifyIdentified(ctx, s.record.BestMatch.Title, s.record.BestMatch.Year, string(s.record.ContentType)); err != nil {
			logger.Warn("identified notification failed", logging.Error(err))
		}
		return success("completed")
	}

	s.record.Status.Terminal = TerminalUnknown
	if err := r.notifier.NotifyUnresolved(ctx, s.record.Name); err != nil {
		logger.Warn("unresolved notification failed", logging.Error(err))
	}
	return success("unknown")
}

func unitSynopsis(video *VideoRecord) string {
	if video.Synopsis == SynopsisSkipped {
		return ""
	}
	return video.Synopsis
}

func maxScore(candidates []search.Candidate) int {
	best := 0
	for _, candidate := range candidates {
		if candidate.Score > best {
			best = candidate.Score
		}
	}
	return best
}

// topNames returns up to limit names ordered by descending count, name
// ascending on ties for stable output.
func topNames(counts map[string]int, limit int) []string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(a, b int) bool {
		if counts[names[a]] != counts[names[b]] {
			return counts[names[a]] > counts[names[b]]
		}
		return names[a] < names[b]
	})
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	return names
}

func max64(v, floor int64) int64 {
	if v < floor {
		return floor
	}
	return v
}
