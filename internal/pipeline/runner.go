package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"platter/internal/catalog"
	"platter/internal/config"
	"platter/internal/dialogue"
	"platter/internal/logging"
	"platter/internal/media/ffprobe"
	"platter/internal/notifications"
	"platter/internal/reasoning"
	"platter/internal/resolve"
	"platter/internal/search"
	"platter/internal/services"
	"platter/internal/subtitles"
)

// StepObserver receives progress callbacks as steps run. Used by the CLI to
// drive a progress bar; never required.
type StepObserver func(step int, name string, outcome Outcome)

type probeFunc func(ctx context.Context, binary, path string) (ffprobe.Result, error)

type trackLoader func(videoPath string) ([]subtitles.Track, error)

// Runner executes the identification pipeline for one disk directory.
type Runner struct {
	cfg        *config.Config
	store      *catalog.Store
	reasoner   reasoning.Service
	searcher   *search.Searcher
	resolver   *resolve.Resolver
	notifier   notifications.Service
	logger     *slog.Logger
	runID      string
	probe      probeFunc
	loadTracks trackLoader
	observer   StepObserver
}

// Option adjusts Runner construction.
type Option func(*Runner)

// WithRunID pins the run identifier instead of generating one.
func WithRunID(id string) Option {
	return func(r *Runner) { r.runID = id }
}

// WithProbe replaces the media prober.
func WithProbe(probe probeFunc) Option {
	return func(r *Runner) { r.probe = probe }
}

// WithTrackLoader replaces subtitle sidecar discovery.
func WithTrackLoader(loader trackLoader) Option {
	return func(r *Runner) { r.loadTracks = loader }
}

// WithObserver registers a step progress callback.
func WithObserver(observer StepObserver) Option {
	return func(r *Runner) { r.observer = observer }
}

// NewRunner wires the pipeline components. The searcher and resolver are
// built on the shared catalog store and reasoning service.
func NewRunner(cfg *config.Config, store *catalog.Store, reasoner reasoning.Service, notifier notifications.Service, logger *slog.Logger, opts ...Option) *Runner {
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}
	r := &Runner{
		cfg:        cfg,
		store:      store,
		reasoner:   reasoner,
		searcher:   search.NewSearcher(store, cfg, logger),
		resolver:   resolve.NewResolver(store, reasoner, cfg, logger),
		notifier:   notifier,
		logger:     logging.NewComponentLogger(logger, "pipeline"),
		probe:      ffprobe.Inspect,
		loadTracks: subtitles.LoadForVideo,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.runID == "" {
		r.runID = uuid.NewString()
	}
	return r
}

// session is the in-memory working state for one run. Subtitle cues are not
// persisted in the record; on resume they are re-parsed from the recorded
// sidecar paths on demand.
type session struct {
	record   *DiskRecord
	dialogue []videoDialogue
}

type videoDialogue struct {
	cues   []subtitles.Cue
	loaded bool
}

// resize grows the dialogue slots to match the video records.
func (s *session) resize() {
	for len(s.dialogue) < len(s.record.Videos) {
		s.dialogue = append(s.dialogue, videoDialogue{})
	}
}

// unitEligible reports whether the video participates in characters,
// synopsis, search, and resolution. Play-all copies are excluded unless they
// are the only video on the disk.
func (s *session) unitEligible(i int) bool {
	return !s.record.Videos[i].IsPlayAll || len(s.record.Videos) == 1
}

// Run executes the pipeline for the disk directory, resuming a persisted
// record when one exists. The returned record is always the latest persisted
// state, including on error.
func (r *Runner) Run(ctx context.Context, diskDir string) (*DiskRecord, error) {
	diskDir, err := config.ExpandPath(diskDir)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "resolve disk directory", diskDir, err)
	}
	if info, err := os.Stat(diskDir); err != nil || !info.IsDir() {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "", fmt.Sprintf("disk directory %s not accessible", diskDir), err)
	}

	lock, err := AcquireLock(diskDir)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "lock", "", err)
	}
	defer func() { _ = lock.Unlock() }()

	record, err := LoadRecord(diskDir)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "load record", "", err)
	}
	if record == nil {
		record = NewRecord(diskDir, r.runID)
	}

	ctx = services.WithRunID(ctx, r.runID)
	ctx = services.WithDisk(ctx, record.Name)
	logger := logging.WithContext(ctx, r.logger)
	if record.Status.IsTerminal() {
		logger.Info("record already terminal, nothing to do",
			logging.String(logging.FieldEventType, "run_short_circuit"),
			logging.String("terminal", string(record.Status.Terminal)))
		return record, nil
	}
	if record.Status.Error != "" {
		logger.Error("record carries an unrecovered error, refusing to continue",
			logging.String(logging.FieldEventType, "run_short_circuit"),
			logging.String("recorded_error", record.Status.Error))
		return record, fmt.Errorf("previous run failed: %s", record.Status.Error)
	}

	s := &session{record: record}
	s.resize()

	for _, st := range r.steps() {
		name := StepName(st.number)
		stepCtx := services.WithStep(ctx, name)
		logger := logging.WithContext(stepCtx, r.logger)
		if record.Status.Completed(st.number) {
			logger.Info("step already completed, skipping",
				logging.String(logging.FieldEventType, "step_skip"),
				logging.Int("step_number", st.number))
			r.observe(st.number, name, OutcomeSkip)
			continue
		}

		record.Status.CurrentStep = st.number
		logger.Info("step started",
			logging.String(logging.FieldEventType, "step_start"),
			logging.Int("step_number", st.number))

		result := st.run(stepCtx, s)
		r.observe(st.number, name, result.Outcome)

		if result.Outcome == OutcomeFail {
			if st.fatalOnFailure || services.IsStructural(result.Err) {
				return r.abort(record, result.Err, logger)
			}
			logger.Warn("step failed, continuing degraded",
				logging.String(logging.FieldEventType, "step_degraded"),
				logging.Error(result.Err))
		}

		record.Status.MarkCompleted(st.number)
		if err := record.Save(); err != nil {
			return record, services.Wrap(services.ErrConfiguration, "pipeline", "persist record", name, err)
		}
		logger.Info("step completed",
			logging.String(logging.FieldEventType, "step_complete"),
			logging.String("detail", result.Detail))
	}
	return record, nil
}

// abort records the halting failure. Input defects end the run gracefully in
// the unknown terminal state; structural failures keep the error visible and
// surface it to the caller.
func (r *Runner) abort(record *DiskRecord, err error, logger *slog.Logger) (*DiskRecord, error) {
	record.Status.SetError(err)
	inputDefect := services.IsInputDefect(err)
	if inputDefect {
		record.Status.Terminal = TerminalUnknown
	}
	if saveErr := record.Save(); saveErr != nil {
		logger.Error("failed to persist aborting record", logging.Error(saveErr))
	}
	logger.Error("step failed, run aborted",
		logging.String(logging.FieldEventType, "run_aborted"),
		logging.Error(err))
	if inputDefect {
		return record, nil
	}
	return record, err
}

func (r *Runner) observe(step int, name string, outcome Outcome) {
	if r.observer != nil {
		r.observer(step, name, outcome)
	}
}

// ensureDialogue re-parses the recorded subtitle sidecar when resuming a run
// whose in-memory cues were lost with the previous process.
func (r *Runner) ensureDialogue(s *session, i int) error {
	if s.dialogue[i].loaded {
		return nil
	}
	video := &s.record.Videos[i]
	if video.SubtitlePath == "" {
		return services.Wrap(services.ErrValidation, "pipeline", "reload dialogue", "video has no subtitle track", nil)
	}
	content, err := os.ReadFile(video.SubtitlePath)
	if err != nil {
		return services.Wrap(services.ErrValidation, "pipeline", "reload dialogue", video.SubtitlePath, err)
	}
	cues, err := subtitles.ParseSRT(string(content))
	if err != nil {
		return services.Wrap(services.ErrValidation, "pipeline", "reload dialogue", video.SubtitlePath, err)
	}
	s.dialogue[i].cues = cues
	s.dialogue[i].loaded = true
	return nil
}

// unitDialogue renders the dialogue lines for one unit. Split recordings
// carry a gap marker between episode segments; unsplit recordings keep
// markers at their significant gaps so structural silences stay visible to
// summarization.
func (r *Runner) unitDialogue(s *session, i int) []string {
	video := &s.record.Videos[i]
	cues := s.dialogue[i].cues

	if len(video.BoundarySeconds) > 0 {
		groups := dialogue.SplitCues(cues, video.BoundarySeconds)
		var lines []string
		for gi, group := range groups {
			if gi > 0 {
				lines = append(lines, dialogue.GapMarker)
			}
			for _, cue := range group {
				if cue.Text != "" {
					lines = append(lines, cue.Text)
				}
			}
		}
		return lines
	}
	return dialogue.MarkedDialogue(cues, video.SignificantGaps, r.cfg.Analysis.BoundaryToleranceSeconds)
}
