package config

const (
	defaultLogDir      = "~/.local/share/platter/logs"
	defaultCatalogPath = "~/.local/share/platter/catalog.db"
	defaultLogFormat   = "console"
	defaultLogLevel    = "info"

	defaultReasoningBaseURL        = "https://openrouter.ai/api/v1/chat/completions"
	defaultReasoningModel          = "google/gemini-3-flash-preview"
	defaultReasoningTimeoutSeconds = 180
	defaultReasoningRetryAttempts  = 2
	defaultReasoningRetryDelaySecs = 3
	defaultReasoningMaxTokens      = 1500

	defaultSparseGapThresholdSecs = 60.0
	defaultAdaptiveMinSamples     = 30
	defaultEpisodeMinMinutes      = 15.0
	defaultEpisodeMaxMinutes      = 45.0
	defaultTargetEpisodeMinutes   = 25.0
	defaultSplitMinMinutes        = 60.0
	defaultBoundaryToleranceSecs  = 5.0
	defaultEpisodicStddevSeconds  = 300.0
	defaultPlayAllTolerance       = 0.05
	defaultLongVideoMinutes       = 60.0

	defaultMinAcceptScore          = 60
	defaultShortlistLimit          = 15
	defaultCharacterMatchMinimum   = 3
	defaultNounSweepMinimum        = 3
	defaultTVRuntimeWindowMinutes  = 2
	defaultMovieRuntimeWindowMins  = 3
	defaultHybridSameLengthMinimum = 2

	defaultNotifyRequestTimeout = 10
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Catalog: Catalog{
			Path: defaultCatalogPath,
		},
		Reasoning: Reasoning{
			BaseURL:           defaultReasoningBaseURL,
			Model:             defaultReasoningModel,
			TimeoutSeconds:    defaultReasoningTimeoutSeconds,
			RetryAttempts:     defaultReasoningRetryAttempts,
			RetryDelaySeconds: defaultReasoningRetryDelaySecs,
			MaxTokens:         defaultReasoningMaxTokens,
		},
		Analysis: Analysis{
			SparseGapThresholdSeconds: defaultSparseGapThresholdSecs,
			AdaptiveMinSamples:        defaultAdaptiveMinSamples,
			EpisodeMinMinutes:         defaultEpisodeMinMinutes,
			EpisodeMaxMinutes:         defaultEpisodeMaxMinutes,
			TargetEpisodeMinutes:      defaultTargetEpisodeMinutes,
			SplitMinMinutes:           defaultSplitMinMinutes,
			BoundaryToleranceSeconds:  defaultBoundaryToleranceSecs,
			EpisodicStddevSeconds:     defaultEpisodicStddevSeconds,
			PlayAllTolerance:          defaultPlayAllTolerance,
			LongVideoMinutes:          defaultLongVideoMinutes,
		},
		Matching: Matching{
			MinAcceptScore:          defaultMinAcceptScore,
			ShortlistLimit:          defaultShortlistLimit,
			CharacterMatchMinimum:   defaultCharacterMatchMinimum,
			NounSweepMinimum:        defaultNounSweepMinimum,
			TVRuntimeWindowMinutes:  defaultTVRuntimeWindowMinutes,
			MovieRuntimeWindowMins:  defaultMovieRuntimeWindowMins,
			HybridSameLengthMinimum: defaultHybridSameLengthMinimum,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
