package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeCatalog(); err != nil {
		return err
	}
	c.normalizeReasoning()
	c.normalizeAnalysis()
	c.normalizeMatching()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCatalog() error {
	var err error
	if strings.TrimSpace(c.Catalog.Path) == "" {
		c.Catalog.Path = defaultCatalogPath
	}
	if c.Catalog.Path, err = expandPath(c.Catalog.Path); err != nil {
		return fmt.Errorf("catalog.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeReasoning() {
	c.Reasoning.APIKey = strings.TrimSpace(c.Reasoning.APIKey)
	if c.Reasoning.APIKey == "" {
		if value, ok := os.LookupEnv("PLATTER_REASONING_API_KEY"); ok {
			c.Reasoning.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("OPENROUTER_API_KEY"); ok {
			c.Reasoning.APIKey = strings.TrimSpace(value)
		}
	}
	c.Reasoning.BaseURL = strings.TrimSpace(c.Reasoning.BaseURL)
	if c.Reasoning.BaseURL == "" {
		c.Reasoning.BaseURL = defaultReasoningBaseURL
	}
	c.Reasoning.Model = strings.TrimSpace(c.Reasoning.Model)
	if c.Reasoning.Model == "" {
		c.Reasoning.Model = defaultReasoningModel
	}
	c.Reasoning.Referer = strings.TrimSpace(c.Reasoning.Referer)
	c.Reasoning.Title = strings.TrimSpace(c.Reasoning.Title)
	if c.Reasoning.TimeoutSeconds <= 0 {
		c.Reasoning.TimeoutSeconds = defaultReasoningTimeoutSeconds
	}
	if c.Reasoning.RetryAttempts < 0 {
		c.Reasoning.RetryAttempts = defaultReasoningRetryAttempts
	}
	if c.Reasoning.RetryDelaySeconds <= 0 {
		c.Reasoning.RetryDelaySeconds = defaultReasoningRetryDelaySecs
	}
	if c.Reasoning.MaxTokens <= 0 {
		c.Reasoning.MaxTokens = defaultReasoningMaxTokens
	}
}

func (c *Config) normalizeAnalysis() {
	if c.Analysis.SparseGapThresholdSeconds <= 0 {
		c.Analysis.SparseGapThresholdSeconds = defaultSparseGapThresholdSecs
	}
	if c.Analysis.AdaptiveMinSamples <= 0 {
		c.Analysis.AdaptiveMinSamples = defaultAdaptiveMinSamples
	}
	if c.Analysis.EpisodeMinMinutes <= 0 {
		c.Analysis.EpisodeMinMinutes = defaultEpisodeMinMinutes
	}
	if c.Analysis.EpisodeMaxMinutes <= 0 {
		c.Analysis.EpisodeMaxMinutes = defaultEpisodeMaxMinutes
	}
	if c.Analysis.TargetEpisodeMinutes <= 0 {
		c.Analysis.TargetEpisodeMinutes = defaultTargetEpisodeMinutes
	}
	if c.Analysis.SplitMinMinutes <= 0 {
		c.Analysis.SplitMinMinutes = defaultSplitMinMinutes
	}
	if c.Analysis.BoundaryToleranceSeconds <= 0 {
		c.Analysis.BoundaryToleranceSeconds = defaultBoundaryToleranceSecs
	}
	if c.Analysis.EpisodicStddevSeconds <= 0 {
		c.Analysis.EpisodicStddevSeconds = defaultEpisodicStddevSeconds
	}
	if c.Analysis.PlayAllTolerance <= 0 {
		c.Analysis.PlayAllTolerance = defaultPlayAllTolerance
	}
	if c.Analysis.LongVideoMinutes <= 0 {
		c.Analysis.LongVideoMinutes = defaultLongVideoMinutes
	}
}

func (c *Config) normalizeMatching() {
	if c.Matching.MinAcceptScore <= 0 {
		c.Matching.MinAcceptScore = defaultMinAcceptScore
	}
	if c.Matching.ShortlistLimit <= 0 {
		c.Matching.ShortlistLimit = defaultShortlistLimit
	}
	if c.Matching.CharacterMatchMinimum <= 0 {
		c.Matching.CharacterMatchMinimum = defaultCharacterMatchMinimum
	}
	if c.Matching.NounSweepMinimum <= 0 {
		c.Matching.NounSweepMinimum = defaultNounSweepMinimum
	}
	if c.Matching.TVRuntimeWindowMinutes <= 0 {
		c.Matching.TVRuntimeWindowMinutes = defaultTVRuntimeWindowMinutes
	}
	if c.Matching.MovieRuntimeWindowMins <= 0 {
		c.Matching.MovieRuntimeWindowMins = defaultMovieRuntimeWindowMins
	}
	if c.Matching.HybridSameLengthMinimum <= 0 {
		c.Matching.HybridSameLengthMinimum = defaultHybridSameLengthMinimum
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
