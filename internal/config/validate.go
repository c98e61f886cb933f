package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateReasoning(); err != nil {
		return err
	}
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCatalog() error {
	if strings.TrimSpace(c.Catalog.Path) == "" {
		return errors.New("catalog.path must be set")
	}
	return nil
}

func (c *Config) validateReasoning() error {
	if c.Reasoning.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/platter/config.toml"
		}
		return fmt.Errorf("reasoning.api_key is required. Set PLATTER_REASONING_API_KEY env var or edit %s (create with 'platter config init')", defaultPath)
	}
	if strings.TrimSpace(c.Reasoning.BaseURL) == "" {
		return errors.New("reasoning.base_url must be set")
	}
	if strings.TrimSpace(c.Reasoning.Model) == "" {
		return errors.New("reasoning.model must be set")
	}
	if c.Reasoning.TimeoutSeconds <= 0 {
		return errors.New("reasoning.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	if c.Analysis.EpisodeMinMinutes >= c.Analysis.EpisodeMaxMinutes {
		return errors.New("analysis.episode_min_minutes must be less than analysis.episode_max_minutes")
	}
	if c.Analysis.TargetEpisodeMinutes < c.Analysis.EpisodeMinMinutes || c.Analysis.TargetEpisodeMinutes > c.Analysis.EpisodeMaxMinutes {
		return errors.New("analysis.target_episode_minutes must fall inside the episode length band")
	}
	if c.Analysis.PlayAllTolerance <= 0 || c.Analysis.PlayAllTolerance >= 1 {
		return errors.New("analysis.play_all_tolerance must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateMatching() error {
	if err := ensurePositiveMap(map[string]int{
		"matching.min_accept_score":             c.Matching.MinAcceptScore,
		"matching.shortlist_limit":              c.Matching.ShortlistLimit,
		"matching.character_match_minimum":      c.Matching.CharacterMatchMinimum,
		"matching.noun_sweep_minimum":           c.Matching.NounSweepMinimum,
		"matching.tv_runtime_window_minutes":    c.Matching.TVRuntimeWindowMinutes,
		"matching.movie_runtime_window_minutes": c.Matching.MovieRuntimeWindowMins,
		"matching.hybrid_same_length_minimum":   c.Matching.HybridSameLengthMinimum,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
