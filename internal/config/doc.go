// Package config loads, validates, and shares platter's TOML configuration.
//
// The package resolves the config path (explicit flag, then
// ~/.config/platter/config.toml, then ./platter.toml), expands ~ paths,
// applies defaults for every unset field, and validates cross-field
// constraints before anything else runs. The resulting Config struct is
// constructed once per run and passed by reference; nothing in the repository
// reads configuration from globals.
package config
