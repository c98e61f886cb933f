// Package notifications delivers identification outcomes via ntfy.
//
// The default implementation publishes to the topic configured in config.toml
// and gracefully degrades to a no-op when notifications are disabled, so the
// pipeline can emit outcome events without branching on configuration.
package notifications
