// Package notifications delivers sweep outcomes via ntfy.
//
// The default implementation publishes to the topic configured in config.toml
// and degrades to a no-op when no topic is set. Delivery is strictly
// advisory: a failed notification must never change the run result or the
// process exit code, so callers log and move on.
package notifications
