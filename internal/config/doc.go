// Package config loads, normalizes, and validates stashsweep configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// STASH_URL and STASH_API_KEY. The tool runs without any configuration file at
// all; defaults plus the environment form a complete configuration.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
