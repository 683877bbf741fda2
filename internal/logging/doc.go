// Package logging assembles the structured slog loggers used across
// stashsweep commands.
//
// It owns the configurable console/JSON handlers, centralizes level and
// output plumbing, and keeps diagnostics on stderr so stdout stays reserved
// for the run result document. The package also provides a no-op logger for
// tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup to ensure new
// components emit data with the same shape and routing guarantees as the
// rest of the tool.
package logging
