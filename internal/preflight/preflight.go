package preflight

import (
	"context"
	"strings"

	"stashsweep/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding feature is configured.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Stash connectivity (always checked)
	results = append(results, CheckStash(ctx, cfg.Stash.URL, cfg.Stash.APIKey))

	// Data directory holds the run lock and history database
	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))

	// Log directory (when configured)
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}

	// Notifications (when configured)
	if strings.TrimSpace(cfg.Notifications.NtfyTopic) != "" {
		results = append(results, CheckNtfyTopic(cfg.Notifications.NtfyTopic))
	}

	return results
}
