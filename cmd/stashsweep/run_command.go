package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"stashsweep/internal/history"
	"stashsweep/internal/logging"
	"stashsweep/internal/notifications"
	"stashsweep/internal/report"
	"stashsweep/internal/stash"
	"stashsweep/internal/sweep"
)

type runFlags struct {
	dryRun bool
	limit  int
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scan scene screenshots and replace WebP covers with JPEG",
		Long: `Scan every scene in the configured Stash library, detect screenshots
stored as WebP by content sniffing, re-encode them as JPEG, and upload the
replacements. The run result is written to stdout as JSON; logs go to stderr.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeSweep(cmd, ctx, flags)
		},
	}

	bindRunFlags(cmd, flags)
	return cmd
}

func bindRunFlags(cmd *cobra.Command, flags *runFlags) {
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Identify WebP screenshots without converting or uploading")
	cmd.Flags().IntVar(&flags.limit, "limit", 0, "Maximum conversions this run (0 = unlimited)")
}

// executeSweep performs one full sweep. Every invocation writes exactly one
// JSON result document to stdout; a non-nil return marks the run fatal and
// the process exits non-zero.
func executeSweep(cmd *cobra.Command, cctx *commandContext, flags *runFlags) error {
	cfg, err := cctx.ensureConfig()
	if err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	runID := uuid.NewString()
	logger = logger.With(logging.String(logging.FieldRunID, runID))

	dryRun := cfg.Sweep.DryRun
	if cmd.Flags().Changed("dry-run") {
		dryRun = flags.dryRun
	}
	limit := cfg.Sweep.BatchLimit
	if cmd.Flags().Changed("limit") {
		limit = flags.limit
	}

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return emitFatal(cmd, fmt.Errorf("acquire run lock: %w", err))
	}
	if !locked {
		return emitFatal(cmd, fmt.Errorf("another sweep is already running (lock %s)", cfg.LockPath()))
	}
	defer func() {
		_ = lock.Unlock()
	}()

	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	client, err := stash.New(cfg.Stash.URL, cfg.Stash.APIKey,
		stash.WithTimeout(time.Duration(cfg.Stash.RequestTimeout)*time.Second))
	if err != nil {
		return emitFatal(cmd, err)
	}

	notifier := notifications.NewService(cfg)
	runner := sweep.New(client, logger, sweep.Options{
		JPEGQuality: cfg.Sweep.JPEGQuality,
		BatchLimit:  limit,
		DryRun:      dryRun,
	})

	logger.Info("sweep run starting",
		logging.String("stash_url", client.BaseURL()),
		logging.Bool("dry_run", dryRun))

	startedAt := time.Now().UTC()
	stats, runErr := runner.Run(signalCtx)
	finishedAt := time.Now().UTC()

	// History and notifications still apply after an interrupt, so they use
	// their own context.
	postCtx, postCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer postCancel()

	if runErr != nil {
		if nerr := notifier.NotifySweepFailed(postCtx, runErr); nerr != nil {
			logger.Warn("send failure notification", logging.Error(nerr))
		}
		return emitFatal(cmd, runErr)
	}

	if cfg.History.Enabled {
		saveRunHistory(postCtx, logger, cfg.HistoryDBPath(), history.Record{
			ID:         runID,
			StartedAt:  startedAt,
			FinishedAt: finishedAt,
			DryRun:     dryRun,
			Stats:      stats,
		})
	}

	if nerr := notifier.NotifySweepCompleted(postCtx, stats, dryRun); nerr != nil {
		logger.Warn("send completion notification", logging.Error(nerr))
	}

	logger.Info("sweep run finished", logging.Duration("elapsed", finishedAt.Sub(startedAt)))
	return report.Completed(stats).Write(cmd.OutOrStdout())
}

// emitFatal writes the error-only result document before the command fails.
func emitFatal(cmd *cobra.Command, runErr error) error {
	if err := report.Failed(runErr).Write(cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("write result: %w (run error: %v)", err, runErr)
	}
	return runErr
}

// saveRunHistory is best-effort: failures are logged and never alter the run
// result or exit code.
func saveRunHistory(ctx context.Context, logger *slog.Logger, dbPath string, rec history.Record) {
	store, err := history.Open(dbPath)
	if err != nil {
		logger.Warn("open history store", logging.Error(err))
		return
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("close history store", logging.Error(err))
		}
	}()
	if err := store.SaveRun(ctx, rec); err != nil {
		logger.Warn("save run history", logging.Error(err))
	}
}
