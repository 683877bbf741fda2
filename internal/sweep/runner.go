package sweep

import (
	"context"
	"fmt"
	"log/slog"

	"stashsweep/internal/logging"
	"stashsweep/internal/report"
	"stashsweep/internal/sniff"
	"stashsweep/internal/stash"
	"stashsweep/internal/transcode"
)

// Options control a single sweep pass.
type Options struct {
	// JPEGQuality is the encode quality for converted screenshots.
	JPEGQuality int
	// BatchLimit stops the pass after this many conversions (or dry-run
	// candidates). Zero means unlimited.
	BatchLimit int
	// DryRun reports WebP candidates without transcoding or uploading.
	DryRun bool
}

// Runner executes sweep passes against one Stash library.
type Runner struct {
	client stash.Library
	logger *slog.Logger
	opts   Options
}

// New creates a Runner. A nil logger disables diagnostics.
func New(client stash.Library, logger *slog.Logger, opts Options) *Runner {
	if opts.JPEGQuality < 1 || opts.JPEGQuality > 100 {
		opts.JPEGQuality = transcode.DefaultQuality
	}
	if opts.BatchLimit < 0 {
		opts.BatchLimit = 0
	}
	return &Runner{
		client: client,
		logger: logging.NewComponentLogger(logger, "sweep"),
		opts:   opts,
	}
}

type tally struct {
	noScreenshot int
	alreadyJPEG  int
	otherFormat  int
	failures     int
}

// Run sweeps the library once. A nil error means the pass completed and the
// returned stats are authoritative even when individual scenes failed; a
// non-nil error means scene enumeration failed and nothing was attempted.
func (r *Runner) Run(ctx context.Context) (*report.Stats, error) {
	list, err := r.client.FindScenes(ctx)
	if err != nil {
		return nil, err
	}

	stats := report.NewStats(list.Count)
	r.logger.Info("scan started",
		logging.Args(
			logging.Int("total_scenes", list.Count),
			logging.Bool("dry_run", r.opts.DryRun),
			logging.Int("batch_limit", r.opts.BatchLimit),
		)...)

	var counts tally
	handled := 0
	for _, scene := range list.Scenes {
		if ctx.Err() != nil {
			stats.RecordError(fmt.Sprintf("sweep aborted: %v", ctx.Err()))
			counts.failures++
			break
		}
		if r.opts.BatchLimit > 0 && handled >= r.opts.BatchLimit {
			r.logger.Info("batch limit reached, stopping pass",
				logging.Args(logging.Int("batch_limit", r.opts.BatchLimit))...)
			break
		}
		if r.processScene(ctx, scene, stats, &counts) {
			handled++
		}
	}

	r.logger.Info("scan finished",
		logging.Args(
			logging.Int("total_scenes", stats.TotalScenes),
			logging.Int("webp_found", stats.WebPScreenshotsFound),
			logging.Int("replaced", stats.SuccessfullyReplaced),
			logging.Int("skipped_no_screenshot", counts.noScreenshot),
			logging.Int("skipped_already_jpg", counts.alreadyJPEG),
			logging.Int("skipped_other_format", counts.otherFormat),
			logging.Int("errors", counts.failures),
		)...)

	return stats, nil
}

// processScene walks one scene through fetch, sniff, transcode, and upload.
// It reports whether the scene counted against the batch limit, which is
// true only for conversions and dry-run candidates.
func (r *Runner) processScene(ctx context.Context, scene stash.Scene, stats *report.Stats, counts *tally) bool {
	log := r.logger.With(logging.Args(logging.String(logging.FieldSceneID, scene.ID))...)

	if !scene.HasScreenshot() {
		counts.noScreenshot++
		log.Debug("scene has no screenshot, skipping")
		return false
	}

	screenshotURL := scene.Paths.Screenshot
	data, err := r.client.FetchScreenshot(ctx, screenshotURL)
	if err != nil {
		r.recordFailure(log, stats, counts, scene, "fetch", err)
		return false
	}

	switch format := sniff.Detect(data); format {
	case sniff.FormatWebP:
	case sniff.FormatJPEG:
		counts.alreadyJPEG++
		log.Debug("screenshot already jpeg, skipping")
		return false
	default:
		counts.otherFormat++
		log.Debug("screenshot is not webp, skipping",
			logging.Args(logging.String("format", format.String()))...)
		return false
	}

	stats.RecordWebPFound()

	if r.opts.DryRun {
		stats.RecordWouldConvert(scene.ID, scene.DisplayTitle(), screenshotURL)
		log.Info("would convert webp screenshot",
			logging.Args(logging.Int("bytes", len(data)))...)
		return true
	}

	jpegData, err := transcodeImage(data, r.opts.JPEGQuality)
	if err != nil {
		r.recordFailure(log, stats, counts, scene, "transcode", err)
		return false
	}

	if err := r.client.ReplaceScreenshot(ctx, scene.ID, jpegData, scene.ID+".jpg"); err != nil {
		r.recordFailure(log, stats, counts, scene, "upload", err)
		return false
	}

	stats.RecordConverted(scene.ID, scene.DisplayTitle(), screenshotURL)
	log.Info("converted webp screenshot to jpeg",
		logging.Args(
			logging.Int("webp_bytes", len(data)),
			logging.Int("jpeg_bytes", len(jpegData)),
		)...)
	return true
}

func (r *Runner) recordFailure(log *slog.Logger, stats *report.Stats, counts *tally, scene stash.Scene, stage string, err error) {
	counts.failures++
	stats.RecordError(fmt.Sprintf("scene %s (%s): %v", scene.ID, scene.DisplayTitle(), err))
	log.Warn("scene processing failed",
		logging.Args(
			logging.String(logging.FieldStage, stage),
			logging.Error(err),
		)...)
}
