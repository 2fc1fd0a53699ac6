// Package service implements the batch conversion pipeline: discovery, the
// worker pool, the progress monitor and the coordinator that aggregates
// per-file outcomes.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/svdgoor/Tools/internal/codec"
	"github.com/svdgoor/Tools/internal/metrics"
	"github.com/svdgoor/Tools/internal/models"
)

// BatchOptions configures a conversion batch.
type BatchOptions struct {
	// Workers is the number of concurrent conversions (default 4).
	Workers int
	// Directory treats the input path as a directory of files.
	Directory bool
	// Recursive walks the input directory tree; implies Directory.
	Recursive bool
	// MonitorInterval is the progress sampling cadence (default 1s).
	MonitorInterval time.Duration
	// OnSample, if set, receives every progress sample.
	OnSample func(Sample)
}

// Summary is the consolidated result of a batch.
type Summary struct {
	RunID     string
	Found     *metrics.Found
	Created   *metrics.Created
	Timings   []metrics.OperationSnapshot
	Total     int // Jobs dispatched
	Processed int // Jobs completed, successfully or not
	Elapsed   time.Duration
}

// Batch discovers files and converts them concurrently.
type Batch struct {
	codec  codec.Codec
	logger *slog.Logger
	opts   BatchOptions
	now    func() time.Time
}

// NewBatch creates a batch runner.
func NewBatch(c codec.Codec, logger *slog.Logger, opts BatchOptions) *Batch {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Recursive {
		opts.Directory = true
	}
	return &Batch{
		codec:  c,
		logger: logger,
		opts:   opts,
		now:    time.Now,
	}
}

// Run validates path, collects its candidates and converts them. It returns
// an error wrapping ErrInvalidPath, without touching any file, when the path
// is unusable for the selected mode.
func (b *Batch) Run(ctx context.Context, path string) (*Summary, error) {
	if err := ValidatePath(path, b.opts.Directory); err != nil {
		return nil, err
	}

	paths := []string{path}
	if b.opts.Directory {
		var err error
		paths, err = CollectFiles(b.logger, path, b.opts.Recursive)
		if err != nil {
			return nil, err
		}
	}
	return b.RunPaths(ctx, paths), nil
}

// RunPaths converts the given candidate paths. Per-file failures are counted,
// never returned. The context only carries logging values; a started batch
// always runs to completion.
func (b *Batch) RunPaths(ctx context.Context, paths []string) *Summary {
	runID := uuid.New().String()[:8]
	logger := b.logger.With("run", runID)
	logger.InfoContext(ctx, "starting conversion process", "candidates", len(paths))

	found := metrics.NewFound()
	created := metrics.NewCreated()
	timings := metrics.NewCollector()
	progress := metrics.NewProgressWithClock(b.now)

	// Discovery is sequential and must fix the total before the monitor or
	// any worker reads it.
	jobs := Discover(logger, paths, found)
	progress.SetTotal(len(jobs))
	progress.Start()
	logger.InfoContext(ctx, "total files found", "total", len(jobs),
		"unsupported", found.Get(models.CategoryUnsupported),
		"missing", found.Get(models.CategoryMissing))

	monitor := NewMonitor(progress, logger, b.opts.MonitorInterval)
	monitor.now = b.now
	monitor.OnSample(b.opts.OnSample)
	monitor.Start()

	converter := NewConverter(b.codec, created, timings, logger)
	pool := NewPool(b.opts.Workers)
	logger.DebugContext(ctx, "dispatching jobs", "jobs", len(jobs), "workers", pool.Workers())

	for res := range pool.Run(jobs, converter.Convert) {
		progress.Advance()
		if err := res.Outcome.Err; err != nil {
			// Conversion errors were logged by the worker; panics were not.
			if errors.Is(err, ErrJobPanicked) {
				logger.ErrorContext(ctx, "error processing file", "file", res.Job.Path, "error", err)
			}
			found.Add(models.CategoryError)
			continue
		}
		found.Add(res.Job.Format.Category())
		logger.DebugContext(ctx, "file done", "file", res.Job.Path,
			"created", len(res.Outcome.Created), "skipped", len(res.Outcome.Skipped))
	}

	pool.Wait()
	monitor.Wait()

	snap := progress.Snapshot()
	summary := &Summary{
		RunID:     runID,
		Found:     found,
		Created:   created,
		Timings:   timings.Snapshot(),
		Total:     snap.Total,
		Processed: snap.Processed,
		Elapsed:   b.now().Sub(snap.StartedAt),
	}

	logger.InfoContext(ctx, "conversion process finished", "elapsed", summary.Elapsed.Round(10*time.Millisecond))
	logger.InfoContext(ctx, "files found", "counts", found)
	logger.InfoContext(ctx, "files created", "counts", created)
	for _, op := range summary.Timings {
		logger.DebugContext(ctx, "codec timing",
			"op", op.Op,
			"count", op.Count,
			"failures", op.Failures,
			"avg", op.AvgTime,
			"min", op.MinTime,
			"max", op.MaxTime,
		)
	}

	return summary
}
