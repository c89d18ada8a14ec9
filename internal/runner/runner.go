package runner

import (
	"context"
	"errors"
	"time"

	"github.com/aleister1102/toughcanvas/internal/catalog"
	"github.com/aleister1102/toughcanvas/internal/common"
	"github.com/aleister1102/toughcanvas/internal/config"
	"github.com/aleister1102/toughcanvas/internal/models"
	"github.com/aleister1102/toughcanvas/internal/resources"
	"github.com/aleister1102/toughcanvas/internal/story"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PageExecutor runs the shared template for one page
type PageExecutor interface {
	Run(ctx context.Context, page catalog.PageDescriptor) (story.Outcome, error)
}

// Sampler snapshots host resource usage
type Sampler interface {
	Sample(ctx context.Context) (resources.Usage, error)
}

// Recorder persists a run while it is in progress
type Recorder interface {
	RecordRunStart(ctx context.Context, runID, catalog string, numPages int, startedAt time.Time) (int64, error)
	RecordPageResult(ctx context.Context, r models.PageResult) error
}

// FrameSource reports the frame statistics of the window that just closed
type FrameSource func() (frames int, measured time.Duration, ok bool)

// Option customises a Runner
type Option func(*Runner)

// WithSampler samples host usage after every page
func WithSampler(s Sampler, thresholds resources.Thresholds) Option {
	return func(r *Runner) {
		r.sampler = s
		r.thresholds = thresholds
	}
}

// WithFrameSource attaches frame statistics to passed pages
func WithFrameSource(fs FrameSource) Option {
	return func(r *Runner) { r.frames = fs }
}

// WithRecorder stores the run start and every page result as soon as it is known
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

// WithClock replaces the wall clock
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithRunIDGenerator replaces the UUID run ID generator
func WithRunIDGenerator(gen func() string) Option {
	return func(r *Runner) { r.newRunID = gen }
}

// Runner drives every active page of a catalog through the executor, one at a time
type Runner struct {
	exec       PageExecutor
	config     config.RunnerConfig
	logger     zerolog.Logger
	sampler    Sampler
	thresholds resources.Thresholds
	frames     FrameSource
	recorder   Recorder
	now        func() time.Time
	newRunID   func() string
}

// New creates a runner
func New(exec PageExecutor, cfg config.RunnerConfig, logger zerolog.Logger, opts ...Option) *Runner {
	r := &Runner{
		exec:       exec,
		config:     cfg,
		logger:     logger.With().Str("component", "Runner").Logger(),
		thresholds: resources.DefaultThresholds(),
		now:        time.Now,
		newRunID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the catalog's active pages in order. A page failure never
// stops the run; pages not started before ctx is cancelled are recorded as
// skipped and the context error is returned with the partial summary.
func (r *Runner) Run(ctx context.Context, cat *catalog.Catalog) (*models.RunSummary, error) {
	selected, err := cat.Filter(r.config.StoryFilter...)
	if err != nil {
		return nil, err
	}

	runID := r.newRunID()
	pages := selected.Pages()
	summary := models.NewRunSummary(runID, selected.Name(), len(pages), r.now())

	runLogger := r.logger.With().Str("run_id", runID).Logger()
	runLogger.Info().
		Str("catalog", selected.Name()).
		Int("pages", len(pages)).
		Dur("page_timeout", r.config.PageTimeout()).
		Msg("Starting benchmark run")

	// results of an interrupted run are still written
	recordCtx := context.WithoutCancel(ctx)
	if r.recorder != nil {
		if _, err := r.recorder.RecordRunStart(recordCtx, runID, selected.Name(), len(pages), summary.StartedAt); err != nil {
			return nil, common.WrapError(err, "failed to record run start")
		}
	}

	for _, page := range pages {
		if ctx.Err() != nil {
			result := r.skipped(runID, page)
			summary.Add(result)
			r.record(recordCtx, runLogger, result)
			continue
		}

		result := r.runPage(ctx, runID, page)
		summary.Add(result)
		r.record(recordCtx, runLogger, result)

		event := runLogger.Info()
		if result.Status == models.PageStatusFailed {
			event = runLogger.Warn().Str("error_kind", result.ErrorKind).Str("error", result.Error)
		}
		event.
			Str("page", result.Page).
			Str("status", string(result.Status)).
			Dur("duration", result.Duration).
			Msg("Page finished")
	}

	cancelled := ctx.Err() != nil
	summary.Finish(r.now(), cancelled)

	runLogger.Info().
		Str("status", string(summary.Status)).
		Int("passed", summary.Passed).
		Int("failed", summary.Failed).
		Int("skipped", summary.Skipped).
		Dur("duration", summary.Duration()).
		Msg("Benchmark run finished")

	if cancelled {
		return summary, common.WrapError(ctx.Err(), "benchmark run interrupted")
	}
	return summary, nil
}

func (r *Runner) runPage(ctx context.Context, runID string, page catalog.PageDescriptor) models.PageResult {
	result := models.PageResult{
		RunID:     runID,
		Page:      page.Name,
		URL:       page.URL,
		StartedAt: r.now(),
	}

	pageCtx, cancel := context.WithTimeout(ctx, r.config.PageTimeout())
	defer cancel()

	outcome, err := r.exec.Run(pageCtx, page)
	result.Duration = r.now().Sub(result.StartedAt)
	result.Label = outcome.Label
	result.Held = outcome.Held
	result.NavigatedIn = outcome.NavigatedIn

	if err != nil {
		result.Error = err.Error()
		result.Status, result.ErrorKind = classify(ctx, pageCtx, err)
	} else {
		result.Status = models.PageStatusPassed
		if r.frames != nil {
			if frames, measured, ok := r.frames(); ok {
				result.Frames = frames
				result.MeasuredWindow = measured
			}
		}
	}

	if r.sampler != nil && r.config.SampleResources && ctx.Err() == nil {
		usage, err := r.sampler.Sample(ctx)
		if err != nil {
			r.logger.Debug().Err(err).Str("page", page.Name).Msg("Resource sample failed")
		} else {
			result.CPUUsagePercent = usage.CPUUsagePercent
			result.SystemMemUsedPercent = usage.SystemMemUsedPercent
			result.HostContended = usage.Contended(r.thresholds)
		}
	}

	return result
}

func (r *Runner) record(ctx context.Context, logger zerolog.Logger, result models.PageResult) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.RecordPageResult(ctx, result); err != nil {
		logger.Warn().Err(err).Str("page", result.Page).Msg("Failed to record page result")
	}
}

func (r *Runner) skipped(runID string, page catalog.PageDescriptor) models.PageResult {
	return models.PageResult{
		RunID:     runID,
		Page:      page.Name,
		URL:       page.URL,
		Status:    models.PageStatusSkipped,
		ErrorKind: models.ErrorKindCancelled,
		StartedAt: r.now(),
	}
}

// classify maps an executor error to a page status and error kind
func classify(runCtx, pageCtx context.Context, err error) (models.PageStatus, string) {
	switch {
	case runCtx.Err() != nil:
		return models.PageStatusSkipped, models.ErrorKindCancelled
	case story.IsNavigationTimeout(err):
		return models.PageStatusFailed, models.ErrorKindNavigationTimeout
	case errors.Is(pageCtx.Err(), context.DeadlineExceeded):
		return models.PageStatusFailed, models.ErrorKindPageTimeout
	case errors.Is(err, story.ErrInteraction):
		return models.PageStatusFailed, models.ErrorKindInteraction
	default:
		return models.PageStatusFailed, models.ErrorKindNavigation
	}
}
