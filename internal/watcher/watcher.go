// Package watcher implements scheduled drift detection over configured
// dataset pairs.
package watcher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/driftwatch-systems/driftwatch/internal/alert"
	"github.com/driftwatch-systems/driftwatch/internal/config"
	"github.com/driftwatch-systems/driftwatch/internal/dataset"
	"github.com/driftwatch-systems/driftwatch/internal/pipeline"
	"github.com/driftwatch-systems/driftwatch/pkg/types"
)

const defaultInterval = 5 * time.Minute

// Watcher periodically re-reads each configured dataset pair and runs a
// drift detection over it, dispatching any alerts produced.
type Watcher struct {
	cfg        *types.Config
	dispatcher *alert.Dispatcher
	logger     *slog.Logger
	tracer     trace.Tracer
	jobSeconds metric.Float64Histogram

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a new Watcher.
func New(cfg *types.Config, dispatcher *alert.Dispatcher, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	jobSeconds, _ := otel.Meter("driftwatch/watcher").Float64Histogram(
		"driftwatch.job.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Duration of one watch job drift check."),
	)
	return &Watcher{
		cfg:        cfg,
		dispatcher: dispatcher,
		logger:     logger.With("component", "watcher"),
		tracer:     otel.Tracer("driftwatch/watcher"),
		jobSeconds: jobSeconds,
	}
}

// Start begins the watcher polling loop.
func (w *Watcher) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)

	interval, err := time.ParseDuration(w.cfg.Watch.Interval)
	if err != nil || interval <= 0 {
		interval = defaultInterval
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.logger.Info("watcher started", "interval", interval, "jobs", len(w.cfg.Watch.Jobs))

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		// Run immediately on start
		w.poll(ctx)

		for {
			select {
			case <-ctx.Done():
				w.logger.Info("watcher stopping")
				return
			case <-ticker.C:
				w.poll(ctx)
			}
		}
	}()
}

// Stop gracefully shuts down the watcher.
func (w *Watcher) Stop(ctx context.Context) {
	if w.cancel != nil {
		w.cancel()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.logger.Info("watcher stopped")
	case <-ctx.Done():
		w.logger.Warn("watcher stop timed out")
	}
}

// poll runs every configured job once. Jobs are independent, so they run
// concurrently; the cycle waits for all of them before returning.
func (w *Watcher) poll(ctx context.Context) {
	var jobs sync.WaitGroup
	for _, job := range w.cfg.Watch.Jobs {
		if ctx.Err() != nil {
			return
		}
		jobs.Add(1)
		go func(job types.JobConfig) {
			defer jobs.Done()
			w.runJob(ctx, job)
		}(job)
	}
	jobs.Wait()
}

// runJob re-reads both files and runs one detection. Files are read fresh
// every cycle so content changes are picked up without a restart. A failing
// job logs and leaves the other jobs untouched.
func (w *Watcher) runJob(ctx context.Context, job types.JobConfig) {
	ctx, span := w.tracer.Start(ctx, "watch.job",
		trace.WithAttributes(
			attribute.String("job.name", job.Name),
			attribute.String("drift.metric", string(job.Metric)),
		))
	defer span.End()
	start := time.Now()
	defer func() {
		w.jobSeconds.Record(ctx, time.Since(start).Seconds(),
			metric.WithAttributes(attribute.String("job.name", job.Name)))
	}()

	reference, err := dataset.Load(job.Reference)
	if err != nil {
		w.logger.Error("loading reference dataset failed", "job", job.Name, "error", err)
		return
	}
	current, err := dataset.Load(job.Current)
	if err != nil {
		w.logger.Error("loading current dataset failed", "job", job.Name, "error", err)
		return
	}

	if job.Feature != "" {
		if reference, err = reference.Project(job.Feature); err != nil {
			w.logger.Error("projecting reference dataset failed", "job", job.Name, "error", err)
			return
		}
		if current, err = current.Project(job.Feature); err != nil {
			w.logger.Error("projecting current dataset failed", "job", job.Name, "error", err)
			return
		}
	}

	threshold, err := w.resolveThreshold(job)
	if err != nil {
		w.logger.Error("resolving threshold failed", "job", job.Name, "error", err)
		return
	}

	report, err := pipeline.Run(reference, current, job.FeatureType, job.Metric, threshold)
	if err != nil {
		span.RecordError(err)
		w.logger.Error("drift check failed", "job", job.Name, "error", err)
		return
	}
	span.SetAttributes(attribute.Bool("drift.detected", report.DriftDetected))

	w.logger.Info("drift check complete",
		"job", job.Name,
		"metric", job.Metric,
		"drift", report.DriftDetected,
	)

	for _, a := range report.Alerts {
		w.dispatcher.Dispatch(ctx, w.featureName(job, reference), a)
	}
}

func (w *Watcher) resolveThreshold(job types.JobConfig) (float64, error) {
	if job.Threshold != nil {
		return *job.Threshold, nil
	}
	return config.Threshold(w.cfg, job.Metric, job.Feature)
}

func (w *Watcher) featureName(job types.JobConfig, t *dataset.Table) string {
	if job.Feature != "" {
		return job.Feature
	}
	if cols := t.Columns(); len(cols) > 0 {
		return cols[0]
	}
	return ""
}
