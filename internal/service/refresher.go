// Package service owns the load → transform → publish cycle and the current
// metric set.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/damage-rate-service/internal/domain"
	"github.com/couchcryptid/damage-rate-service/internal/observability"
	"github.com/couchcryptid/damage-rate-service/internal/pipeline"
)

// DatasetLoader supplies the two benchmark inputs.
type DatasetLoader interface {
	LoadVolumes(ctx context.Context) ([]domain.VolumeRecord, error)
	LoadDamages(ctx context.Context) ([]domain.DamageRecord, error)
}

// Sink receives the full metric set after each successful refresh.
type Sink interface {
	PublishMetrics(ctx context.Context, set *domain.MetricSet) error
}

// Refresher recomputes the metric set from the input files and holds the
// current result. Each refresh is all-or-nothing: if either dataset fails to
// load, the pipeline never runs and the previous set stays in place.
// Refreshes are serialized by the Run loop; readers see the current set
// through an atomic pointer, so serving never blocks on a recompute.
type Refresher struct {
	loader    DatasetLoader
	sink      Sink // nil disables publishing
	threshold float64
	logger    *slog.Logger
	metrics   *observability.Metrics
	current   atomic.Pointer[domain.MetricSet]
}

// New creates a Refresher. Pass a nil sink to disable publishing.
func New(loader DatasetLoader, sink Sink, threshold float64, logger *slog.Logger, metrics *observability.Metrics) *Refresher {
	return &Refresher{
		loader:    loader,
		sink:      sink,
		threshold: threshold,
		logger:    logger,
		metrics:   metrics,
	}
}

// Current returns the most recently computed metric set, or nil before the
// first successful refresh.
func (r *Refresher) Current() *domain.MetricSet {
	return r.current.Load()
}

// CheckReadiness returns nil once a metric set has been computed, or an
// error describing why the service is not yet ready.
func (r *Refresher) CheckReadiness(_ context.Context) error {
	if r.current.Load() == nil {
		return errors.New("no dataset loaded yet")
	}
	return nil
}

// Refresh loads both inputs jointly, runs the transform, and swaps in the
// new metric set. A load failure aborts before the pipeline runs and leaves
// the previous set serving.
func (r *Refresher) Refresh(ctx context.Context) error {
	start := time.Now()

	var volumes []domain.VolumeRecord
	var damages []domain.DamageRecord

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		volumes, err = r.loader.LoadVolumes(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		damages, err = r.loader.LoadDamages(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		r.metrics.DatasetLoadErrors.Inc()
		return fmt.Errorf("load inputs: %w", err)
	}

	set := pipeline.Transform(volumes, damages, r.threshold)

	r.current.Store(set)
	r.metrics.DatasetLoads.Inc()
	r.metrics.MetricRows.Set(float64(set.Len()))
	r.metrics.TransformDuration.Observe(time.Since(start).Seconds())
	r.metrics.RefresherReady.Set(1)

	if set.Len() == 0 {
		// Loaded-but-empty is a distinct condition from a load failure.
		r.logger.Warn("datasets loaded but produced no metric rows",
			"volume_records", len(volumes), "damage_records", len(damages))
	} else {
		r.logger.Info("metric set refreshed",
			"rows", set.Len(),
			"states", len(set.States()),
			"benchmarked_years", len(set.Years()),
			"duration", time.Since(start),
		)
	}

	r.publish(ctx, set)
	return nil
}

// publish forwards the set to the sink, if any. Publishing is best-effort:
// a sink failure never blocks serving the refreshed set.
func (r *Refresher) publish(ctx context.Context, set *domain.MetricSet) {
	if r.sink == nil || set.Len() == 0 {
		return
	}
	if err := r.sink.PublishMetrics(ctx, set); err != nil {
		r.logger.Error("sink publish failed", "error", err, "rows", set.Len())
		return
	}
	r.metrics.SinkPublished.Add(float64(set.Len()))
}

// Run performs the initial refresh, then recomputes on every reload signal
// until the context is cancelled. A nil reload channel blocks forever, which
// disables reloading. A failed refresh keeps the previous set serving.
func (r *Refresher) Run(ctx context.Context, reloads <-chan struct{}) error {
	if err := r.Refresh(ctx); err != nil {
		// Stay up and unready: the watcher may deliver a corrected file.
		r.logger.Error("initial dataset load failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("refresher stopping", "reason", ctx.Err())
			return nil
		case _, ok := <-reloads:
			if !ok {
				return nil
			}
			if err := r.Refresh(ctx); err != nil {
				r.logger.Error("refresh failed, keeping previous metric set", "error", err)
			}
		}
	}
}
