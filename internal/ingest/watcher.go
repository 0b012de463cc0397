// Package ingest re-runs case analysis when processed evidence changes
// on disk.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/nvaldes/custodia/internal/metrics"
	"github.com/nvaldes/custodia/internal/model"
	"github.com/nvaldes/custodia/internal/pipeline"
)

// Runner is the analysis entry point the watcher triggers. Satisfied by
// *pipeline.Pipeline.
type Runner interface {
	Invalidate()
	Analyze(ctx context.Context, cs model.Case, opts pipeline.Options) (*pipeline.Result, error)
}

// Watcher observes a case's processed evidence directory and re-runs
// the pipeline on change. Bursts of filesystem events are coalesced by
// a debounce window, and sustained churn is capped by a rate limiter so
// a runaway sync job cannot pin the analyzer.
type Watcher struct {
	cfg     model.WatchConfig
	log     *zap.Logger
	runner  Runner
	limiter *rate.Limiter
}

// NewWatcher builds a watcher around an analysis runner
func NewWatcher(cfg model.WatchConfig, log *zap.Logger, runner Runner) *Watcher {
	return &Watcher{
		cfg:     cfg,
		log:     log,
		runner:  runner,
		limiter: rate.NewLimiter(rate.Limit(cfg.RunsPerMinute/60.0), cfg.Burst),
	}
}

// Watch blocks until the context is cancelled, re-analyzing the case
// whenever its processed evidence changes. The initial run happens
// immediately so a freshly watched case is analyzed at least once.
func (w *Watcher) Watch(ctx context.Context, cs model.Case) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	dir := cs.ProcessedDir()
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	w.log.Info("watching case evidence", zap.String("case", cs.ID), zap.String("dir", dir))

	w.run(ctx, cs)

	// Inactive until the first event arms it
	debounce := time.NewTimer(w.cfg.Debounce)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			metrics.WatchEvents.Inc()
			w.log.Debug("evidence changed", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
			debounce.Reset(w.cfg.Debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", zap.Error(err))

		case <-debounce.C:
			if !w.limiter.Allow() {
				metrics.RunsThrottled.Inc()
				w.log.Warn("re-analysis throttled, retrying after debounce",
					zap.String("case", cs.ID))
				debounce.Reset(w.cfg.Debounce)
				continue
			}
			w.run(ctx, cs)
		}
	}
}

func (w *Watcher) run(ctx context.Context, cs model.Case) {
	w.runner.Invalidate()
	res, err := w.runner.Analyze(ctx, cs, pipeline.Options{})
	if err != nil {
		w.log.Error("re-analysis failed", zap.String("case", cs.ID), zap.Error(err))
		return
	}
	w.log.Info("case re-analyzed",
		zap.String("case", cs.ID),
		zap.Int("events", len(res.Timeline)),
		zap.Int("findings", res.Findings.TotalFindings()))
}
