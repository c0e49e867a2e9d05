// Package maintenance runs periodic background tasks as Go tickers: expired
// job cleanup and a refresh sweep that catches data changes the service did
// not make itself (hand-edited data files, missed NOTIFY events).
package maintenance

import (
	"context"
	"log/slog"
	"time"
)

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	JobSweepInterval time.Duration // Drop expired scenario jobs
	RefreshInterval  time.Duration // Check the data source for outside changes
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{
		JobSweepInterval: 5 * time.Minute,
		RefreshInterval:  1 * time.Minute,
	}
}

// JobSweeper removes expired jobs. *jobs.Runner satisfies it.
type JobSweeper interface {
	Sweep() int
}

// Refresher reports whether the data changed since the last call and, if
// so, drops derived state. May be nil.
type Refresher interface {
	Refresh(ctx context.Context) (bool, error)
}

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, cfg Config, sweeper JobSweeper, refresher Refresher, logger *slog.Logger) {
	logger.Info("Maintenance tickers started",
		"job_sweep", cfg.JobSweepInterval,
		"refresh", cfg.RefreshInterval)

	tickers := make([]*time.Ticker, 0, 2)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	if cfg.JobSweepInterval > 0 && sweeper != nil {
		t := time.NewTicker(cfg.JobSweepInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { sweepJobs(sweeper, logger) })
	}

	if cfg.RefreshInterval > 0 && refresher != nil {
		t := time.NewTicker(cfg.RefreshInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { refresh(ctx, refresher, logger) })
	}

	<-ctx.Done()
	logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// --------------------------------------------------------------------------
// Task implementations
// --------------------------------------------------------------------------

func sweepJobs(sweeper JobSweeper, logger *slog.Logger) {
	if n := sweeper.Sweep(); n > 0 {
		logger.Info("Job sweep: removed expired jobs", "count", n)
	}
}

func refresh(ctx context.Context, refresher Refresher, logger *slog.Logger) {
	changed, err := refresher.Refresh(ctx)
	if err != nil {
		logger.Warn("Refresh: failed to check data source", "error", err)
		return
	}
	if changed {
		logger.Info("Refresh: data source changed, snapshot dropped")
	}
}
