// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package scheduler runs named background jobs on cron schedules.

Jobs receive a context that is cancelled when the scheduler stops, and a
job still running from its previous tick is skipped rather than overlapped.
*/
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one unit of scheduled work.
type Job func(ctx context.Context) error

// Scheduler wraps a cron runner with structured logging.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates an idle [Scheduler].
func New(logger *slog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.DefaultLogger),
			cron.SkipIfStillRunning(cron.DefaultLogger),
		)),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add registers job under name. spec accepts standard cron expressions and descriptors such as "@every 1h".
func (scheduler *Scheduler) Add(name, spec string, job Job) error {
	_, err := scheduler.cron.AddFunc(spec, func() {
		started := time.Now()
		if err := job(scheduler.ctx); err != nil {
			scheduler.logger.ErrorContext(scheduler.ctx, "scheduled_job_failed",
				slog.String("job", name),
				slog.Any("error", err),
			)
			return
		}
		scheduler.logger.InfoContext(scheduler.ctx, "scheduled_job_finished",
			slog.String("job", name),
			slog.Int64("duration_ms", time.Since(started).Milliseconds()),
		)
	})
	if err != nil {
		return fmt.Errorf("scheduler: invalid schedule %q for %s: %w", spec, name, err)
	}
	return nil
}

// Start runs the registered jobs in the background.
func (scheduler *Scheduler) Start() {
	scheduler.cron.Start()
	scheduler.logger.Info("scheduler_started", slog.Int("jobs", len(scheduler.cron.Entries())))
}

// Stop cancels running jobs and waits for them to return or for ctx to expire.
func (scheduler *Scheduler) Stop(ctx context.Context) {
	scheduler.cancel()
	select {
	case <-scheduler.cron.Stop().Done():
	case <-ctx.Done():
	}
	scheduler.logger.Info("scheduler_stopped")
}
