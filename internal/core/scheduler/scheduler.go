package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"terminal-commons/internal/core/logger"
)

// Worker is one schedulable unit of work, typically a terminal scraping run.
type Worker interface {
	// Name identifies the worker in logs.
	Name() string
	// Schedule is the cron expression the worker runs on.
	Schedule() string
	// Ready reports whether the worker should actually run at now; a worker
	// already mid-run returns false.
	Ready(now time.Time) bool
	// Execute performs one run.
	Execute(ctx context.Context)
}

// Orchestrator drives a set of workers off a shared cron schedule.
type Orchestrator struct {
	workers []Worker
	logger  *zap.Logger
}

// NewOrchestrator creates an orchestrator over the given workers.
func NewOrchestrator(workers []Worker) *Orchestrator {
	return &Orchestrator{workers: workers, logger: logger.Get()}
}

// Start registers every worker with cron and starts the scheduler. The
// returned cron instance is stopped by the caller on shutdown.
func (o *Orchestrator) Start(ctx context.Context) (*cron.Cron, error) {
	c := cron.New()

	for _, worker := range o.workers {
		w := worker
		_, err := c.AddFunc(w.Schedule(), func() {
			if !w.Ready(time.Now()) {
				o.logger.Debug("Worker not ready, skipping tick", zap.String("worker", w.Name()))
				return
			}
			go w.Execute(ctx)
		})
		if err != nil {
			return nil, fmt.Errorf("schedule worker %s: %w", w.Name(), err)
		}
		o.logger.Info("Worker scheduled",
			zap.String("worker", w.Name()),
			zap.String("schedule", w.Schedule()),
		)
	}

	c.Start()
	return c, nil
}
