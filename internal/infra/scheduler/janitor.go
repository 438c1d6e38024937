package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Sweeper removes expired entries and reports how many were dropped.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// Janitor periodically sweeps expired cache entries.
type Janitor struct {
	scheduler *gocron.Scheduler
	sweeper   Sweeper
	interval  time.Duration
	logger    *slog.Logger
}

// NewJanitor builds a janitor. A non-positive interval disables it.
func NewJanitor(sweeper Sweeper, interval time.Duration, logger *slog.Logger) *Janitor {
	return &Janitor{
		scheduler: gocron.NewScheduler(time.UTC),
		sweeper:   sweeper,
		interval:  interval,
		logger:    logger.With("component", "scheduler.janitor"),
	}
}

// Start registers the sweep job and runs the scheduler in the background.
func (j *Janitor) Start() error {
	if j.interval <= 0 || j.sweeper == nil {
		j.logger.Info("cache janitor disabled")
		return nil
	}
	_, err := j.scheduler.Every(j.interval).SingletonMode().Do(j.run)
	if err != nil {
		return err
	}
	j.scheduler.StartAsync()
	j.logger.Info("cache janitor started", "interval", j.interval.String())
	return nil
}

// Stop halts future sweeps.
func (j *Janitor) Stop() {
	if j.scheduler.IsRunning() {
		j.scheduler.Stop()
	}
}

func (j *Janitor) run() {
	timeout := j.interval
	if timeout > 30*time.Second {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	removed, err := j.sweeper.Sweep(ctx)
	if err != nil {
		j.logger.Warn("cache sweep failed", "error", err)
		return
	}
	if removed > 0 {
		j.logger.Info("cache sweep completed", "removed", removed)
	}
}
