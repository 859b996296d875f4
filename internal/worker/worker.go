package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"running-page/internal/config"
)

// evictSchedule is how often idle sessions are swept
const evictSchedule = "@every 5m"

// Reloader refreshes the activity collection from its store
type Reloader interface {
	Reload(ctx context.Context) error
}

// Evicter drops idle viewer sessions
type Evicter interface {
	Evict() int
}

// Worker runs the periodic background jobs: reloading the activity
// collection and evicting idle sessions
type Worker struct {
	lib           Reloader
	sessions      Evicter
	schedule      string
	evictSchedule string
	reloadTimeout time.Duration
	logger        *slog.Logger
}

// NewWorker creates a new background worker
func NewWorker(lib Reloader, sessions Evicter, cfg *config.Config) *Worker {
	return &Worker{
		lib:           lib,
		sessions:      sessions,
		schedule:      cfg.ReloadSchedule,
		evictSchedule: evictSchedule,
		reloadTimeout: 30 * time.Second,
		logger:        slog.Default(),
	}
}

// Start schedules the jobs and blocks until ctx is cancelled. Running jobs
// are allowed to finish before it returns.
func (w *Worker) Start(ctx context.Context) error {
	c := cron.New()

	if _, err := c.AddFunc(w.schedule, func() { w.reload(ctx) }); err != nil {
		return fmt.Errorf("invalid reload schedule %q: %w", w.schedule, err)
	}
	if _, err := c.AddFunc(w.evictSchedule, w.evict); err != nil {
		return fmt.Errorf("invalid eviction schedule %q: %w", w.evictSchedule, err)
	}

	w.logger.Info("Starting worker", "reload_schedule", w.schedule, "evict_schedule", w.evictSchedule)
	c.Start()

	<-ctx.Done()
	w.logger.Info("Stopping worker")
	<-c.Stop().Done()
	return ctx.Err()
}

func (w *Worker) reload(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, w.reloadTimeout)
	defer cancel()

	if err := w.lib.Reload(ctx); err != nil {
		w.logger.Error("Scheduled reload failed", "error", err)
	}
}

func (w *Worker) evict() {
	if n := w.sessions.Evict(); n > 0 {
		w.logger.Debug("Session sweep finished", "evicted", n)
	}
}
