package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-lookup/internal/logging"
	"github.com/i474232898/weather-lookup/internal/query"
)

// Querier is the part of query.Controller the refresher drives.
type Querier interface {
	Submit(ctx context.Context, key string) (query.State, error)
	History() []string
}

// Scheduler periodically re-runs the most recent query so the displayed
// conditions do not go stale.
type Scheduler struct {
	scheduler *gocron.Scheduler
	querier   Querier
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler. timeout bounds each refresh; zero means 30s.
func New(querier Querier, interval, timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		querier:   querier,
		interval:  interval,
		timeout:   timeout,
	}
}

// Start schedules the refresh job and starts the underlying scheduler. A
// non-positive interval disables refreshing.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		logging.Info("scheduler: refresh disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	logging.Info("scheduler: refresh scheduled", "interval", s.interval)
	return nil
}

// RunOnce resubmits the most recent history entry, if there is one. It
// returns the key it refreshed.
func (s *Scheduler) RunOnce(ctx context.Context) (string, bool) {
	entries := s.querier.History()
	if len(entries) == 0 {
		logging.Debug("scheduler: nothing to refresh")
		return "", false
	}

	key := entries[0]
	_, err := s.querier.Submit(ctx, key)
	switch {
	case err == nil:
		logging.Debug("scheduler: refreshed", "key", key)
	case errors.Is(err, query.ErrSuperseded):
		logging.Debug("scheduler: refresh overtaken by a newer query", "key", key)
	default:
		logging.Warn("scheduler: refresh failed", "key", key, "error", err)
	}
	return key, true
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
