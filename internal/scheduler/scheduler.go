// Package scheduler runs periodic maintenance jobs such as the baker
// ranking refresh.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"anoa.com/recipemarket/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Scheduler owns a cron runner and the jobs registered on it.
type Scheduler struct {
	cron    *cron.Cron
	jobs    []Job
	timeout time.Duration
}

// New creates a scheduler. timeout bounds a single scheduled run; zero
// means no bound.
func New(timeout time.Duration) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		jobs:    make([]Job, 0),
		timeout: timeout,
	}
}

// Register adds a job and schedules it when it has a cron spec.
func (s *Scheduler) Register(job Job) error {
	spec := job.Schedule()
	if spec != "" {
		if _, err := s.cron.AddFunc(spec, func() { s.execute(job) }); err != nil {
			return fmt.Errorf("failed to schedule job %s: %w", job.Name(), err)
		}
		logger.Info().Str("job", job.Name()).Str("schedule", spec).Msg("job scheduled")
	} else {
		logger.Info().Str("job", job.Name()).Msg("job registered for on-demand runs")
	}

	s.jobs = append(s.jobs, job)
	return nil
}

func (s *Scheduler) execute(job Job) {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		logger.Error().Err(err).Str("job", job.Name()).Msg("scheduled job failed")
		return
	}
	logger.Info().
		Str("job", job.Name()).
		Dur("duration", time.Since(start)).
		Msg("scheduled job completed")
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info().Int("jobs", len(s.jobs)).Msg("scheduler started")
}

// Stop stops the cron runner and waits for running jobs to finish or ctx
// to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		logger.Info().Msg("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunNow executes the named job synchronously.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	for _, job := range s.jobs {
		if job.Name() == name {
			return job.Run(ctx)
		}
	}
	return fmt.Errorf("job %q not registered", name)
}

// Jobs returns the names of all registered jobs.
func (s *Scheduler) Jobs() []string {
	names := make([]string, len(s.jobs))
	for i, job := range s.jobs {
		names[i] = job.Name()
	}
	return names
}
