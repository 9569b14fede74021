// Package scheduler runs the registered jobs on cron schedules for
// deployments without an external trigger. One job runs at a time; a firing
// that overlaps a running job is skipped, not queued.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/speculor/internal/models"
)

// JobFunc executes one job pass and returns its structured result.
type JobFunc func(ctx context.Context) *models.JobResult

// Scheduler wraps cron with single-flight execution across all jobs.
type Scheduler struct {
	cron    *cron.Cron
	logger  arbor.ILogger
	mu      sync.Mutex
	running bool
}

// New creates a stopped scheduler using standard 5-field cron expressions.
func New(logger arbor.ILogger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: logger,
	}
}

// AddJob registers a job under the given cron schedule.
func (s *Scheduler) AddJob(name, schedule string, fn JobFunc) error {
	_, err := s.cron.AddFunc(schedule, func() {
		s.runOne(name, fn)
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", schedule, name, err)
	}
	s.logger.Info().Str("job", name).Str("schedule", schedule).Msg("Job registered")
	return nil
}

// runOne executes a single firing. The mutex serializes jobs so the daily
// monitor and monthly update never hit the market data API concurrently.
func (s *Scheduler) runOne(name string, fn JobFunc) {
	if !s.mu.TryLock() {
		s.logger.Warn().Str("job", name).Msg("Previous job still running, skipping this firing")
		return
	}
	defer s.mu.Unlock()

	start := time.Now()
	s.logger.Info().Str("job", name).Msg("Job starting")

	result := fn(context.Background())

	event := s.logger.Info()
	if result.Status == models.JobError {
		event = s.logger.Error()
	}
	event.
		Str("job", name).
		Str("run_id", result.RunID).
		Str("status", string(result.Status)).
		Str("duration", time.Since(start).String()).
		Msg(result.Message)
}

// Start begins firing schedules. Returns immediately; jobs run on the cron
// goroutine.
func (s *Scheduler) Start() {
	if s.running {
		return
	}
	s.running = true
	s.cron.Start()
	s.logger.Info().Msg("Scheduler started")
}

// Stop halts scheduling and waits for any in-flight job to finish.
func (s *Scheduler) Stop() {
	if !s.running {
		return
	}
	s.running = false
	ctx := s.cron.Stop()
	<-ctx.Done()
	// Acquire the run lock so a job mid-flight completes before we return.
	s.mu.Lock()
	s.mu.Unlock() //nolint:staticcheck // empty critical section is the wait
	s.logger.Info().Msg("Scheduler stopped")
}
