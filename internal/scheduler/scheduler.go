// Package scheduler runs headless scan jobs on a cron schedule.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/vivekvjoshi/StockScanner/internal/errors"
)

// Job is one unit of scheduled work.
type Job func(ctx context.Context) error

// Scheduler wraps a cron runner with logging and panic recovery.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger

	mu  sync.Mutex
	ctx context.Context
}

// New builds a scheduler. Schedules use the standard 5-field cron syntax.
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  log,
	}
}

// Add registers a named job on a cron schedule.
func (s *Scheduler) Add(spec, name string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.invoke(name, job)
	})
	if err != nil {
		return errors.Wrapf(err, "adding job %s", name)
	}
	return nil
}

// invoke runs one job under the scheduler's current context, so cancelling
// Run interrupts an in-flight job rather than waiting it out.
func (s *Scheduler) invoke(name string, job Job) {
	start := time.Now()
	s.log.Info().Str("job", name).Msg("Job starting")

	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Str("job", name).Interface("panic", r).Msg("Job panicked")
		}
	}()

	if err := job(s.context()); err != nil {
		s.log.Error().Str("job", name).Err(err).Dur("elapsed", time.Since(start)).Msg("Job failed")
		return
	}
	s.log.Info().Str("job", name).Dur("elapsed", time.Since(start)).Msg("Job finished")
}

func (s *Scheduler) context() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx != nil {
		return s.ctx
	}
	return context.Background()
}

// Start begins running scheduled jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Run starts the scheduler and blocks until the context is cancelled. Jobs
// started while Run is active receive ctx as their own context.
func (s *Scheduler) Run(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	s.cron.Start()
	<-ctx.Done()
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
