// Package scheduler runs recurring background jobs on cron schedules.
package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"kapital/internal/logger"
)

// Scheduler wraps a cron runner with logged, panic-safe jobs.
type Scheduler struct {
	cron *cron.Cron
}

// New creates a stopped scheduler.
func New() *Scheduler {
	return &Scheduler{cron: cron.New()}
}

// AddJob registers a named job on a cron spec (standard 5-field syntax).
func (s *Scheduler) AddJob(spec, name string, job func()) error {
	_, err := s.cron.AddFunc(spec, func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Get().Errorf("job %s panicked: %v", name, r)
			}
		}()

		start := time.Now()
		logger.Get().Infow("job started", "job", name)
		job()
		logger.Get().Infow("job finished", "job", name, "duration", time.Since(start))
	})
	return err
}

// Start begins running registered jobs in their own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
