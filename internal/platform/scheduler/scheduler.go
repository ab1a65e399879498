package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is one periodic task.
type Job struct {
	Name     string
	Schedule string
	Timeout  time.Duration
	Run      func(ctx context.Context) error
}

// Scheduler runs jobs on cron schedules in UTC. Each run holds a lock named
// after the job, so with a shared Locker only one replica runs it at a time.
type Scheduler struct {
	cron   *cron.Cron
	locker Locker
	logger zerolog.Logger
	jobs   []Job
}

func New(locker Locker, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		locker: locker,
		logger: logger,
	}
}

// Add registers job. It fails on an invalid schedule.
func (s *Scheduler) Add(job Job) error {
	if job.Timeout <= 0 {
		job.Timeout = 5 * time.Minute
	}
	if _, err := s.cron.AddFunc(job.Schedule, func() { s.RunNow(job) }); err != nil {
		return fmt.Errorf("register job %s (%q): %w", job.Name, job.Schedule, err)
	}
	s.jobs = append(s.jobs, job)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info().Int("jobs", len(s.jobs)).Msg("scheduler started")
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
}

// RunNow runs job once under its lock. It reports whether the job ran.
func (s *Scheduler) RunNow(job Job) bool {
	ctx, cancel := context.WithTimeout(context.Background(), job.Timeout)
	defer cancel()

	log := s.logger.With().Str("job", job.Name).Logger()

	release, ok, err := s.locker.TryLock(ctx, job.Name, job.Timeout*2)
	if err != nil {
		log.Error().Err(err).Msg("failed to acquire job lock")
		return false
	}
	if !ok {
		log.Debug().Msg("job already running elsewhere, skipping")
		return false
	}
	defer release()

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("job failed")
		return true
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("job finished")
	return true
}
