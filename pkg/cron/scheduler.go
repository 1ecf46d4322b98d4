// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a named unit of background work
type Job func(ctx context.Context) error

type entry struct {
	name    string
	timeout time.Duration
	run     Job
}

// Scheduler manages background scheduled jobs using robfig/cron.
type Scheduler struct {
	cron   *cron.Cron
	jobs   map[string]entry
	logger *slog.Logger
}

// NewScheduler creates a new job scheduler.
func NewScheduler(logger *slog.Logger) *Scheduler {
	// Create cron with seconds disabled (standard 5-field format)
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:   c,
		jobs:   map[string]entry{},
		logger: logger,
	}
}

// AddJob registers fn under name on a cron spec. Each run gets its own
// context bounded by timeout.
func (s *Scheduler) AddJob(spec, name string, timeout time.Duration, fn Job) error {
	if _, dup := s.jobs[name]; dup {
		return fmt.Errorf("job %q already registered", name)
	}

	e := entry{name: name, timeout: timeout, run: fn}
	if _, err := s.cron.AddFunc(spec, func() { _ = s.execute(e) }); err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", spec, name, err)
	}
	s.jobs[name] = e
	return nil
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.Int("jobs", len(s.cron.Entries())),
	)
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow runs a registered job immediately and waits for it.
func (s *Scheduler) RunNow(name string) error {
	e, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	return s.execute(e)
}

func (s *Scheduler) execute(e entry) error {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	start := time.Now()
	if err := e.run(ctx); err != nil {
		s.logger.Warn("scheduled job failed",
			slog.String("job", e.name),
			slog.Any("error", err),
		)
		return err
	}

	s.logger.Debug("scheduled job completed",
		slog.String("job", e.name),
		slog.Duration("took", time.Since(start)),
	)
	return nil
}
