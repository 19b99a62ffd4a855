package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"audioharvest/internal/core/domain"
	"audioharvest/internal/logging"
)

// DefaultMaxConcurrentJobs bounds how many jobs run at once when no limit is
// configured.
const DefaultMaxConcurrentJobs = 10

// JobRunner runs one job to completion.
type JobRunner interface {
	RunJob(ctx context.Context, job domain.JobDescriptor) domain.JobReport
}

// Scheduler fans jobs out over a bounded number of goroutines.
type Scheduler struct {
	runner        JobRunner
	maxConcurrent int
	logger        *logging.Sink
}

// NewScheduler creates a Scheduler. maxConcurrent <= 0 selects
// DefaultMaxConcurrentJobs.
func NewScheduler(runner JobRunner, maxConcurrent int, logger *logging.Sink) *Scheduler {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentJobs
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Scheduler{runner: runner, maxConcurrent: maxConcurrent, logger: logger}
}

// MaxConcurrent returns the effective concurrency limit.
func (s *Scheduler) MaxConcurrent() int {
	return s.maxConcurrent
}

// RunAll runs every job and blocks until all have finished. Jobs beyond the
// limit wait for a free slot. One job's failure never cancels another, and
// reports are returned in input order.
func (s *Scheduler) RunAll(ctx context.Context, jobs []domain.JobDescriptor) []domain.JobReport {
	reports := make([]domain.JobReport, len(jobs))

	s.logger.Printf("Scheduling %d jobs with up to %d running at once", len(jobs), s.maxConcurrent)

	var g errgroup.Group
	g.SetLimit(s.maxConcurrent)
	for i, job := range jobs {
		g.Go(func() error {
			reports[i] = s.runner.RunJob(ctx, job)
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Printf("All jobs completed")
	return reports
}
