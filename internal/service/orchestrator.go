package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"audioharvest/internal/core/domain"
	"audioharvest/internal/logging"
)

// VideoLocator finds the videos for a job.
type VideoLocator interface {
	Locate(ctx context.Context, job domain.JobDescriptor) domain.LocateOutcome
}

// VideoFetcher downloads one video.
type VideoFetcher interface {
	Fetch(ctx context.Context, videoID domain.VideoID, language string) domain.DownloadOutcome
}

// Orchestrator runs a single job end to end: locate, fetch each result in
// order, log.
type Orchestrator struct {
	locator VideoLocator
	fetcher VideoFetcher
	logger  *logging.Sink
	newID   func() string
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(locator VideoLocator, fetcher VideoFetcher, logger *logging.Sink) *Orchestrator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Orchestrator{
		locator: locator,
		fetcher: fetcher,
		logger:  logger,
		newID:   shortID,
	}
}

// RunJob executes one job. It never returns an error or panics; everything
// that went wrong is in the logs and the report.
func (o *Orchestrator) RunJob(ctx context.Context, job domain.JobDescriptor) (report domain.JobReport) {
	jobID := o.newID()
	log := o.logger.With(fmt.Sprintf("[JOB %s] ", jobID))
	ctx = logging.NewContext(ctx, log)

	report = domain.JobReport{JobID: jobID, Job: job, StartedAt: time.Now().UTC()}

	defer func() {
		if r := recover(); r != nil {
			report.Reason = fmt.Sprintf("panic: %v", r)
			log.Printf("ERROR: job aborted: %s", report.Reason)
		}
		report.CompletedAt = time.Now().UTC()
		log.Printf("Completed job: language=%s count=%d (downloaded=%d skipped=%d failed=%d)",
			job.Language, job.TargetCount, report.Downloaded, report.Skipped, report.Failed)
	}()

	log.Printf("Starting job: language=%s count=%d query=%q", job.Language, job.TargetCount, job.Query)

	located := o.locator.Locate(ctx, job)
	report.Located = len(located.VideoIDs)
	if located.Err != nil {
		report.Reason = located.Reason
	}

	log.Block(func(p logging.Printer) {
		p.Printf("Located %d videos", len(located.VideoIDs))
		p.Printf("Video IDs: [%s]", joinIDs(located.VideoIDs))
	})

	if len(located.VideoIDs) == 0 {
		log.Printf("No videos to download")
		return report
	}

	log.Printf("Starting downloads...")
	for i, id := range located.VideoIDs {
		log.Printf("Downloading video %s (%d/%d)...", id, i+1, len(located.VideoIDs))
		res := o.fetcher.Fetch(ctx, id, job.Language)
		switch {
		case res.Succeeded && res.Skipped:
			report.Skipped++
			log.Printf("Video %s already downloaded", id)
		case res.Succeeded:
			report.Downloaded++
			log.Printf("Video %s downloaded successfully", id)
		default:
			report.Failed++
			log.Printf("Video %s download failed: %s", id, res.Reason)
		}
	}
	return report
}

func joinIDs(ids []domain.VideoID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}

func shortID() string {
	return uuid.New().String()[:8]
}
