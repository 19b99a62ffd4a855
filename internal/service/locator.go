package service

import (
	"context"
	"errors"
	"fmt"

	"audioharvest/internal/core/domain"
	"audioharvest/internal/core/ports"
	"audioharvest/internal/logging"
)

// LocatorConfig is the search policy. APIKey is passed in explicitly rather
// than read from the environment.
type LocatorConfig struct {
	APIKey           string
	PageSize         int64
	PublishedAfter   string
	LanguageKeywords bool
}

// Locator pages through the search service to collect video IDs for a job.
type Locator struct {
	search ports.SearchService
	cfg    LocatorConfig
	logger *logging.Sink
}

// NewLocator creates a Locator. search may be nil when no client could be
// built; every call then degrades to an empty result.
func NewLocator(search ports.SearchService, cfg LocatorConfig, logger *logging.Sink) *Locator {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 50
	}
	return &Locator{search: search, cfg: cfg, logger: logger}
}

// Locate returns up to job.TargetCount unique video IDs in relevance order.
// Failures are logged and reported through the outcome with no IDs.
func (l *Locator) Locate(ctx context.Context, job domain.JobDescriptor) domain.LocateOutcome {
	log := logging.FromContext(ctx, l.logger)

	if l.cfg.APIKey == "" {
		log.Printf("ERROR: %v, set YOUTUBE_API_KEY to enable search", domain.ErrCredentialMissing)
		return failedLocate(domain.ErrCredentialMissing)
	}
	if l.search == nil {
		err := fmt.Errorf("%w: search client unavailable", domain.ErrSearchService)
		log.Printf("ERROR: %v", err)
		return failedLocate(err)
	}
	if job.TargetCount <= 0 {
		return domain.LocateOutcome{}
	}

	req := ports.SearchRequest{
		PageSize:       l.cfg.PageSize,
		PublishedAfter: l.cfg.PublishedAfter,
		Language:       job.Language,
		Query:          l.effectiveQuery(job),
	}

	var outcome domain.LocateOutcome
	seen := make(map[domain.VideoID]struct{})
	ids := make([]domain.VideoID, 0, min(job.TargetCount, int(l.cfg.PageSize)))

	for len(ids) < job.TargetCount {
		page, err := l.search.SearchPage(ctx, req)
		if err != nil {
			if !errors.Is(err, domain.ErrSearchService) {
				err = fmt.Errorf("%w: %w", domain.ErrSearchService, err)
			}
			log.Printf("ERROR: search failed on page %d: %v", outcome.Pages+1, err)
			return failedLocate(err)
		}
		outcome.Pages++

		for _, item := range page.Items {
			if item.VideoID == "" {
				continue
			}
			id := domain.VideoID(item.VideoID)
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}

		if page.NextPageToken == "" {
			break
		}
		if page.NextPageToken == req.PageToken {
			log.Printf("WARN: search returned the same continuation token twice, stopping after %d pages", outcome.Pages)
			break
		}
		req.PageToken = page.NextPageToken
	}

	if len(ids) > job.TargetCount {
		ids = ids[:job.TargetCount]
	}
	outcome.VideoIDs = ids
	return outcome
}

func (l *Locator) effectiveQuery(job domain.JobDescriptor) string {
	if job.Query != "" || !l.cfg.LanguageKeywords {
		return job.Query
	}
	return domain.LanguageKeywords(job.Language)
}

func failedLocate(err error) domain.LocateOutcome {
	return domain.LocateOutcome{Reason: err.Error(), Err: err}
}
