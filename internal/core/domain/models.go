package domain

import (
	"errors"
	"time"
)

// Defaults applied by the job spec loader.
const (
	DefaultLanguage    = "RU"
	DefaultTargetCount = 120

	FallbackLanguage    = "RU"
	FallbackTargetCount = 10
)

var (
	ErrCredentialMissing = errors.New("search API key is not configured")
	ErrSearchService     = errors.New("search service error")
	ErrProbe             = errors.New("metadata probe failed")
	ErrTransfer          = errors.New("audio transfer failed")
	ErrConfigDegraded    = errors.New("job spec degraded to defaults")
)

// VideoID is the opaque identifier returned by the search service.
type VideoID string

// JobDescriptor describes one harvesting job. It is never modified after loading.
type JobDescriptor struct {
	Language    string `json:"language"`
	TargetCount int    `json:"target_count"`
	Query       string `json:"query"`
}

// FallbackJob is used when no valid job spec could be loaded.
func FallbackJob() JobDescriptor {
	return JobDescriptor{Language: FallbackLanguage, TargetCount: FallbackTargetCount}
}

// LocateOutcome is the result of a paginated search for one job.
// Err is set when the locator degraded to an empty result.
type LocateOutcome struct {
	VideoIDs []VideoID
	Pages    int
	Reason   string
	Err      error
}

// DownloadOutcome reports what happened to a single video.
type DownloadOutcome struct {
	VideoID   VideoID
	Succeeded bool
	Skipped   bool // already present on disk
	Path      string
	Reason    string
	Err       error
}

// JobReport summarizes a finished job run.
type JobReport struct {
	JobID       string
	Job         JobDescriptor
	Located     int
	Downloaded  int
	Skipped     int
	Failed      int
	Reason      string // set when the job itself aborted early (e.g. a recovered panic)
	StartedAt   time.Time
	CompletedAt time.Time
}
