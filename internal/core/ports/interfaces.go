package ports

import (
	"context"

	"audioharvest/internal/core/domain"
)

// SearchRequest holds the parameters for one page of a video search.
type SearchRequest struct {
	PageSize       int64
	PageToken      string
	PublishedAfter string // RFC 3339
	Language       string
	Query          string
}

// SearchItem is one search hit. VideoID is empty when the hit is not a video.
type SearchItem struct {
	VideoID string
}

// SearchPage is a single page of search results.
type SearchPage struct {
	Items         []SearchItem
	NextPageToken string
}

// SearchService defines the contract for the paginated video search API.
type SearchService interface {
	// SearchPage fetches one page. Implementations apply the fixed content
	// filters (videos only, closed captions, short duration) themselves.
	SearchPage(ctx context.Context, req SearchRequest) (*SearchPage, error)
}

// MediaDownloader defines the contract for the external fetch-and-transcode tool.
type MediaDownloader interface {
	// ProbeTitle returns the title of the remote video without downloading it.
	ProbeTitle(ctx context.Context, videoID domain.VideoID) (string, error)

	// DownloadAudio extracts the best audio stream and writes it, transcoded,
	// to outputPath.
	DownloadAudio(ctx context.Context, videoID domain.VideoID, outputPath string) error
}

// Unlocker releases a lock acquired from Storage.
type Unlocker interface {
	Unlock() error
}

// Storage defines the contract for the on-disk output layout.
type Storage interface {
	// EnsureLanguageDir creates the per-language directory if it is absent.
	// It is safe to call concurrently for the same language.
	EnsureLanguageDir(ctx context.Context, language string) (string, error)

	// AudioPath returns the deterministic output path for a video.
	AudioPath(language, title string, videoID domain.VideoID) string

	// Exists reports whether a regular file is present at path.
	Exists(path string) bool

	// LockVideo serializes work on one video across concurrently running jobs.
	LockVideo(ctx context.Context, language string, videoID domain.VideoID) (Unlocker, error)
}

// JobSpecSource defines the contract for loading job descriptors.
type JobSpecSource interface {
	// Load never fails; on any problem it degrades to domain.FallbackJob.
	Load(ctx context.Context) []domain.JobDescriptor
}
