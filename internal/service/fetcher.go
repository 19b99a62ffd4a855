package service

import (
	"context"
	"fmt"

	"audioharvest/internal/core/domain"
	"audioharvest/internal/core/ports"
	"audioharvest/internal/logging"
)

// Fetcher downloads one video's audio into the per-language directory,
// skipping videos already on disk.
type Fetcher struct {
	downloader ports.MediaDownloader
	storage    ports.Storage
	logger     *logging.Sink
}

// NewFetcher creates a Fetcher.
func NewFetcher(downloader ports.MediaDownloader, storage ports.Storage, logger *logging.Sink) *Fetcher {
	return &Fetcher{downloader: downloader, storage: storage, logger: logger}
}

// Fetch resolves the target path for videoID and transfers it unless a file
// is already there. It never panics or returns an error; failures are
// reported through the outcome.
func (f *Fetcher) Fetch(ctx context.Context, videoID domain.VideoID, language string) (outcome domain.DownloadOutcome) {
	log := logging.FromContext(ctx, f.logger)
	outcome.VideoID = videoID

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: panic: %v", domain.ErrTransfer, r)
			outcome = failedFetch(videoID, outcome.Path, err)
			log.Printf("ERROR: video %s: %v", videoID, err)
		}
	}()

	if _, err := f.storage.EnsureLanguageDir(ctx, language); err != nil {
		log.Printf("ERROR: video %s: %v", videoID, err)
		return failedFetch(videoID, "", err)
	}

	title, err := f.downloader.ProbeTitle(ctx, videoID)
	if err != nil {
		log.Printf("ERROR: video %s: %v", videoID, err)
		return failedFetch(videoID, "", err)
	}
	path := f.storage.AudioPath(language, title, videoID)
	outcome.Path = path

	// Held from the existence check through the transfer so a second job
	// holding the same video waits and then sees the finished file.
	lock, err := f.storage.LockVideo(ctx, language, videoID)
	if err != nil {
		log.Printf("ERROR: video %s: %v", videoID, err)
		return failedFetch(videoID, path, err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.Printf("WARN: video %s: failed to release lock: %v", videoID, err)
		}
	}()

	if f.storage.Exists(path) {
		log.Printf("File already exists, skipping download: %s", path)
		return domain.DownloadOutcome{VideoID: videoID, Succeeded: true, Skipped: true, Path: path}
	}

	if err := f.downloader.DownloadAudio(ctx, videoID, path); err != nil {
		log.Printf("ERROR: video %s: %v", videoID, err)
		return failedFetch(videoID, path, err)
	}
	if !f.storage.Exists(path) {
		err := fmt.Errorf("%w: downloader reported success but %s is missing", domain.ErrTransfer, path)
		log.Printf("ERROR: video %s: %v", videoID, err)
		return failedFetch(videoID, path, err)
	}

	return domain.DownloadOutcome{VideoID: videoID, Succeeded: true, Path: path}
}

func failedFetch(videoID domain.VideoID, path string, err error) domain.DownloadOutcome {
	return domain.DownloadOutcome{VideoID: videoID, Path: path, Reason: err.Error(), Err: err}
}
